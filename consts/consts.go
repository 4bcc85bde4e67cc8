/*
Copyright 2025 The YisCore Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package consts

import "time"

const (
	/*-----------------scheduler env (consumed)---------------*/
	EnvJobID        = "SLURM_JOBID"
	EnvArrayJobID   = "SLURM_ARRAY_JOB_ID"
	EnvArrayTaskID  = "SLURM_ARRAY_TASK_ID"
	EnvLocalID      = "SLURM_LOCALID"
	EnvProcID       = "SLURM_PROCID"
	EnvNTasks       = "SLURM_NTASKS"
	EnvNNodes       = "SLURM_NNODES"
	EnvNodeList     = "SLURM_JOB_NODELIST"
	EnvStepNodeList = "SLURM_STEP_NODELIST"
	EnvGPUsOnNode   = "SLURM_GPUS_ON_NODE"
	EnvCudaVisible  = "CUDA_VISIBLE_DEVICES"

	/*-----------------launch env (produced)------------------*/
	EnvNumNodes   = "NUM_NODES"
	EnvNumGPUs    = "NUM_GPUS"
	EnvMasterAddr = "MASTER_ADDR"
	EnvMasterPort = "MASTER_PORT"
	EnvHostfile   = "HOSTFILE"
)

const (
	/*-----------------launcher defaults----------------------*/
	DeepspeedBin       = "deepspeed"
	DefaultLauncher    = "SLURM"
	DefaultMasterPort  = 29500
	MasterPortBase     = 12000
	MasterPortRange    = 20000
	DefaultGPUsPerNode = 8
	DefaultLogInterval = 100
	DefaultHostfileDir = "/tmp"
	HostfilePrefix     = "dsrun-hostfile-"
)

const (
	/*-----------------tool defaults--------------------------*/
	DefaultLogDir      = "/var/log/dsrun"
	DefaultMetricsPort = 9109
	ReportURLEnv       = "DSRUN_REPORT_URL"
)

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
)

const CmdTimeout = 30 * time.Second
