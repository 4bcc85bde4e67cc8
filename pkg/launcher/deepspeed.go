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

// Package launcher derives DeepSpeed launch parameters from the scheduler
// environment and runs the external launcher. Gradient synchronization,
// parallelism and optimizer sharding all live inside DeepSpeed; this package
// only computes the command line and supervises the process.
package launcher

import (
	"fmt"
	"strconv"

	"github.com/yiscore/dsrun/consts"
)

// Params is everything the deepspeed launcher needs on its command line.
type Params struct {
	NumNodes       int
	NumGPUs        int
	Hostfile       string
	MasterAddr     string
	MasterPort     int
	TrainingScript string
	LogInterval    int
	ExtraArgs      []string
}

func (p *Params) Validate() error {
	if p.NumNodes <= 0 {
		return fmt.Errorf("invalid node count %d", p.NumNodes)
	}
	if p.NumGPUs <= 0 {
		return fmt.Errorf("invalid GPU count %d", p.NumGPUs)
	}
	if p.MasterAddr == "" {
		return fmt.Errorf("master address is empty")
	}
	if p.MasterPort <= 0 || p.MasterPort > 65535 {
		return fmt.Errorf("invalid master port %d", p.MasterPort)
	}
	if p.Hostfile == "" {
		return fmt.Errorf("hostfile path is empty")
	}
	if p.TrainingScript == "" {
		return fmt.Errorf("training script is required")
	}
	return nil
}

// Argv builds the full launcher command line. Launcher flags come first, then
// the training script, then the flags the training script consumes.
func (p *Params) Argv() []string {
	argv := []string{
		consts.DeepspeedBin,
		"--num_nodes", strconv.Itoa(p.NumNodes),
		"--num_gpus", strconv.Itoa(p.NumGPUs),
		"--hostfile", p.Hostfile,
		"--master_addr", p.MasterAddr,
		"--master_port", strconv.Itoa(p.MasterPort),
		"--launcher", consts.DefaultLauncher,
		p.TrainingScript,
		"--deepspeed",
		"--log-interval", strconv.Itoa(p.LogInterval),
	}
	return append(argv, p.ExtraArgs...)
}

// Env returns the derived launch variables exported to the launcher process.
func (p *Params) Env() []string {
	return []string{
		fmt.Sprintf("%s=%d", consts.EnvNumNodes, p.NumNodes),
		fmt.Sprintf("%s=%d", consts.EnvNumGPUs, p.NumGPUs),
		fmt.Sprintf("%s=%s", consts.EnvMasterAddr, p.MasterAddr),
		fmt.Sprintf("%s=%d", consts.EnvMasterPort, p.MasterPort),
		fmt.Sprintf("%s=%s", consts.EnvHostfile, p.Hostfile),
	}
}
