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
package slurm

import (
	"fmt"
	"hash/fnv"
	"os"
	"strconv"

	"github.com/yiscore/dsrun/consts"
)

// JobEnv holds the scheduler-provided environment of the current job step.
// All fields are raw strings as exported by SLURM; empty means unset.
type JobEnv struct {
	JobID        string
	ArrayJobID   string
	ArrayTaskID  string
	LocalID      string
	ProcID       string
	NTasks       string
	NNodes       string
	NodeList     string
	StepNodeList string
}

func ReadJobEnv() *JobEnv {
	return &JobEnv{
		JobID:        os.Getenv(consts.EnvJobID),
		ArrayJobID:   os.Getenv(consts.EnvArrayJobID),
		ArrayTaskID:  os.Getenv(consts.EnvArrayTaskID),
		LocalID:      os.Getenv(consts.EnvLocalID),
		ProcID:       os.Getenv(consts.EnvProcID),
		NTasks:       os.Getenv(consts.EnvNTasks),
		NNodes:       os.Getenv(consts.EnvNNodes),
		NodeList:     os.Getenv(consts.EnvNodeList),
		StepNodeList: os.Getenv(consts.EnvStepNodeList),
	}
}

// InAllocation reports whether the process runs inside a SLURM allocation.
func (e *JobEnv) InAllocation() bool {
	return e.JobID != "" || e.NodeList != ""
}

// EffectiveJobID returns the id used for hostfile naming and port derivation.
// Array tasks get "<array_job>_<task>" so tasks of the same array that land on
// a shared node do not collide.
func (e *JobEnv) EffectiveJobID() string {
	if e.ArrayJobID != "" && e.ArrayTaskID != "" {
		return fmt.Sprintf("%s_%s", e.ArrayJobID, e.ArrayTaskID)
	}
	return e.JobID
}

// JobIDNumber returns a numeric value derived from the effective job id.
// Array tasks hash the folded "<array_job>_<task>" id, so task 7 of array
// 12300 and plain job 12307 do not land on the same master port. ok is false
// outside an allocation or when SLURM exported something non-numeric.
func (e *JobEnv) JobIDNumber() (int, bool) {
	if e.ArrayJobID != "" && e.ArrayTaskID != "" {
		_, err1 := strconv.Atoi(e.ArrayJobID)
		_, err2 := strconv.Atoi(e.ArrayTaskID)
		if err1 == nil && err2 == nil {
			h := fnv.New32a()
			h.Write([]byte(e.EffectiveJobID()))
			return int(h.Sum32() & 0x7fffffff), true
		}
	}
	if e.JobID == "" {
		return 0, false
	}
	id, err := strconv.Atoi(e.JobID)
	if err != nil {
		return 0, false
	}
	return id, true
}

// NodeCount returns SLURM_NNODES when set and numeric.
func (e *JobEnv) NodeCount() (int, bool) {
	if e.NNodes == "" {
		return 0, false
	}
	n, err := strconv.Atoi(e.NNodes)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// EffectiveNodeList prefers the job-level node list and falls back to the
// step-level one, which is what srun exports inside a heterogeneous step.
func (e *JobEnv) EffectiveNodeList() string {
	if e.NodeList != "" {
		return e.NodeList
	}
	return e.StepNodeList
}
