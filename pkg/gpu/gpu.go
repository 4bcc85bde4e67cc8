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
package gpu

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/sirupsen/logrus"

	"github.com/yiscore/dsrun/consts"
)

// CountPerNode derives the GPU slot count for each node. Precedence:
// SLURM_GPUS_ON_NODE, CUDA_VISIBLE_DEVICES, NVML device count, then the
// standard 8-GPU node. NVML comes late so dry runs on GPU-less submit hosts
// still derive a usable count.
func CountPerNode() int {
	if n, ok := countFromSlurm(); ok {
		return n
	}
	if n, ok := countFromCudaVisible(); ok {
		return n
	}
	if n, err := CountFromNVML(); err == nil {
		return n
	} else {
		logrus.WithField("component", "gpu").Debugf("nvml probe failed: %v", err)
	}
	return consts.DefaultGPUsPerNode
}

func countFromSlurm() (int, bool) {
	return parseCount(os.Getenv(consts.EnvGPUsOnNode))
}

func countFromCudaVisible() (int, bool) {
	val, set := os.LookupEnv(consts.EnvCudaVisible)
	if !set {
		return 0, false
	}
	val = strings.TrimSpace(val)
	if val == "" {
		// explicitly exported empty means GPUs are masked off
		return 0, false
	}
	return len(strings.Split(val, ",")), true
}

// parseCount handles both plain counts ("8") and gres-style values
// ("gpu:8", "gpu:a100:8") that some SLURM versions export.
func parseCount(val string) (int, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, false
	}
	if i := strings.LastIndexByte(val, ':'); i >= 0 {
		val = val[i+1:]
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// CountFromNVML asks the driver for the local device count.
func CountFromNVML() (int, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return 0, fmt.Errorf("failed to initialize nvml: %v", nvml.ErrorString(ret))
	}
	defer func() {
		_ = nvml.Shutdown()
	}()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return 0, fmt.Errorf("failed to get device count: %v", nvml.ErrorString(ret))
	}
	return count, nil
}

// DeviceNames lists the product names of local GPUs, for preflight output.
func DeviceNames() ([]string, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to initialize nvml: %v", nvml.ErrorString(ret))
	}
	defer func() {
		_ = nvml.Shutdown()
	}()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get device count: %v", nvml.ErrorString(ret))
	}
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("failed to get device %d: %v", i, nvml.ErrorString(ret))
		}
		name, ret := device.GetName()
		if ret != nvml.SUCCESS {
			name = "unknown"
		}
		names = append(names, name)
	}
	return names, nil
}
