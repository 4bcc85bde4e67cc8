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
package launcher

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yiscore/dsrun/consts"
	"github.com/yiscore/dsrun/pkg/gpu"
	"github.com/yiscore/dsrun/pkg/hostfile"
	"github.com/yiscore/dsrun/pkg/slurm"
	"github.com/yiscore/dsrun/pkg/utils"
)

// Overrides are explicit user choices (flags); zero values mean "derive".
type Overrides struct {
	NumNodes   int
	NumGPUs    int
	MasterAddr string
	MasterPort int
	Hostfile   string
}

// Derive computes launch parameters from, in order of precedence: explicit
// overrides, pre-set launch variables (NUM_NODES and friends), the SLURM
// environment, local probes, and fixed defaults. It returns the parameters
// plus the expanded host list for the hostfile.
func Derive(ctx context.Context, env *slurm.JobEnv, ov Overrides) (*Params, []string, error) {
	hosts, err := deriveHosts(ctx, env)
	if err != nil {
		return nil, nil, err
	}

	p := &Params{
		NumNodes:    deriveNumNodes(env, ov.NumNodes, len(hosts)),
		NumGPUs:     deriveNumGPUs(ov.NumGPUs),
		MasterAddr:  deriveMasterAddr(ov.MasterAddr, hosts),
		MasterPort:  deriveMasterPort(env, ov.MasterPort),
		Hostfile:    deriveHostfilePath(env, ov.Hostfile),
		LogInterval: consts.DefaultLogInterval,
	}
	if p.NumNodes > len(hosts) {
		logrus.WithField("component", "launcher").Warnf(
			"node count %d exceeds the %d hosts in the node list", p.NumNodes, len(hosts))
	}
	return p, hosts, nil
}

func deriveHosts(ctx context.Context, env *slurm.JobEnv) ([]string, error) {
	list := env.EffectiveNodeList()
	if list == "" {
		// no allocation: single-node run on the local host
		return []string{localHostname()}, nil
	}
	hosts, err := slurm.ExpandNodeList(list)
	if err == nil {
		return hosts, nil
	}
	logrus.WithField("component", "launcher").Warnf("failed to expand %q (%v), asking scontrol", list, err)
	// scontrol understands every hostlist form, including ones newer than
	// this parser
	out, execErr := utils.ExecCommand(ctx, "scontrol", "show", "hostnames", list)
	if execErr != nil {
		return nil, fmt.Errorf("cannot expand node list %q: %w", list, err)
	}
	hosts = strings.Fields(string(out))
	if len(hosts) == 0 {
		return nil, fmt.Errorf("scontrol returned no hosts for %q", list)
	}
	return hosts, nil
}

func deriveNumNodes(env *slurm.JobEnv, override, hostCount int) int {
	if override > 0 {
		return override
	}
	if n, ok := envInt(consts.EnvNumNodes); ok {
		return n
	}
	if n, ok := env.NodeCount(); ok {
		return n
	}
	if hostCount > 0 {
		return hostCount
	}
	return 1
}

func deriveNumGPUs(override int) int {
	if override > 0 {
		return override
	}
	if n, ok := envInt(consts.EnvNumGPUs); ok {
		return n
	}
	return gpu.CountPerNode()
}

func deriveMasterAddr(override string, hosts []string) string {
	if override != "" {
		return override
	}
	if addr := os.Getenv(consts.EnvMasterAddr); addr != "" {
		return addr
	}
	if len(hosts) > 0 {
		return hosts[0]
	}
	return "localhost"
}

// deriveMasterPort picks a port that is stable for a job but differs between
// jobs sharing a node.
func deriveMasterPort(env *slurm.JobEnv, override int) int {
	if override > 0 {
		return override
	}
	if p, ok := envInt(consts.EnvMasterPort); ok {
		return p
	}
	if id, ok := env.JobIDNumber(); ok {
		return consts.MasterPortBase + id%consts.MasterPortRange
	}
	return consts.DefaultMasterPort
}

func deriveHostfilePath(env *slurm.JobEnv, override string) string {
	if override != "" {
		return override
	}
	if path := os.Getenv(consts.EnvHostfile); path != "" {
		return path
	}
	return hostfile.DefaultPath(env.EffectiveJobID())
}

func envInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func localHostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return name
}
