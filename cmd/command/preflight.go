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
package command

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/spf13/cobra"

	"github.com/yiscore/dsrun/consts"
	"github.com/yiscore/dsrun/pkg/gpu"
	"github.com/yiscore/dsrun/pkg/httpclient"
	"github.com/yiscore/dsrun/pkg/netinfo"
	"github.com/yiscore/dsrun/pkg/slurm"
	"github.com/yiscore/dsrun/pkg/utils"
)

func NewPreflightCmd() *cobra.Command {
	preflightCmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check that this node is ready for a distributed launch",
		Long: `Inspects the node before a launch: the deepspeed binary on PATH, the SLURM
allocation, GPUs, host resources and network interfaces. Exits non-zero if a
hard requirement is missing.`,
		Run: func(cmd *cobra.Command, args []string) {
			failed := 0

			utils.PrintTitle("Launcher", "-")
			if path, err := exec.LookPath(consts.DeepspeedBin); err == nil {
				printCheck(true, "deepspeed binary: %s", path)
			} else {
				printCheck(false, "deepspeed binary not found on PATH")
				failed++
			}

			utils.PrintTitle("SLURM", "-")
			jobEnv := slurm.ReadJobEnv()
			if jobEnv.InAllocation() {
				printCheck(true, "job %s, nodelist %q", jobEnv.EffectiveJobID(), jobEnv.EffectiveNodeList())
				if list := jobEnv.EffectiveNodeList(); list != "" {
					if hosts, err := slurm.ExpandNodeList(list); err == nil {
						printCheck(true, "%d nodes, master candidate %s", len(hosts), hosts[0])
					} else {
						printCheck(false, "nodelist %q not parseable: %v", list, err)
						failed++
					}
				}
			} else {
				printWarn("no allocation, a launch here runs single-node")
			}

			utils.PrintTitle("GPU", "-")
			if names, err := gpu.DeviceNames(); err == nil && len(names) > 0 {
				printCheck(true, "%d x %s", len(names), names[0])
			} else if err != nil {
				printCheck(false, "NVML not available: %v", err)
				failed++
			} else {
				printCheck(false, "no GPUs visible")
				failed++
			}

			utils.PrintTitle("Host", "-")
			if info, err := host.Info(); err == nil {
				printCheck(true, "%s, kernel %s, uptime %dh", info.Hostname, info.KernelVersion, info.Uptime/3600)
			}
			if cores, err := cpu.Counts(true); err == nil {
				printCheck(true, "%d logical cpus", cores)
			}
			if vm, err := mem.VirtualMemory(); err == nil {
				if vm.UsedPercent >= 90 {
					printWarn("memory %.0f%% used (%.0f GiB total)", vm.UsedPercent, float64(vm.Total)/(1<<30))
				} else {
					printCheck(true, "memory %.0f%% used (%.0f GiB total)", vm.UsedPercent, float64(vm.Total)/(1<<30))
				}
			}

			utils.PrintTitle("Network", "-")
			if nics, err := netinfo.List(); err == nil {
				up := 0
				for _, nic := range nics {
					if nic.Up && len(nic.Addrs) > 0 {
						up++
						printCheck(true, "%s mtu=%d %s", nic.Name, nic.MTU, strings.Join(nic.Addrs, ","))
					}
				}
				if up == 0 {
					printCheck(false, "no usable interface with an IPv4 address")
					failed++
				}
			} else {
				printCheck(false, "cannot list interfaces: %v", err)
				failed++
			}
			if httpclient.HasReportURL() {
				url := httpclient.GetReportURL()
				if err := httpclient.CheckConnectivity(url); err == nil {
					printCheck(true, "report endpoint reachable: %s", url)
				} else {
					printCheck(false, "report endpoint unreachable: %v", err)
					failed++
				}
			}

			if failed > 0 {
				fmt.Printf("\n%d check(s) %sfailed%s\n", failed, consts.Red, consts.Reset)
				os.Exit(1)
			}
			fmt.Printf("\nall checks %spassed%s\n", consts.Green, consts.Reset)
		},
	}
	return preflightCmd
}

func printWarn(format string, args ...interface{}) {
	fmt.Printf(" [%swarn%s] %s\n", consts.Yellow, consts.Reset, fmt.Sprintf(format, args...))
}

func printCheck(ok bool, format string, args ...interface{}) {
	mark := fmt.Sprintf("%sok%s", consts.Green, consts.Reset)
	if !ok {
		mark = fmt.Sprintf("%sfail%s", consts.Red, consts.Reset)
	}
	fmt.Printf(" [%s] %s\n", mark, fmt.Sprintf(format, args...))
}
