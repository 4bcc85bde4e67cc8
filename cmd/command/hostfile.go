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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yiscore/dsrun/pkg/gpu"
	"github.com/yiscore/dsrun/pkg/hostfile"
	"github.com/yiscore/dsrun/pkg/slurm"
)

func NewHostfileCmd() *cobra.Command {
	var (
		nodeList string
		slots    int
		output   string
	)

	hostfileCmd := &cobra.Command{
		Use:   "hostfile",
		Short: "Render a DeepSpeed hostfile from a SLURM nodelist",
		Long: `Expands a compressed SLURM nodelist (e.g. gpu[01-04,07]) into a DeepSpeed
hostfile with one "<host> slots=<n>" line per node. The nodelist defaults to
the current job's, and slots defaults to the detected GPUs per node. Without
--output the hostfile is printed to stdout.`,
		Run: func(cmd *cobra.Command, args []string) {
			log := logrus.WithField("component", "hostfile")

			jobEnv := slurm.ReadJobEnv()
			if nodeList == "" {
				nodeList = jobEnv.EffectiveNodeList()
			}
			if nodeList == "" {
				log.Error("no nodelist given and none found in the SLURM environment")
				os.Exit(1)
			}
			hosts, err := slurm.ExpandNodeList(nodeList)
			if err != nil {
				log.Errorf("cannot expand nodelist %q: %v", nodeList, err)
				os.Exit(1)
			}
			if slots <= 0 {
				slots = gpu.CountPerNode()
			}

			if output == "" {
				fmt.Print(hostfile.Render(hosts, slots))
				return
			}
			if err := hostfile.Write(output, hosts, slots); err != nil {
				log.Errorf("%v", err)
				os.Exit(1)
			}
			log.Infof("wrote %d hosts to %s", len(hosts), output)
		},
	}

	hostfileCmd.Flags().StringVar(&nodeList, "nodelist", "", "SLURM nodelist to expand (default: current job's)")
	hostfileCmd.Flags().IntVar(&slots, "slots", 0, "Slots per host (default: detected GPUs per node)")
	hostfileCmd.Flags().StringVar(&output, "output", "", "Write the hostfile here instead of stdout")
	return hostfileCmd
}
