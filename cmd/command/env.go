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
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yiscore/dsrun/consts"
	"github.com/yiscore/dsrun/pkg/launcher"
	"github.com/yiscore/dsrun/pkg/slurm"
)

func NewEnvCmd() *cobra.Command {
	var export bool

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Print the launch environment derived from the SLURM job",
		Long: `Derives NUM_NODES, NUM_GPUS, MASTER_ADDR, MASTER_PORT and HOSTFILE from
the current SLURM environment and prints them, one per line. With --export
the lines are shell-sourceable:

  eval "$(dsrun env --export)"`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(context.Background(), consts.CmdTimeout)
			defer cancel()

			params, _, err := launcher.Derive(ctx, slurm.ReadJobEnv(), launcher.Overrides{})
			if err != nil {
				logrus.WithField("component", "env").Errorf("%v", err)
				os.Exit(1)
			}
			for _, kv := range params.Env() {
				if export {
					fmt.Printf("export %s\n", kv)
				} else {
					fmt.Println(kv)
				}
			}
		},
	}

	envCmd.Flags().BoolVar(&export, "export", false, "Prefix each line with 'export' for shell sourcing")
	return envCmd
}
