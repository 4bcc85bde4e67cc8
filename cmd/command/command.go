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
	"github.com/spf13/viper"

	"github.com/yiscore/dsrun/pkg/utils"
)

// NewRootCmd creates and returns the root command (dsrun command) instance,
// configures basic usage information, and adds subcommands.
func NewRootCmd() *cobra.Command {
	cobra.OnInitialize(initConfig)
	rootCmd := &cobra.Command{
		Use:   "dsrun",
		Short: "SLURM-aware DeepSpeed launch tool",
		Long:  "A command-line tool that derives distributed launch parameters from the SLURM environment and runs the DeepSpeed launcher",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level := logrus.InfoLevel
			if verbose {
				level = logrus.DebugLevel
			}
			utils.InitLogger(level, false)
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(NewLaunchCmd())
	rootCmd.AddCommand(NewEnvCmd())
	rootCmd.AddCommand(NewHostfileCmd())
	rootCmd.AddCommand(NewPreflightCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

func initConfig() {
	viper.SetConfigName("config") // config.yaml
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.dsrun") // default path

	// support environment variable override, like DSRUN_REPORT_URL
	viper.SetEnvPrefix("dsrun")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// tool config is optional; only a malformed file is fatal
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("[ERROR] Failed to read config file: %v\n", err)
			os.Exit(1)
		}
	}
}
