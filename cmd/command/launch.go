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
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yiscore/dsrun/config"
	"github.com/yiscore/dsrun/consts"
	"github.com/yiscore/dsrun/metrics"
	"github.com/yiscore/dsrun/pkg/hostfile"
	"github.com/yiscore/dsrun/pkg/httpclient"
	"github.com/yiscore/dsrun/pkg/launcher"
	"github.com/yiscore/dsrun/pkg/netinfo"
	"github.com/yiscore/dsrun/pkg/shellenv"
	"github.com/yiscore/dsrun/pkg/slurm"
	"github.com/yiscore/dsrun/pkg/utils"
)

func NewLaunchCmd() *cobra.Command {
	var (
		cfgFile        string
		trainingScript string
		condaEnv       string
		modules        []string
		numNodes       int
		numGPUs        int
		masterAddr     string
		masterPort     int
		hostfilePath   string
		logInterval    int
		timeoutSec     int
		enableMetrics  bool
		metricsPort    int
		reportURL      string
		logDir         string
	)

	launchCmd := &cobra.Command{
		Use:   "launch [flags] [-- training-script-args...]",
		Short: "Derive SLURM launch parameters and run the DeepSpeed launcher",
		Long: `Usage: dsrun launch [flags] [-- training-script-args...]

Reads the SLURM job environment, derives NUM_NODES, NUM_GPUS, MASTER_ADDR,
MASTER_PORT and HOSTFILE, writes the hostfile, and execs:

  deepspeed --num_nodes N --num_gpus G --hostfile F \
            --master_addr A --master_port P --launcher SLURM \
            <training-script> --deepspeed --log-interval I [args...]

Environment modules and the conda environment from the launch config are
activated first. The launcher's exit code becomes dsrun's exit code.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.DefaultLaunchConfig()
			if cfgFile != "" {
				loaded, err := config.LoadLaunchConfig(cfgFile)
				if err != nil {
					logrus.WithField("component", "launch").Errorf("%v", err)
					os.Exit(1)
				}
				cfg = loaded
			}
			// flags beat the config file
			if trainingScript != "" {
				cfg.TrainingScript = trainingScript
			}
			if condaEnv != "" {
				cfg.CondaEnv = condaEnv
			}
			if len(modules) > 0 {
				cfg.Modules = modules
			}
			if logInterval > 0 {
				cfg.LogInterval = logInterval
			}
			if logDir != "" {
				cfg.LogDir = logDir
			}
			if extra := passthroughArgs(cmd, args); len(extra) > 0 {
				cfg.ExtraArgs = append(cfg.ExtraArgs, extra...)
			}
			if out, err := cfg.Yaml(); err == nil {
				logrus.WithField("component", "launch").Debugf("effective launch config:\n%s", out)
			}
			if cfg.LogDir == "" && utils.IsRoot() {
				// root launches keep a rotating copy of the launch log
				cfg.LogDir = consts.DefaultLogDir
			}
			if cfg.LogDir != "" {
				if err := utils.EnableFileLogging(cfg.LogDir); err != nil {
					logrus.WithField("component", "launch").Warnf("file logging disabled: %v", err)
				}
			}

			ctx := context.Background()
			var cancel context.CancelFunc
			if timeoutSec > 0 {
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
				defer cancel()
			}

			jobEnv := slurm.ReadJobEnv()
			if jobEnv.InAllocation() {
				logrus.WithField("component", "launch").Infof("SLURM job %s: nodelist=%q ntasks=%s procid=%s",
					jobEnv.EffectiveJobID(), jobEnv.EffectiveNodeList(), jobEnv.NTasks, jobEnv.ProcID)
			} else {
				logrus.WithField("component", "launch").Warn("no SLURM allocation detected, deriving a single-node launch")
			}

			params, hosts, err := launcher.Derive(ctx, jobEnv, launcher.Overrides{
				NumNodes:   numNodes,
				NumGPUs:    numGPUs,
				MasterAddr: masterAddr,
				MasterPort: masterPort,
				Hostfile:   hostfilePath,
			})
			if err != nil {
				logrus.WithField("component", "launch").Errorf("%v", err)
				os.Exit(1)
			}
			params.TrainingScript = cfg.TrainingScript
			params.LogInterval = cfg.LogInterval
			params.ExtraArgs = cfg.ExtraArgs
			if err := params.Validate(); err != nil {
				logrus.WithField("component", "launch").Errorf("invalid launch parameters: %v", err)
				os.Exit(1)
			}

			if err := hostfile.Write(params.Hostfile, hosts, params.NumGPUs); err != nil {
				logrus.WithField("component", "launch").Errorf("%v", err)
				os.Exit(1)
			}

			logrus.WithField("component", "launch").Infof("master %s:%d, %d nodes x %d gpus",
				params.MasterAddr, params.MasterPort, params.NumNodes, params.NumGPUs)
			if logrus.IsLevelEnabled(logrus.DebugLevel) {
				netinfo.LogInventory()
			}
			if iface, src, err := netinfo.RouteToMaster(params.MasterAddr); err == nil {
				logrus.WithField("component", "launch").Infof("rendezvous via %s (src %s)", iface, src)
			} else {
				logrus.WithField("component", "launch").Debugf("route to master not resolved: %v", err)
			}

			jobID := jobEnv.EffectiveJobID()
			if enableMetrics {
				go metrics.InitPrometheus(metricsPort)
				m := metrics.GetLaunchMetrics()
				m.SetRunning(jobID, true)
				m.SetWorldSize(jobID, params.NumNodes, params.NumGPUs)
			}

			prelude := &shellenv.Config{Modules: cfg.Modules, CondaEnv: cfg.CondaEnv}
			argv := prelude.Wrap(params.Argv())
			logrus.WithField("component", "launch").Infof("exec: %v", argv)

			started := time.Now()
			code, runErr := launcher.Run(ctx, argv, params.Env())
			if runErr != nil {
				logrus.WithField("component", "launch").Errorf("launcher failed: %v", runErr)
			}

			if enableMetrics {
				m := metrics.GetLaunchMetrics()
				m.SetRunning(jobID, false)
				m.SetExitCode(jobID, code)
			}
			reportLaunch(resolveReportURL(reportURL, cfg), jobID, params, code, started)
			printLaunchSummary(jobID, params, code)

			if code < 0 {
				code = 1
			}
			os.Exit(code)
		},
	}

	launchCmd.Flags().StringVar(&cfgFile, "config", "", "Launch config yaml (modules, conda env, training script, extra args)")
	launchCmd.Flags().StringVar(&trainingScript, "training-script", "", "Training script passed to the deepspeed launcher")
	launchCmd.Flags().StringVar(&condaEnv, "conda-env", "", "Conda environment to activate before launching")
	launchCmd.Flags().StringSliceVar(&modules, "modules", nil, "Environment modules to load before launching")
	launchCmd.Flags().IntVar(&numNodes, "num-nodes", 0, "Override the derived node count")
	launchCmd.Flags().IntVar(&numGPUs, "num-gpus", 0, "Override the derived GPUs per node")
	launchCmd.Flags().StringVar(&masterAddr, "master-addr", "", "Override the derived master address")
	launchCmd.Flags().IntVar(&masterPort, "master-port", 0, "Override the derived master port")
	launchCmd.Flags().StringVar(&hostfilePath, "hostfile", "", "Override the hostfile path")
	launchCmd.Flags().IntVar(&logInterval, "log-interval", 0, "Override the training --log-interval")
	launchCmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Timeout for the whole launch in seconds (0 = none)")
	launchCmd.Flags().BoolVar(&enableMetrics, "metrics", false, "Serve launch metrics on /metrics while running")
	launchCmd.Flags().IntVar(&metricsPort, "metrics-port", consts.DefaultMetricsPort, "Prometheus metrics port")
	launchCmd.Flags().StringVar(&reportURL, "report-url", "", "POST a launch report to this URL after the launcher exits")
	launchCmd.Flags().StringVar(&logDir, "log-dir", "", "Also write logs to a rotating file in this directory")

	return launchCmd
}

// passthroughArgs returns everything after "--" on the command line.
func passthroughArgs(cmd *cobra.Command, args []string) []string {
	if at := cmd.ArgsLenAtDash(); at >= 0 && at <= len(args) {
		return args[at:]
	}
	return nil
}

// resolveReportURL picks the report destination: flag, then environment, then
// tool config, then launch config.
func resolveReportURL(flagURL string, cfg *config.LaunchConfig) string {
	if flagURL != "" {
		return flagURL
	}
	if httpclient.HasReportURL() {
		return httpclient.GetReportURL()
	}
	if url := viper.GetString("report_url"); url != "" {
		return url
	}
	return cfg.ReportURL
}

func reportLaunch(url, jobID string, params *launcher.Params, code int, started time.Time) {
	if url == "" {
		return
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	report := &httpclient.LaunchReport{
		JobID:          jobID,
		Hostname:       hostname,
		NumNodes:       params.NumNodes,
		NumGPUs:        params.NumGPUs,
		MasterAddr:     params.MasterAddr,
		MasterPort:     params.MasterPort,
		Hostfile:       params.Hostfile,
		TrainingScript: params.TrainingScript,
		ExitCode:       code,
		StartedAt:      started,
		FinishedAt:     time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), consts.CmdTimeout)
	defer cancel()
	if err := httpclient.PostLaunchReport(ctx, url, report); err != nil {
		logrus.WithField("component", "launch").Warnf("launch report not delivered: %v", err)
	}
}

func printLaunchSummary(jobID string, params *launcher.Params, code int) {
	utils.PrintTitle("Launch Summary", "-")
	status := fmt.Sprintf("%s%s%s", consts.Green, "SUCCEEDED", consts.Reset)
	if code != 0 {
		status = fmt.Sprintf("%s%s (exit %d)%s", consts.Red, "FAILED", code, consts.Reset)
	}
	fmt.Printf(" - job:    %s\n", jobID)
	fmt.Printf(" - world:  %d nodes x %d gpus, master %s:%d\n",
		params.NumNodes, params.NumGPUs, params.MasterAddr, params.MasterPort)
	fmt.Printf(" - status: %s\n", status)
}
