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
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release build time; when left empty the command falls
// back to the build info the Go toolchain stamps into the binary.
var (
	Version   = ""
	GitCommit = ""
	BuildTime = ""
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print the version of dsrun",
		Run: func(cmd *cobra.Command, args []string) {
			version, commit, buildTime := buildIdentity()
			cmd.Printf("Version: %s\nGit Commit: %s\nGo Version: %s\nBuild Time: %s\n",
				version, commit, runtime.Version(), buildTime)
		},
	}
}

func buildIdentity() (version, commit, buildTime string) {
	version, commit, buildTime = Version, GitCommit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		if version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" {
					commit = s.Value
				}
			case "vcs.time":
				if buildTime == "" {
					buildTime = s.Value
				}
			}
		}
	}
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	if buildTime == "" {
		buildTime = "unknown"
	}
	return version, commit, buildTime
}
