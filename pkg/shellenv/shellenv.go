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

// Package shellenv builds the shell prelude that loads environment modules
// and activates a conda environment before the launcher starts. Module and
// conda semantics stay in the cluster's own tooling; this package only emits
// the activation commands.
package shellenv

import (
	"strings"
)

type Config struct {
	// Modules are passed to a single `module load`, in order.
	Modules []string
	// CondaEnv is activated with `source activate` so the prelude also works
	// under shells where `conda activate` needs an interactive init.
	CondaEnv string
}

func (c *Config) Empty() bool {
	return len(c.Modules) == 0 && c.CondaEnv == ""
}

// Prelude returns the activation command sequence, or "" when nothing is
// configured.
func (c *Config) Prelude() string {
	var parts []string
	if len(c.Modules) > 0 {
		loads := make([]string, len(c.Modules))
		for i, m := range c.Modules {
			loads[i] = Quote(m)
		}
		parts = append(parts, "module load "+strings.Join(loads, " "))
	}
	if c.CondaEnv != "" {
		parts = append(parts, "source activate "+Quote(c.CondaEnv))
	}
	return strings.Join(parts, " && ")
}

// Wrap turns an argv into a `bash -c` invocation that runs the prelude and
// then execs the command, so the launcher replaces the shell and receives
// signals directly. Without a prelude the argv is returned unchanged.
func (c *Config) Wrap(argv []string) []string {
	if c.Empty() {
		return argv
	}
	prelude := c.Prelude()
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = Quote(a)
	}
	script := prelude + " && exec " + strings.Join(quoted, " ")
	return []string{"bash", "-c", script}
}

// Quote single-quotes s for POSIX shells when needed.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'\\$`&|;<>(){}[]*?#~!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
