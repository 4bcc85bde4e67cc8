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
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yiscore/dsrun/consts"
	"github.com/yiscore/dsrun/pkg/utils"
)

// LaunchConfig describes one training launch: the runtime environment to
// activate and the training entrypoint to hand to the deepspeed launcher.
type LaunchConfig struct {
	// Modules are environment modules loaded before the launcher starts.
	Modules []string `json:"modules" yaml:"modules"`
	// CondaEnv is the conda environment activated before the launcher starts.
	CondaEnv string `json:"conda_env" yaml:"conda_env"`
	// TrainingScript is the python entrypoint passed to deepspeed.
	TrainingScript string `json:"training_script" yaml:"training_script"`
	// LogInterval is forwarded to the training script as --log-interval.
	LogInterval int `json:"log_interval" yaml:"log_interval"`
	// ExtraArgs are appended to the training script's arguments.
	ExtraArgs []string `json:"extra_args" yaml:"extra_args"`
	// ReportURL, when set, receives a JSON launch report after the launcher
	// exits. DSRUN_REPORT_URL overrides it.
	ReportURL string `json:"report_url" yaml:"report_url"`
	// LogDir enables rotating file logs when set.
	LogDir string `json:"log_dir" yaml:"log_dir"`
}

func DefaultLaunchConfig() *LaunchConfig {
	return &LaunchConfig{
		LogInterval: consts.DefaultLogInterval,
	}
}

// LoadLaunchConfig reads a launch config with strict field checking, so a
// typoed key fails the launch instead of being silently dropped.
func LoadLaunchConfig(path string) (*LaunchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read launch config %s: %w", path, err)
	}
	cfg := DefaultLaunchConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse launch config %s: %w", path, err)
	}
	if cfg.LogInterval <= 0 {
		cfg.LogInterval = consts.DefaultLogInterval
	}
	return cfg, nil
}

func (c *LaunchConfig) Yaml() (string, error) {
	return utils.Yaml(c)
}
