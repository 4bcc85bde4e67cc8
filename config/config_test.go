package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadLaunchConfig(t *testing.T) {
	path := writeConfig(t, `
modules:
  - cuda/12.1
  - nccl/2.18
conda_env: megatron
training_script: pretrain_gpt.py
extra_args:
  - --seq-length
  - "2048"
report_url: http://localhost:8000/api/v1/launches
`)
	cfg, err := LoadLaunchConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"cuda/12.1", "nccl/2.18"}, cfg.Modules)
	require.Equal(t, "megatron", cfg.CondaEnv)
	require.Equal(t, "pretrain_gpt.py", cfg.TrainingScript)
	require.Equal(t, []string{"--seq-length", "2048"}, cfg.ExtraArgs)
	// unset log_interval falls back to the default
	require.Equal(t, 100, cfg.LogInterval)
}

func TestLoadLaunchConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "training_script: train.py\ncondaenv: oops\n")
	_, err := LoadLaunchConfig(path)
	require.Error(t, err)
}

func TestLoadLaunchConfigMissingFile(t *testing.T) {
	_, err := LoadLaunchConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestYamlRoundTrip(t *testing.T) {
	cfg := DefaultLaunchConfig()
	cfg.TrainingScript = "train.py"
	out, err := cfg.Yaml()
	require.NoError(t, err)
	require.Contains(t, out, "training_script: train.py")
}
