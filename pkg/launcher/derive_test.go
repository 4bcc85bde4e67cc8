package launcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yiscore/dsrun/pkg/slurm"
)

func clearLaunchEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SLURM_JOBID", "SLURM_ARRAY_JOB_ID", "SLURM_ARRAY_TASK_ID",
		"SLURM_JOB_NODELIST", "SLURM_STEP_NODELIST", "SLURM_NNODES",
		"SLURM_GPUS_ON_NODE", "CUDA_VISIBLE_DEVICES",
		"NUM_NODES", "NUM_GPUS", "MASTER_ADDR", "MASTER_PORT", "HOSTFILE",
	} {
		t.Setenv(key, "")
	}
}

func TestDeriveFromSlurmEnv(t *testing.T) {
	clearLaunchEnv(t)
	t.Setenv("SLURM_JOBID", "4242")
	t.Setenv("SLURM_JOB_NODELIST", "gpu[01-04]")
	t.Setenv("SLURM_NNODES", "4")
	t.Setenv("SLURM_GPUS_ON_NODE", "8")

	p, hosts, err := Derive(context.Background(), slurm.ReadJobEnv(), Overrides{})
	require.NoError(t, err)
	require.Equal(t, []string{"gpu01", "gpu02", "gpu03", "gpu04"}, hosts)
	require.Equal(t, 4, p.NumNodes)
	require.Equal(t, 8, p.NumGPUs)
	require.Equal(t, "gpu01", p.MasterAddr)
	require.Equal(t, 12000+4242%20000, p.MasterPort)
	require.Equal(t, "/tmp/dsrun-hostfile-4242", p.Hostfile)
}

func TestDeriveEnvOverridesBeatScheduler(t *testing.T) {
	clearLaunchEnv(t)
	t.Setenv("SLURM_JOBID", "4242")
	t.Setenv("SLURM_JOB_NODELIST", "gpu[01-04]")
	t.Setenv("SLURM_NNODES", "4")
	t.Setenv("NUM_NODES", "2")
	t.Setenv("NUM_GPUS", "4")
	t.Setenv("MASTER_ADDR", "gpu99")
	t.Setenv("MASTER_PORT", "30123")
	t.Setenv("HOSTFILE", "/scratch/hosts")

	p, _, err := Derive(context.Background(), slurm.ReadJobEnv(), Overrides{})
	require.NoError(t, err)
	require.Equal(t, 2, p.NumNodes)
	require.Equal(t, 4, p.NumGPUs)
	require.Equal(t, "gpu99", p.MasterAddr)
	require.Equal(t, 30123, p.MasterPort)
	require.Equal(t, "/scratch/hosts", p.Hostfile)
}

func TestDeriveFlagOverridesBeatEnv(t *testing.T) {
	clearLaunchEnv(t)
	t.Setenv("SLURM_JOB_NODELIST", "gpu[01-02]")
	t.Setenv("NUM_NODES", "2")
	t.Setenv("MASTER_PORT", "30123")

	ov := Overrides{NumNodes: 1, NumGPUs: 2, MasterAddr: "gpu02", MasterPort: 31000, Hostfile: "/tmp/hf"}
	p, _, err := Derive(context.Background(), slurm.ReadJobEnv(), ov)
	require.NoError(t, err)
	require.Equal(t, 1, p.NumNodes)
	require.Equal(t, 2, p.NumGPUs)
	require.Equal(t, "gpu02", p.MasterAddr)
	require.Equal(t, 31000, p.MasterPort)
	require.Equal(t, "/tmp/hf", p.Hostfile)
}

func TestDeriveOutsideAllocation(t *testing.T) {
	clearLaunchEnv(t)
	t.Setenv("SLURM_GPUS_ON_NODE", "1")

	p, hosts, err := Derive(context.Background(), slurm.ReadJobEnv(), Overrides{})
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	require.Equal(t, 1, p.NumNodes)
	require.Equal(t, hosts[0], p.MasterAddr)
	require.Equal(t, 29500, p.MasterPort)
}
