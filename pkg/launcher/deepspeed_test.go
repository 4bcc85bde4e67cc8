package launcher

import (
	"strings"
	"testing"
)

func validParams() *Params {
	return &Params{
		NumNodes:       2,
		NumGPUs:        8,
		Hostfile:       "/tmp/dsrun-hostfile-123",
		MasterAddr:     "gpu01",
		MasterPort:     29500,
		TrainingScript: "pretrain_gpt.py",
		LogInterval:    100,
	}
}

func TestArgv(t *testing.T) {
	p := validParams()
	p.ExtraArgs = []string{"--seq-length", "2048"}
	argv := p.Argv()

	joined := " " + strings.Join(argv, " ") + " "
	for _, want := range []string{
		"deepspeed",
		"--num_nodes 2",
		"--num_gpus 8",
		"--hostfile /tmp/dsrun-hostfile-123",
		"--master_addr gpu01",
		"--master_port 29500",
		"--launcher SLURM",
		"pretrain_gpt.py",
		"--deepspeed",
		"--log-interval 100",
		"--seq-length 2048",
	} {
		if !strings.Contains(joined, " "+want+" ") {
			t.Errorf("argv missing %q: %v", want, argv)
		}
	}

	// launcher flags must precede the training script, script flags follow it
	script := indexOf(argv, "pretrain_gpt.py")
	if script < 0 {
		t.Fatal("training script not in argv")
	}
	if indexOf(argv, "--launcher") > script {
		t.Error("--launcher must precede the training script")
	}
	if indexOf(argv, "--deepspeed") < script {
		t.Error("--deepspeed must follow the training script")
	}
}

func indexOf(argv []string, s string) int {
	for i, a := range argv {
		if a == s {
			return i
		}
	}
	return -1
}

func TestValidate(t *testing.T) {
	if err := validParams().Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	mutations := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero nodes", func(p *Params) { p.NumNodes = 0 }},
		{"zero gpus", func(p *Params) { p.NumGPUs = 0 }},
		{"empty master", func(p *Params) { p.MasterAddr = "" }},
		{"port too high", func(p *Params) { p.MasterPort = 70000 }},
		{"no hostfile", func(p *Params) { p.Hostfile = "" }},
		{"no script", func(p *Params) { p.TrainingScript = "" }},
	}
	for _, m := range mutations {
		p := validParams()
		m.mutate(p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", m.name)
		}
	}
}

func TestEnv(t *testing.T) {
	env := validParams().Env()
	for _, want := range []string{
		"NUM_NODES=2",
		"NUM_GPUS=8",
		"MASTER_ADDR=gpu01",
		"MASTER_PORT=29500",
		"HOSTFILE=/tmp/dsrun-hostfile-123",
	} {
		found := false
		for _, kv := range env {
			if kv == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Env missing %q: %v", want, env)
		}
	}
}
