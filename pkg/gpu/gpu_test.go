package gpu

import "testing"

func TestParseCount(t *testing.T) {
	tests := []struct {
		val  string
		want int
		ok   bool
	}{
		{"8", 8, true},
		{"gpu:8", 8, true},
		{"gpu:a100:4", 4, true},
		{"", 0, false},
		{"0", 0, false},
		{"gpu:", 0, false},
		{"eight", 0, false},
	}
	for _, tt := range tests {
		n, ok := parseCount(tt.val)
		if n != tt.want || ok != tt.ok {
			t.Errorf("parseCount(%q) = %d,%v, want %d,%v", tt.val, n, ok, tt.want, tt.ok)
		}
	}
}

func TestCountFromCudaVisible(t *testing.T) {
	t.Setenv("CUDA_VISIBLE_DEVICES", "0,1,2,3")
	if n, ok := countFromCudaVisible(); !ok || n != 4 {
		t.Errorf("countFromCudaVisible = %d,%v, want 4,true", n, ok)
	}

	t.Setenv("CUDA_VISIBLE_DEVICES", "")
	if _, ok := countFromCudaVisible(); ok {
		t.Error("countFromCudaVisible expected not ok for masked-off GPUs")
	}
}

func TestCountPerNodePrecedence(t *testing.T) {
	t.Setenv("SLURM_GPUS_ON_NODE", "2")
	t.Setenv("CUDA_VISIBLE_DEVICES", "0,1,2,3")
	if n := CountPerNode(); n != 2 {
		t.Errorf("CountPerNode = %d, want SLURM_GPUS_ON_NODE to win", n)
	}

	t.Setenv("SLURM_GPUS_ON_NODE", "")
	if n := CountPerNode(); n != 4 {
		t.Errorf("CountPerNode = %d, want CUDA_VISIBLE_DEVICES fallback", n)
	}
}
