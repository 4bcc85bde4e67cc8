package hostfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	got := Render([]string{"gpu01", "gpu02"}, 8)
	want := "gpu01 slots=8\ngpu02 slots=8\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestWriteAndParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostfile")
	hosts := []string{"gpu01", "gpu02", "gpu03"}

	require.NoError(t, Write(path, hosts, 4))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	entries, err := Parse(string(data))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		require.Equal(t, hosts[i], e.Host)
		require.Equal(t, 4, e.Slots)
	}

	// no temp leftovers next to the installed file
	matches, err := filepath.Glob(path + ".tmp*")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestWriteRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostfile")
	require.Error(t, Write(path, nil, 8))
	require.Error(t, Write(path, []string{"gpu01"}, 0))
}

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	entries, err := Parse("# master first\ngpu01 slots=8\n\ngpu02 slots=8\n")
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestParseErrors(t *testing.T) {
	for _, data := range []string{
		"",
		"gpu01",
		"gpu01 slots=x",
		"gpu01 slots=0",
		"gpu01 cores=8",
	} {
		if _, err := Parse(data); err == nil {
			t.Errorf("Parse(%q) expected error", strings.TrimSpace(data))
		}
	}
}
