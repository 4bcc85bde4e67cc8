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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiscore/dsrun/pkg/hostfile"
)

func TestHostfileCmdWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hostfile")

	cmd := NewHostfileCmd()
	cmd.SetArgs([]string{"--nodelist", "gpu[01-03]", "--slots", "4", "--output", out})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	entries, err := hostfile.Parse(string(data))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "gpu01", entries[0].Host)
	assert.Equal(t, 4, entries[0].Slots)
	assert.Equal(t, "gpu03", entries[2].Host)
}
