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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Version: ")
	assert.Contains(t, out, "Go Version: go")
}

func TestBuildIdentityLdflags(t *testing.T) {
	oldVersion, oldCommit, oldTime := Version, GitCommit, BuildTime
	defer func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldTime }()

	Version, GitCommit, BuildTime = "v1.2.3", "abcdef0", "2026-08-29T00:00:00Z"
	version, commit, buildTime := buildIdentity()
	assert.Equal(t, "v1.2.3", version)
	assert.Equal(t, "abcdef0", commit)
	assert.Equal(t, "2026-08-29T00:00:00Z", buildTime)

	Version, GitCommit, BuildTime = "", "", ""
	version, commit, buildTime = buildIdentity()
	assert.NotEmpty(t, version)
	assert.NotEmpty(t, commit)
	assert.NotEmpty(t, buildTime)
}
