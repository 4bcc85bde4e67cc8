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

// Package hostfile renders and parses DeepSpeed hostfiles: one
// "<hostname> slots=<n>" line per node, in scheduler order.
package hostfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yiscore/dsrun/consts"
)

type Entry struct {
	Host  string
	Slots int
}

// DefaultPath returns the hostfile location for a job. The id keeps
// concurrent jobs on a shared submit host apart.
func DefaultPath(jobID string) string {
	if jobID == "" {
		jobID = fmt.Sprintf("pid%d", os.Getpid())
	}
	return filepath.Join(consts.DefaultHostfileDir, consts.HostfilePrefix+jobID)
}

func Render(hosts []string, slots int) string {
	var b strings.Builder
	for _, h := range hosts {
		fmt.Fprintf(&b, "%s slots=%d\n", h, slots)
	}
	return b.String()
}

// Write renders the hostfile and installs it atomically so a concurrently
// starting launcher never reads a half-written file.
func Write(path string, hosts []string, slots int) error {
	if len(hosts) == 0 {
		return fmt.Errorf("no hosts to write")
	}
	if slots <= 0 {
		return fmt.Errorf("invalid slot count %d", slots)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp hostfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(Render(hosts, slots)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write hostfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close hostfile: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to chmod hostfile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to install hostfile %s: %w", path, err)
	}
	logrus.WithField("component", "hostfile").Infof("wrote %d hosts with slots=%d to %s", len(hosts), slots, path)
	return nil
}

// Parse reads hostfile content back into entries. Blank lines and #-comments
// are skipped, matching what the DeepSpeed launcher accepts.
func Parse(data string) ([]Entry, error) {
	var entries []Entry
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 || !strings.HasPrefix(fields[1], "slots=") {
			return nil, fmt.Errorf("line %d: malformed hostfile entry %q", i+1, line)
		}
		slots, err := strconv.Atoi(strings.TrimPrefix(fields[1], "slots="))
		if err != nil || slots <= 0 {
			return nil, fmt.Errorf("line %d: bad slot count in %q", i+1, line)
		}
		entries = append(entries, Entry{Host: fields[0], Slots: slots})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("hostfile has no entries")
	}
	return entries, nil
}
