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
package slurm

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpandNodeList expands a compressed SLURM node list such as
// "gpu[01-04,07],login2" into individual hostnames. SLURM always reports the
// compressed form in SLURM_JOB_NODELIST, including zero-padded ranges and
// multiple bracket groups per name ("r[1-2]n[1-2]").
func ExpandNodeList(list string) ([]string, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, fmt.Errorf("empty node list")
	}
	groups, err := splitTopLevel(list)
	if err != nil {
		return nil, err
	}
	var hosts []string
	for _, g := range groups {
		expanded, err := expandGroup(g)
		if err != nil {
			return nil, fmt.Errorf("node list %q: %w", list, err)
		}
		hosts = append(hosts, expanded...)
	}
	return hosts, nil
}

// FirstHost returns the first hostname of the expanded node list. The first
// token is the master by convention.
func FirstHost(list string) (string, error) {
	hosts, err := ExpandNodeList(list)
	if err != nil {
		return "", err
	}
	return hosts[0], nil
}

// splitTopLevel splits on commas that are not inside brackets.
func splitTopLevel(list string) ([]string, error) {
	var groups []string
	depth := 0
	start := 0
	for i, r := range list {
		switch r {
		case '[':
			depth++
			if depth > 1 {
				return nil, fmt.Errorf("nested bracket at offset %d", i)
			}
		case ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced bracket at offset %d", i)
			}
		case ',':
			if depth == 0 {
				groups = append(groups, list[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets in %q", list)
	}
	groups = append(groups, list[start:])
	return groups, nil
}

// expandGroup expands one comma-free group, recursing over bracket pairs so
// names with several ranges multiply out.
func expandGroup(group string) ([]string, error) {
	group = strings.TrimSpace(group)
	if group == "" {
		return nil, fmt.Errorf("empty group")
	}
	open := strings.IndexByte(group, '[')
	if open < 0 {
		if strings.ContainsAny(group, "]") {
			return nil, fmt.Errorf("stray bracket in %q", group)
		}
		return []string{group}, nil
	}
	end := strings.IndexByte(group[open:], ']')
	if end < 0 {
		return nil, fmt.Errorf("missing ']' in %q", group)
	}
	end += open

	prefix := group[:open]
	spec := group[open+1 : end]
	rest := group[end+1:]

	tokens, err := expandRangeSpec(spec)
	if err != nil {
		return nil, err
	}
	var hosts []string
	for _, tok := range tokens {
		tails, err := expandGroup(prefix + tok + rest)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, tails...)
	}
	return hosts, nil
}

// expandRangeSpec expands the inside of one bracket pair: "01-04,07" yields
// 01 02 03 04 07, preserving zero padding.
func expandRangeSpec(spec string) ([]string, error) {
	if spec == "" {
		return nil, fmt.Errorf("empty bracket expression")
	}
	var out []string
	for _, part := range strings.Split(spec, ",") {
		lo, hi, ok := strings.Cut(part, "-")
		if !ok {
			if _, err := strconv.Atoi(part); err != nil {
				return nil, fmt.Errorf("bad index %q", part)
			}
			out = append(out, part)
			continue
		}
		loN, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("bad range start %q", lo)
		}
		hiN, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("bad range end %q", hi)
		}
		if hiN < loN {
			return nil, fmt.Errorf("descending range %q", part)
		}
		width := 0
		if strings.HasPrefix(lo, "0") {
			width = len(lo)
		}
		for i := loN; i <= hiN; i++ {
			out = append(out, fmt.Sprintf("%0*d", width, i))
		}
	}
	return out, nil
}
