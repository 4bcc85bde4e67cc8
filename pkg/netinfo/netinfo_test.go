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
package netinfo

import "testing"

func TestList(t *testing.T) {
	nics, err := List()
	if err != nil {
		t.Skipf("netlink not available here: %v", err)
	}
	for _, nic := range nics {
		if nic.Name == "" {
			t.Errorf("NIC with empty name: %+v", nic)
		}
		if nic.Name == "lo" {
			t.Errorf("loopback leaked into the inventory: %+v", nic)
		}
	}
}

func TestLogInventory(t *testing.T) {
	// must never panic or fail, even without netlink permissions
	LogInventory()
}
