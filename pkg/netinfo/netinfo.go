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

// Package netinfo inspects the node's network interfaces and routes so the
// launch log records which NIC carries rendezvous traffic to the master.
package netinfo

import (
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

type NIC struct {
	Name  string
	MTU   int
	Up    bool
	Addrs []string
}

// List returns all non-loopback interfaces with their IPv4 addresses.
func List() ([]NIC, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	var nics []NIC
	for _, link := range links {
		attrs := link.Attrs()
		if attrs.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
		if err != nil {
			return nil, fmt.Errorf("failed to list addresses of %s: %w", attrs.Name, err)
		}
		nic := NIC{
			Name: attrs.Name,
			MTU:  attrs.MTU,
			Up:   attrs.Flags&net.FlagUp != 0,
		}
		for _, a := range addrs {
			nic.Addrs = append(nic.Addrs, a.IPNet.String())
		}
		nics = append(nics, nic)
	}
	return nics, nil
}

// RouteToMaster resolves the master hostname and asks the kernel which
// interface and source address a connection to it would use.
func RouteToMaster(master string) (iface string, src string, err error) {
	ip := net.ParseIP(master)
	if ip == nil {
		ips, err := net.LookupIP(master)
		if err != nil {
			return "", "", fmt.Errorf("failed to resolve master %q: %w", master, err)
		}
		for _, candidate := range ips {
			if v4 := candidate.To4(); v4 != nil {
				ip = v4
				break
			}
		}
		if ip == nil {
			return "", "", fmt.Errorf("master %q has no IPv4 address", master)
		}
	}

	routes, err := netlink.RouteGet(ip)
	if err != nil {
		return "", "", fmt.Errorf("failed to query route to %s: %w", ip, err)
	}
	if len(routes) == 0 {
		return "", "", fmt.Errorf("no route to master %s", ip)
	}
	route := routes[0]
	link, err := netlink.LinkByIndex(route.LinkIndex)
	if err != nil {
		return "", "", fmt.Errorf("failed to look up link %d: %w", route.LinkIndex, err)
	}
	if route.Src != nil {
		src = route.Src.String()
	}
	return link.Attrs().Name, src, nil
}

// LogInventory writes the NIC table to the launch log at debug level.
// Failures are logged and swallowed: missing netlink permissions must not
// block a launch.
func LogInventory() {
	nics, err := List()
	if err != nil {
		logrus.WithField("component", "netinfo").Warnf("failed to inventory NICs: %v", err)
		return
	}
	for _, nic := range nics {
		state := "down"
		if nic.Up {
			state = "up"
		}
		logrus.WithField("component", "netinfo").Debugf("nic %s: state=%s mtu=%d addrs=%v", nic.Name, state, nic.MTU, nic.Addrs)
	}
}
