/*
Copyright (c) Facebook, Inc. and its affiliates.

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

package decode

import (
	"net"

	"github.com/google/gopacket/layers"

	"github.com/An0n1mity/netprobe/internal/frame"
	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

// DHCPReader reads client hardware address and four IPv4-valued options
// out of a DHCP message. Hostname is always left empty: the host-name
// option is not read, since not every DHCP message type carries it.
type DHCPReader struct{}

// Name implements Reader.
func (DHCPReader) Name() string { return "dhcp" }

// Offer implements Reader.
func (DHCPReader) Offer(f *frame.Frame) (observation.Observation, bool) {
	d := f.DHCPv4()
	if d == nil {
		return nil, false
	}
	return observation.DHCP{
		At:           f.CapturedAt,
		ClientMAC:    identity.MACFromHardwareAddr(d.ClientHWAddr),
		OfferedIP:    dhcpOptionIP(d, layers.DHCPOptRequestIP),
		Hostname:     "",
		DHCPServerIP: dhcpOptionIP(d, layers.DHCPOptServerID),
		GatewayIP:    dhcpOptionIP(d, layers.DHCPOptRouter),
		DNSServerIP:  dhcpOptionIP(d, layers.DHCPOptDNS),
	}, true
}

// dhcpOptionIP extracts the first IPv4 address out of the named option,
// or identity.ZeroIP if the option is missing or too short.
func dhcpOptionIP(d *layers.DHCPv4, opt layers.DHCPOpt) identity.IP {
	for _, o := range d.Options {
		if o.Type != opt {
			continue
		}
		if len(o.Data) < 4 {
			return identity.ZeroIP
		}
		return identity.IPFrom(net.IP(o.Data[:4]))
	}
	return identity.ZeroIP
}
