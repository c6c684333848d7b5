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
	"github.com/google/gopacket/layers"

	"github.com/An0n1mity/netprobe/internal/frame"
	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

// mdnsPort is the well-known multicast DNS UDP port.
const mdnsPort = 5353

// MDNSReader captures the first query name and the first A-record
// answer of a multicast DNS datagram, regardless of which direction
// (query or response) it travels.
type MDNSReader struct{}

// Name implements Reader.
func (MDNSReader) Name() string { return "mdns" }

// Offer implements Reader.
func (r MDNSReader) Offer(f *frame.Frame) (observation.Observation, bool) {
	udp := f.UDP()
	if udp == nil || (udp.SrcPort != mdnsPort && udp.DstPort != mdnsPort) {
		return nil, false
	}
	dns := f.DNS()
	if dns == nil {
		return nil, false
	}
	eth := f.Ethernet()
	if eth == nil {
		return nil, false
	}

	obs := observation.MDNS{
		At:        f.CapturedAt,
		ClientMAC: identity.MACFromHardwareAddr(eth.SrcMAC),
	}
	if len(dns.Questions) > 0 {
		obs.QueriedDomain = string(dns.Questions[0].Name)
	}
	for _, ans := range dns.Answers {
		if ans.Type == layers.DNSTypeA {
			obs.AnsweredHostname = string(ans.Name)
			obs.AnsweredIP = identity.IPFrom(ans.IP)
			break
		}
	}
	return obs, true
}
