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

	"github.com/An0n1mity/netprobe/internal/frame"
	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

// ARPReader extracts sender/target information from ARP requests and
// replies. The base-layer dissection (Ethernet -> ARP) is provided by
// gopacket/layers; this reader only picks the sender/target MAC and IP
// fields relevant to host discovery.
type ARPReader struct{}

// Name implements Reader.
func (ARPReader) Name() string { return "arp" }

// Offer implements Reader.
func (ARPReader) Offer(f *frame.Frame) (observation.Observation, bool) {
	a := f.ARP()
	if a == nil {
		return nil, false
	}
	senderMAC := identity.MACFromHardwareAddr(net.HardwareAddr(a.SourceHwAddress))
	if senderMAC.IsZero() {
		return nil, false
	}
	return observation.ARP{
		At:        f.CapturedAt,
		SenderMAC: senderMAC,
		SenderIP:  identity.IPFrom(net.IP(a.SourceProtAddress)),
		TargetIP:  identity.IPFrom(net.IP(a.DstProtAddress)),
	}, true
}
