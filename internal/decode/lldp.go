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

// lldpEtherType is the EtherType carrying Link Layer Discovery Protocol
// frames.
const lldpEtherType = layers.EthernetType(0x88CC)

// LLDP TLV types this reader recognizes. Type 0 ends the TLVDU; type
// 127 (organization-specific) and the remainder are walked over but not
// captured.
const (
	lldpTLVEnd               = 0
	lldpTLVChassisID         = 1
	lldpTLVPortID            = 2
	lldpTLVTTL               = 3
	lldpTLVPortDescription   = 4
	lldpTLVSystemName        = 5
	lldpTLVSystemDescription = 6
	lldpTLVSystemCapability  = 7
	lldpTLVManagementAddress = 8
	lldpTLVOrgSpecific       = 127
)

// LLDPReader hand-parses the LLDP TLV stream: each TLV header is a
// 16-bit big-endian field packing a 7-bit type and a 9-bit length.
type LLDPReader struct{}

// Name implements Reader.
func (LLDPReader) Name() string { return "lldp" }

// Offer implements Reader.
func (LLDPReader) Offer(f *frame.Frame) (observation.Observation, bool) {
	eth := f.Ethernet()
	if eth == nil || eth.EthernetType != lldpEtherType {
		return nil, false
	}
	payload := eth.LayerPayload()

	obs := observation.LLDP{
		At:        f.CapturedAt,
		SenderMAC: identity.MACFromHardwareAddr(eth.SrcMAC),
	}

	offset := 0
	for offset+2 <= len(payload) {
		header := uint16(payload[offset])<<8 | uint16(payload[offset+1])
		tlvType := byte(header >> 9)
		tlvLen := int(header & 0x01FF)
		offset += 2

		if offset+tlvLen > len(payload) {
			return nil, false
		}
		value := payload[offset : offset+tlvLen]
		offset += tlvLen

		switch tlvType {
		case lldpTLVEnd:
			return obs, true
		case lldpTLVPortID:
			if len(value) >= 1 {
				obs.PortID = identity.NormalizeHostname(string(value[1:]))
			}
		case lldpTLVPortDescription:
			obs.PortDescription = identity.NormalizeHostname(string(value))
		case lldpTLVSystemName:
			obs.SystemName = identity.NormalizeHostname(string(value))
		case lldpTLVSystemDescription:
			obs.SystemDescription = identity.NormalizeHostname(string(value))
		}
	}
	return obs, true
}
