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
	"encoding/binary"

	"github.com/An0n1mity/netprobe/internal/frame"
	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

// stpDSAPSSAP is the LLC DSAP/SSAP value (0x42/0x42) that frames a
// Bridge PDU; bridgeIDLen is the on-wire size of a root/bridge
// identifier (802.1D section 9.2.5: 2 bytes priority+ext, 6 bytes MAC).
const (
	stpDSAPSSAP = 0x42
	bpduHeader  = 4 // protocol ID (2) + version (1) + BPDU type (1)
	bridgeIDLen = 8
)

// STPReader hand-decodes the root and bridge identifiers of a Bridge
// PDU directly into host-order fields, rather than storing on-wire
// bytes and reversing them at display time.
type STPReader struct{}

// Name implements Reader.
func (STPReader) Name() string { return "stp" }

// Offer implements Reader.
func (STPReader) Offer(f *frame.Frame) (observation.Observation, bool) {
	dot3 := f.Dot3()
	if dot3 == nil {
		return nil, false
	}
	llc := f.LLC()
	if llc == nil || llc.DSAP != stpDSAPSSAP || llc.SSAP != stpDSAPSSAP {
		return nil, false
	}
	payload := llc.LayerPayload()
	// protocolID(2) + version(1) + bpduType(1) + flags(1) = 5 bytes
	// precede the root identifier.
	const preamble = bpduHeader + 1
	if len(payload) < preamble+bridgeIDLen+4+bridgeIDLen {
		return nil, false
	}

	// identity.MACFromHardwareAddr already yields ZeroMAC when the
	// frame carries no usable source address.
	senderMAC := identity.MACFromHardwareAddr(dot3.SrcMAC)

	rootOffset := preamble
	bridgeOffset := rootOffset + bridgeIDLen + 4 // root ID (8) + root path cost (4)

	return observation.STP{
		At:        f.CapturedAt,
		SenderMAC: senderMAC,
		RootID:    decodeBridgeID(payload[rootOffset : rootOffset+bridgeIDLen]),
		BridgeID:  decodeBridgeID(payload[bridgeOffset : bridgeOffset+bridgeIDLen]),
	}, true
}

// decodeBridgeID splits an 8-byte STP bridge/root identifier into a
// 4-bit priority, a 12-bit system ID extension and a 48-bit MAC,
// matching 802.1D's bit layout.
func decodeBridgeID(b []byte) observation.BridgeID {
	priorityAndExt := binary.BigEndian.Uint16(b[0:2])
	return observation.BridgeID{
		Priority: priorityAndExt >> 12 << 12,
		SysIDExt: priorityAndExt & 0x0FFF,
		SysID:    identity.MACFromBytes(b[2:8]),
	}
}
