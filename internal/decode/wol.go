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

// wolEtherType is the EtherType Wake-on-LAN magic packets are usually
// sent with when not wrapped in UDP.
const wolEtherType = layers.EthernetType(0x0842)

// wolSyncLen is the 6-byte 0xFF sync stream that precedes the first of
// sixteen repetitions of the target MAC.
const wolSyncLen = 6

// WOLReader extracts the sender's own MAC from the Ethernet header and
// the woken target's MAC from the first repetition of the magic packet
// payload.
type WOLReader struct{}

// Name implements Reader.
func (WOLReader) Name() string { return "wol" }

// Offer implements Reader.
func (WOLReader) Offer(f *frame.Frame) (observation.Observation, bool) {
	eth := f.Ethernet()
	if eth == nil || eth.EthernetType != wolEtherType {
		return nil, false
	}
	payload := eth.LayerPayload()
	if len(payload) < wolSyncLen+6 {
		return nil, false
	}
	for _, b := range payload[:wolSyncLen] {
		if b != 0xFF {
			return nil, false
		}
	}
	return observation.WOL{
		At:        f.CapturedAt,
		SenderMAC: identity.MACFromHardwareAddr(eth.SrcMAC),
		TargetMAC: identity.MACFromBytes(payload[wolSyncLen : wolSyncLen+6]),
	}, true
}
