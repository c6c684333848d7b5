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

// Package frame wraps a gopacket.Packet with its capture timestamp and
// exposes the typed base-layer accessors (Ethernet, 802.3/LLC, IPv4,
// UDP, DNS, DHCPv4, ARP) that the capture subsystem is assumed to have
// already dissected. Readers in internal/decode consume a *Frame; none
// of them touch gopacket directly for layers this package already
// exposes.
package frame

import (
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Frame is one captured link-layer frame, decoded through gopacket's
// standard layer stack.
type Frame struct {
	// CapturedAt is the capture-device timestamp (not wall-clock "now"
	// at processing time; see internal/aggregate for that distinction).
	CapturedAt time.Time
	Packet     gopacket.Packet
}

// New decodes raw bytes captured off an Ethernet interface into a Frame.
// Malformed data never errors here: gopacket best-effort decodes as far
// as it can and leaves an ErrorLayer, which individual Readers consult
// only if they care.
func New(data []byte, capturedAt time.Time) *Frame {
	pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Lazy)
	return &Frame{CapturedAt: capturedAt, Packet: pkt}
}

// Ethernet returns the Ethernet layer, or nil if absent. gopacket also
// decodes raw 802.3 frames (as used by STP/CDP) into this layer, with
// Length set; see Dot3.
func (f *Frame) Ethernet() *layers.Ethernet {
	l, _ := f.Packet.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	return l
}

// Dot3 returns the Ethernet layer when it carries an 802.3 length field
// (used by STP and CDP framing) rather than an EtherType tag, or nil
// for an EtherType-tagged (Ethernet II) frame. gopacket folds the 802.3
// case into the same Ethernet struct rather than a distinct layer type,
// setting Length instead of leaving it zero.
func (f *Frame) Dot3() *layers.Ethernet {
	eth := f.Ethernet()
	if eth == nil || eth.Length == 0 {
		return nil
	}
	return eth
}

// LLC returns the 802.2 Logical Link Control header layered under an
// 802.3 frame.
func (f *Frame) LLC() *layers.LLC {
	l, _ := f.Packet.Layer(layers.LayerTypeLLC).(*layers.LLC)
	return l
}

// SNAP returns the SNAP header layered under LLC, used by CDP.
func (f *Frame) SNAP() *layers.SNAP {
	l, _ := f.Packet.Layer(layers.LayerTypeSNAP).(*layers.SNAP)
	return l
}

// ARP returns the ARP layer, or nil.
func (f *Frame) ARP() *layers.ARP {
	l, _ := f.Packet.Layer(layers.LayerTypeARP).(*layers.ARP)
	return l
}

// IPv4 returns the IPv4 layer, or nil.
func (f *Frame) IPv4() *layers.IPv4 {
	l, _ := f.Packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	return l
}

// UDP returns the UDP layer, or nil.
func (f *Frame) UDP() *layers.UDP {
	l, _ := f.Packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
	return l
}

// DNS returns the DNS layer, or nil (carries mDNS messages on port
// 5353).
func (f *Frame) DNS() *layers.DNS {
	l, _ := f.Packet.Layer(layers.LayerTypeDNS).(*layers.DNS)
	return l
}

// DHCPv4 returns the DHCPv4 layer, or nil.
func (f *Frame) DHCPv4() *layers.DHCPv4 {
	l, _ := f.Packet.Layer(layers.LayerTypeDHCPv4).(*layers.DHCPv4)
	return l
}

// LinkPayload returns the bytes following the Ethernet/802.3 header,
// i.e. what a hand-rolled Reader (LLDP, CDP, STP, SSDP is UDP payload
// instead, WOL) should start parsing from. For Ethernet II frames this
// is the EtherType payload; for 802.3 frames it is the LLC header
// onward.
func (f *Frame) LinkPayload() []byte {
	eth := f.Ethernet()
	if eth == nil {
		return nil
	}
	return eth.LayerPayload()
}
