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
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"

	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

func lldpTLV(tlvType byte, value []byte) []byte {
	header := uint16(tlvType)<<9 | uint16(len(value))
	return append(uint16be(header), value...)
}

func buildLLDPFrame(t *testing.T, senderMAC []byte, tlvs []byte) []byte {
	t.Helper()
	eth := &layers.Ethernet{
		SrcMAC:       senderMAC,
		DstMAC:       mustMAC("01:80:c2:00:00:0e"),
		EthernetType: lldpEtherType,
	}
	return serialize(eth, gopacket.Payload(tlvs))
}

func TestLLDPReaderExtractsFields(t *testing.T) {
	var tlvs []byte
	tlvs = append(tlvs, lldpTLV(lldpTLVChassisID, []byte{0x04, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0x01})...)
	tlvs = append(tlvs, lldpTLV(lldpTLVPortID, []byte{0x05, 'e', 't', 'h', '0'})...)
	tlvs = append(tlvs, lldpTLV(lldpTLVPortDescription, []byte("uplink"))...)
	tlvs = append(tlvs, lldpTLV(lldpTLVSystemName, []byte("switch1"))...)
	tlvs = append(tlvs, lldpTLV(lldpTLVSystemDescription, []byte("top-of-rack switch"))...)
	tlvs = append(tlvs, lldpTLV(lldpTLVEnd, nil)...)

	data := buildLLDPFrame(t, mustMAC("aa:bb:cc:dd:ee:01"), tlvs)
	obs, ok := LLDPReader{}.Offer(newFrame(data))
	require.True(t, ok)
	l := obs.(observation.LLDP)
	require.Equal(t, identity.MACFromHardwareAddr(mustMAC("aa:bb:cc:dd:ee:01")), l.SenderMAC)
	require.Equal(t, "eth0", l.PortID)
	require.Equal(t, "uplink", l.PortDescription)
	require.Equal(t, "switch1", l.SystemName)
	require.Equal(t, "top-of-rack switch", l.SystemDescription)
}

func TestLLDPReaderDeclinesTruncatedTLV(t *testing.T) {
	header := uint16be(uint16(lldpTLVSystemName)<<9 | 10) // declares 10 bytes, supplies 3
	tlvs := append(header, []byte("abc")...)
	// Built by hand: serialize() pads short Ethernet frames to 60 bytes
	// with zeros, which would supply the missing TLV bytes.
	data := append(append([]byte{}, mustMAC("01:80:c2:00:00:0e")...), mustMAC("aa:bb:cc:dd:ee:01")...)
	data = append(data, uint16be(uint16(lldpEtherType))...)
	data = append(data, tlvs...)
	_, ok := LLDPReader{}.Offer(newFrame(data))
	require.False(t, ok)
}

func TestLLDPReaderDeclinesWrongEtherType(t *testing.T) {
	eth := &layers.Ethernet{SrcMAC: mustMAC("aa:bb:cc:dd:ee:01"), DstMAC: mustMAC("ff:ff:ff:ff:ff:ff"), EthernetType: layers.EthernetTypeIPv4}
	data := serialize(eth, gopacket.Payload([]byte{0x01, 0x02}))
	_, ok := LLDPReader{}.Offer(newFrame(data))
	require.False(t, ok)
}
