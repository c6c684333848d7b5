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

	"github.com/stretchr/testify/require"

	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

var cdpOrgCode = [3]byte{cdpOrgCodeByte0, cdpOrgCodeByte1, cdpOrgCodeByte2}

type cdpAddrFixture struct {
	protocolType byte
	protocol     []byte
	address      []byte
}

func cdpAddressListBody(addrs []cdpAddrFixture) []byte {
	out := uint32be(uint32(len(addrs)))
	for _, a := range addrs {
		out = append(out, a.protocolType, byte(len(a.protocol)))
		out = append(out, a.protocol...)
		out = append(out, uint16be(uint16(len(a.address)))...)
		out = append(out, a.address...)
	}
	return out
}

func buildCDPFrame(t *testing.T, srcMAC, dstMAC []byte, body []byte) []byte {
	t.Helper()
	cdpPayload := append([]byte{0x02, 180, 0x00, 0x00}, body...) // version, TTL, checksum placeholder
	payload := append(llcUI(0xAA, 0xAA), snapHeader(cdpOrgCode, cdpProtocolID)...)
	payload = append(payload, cdpPayload...)
	return build802Dot3(dstMAC, srcMAC, payload)
}

func TestCDPReaderParsesDeviceIDAndVariableLengthAddresses(t *testing.T) {
	var tlvs []byte
	tlvs = append(tlvs, cdpTLV(cdpTLVDeviceID, []byte("switch1"))...)

	// Two addresses with *different* protocol and address lengths, which
	// the fixed 13+i*5 stride this replaces would have misaligned.
	addrBody := cdpAddressListBody([]cdpAddrFixture{
		{protocolType: 1, protocol: []byte{0xCC}, address: []byte{10, 0, 0, 1}},
		{protocolType: 2, protocol: []byte{0xAA, 0xBB, 0xCC}, address: []byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}},
	})
	tlvs = append(tlvs, cdpTLV(cdpTLVAddress, addrBody)...)
	tlvs = append(tlvs, cdpTLV(cdpTLVPortID, []byte("GigabitEthernet0/1"))...)

	data := buildCDPFrame(t, mustMAC("aa:bb:cc:dd:ee:01"), mustMAC("01:00:0c:cc:cc:cc"), tlvs)
	obs, ok := CDPReader{}.Offer(newFrame(data))
	require.True(t, ok)
	c := obs.(observation.CDP)
	require.Equal(t, identity.MACFromHardwareAddr(mustMAC("aa:bb:cc:dd:ee:01")), c.SenderMAC)
	require.Equal(t, "switch1", c.DeviceID)
	require.Equal(t, "GigabitEthernet0/1", c.PortID)
	require.Len(t, c.AddressList, 2)
	require.Equal(t, []byte{10, 0, 0, 1}, c.AddressList[0].Address)
	require.Equal(t, "10.0.0.1", c.SenderIP.String())
	require.Len(t, c.AddressList[1].Address, 16)
}

func TestCDPReaderDeclinesTruncatedAddressList(t *testing.T) {
	addrBody := uint32be(1) // claims one address, supplies no record bytes
	tlvs := cdpTLV(cdpTLVAddress, addrBody)
	data := buildCDPFrame(t, mustMAC("aa:bb:cc:dd:ee:01"), mustMAC("01:00:0c:cc:cc:cc"), tlvs)
	_, ok := CDPReader{}.Offer(newFrame(data))
	require.False(t, ok)
}

func TestCDPReaderDeclinesWrongSNAPOrgCode(t *testing.T) {
	payload := append(llcUI(0xAA, 0xAA), snapHeader([3]byte{0x00, 0x00, 0x01}, cdpProtocolID)...)
	payload = append(payload, []byte{0x02, 180, 0x00, 0x00}...)
	data := build802Dot3(mustMAC("01:00:0c:cc:cc:cc"), mustMAC("aa:bb:cc:dd:ee:01"), payload)
	_, ok := CDPReader{}.Offer(newFrame(data))
	require.False(t, ok)
}
