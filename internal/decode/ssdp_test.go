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
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"

	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

func buildSSDPFrame(t *testing.T, senderMAC []byte, senderIP net.IP, body string) []byte {
	t.Helper()
	eth := &layers.Ethernet{SrcMAC: senderMAC, DstMAC: mustMAC("01:00:5e:7f:ff:fa"), EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{Version: 4, IHL: 5, TTL: 4, Protocol: layers.IPProtocolUDP,
		SrcIP: senderIP.To4(), DstIP: net.ParseIP("239.255.255.250").To4()}
	udp := &layers.UDP{SrcPort: ssdpPort, DstPort: ssdpPort}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	return serialize(eth, ip, udp, gopacket.Payload(body))
}

func TestSSDPReaderParsesNotifyHeaders(t *testing.T) {
	body := "NOTIFY * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"\r\n"
	data := buildSSDPFrame(t, mustMAC("aa:bb:cc:dd:ee:01"), net.ParseIP("10.0.0.9"), body)
	obs, ok := SSDPReader{}.Offer(newFrame(data))
	require.True(t, ok)
	s := obs.(observation.SSDP)
	require.Equal(t, identity.MACFromHardwareAddr(mustMAC("aa:bb:cc:dd:ee:01")), s.SenderMAC)
	require.Equal(t, "10.0.0.9", s.SenderIP.String())
	require.Equal(t, observation.SSDPNotify, s.Kind)
	require.Len(t, s.Headers, 2)
	require.Equal(t, "HOST", s.Headers[0].Name)
	require.Equal(t, "239.255.255.250:1900", s.Headers[0].Value)
}

func TestSSDPReaderDeclinesUnrecognizedFirstLine(t *testing.T) {
	data := buildSSDPFrame(t, mustMAC("aa:bb:cc:dd:ee:01"), net.ParseIP("10.0.0.9"), "GARBAGE\r\n\r\n")
	_, ok := SSDPReader{}.Offer(newFrame(data))
	require.False(t, ok)
}

func TestSSDPReaderDeclinesWrongPort(t *testing.T) {
	eth := &layers.Ethernet{SrcMAC: mustMAC("aa:bb:cc:dd:ee:01"), DstMAC: mustMAC("ff:ff:ff:ff:ff:ff"), EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{Version: 4, IHL: 5, TTL: 64, Protocol: layers.IPProtocolUDP,
		SrcIP: net.ParseIP("10.0.0.9").To4(), DstIP: net.ParseIP("10.0.0.1").To4()}
	udp := &layers.UDP{SrcPort: 5000, DstPort: 5001}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	data := serialize(eth, ip, udp, gopacket.Payload("NOTIFY * HTTP/1.1\r\n\r\n"))
	_, ok := SSDPReader{}.Offer(newFrame(data))
	require.False(t, ok)
}
