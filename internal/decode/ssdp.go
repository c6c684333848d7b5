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
	"strings"

	"github.com/An0n1mity/netprobe/internal/frame"
	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

// ssdpPort is the well-known UPnP discovery UDP port.
const ssdpPort = 1900

// SSDPReader treats a UDP/1900 payload as an HTTP-like message: a
// request/status line followed by "Name: Value" headers until a blank
// line, matching the wire format UPnP datagrams actually use.
type SSDPReader struct{}

// Name implements Reader.
func (SSDPReader) Name() string { return "ssdp" }

// Offer implements Reader.
func (SSDPReader) Offer(f *frame.Frame) (observation.Observation, bool) {
	udp := f.UDP()
	if udp == nil || (udp.SrcPort != ssdpPort && udp.DstPort != ssdpPort) {
		return nil, false
	}
	eth := f.Ethernet()
	if eth == nil {
		return nil, false
	}

	lines := splitHTTPLines(udp.LayerPayload())
	if len(lines) == 0 {
		return nil, false
	}

	kind, ok := ssdpKind(lines[0])
	if !ok {
		return nil, false
	}

	obs := observation.SSDP{
		At:        f.CapturedAt,
		SenderMAC: identity.MACFromHardwareAddr(eth.SrcMAC),
		SenderIP:  ipv4SenderOf(f),
		Kind:      kind,
	}
	for _, line := range lines[1:] {
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		obs.Headers = append(obs.Headers, observation.SSDPHeader{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return obs, true
}

// ssdpKind classifies the first line of an SSDP datagram by prefix.
func ssdpKind(line string) (observation.SSDPKind, bool) {
	switch {
	case strings.HasPrefix(line, "NOTIFY"):
		return observation.SSDPNotify, true
	case strings.HasPrefix(line, "M-SEARCH"):
		return observation.SSDPMSearch, true
	case strings.HasPrefix(line, "HTTP/"):
		return observation.SSDPResponse, true
	default:
		return "", false
	}
}

// splitHTTPLines splits a CRLF- or LF-delimited HTTP-like payload into
// lines, dropping a trailing empty line produced by a terminal
// newline.
func splitHTTPLines(payload []byte) []string {
	text := strings.ReplaceAll(string(payload), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ipv4SenderOf returns the frame's IPv4 source address, or ZeroIP if
// there is none.
func ipv4SenderOf(f *frame.Frame) identity.IP {
	ip4 := f.IPv4()
	if ip4 == nil {
		return identity.ZeroIP
	}
	return identity.IPFrom(ip4.SrcIP)
}
