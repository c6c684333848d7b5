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

// Package identity holds the link- and network-layer identifiers shared
// by every protocol observation: MAC addresses and IP addresses, plus
// hostname normalization.
package identity

import (
	"fmt"
	"net"
	"strings"
)

// MAC is a 48-bit link-layer address.
type MAC [6]byte

// ZeroMAC is the reserved all-zero MAC, used as the STP fallback key
// when a BPDU carries no usable sender address.
var ZeroMAC = MAC{}

// MACFromBytes builds a MAC from a 6-byte slice. It panics if b is
// shorter than 6 bytes; callers are expected to bounds-check first.
func MACFromBytes(b []byte) MAC {
	var m MAC
	copy(m[:], b[:6])
	return m
}

// MACFromHardwareAddr converts a net.HardwareAddr, returning ZeroMAC if
// it isn't EUI-48.
func MACFromHardwareAddr(hw net.HardwareAddr) MAC {
	if len(hw) != 6 {
		return ZeroMAC
	}
	return MACFromBytes(hw)
}

// IsZero reports whether m is the reserved zero address.
func (m MAC) IsZero() bool {
	return m == ZeroMAC
}

// String renders the canonical uppercase colon-separated form, e.g.
// "AA:BB:CC:DD:EE:FF".
func (m MAC) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", m[0], m[1], m[2], m[3], m[4], m[5])
}

// OUI returns the 8-character "AA:BB:CC" prefix used by the vendor
// lookup table.
func (m MAC) OUI() string {
	return m.String()[:8]
}

// IP is an IPv4 or IPv6 address.
type IP struct {
	net.IP
}

// ZeroIP is the reserved "unset" address.
var ZeroIP = IP{}

// IPFrom wraps a net.IP. A nil or unspecified address becomes ZeroIP.
func IPFrom(ip net.IP) IP {
	if ip == nil || ip.IsUnspecified() {
		return ZeroIP
	}
	return IP{IP: ip}
}

// IsZero reports whether ip is unset.
func (ip IP) IsZero() bool {
	return ip.IP == nil || ip.IP.IsUnspecified()
}

// String renders the dotted/colon textual form, or the empty string for
// ZeroIP.
func (ip IP) String() string {
	if ip.IsZero() {
		return ""
	}
	return ip.IP.String()
}

// Equal reports structural equality, treating all zero-value
// representations as the same address.
func (ip IP) Equal(other IP) bool {
	if ip.IsZero() && other.IsZero() {
		return true
	}
	return ip.IP.Equal(other.IP)
}

// NormalizeHostname trims whitespace the way DHCP/LLDP/mDNS string
// fields arrive off the wire with trailing NULs or spaces.
func NormalizeHostname(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "\x00")
}
