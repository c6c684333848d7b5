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

package observation

import "github.com/An0n1mity/netprobe/internal/identity"

// HostMAC picks the MAC that keys a Host in the aggregator: the
// sender MAC for every variant except DHCP (clientMac) and STP, which
// falls back to the zero MAC when no sender address could be read off
// the wire.
func HostMAC(o Observation) identity.MAC {
	switch v := o.(type) {
	case ARP:
		return v.SenderMAC
	case DHCP:
		return v.ClientMAC
	case MDNS:
		return v.ClientMAC
	case LLDP:
		return v.SenderMAC
	case CDP:
		return v.SenderMAC
	case STP:
		return v.SenderMAC
	case SSDP:
		return v.SenderMAC
	case WOL:
		return v.SenderMAC
	default:
		panic("observation: unhandled variant in HostMAC")
	}
}

// HostIP picks the IP an observation contributes to a Host, or
// identity.ZeroIP if the variant carries none.
func HostIP(o Observation) identity.IP {
	switch v := o.(type) {
	case ARP:
		return v.SenderIP
	case DHCP:
		return v.OfferedIP
	case MDNS:
		return v.AnsweredIP
	case CDP:
		return v.SenderIP
	case SSDP:
		return v.SenderIP
	default:
		return identity.ZeroIP
	}
}

// HostHostname picks the hostname label an observation contributes to a
// Host, or "" if the variant carries none.
func HostHostname(o Observation) string {
	switch v := o.(type) {
	case DHCP:
		return v.Hostname
	case MDNS:
		return v.AnsweredHostname
	case LLDP:
		return v.SystemName
	case CDP:
		return v.DeviceID
	default:
		return ""
	}
}

// IdentityEqual is the total equivalence relation used to deduplicate
// Observations within a Host's per-protocol set: two observations of
// the same variant are identical iff every field except the timestamp
// is structurally equal. Observations of different variants are never
// equal.
func IdentityEqual(a, b Observation) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	switch av := a.(type) {
	case ARP:
		bv := b.(ARP)
		return av.SenderMAC == bv.SenderMAC && av.SenderIP.Equal(bv.SenderIP) && av.TargetIP.Equal(bv.TargetIP)
	case DHCP:
		bv := b.(DHCP)
		return av.ClientMAC == bv.ClientMAC &&
			av.OfferedIP.Equal(bv.OfferedIP) &&
			av.Hostname == bv.Hostname &&
			av.DHCPServerIP.Equal(bv.DHCPServerIP) &&
			av.GatewayIP.Equal(bv.GatewayIP) &&
			av.DNSServerIP.Equal(bv.DNSServerIP)
	case MDNS:
		bv := b.(MDNS)
		return av.ClientMAC == bv.ClientMAC &&
			av.QueriedDomain == bv.QueriedDomain &&
			av.AnsweredHostname == bv.AnsweredHostname &&
			av.AnsweredIP.Equal(bv.AnsweredIP)
	case LLDP:
		bv := b.(LLDP)
		return av.SenderMAC == bv.SenderMAC &&
			av.PortID == bv.PortID &&
			av.PortDescription == bv.PortDescription &&
			av.SystemName == bv.SystemName &&
			av.SystemDescription == bv.SystemDescription
	case CDP:
		bv := b.(CDP)
		return av.SenderMAC == bv.SenderMAC &&
			av.SenderIP.Equal(bv.SenderIP) &&
			av.DeviceID == bv.DeviceID &&
			cdpAddressListEqual(av.AddressList, bv.AddressList) &&
			av.PortID == bv.PortID &&
			av.CapabilitiesMask == bv.CapabilitiesMask &&
			av.SoftwareVersion == bv.SoftwareVersion &&
			av.Platform == bv.Platform &&
			av.VTPDomain == bv.VTPDomain &&
			av.NativeVLAN == bv.NativeVLAN &&
			av.Duplex == bv.Duplex &&
			av.TrustBitmap == bv.TrustBitmap &&
			av.UntrustedPortCoS == bv.UntrustedPortCoS &&
			cdpAddressListEqual(av.MgmtAddressList, bv.MgmtAddressList)
	case STP:
		bv := b.(STP)
		return av.SenderMAC == bv.SenderMAC && av.RootID == bv.RootID && av.BridgeID == bv.BridgeID
	case SSDP:
		bv := b.(SSDP)
		return av.SenderMAC == bv.SenderMAC &&
			av.SenderIP.Equal(bv.SenderIP) &&
			av.Kind == bv.Kind &&
			ssdpHeadersEqualMultiset(av.Headers, bv.Headers)
	case WOL:
		bv := b.(WOL)
		return av.SenderMAC == bv.SenderMAC && av.TargetMAC == bv.TargetMAC
	default:
		panic("observation: unhandled variant in IdentityEqual")
	}
}

// cdpAddressListEqual compares CDP address lists position-wise, per
// spec.
func cdpAddressListEqual(a, b []CDPAddress) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// ssdpHeadersEqualMultiset compares SSDP headers as a multiset: order
// doesn't matter, but duplicate header lines must match in count.
func ssdpHeadersEqualMultiset(a, b []SSDPHeader) bool {
	if len(a) != len(b) {
		return false
	}
	remaining := make([]SSDPHeader, len(b))
	copy(remaining, b)
	for _, h := range a {
		found := -1
		for i, r := range remaining {
			if r == h {
				found = i
				break
			}
		}
		if found == -1 {
			return false
		}
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
	return true
}
