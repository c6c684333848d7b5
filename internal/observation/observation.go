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

// Package observation defines the closed set of protocol observations a
// Reader can produce (ARP, DHCP, mDNS, LLDP, CDP, STP, SSDP, WOL) and the
// structural identity relation the Host Aggregator uses to deduplicate
// them. It is a tagged variant: every concrete type implements
// Observation through an unexported marker method, so the set of cases
// is closed to this package and every switch on Tag() can be exhaustive.
package observation

import (
	"time"

	"github.com/An0n1mity/netprobe/internal/identity"
)

// Tag identifies which protocol produced an Observation.
type Tag string

// The closed set of protocol tags, doubling as the PROTOCOLS keys of a
// rendered snapshot.
const (
	TagARP  Tag = "ARP"
	TagDHCP Tag = "DHCP"
	TagMDNS Tag = "MDNS"
	TagLLDP Tag = "LLDP"
	TagCDP  Tag = "CDP"
	TagSTP  Tag = "STP"
	TagSSDP Tag = "SSDP"
	TagWOL  Tag = "WOL"
)

// AllTags lists every tag in a stable order, used when a snapshot
// renders an empty PROTOCOLS map skeleton.
var AllTags = []Tag{TagARP, TagDHCP, TagMDNS, TagLLDP, TagCDP, TagSTP, TagSSDP, TagWOL}

// Observation is one protocol-specific fact captured off the wire at a
// point in time. The interface is closed: only types in this package
// may implement it.
type Observation interface {
	// Tag reports which protocol variant this is.
	Tag() Tag
	// Timestamp is the frame's capture time, not the wall-clock time it
	// was submitted to the aggregator (see identity discipline in
	// internal/aggregate).
	Timestamp() time.Time
	// WithTimestamp returns a copy of the observation with its
	// timestamp replaced, used when an identical observation repeats
	// and only its freshness needs refreshing.
	WithTimestamp(t time.Time) Observation

	isObservation()
}

// ARP is an Address Resolution Protocol announcement or reply.
type ARP struct {
	At        time.Time
	SenderMAC identity.MAC
	SenderIP  identity.IP
	TargetIP  identity.IP
}

func (o ARP) Tag() Tag                              { return TagARP }
func (o ARP) Timestamp() time.Time                  { return o.At }
func (o ARP) WithTimestamp(t time.Time) Observation { o.At = t; return o }
func (ARP) isObservation()                          {}

// DHCP captures a lease-relevant DHCP exchange.
type DHCP struct {
	At           time.Time
	ClientMAC    identity.MAC
	OfferedIP    identity.IP
	Hostname     string
	DHCPServerIP identity.IP
	GatewayIP    identity.IP
	DNSServerIP  identity.IP
}

func (o DHCP) Tag() Tag                              { return TagDHCP }
func (o DHCP) Timestamp() time.Time                  { return o.At }
func (o DHCP) WithTimestamp(t time.Time) Observation { o.At = t; return o }
func (DHCP) isObservation()                          {}

// MDNS captures a multicast DNS query/answer pair observed on the wire.
type MDNS struct {
	At               time.Time
	ClientMAC        identity.MAC
	QueriedDomain    string
	AnsweredHostname string
	AnsweredIP       identity.IP
}

func (o MDNS) Tag() Tag                              { return TagMDNS }
func (o MDNS) Timestamp() time.Time                  { return o.At }
func (o MDNS) WithTimestamp(t time.Time) Observation { o.At = t; return o }
func (MDNS) isObservation()                          {}

// LLDP captures a Link Layer Discovery Protocol advertisement.
type LLDP struct {
	At                time.Time
	SenderMAC         identity.MAC
	PortID            string
	PortDescription   string
	SystemName        string
	SystemDescription string
}

func (o LLDP) Tag() Tag                              { return TagLLDP }
func (o LLDP) Timestamp() time.Time                  { return o.At }
func (o LLDP) WithTimestamp(t time.Time) Observation { o.At = t; return o }
func (LLDP) isObservation()                          {}

// CDPAddress is one entry of a CDP address or management-address TLV.
type CDPAddress struct {
	ProtocolType byte
	Protocol     []byte
	Address      []byte
}

// Equal compares two CDPAddress records field by field.
func (a CDPAddress) Equal(b CDPAddress) bool {
	return a.ProtocolType == b.ProtocolType &&
		bytesEqual(a.Protocol, b.Protocol) &&
		bytesEqual(a.Address, b.Address)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CDP captures a Cisco Discovery Protocol advertisement.
type CDP struct {
	At               time.Time
	SenderMAC        identity.MAC
	SenderIP         identity.IP
	DeviceID         string
	AddressList      []CDPAddress
	PortID           string
	CapabilitiesMask uint32
	SoftwareVersion  string
	Platform         string
	VTPDomain        string
	NativeVLAN       uint16
	Duplex           byte
	TrustBitmap      byte
	UntrustedPortCoS byte
	MgmtAddressList  []CDPAddress
}

func (o CDP) Tag() Tag                              { return TagCDP }
func (o CDP) Timestamp() time.Time                  { return o.At }
func (o CDP) WithTimestamp(t time.Time) Observation { o.At = t; return o }
func (CDP) isObservation()                          {}

// BridgeID is the 64-bit root/bridge identifier used by STP (802.1D
// section 9.2.5), decoded directly into host-order fields: the 4-bit
// priority kept in its top-of-word position (so 0x8000, not 8), a
// 12-bit system ID extension (VLAN ID in PVST) and the 48-bit bridge
// MAC.
type BridgeID struct {
	Priority uint16
	SysIDExt uint16
	SysID    identity.MAC
}

// STP captures a Spanning Tree Protocol Bridge PDU.
type STP struct {
	At        time.Time
	SenderMAC identity.MAC
	RootID    BridgeID
	BridgeID  BridgeID
}

func (o STP) Tag() Tag                              { return TagSTP }
func (o STP) Timestamp() time.Time                  { return o.At }
func (o STP) WithTimestamp(t time.Time) Observation { o.At = t; return o }
func (STP) isObservation()                          {}

// SSDPKind distinguishes the three UPnP datagram shapes.
type SSDPKind string

// The three SSDP message shapes recognized by the reader.
const (
	SSDPNotify   SSDPKind = "NOTIFY"
	SSDPMSearch  SSDPKind = "M-SEARCH"
	SSDPResponse SSDPKind = "RESPONSE"
)

// SSDPHeader is one ordered header line of an SSDP datagram.
type SSDPHeader struct {
	Name  string
	Value string
}

// SSDP captures a Simple Service Discovery Protocol datagram.
type SSDP struct {
	At        time.Time
	SenderMAC identity.MAC
	SenderIP  identity.IP
	Kind      SSDPKind
	Headers   []SSDPHeader
}

func (o SSDP) Tag() Tag                              { return TagSSDP }
func (o SSDP) Timestamp() time.Time                  { return o.At }
func (o SSDP) WithTimestamp(t time.Time) Observation { o.At = t; return o }
func (SSDP) isObservation()                          {}

// WOL captures a Wake-on-LAN magic packet.
type WOL struct {
	At        time.Time
	SenderMAC identity.MAC
	TargetMAC identity.MAC
}

func (o WOL) Tag() Tag                              { return TagWOL }
func (o WOL) Timestamp() time.Time                  { return o.At }
func (o WOL) WithTimestamp(t time.Time) Observation { o.At = t; return o }
func (WOL) isObservation()                          {}
