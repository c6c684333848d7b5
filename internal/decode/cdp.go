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

// cdpOrgCodeByte0..2 are the bytes of the Cisco-assigned SNAP
// organizational code, and cdpProtocolID is CDP's SNAP protocol ID.
const (
	cdpOrgCodeByte0, cdpOrgCodeByte1, cdpOrgCodeByte2 = 0x00, 0x00, 0x0C
	cdpProtocolID                                     = 0x2000
	cdpHeaderLen                                      = 4
)

// CDP TLV types this reader extracts.
const (
	cdpTLVDeviceID          = 0x0001
	cdpTLVAddress           = 0x0002
	cdpTLVPortID            = 0x0003
	cdpTLVCapabilities      = 0x0004
	cdpTLVSoftwareVersion   = 0x0005
	cdpTLVPlatform          = 0x0006
	cdpTLVVTPDomain         = 0x0009
	cdpTLVNativeVLAN        = 0x000A
	cdpTLVDuplex            = 0x000B
	cdpTLVSystemName        = 0x000D
	cdpTLVTrustBitmap       = 0x0012
	cdpTLVUntrustedPortCoS  = 0x0013
	cdpTLVManagementAddress = 0x0016
)

// CDPReader hand-parses a Cisco Discovery Protocol advertisement after
// an 802.3/LLC/SNAP frame matching Cisco's organizational code and the
// CDP protocol ID.
type CDPReader struct{}

// Name implements Reader.
func (CDPReader) Name() string { return "cdp" }

// Offer implements Reader.
func (CDPReader) Offer(f *frame.Frame) (observation.Observation, bool) {
	dot3 := f.Dot3()
	if dot3 == nil {
		return nil, false
	}
	llc := f.LLC()
	if llc == nil || llc.DSAP != 0xAA || llc.SSAP != 0xAA {
		return nil, false
	}
	snap := f.SNAP()
	if snap == nil {
		return nil, false
	}
	if len(snap.OrganizationalCode) != 3 ||
		snap.OrganizationalCode[0] != cdpOrgCodeByte0 ||
		snap.OrganizationalCode[1] != cdpOrgCodeByte1 ||
		snap.OrganizationalCode[2] != cdpOrgCodeByte2 ||
		uint16(snap.Type) != cdpProtocolID {
		return nil, false
	}

	payload := snap.LayerPayload()
	if len(payload) < cdpHeaderLen {
		return nil, false
	}

	obs := observation.CDP{
		At:        f.CapturedAt,
		SenderMAC: identity.MACFromHardwareAddr(dot3.SrcMAC),
	}

	offset := cdpHeaderLen
	for offset+cdpHeaderLen <= len(payload) {
		tlvType := binary.BigEndian.Uint16(payload[offset : offset+2])
		tlvLen := int(binary.BigEndian.Uint16(payload[offset+2 : offset+4]))
		if tlvLen < cdpHeaderLen || offset+tlvLen > len(payload) {
			return nil, false
		}
		value := payload[offset+cdpHeaderLen : offset+tlvLen]

		switch tlvType {
		case cdpTLVDeviceID:
			obs.DeviceID = identity.NormalizeHostname(string(value))
		case cdpTLVAddress:
			addrs, ok := parseCDPAddressList(value)
			if !ok {
				return nil, false
			}
			obs.AddressList = addrs
			if ip, ok := firstIPv4CDPAddress(addrs); ok {
				obs.SenderIP = ip
			}
		case cdpTLVPortID:
			obs.PortID = identity.NormalizeHostname(string(value))
		case cdpTLVCapabilities:
			if len(value) == 4 {
				obs.CapabilitiesMask = binary.BigEndian.Uint32(value)
			}
		case cdpTLVSoftwareVersion:
			obs.SoftwareVersion = identity.NormalizeHostname(string(value))
		case cdpTLVPlatform:
			obs.Platform = identity.NormalizeHostname(string(value))
		case cdpTLVVTPDomain:
			obs.VTPDomain = identity.NormalizeHostname(string(value))
		case cdpTLVNativeVLAN:
			if len(value) == 2 {
				obs.NativeVLAN = binary.BigEndian.Uint16(value)
			}
		case cdpTLVDuplex:
			if len(value) == 1 {
				obs.Duplex = value[0]
			}
		case cdpTLVSystemName:
			// Some Cisco platforms advertise system-name inside CDP
			// too; fold it into DeviceID only if CDP's own device-id
			// TLV was absent.
			if obs.DeviceID == "" {
				obs.DeviceID = identity.NormalizeHostname(string(value))
			}
		case cdpTLVTrustBitmap:
			if len(value) == 1 {
				obs.TrustBitmap = value[0]
			}
		case cdpTLVUntrustedPortCoS:
			if len(value) == 1 {
				obs.UntrustedPortCoS = value[0]
			}
		case cdpTLVManagementAddress:
			addrs, ok := parseCDPAddressList(value)
			if !ok {
				return nil, false
			}
			obs.MgmtAddressList = addrs
		}

		offset += tlvLen
	}

	return obs, true
}

// parseCDPAddressList parses the CDP address / management-address TLV
// body: a 32-bit big-endian count followed by per-address records of
// {protocol-type(1), protocol-length(1), protocol(protocol-length),
// address-length(2), address(address-length)}. Every record's size is
// read from its own header rather than assumed fixed, since CDP
// addresses are variable length.
func parseCDPAddressList(value []byte) ([]observation.CDPAddress, bool) {
	if len(value) < 4 {
		return nil, true
	}
	count := binary.BigEndian.Uint32(value[:4])
	offset := 4
	addrs := make([]observation.CDPAddress, 0, count)
	for i := uint32(0); i < count; i++ {
		if offset+2 > len(value) {
			return nil, false
		}
		protocolType := value[offset]
		protocolLen := int(value[offset+1])
		offset += 2
		if offset+protocolLen+2 > len(value) {
			return nil, false
		}
		protocol := value[offset : offset+protocolLen]
		offset += protocolLen
		addrLen := int(binary.BigEndian.Uint16(value[offset : offset+2]))
		offset += 2
		if offset+addrLen > len(value) {
			return nil, false
		}
		address := value[offset : offset+addrLen]
		offset += addrLen

		addrs = append(addrs, observation.CDPAddress{
			ProtocolType: protocolType,
			Protocol:     append([]byte(nil), protocol...),
			Address:      append([]byte(nil), address...),
		})
	}
	return addrs, true
}

// firstIPv4CDPAddress returns the first NLPID-IP (protocol byte 0xCC,
// protocol-type 1) address in the list, decoded as an IPv4 address.
func firstIPv4CDPAddress(addrs []observation.CDPAddress) (identity.IP, bool) {
	for _, a := range addrs {
		if a.ProtocolType == 1 && len(a.Protocol) == 1 && a.Protocol[0] == 0xCC && len(a.Address) == 4 {
			return identity.IPFrom(a.Address), true
		}
	}
	return identity.ZeroIP, false
}
