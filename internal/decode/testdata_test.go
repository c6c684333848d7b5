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
	"net"
	"time"

	"github.com/google/gopacket"

	"github.com/An0n1mity/netprobe/internal/frame"
)

var testTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func mustMAC(s string) net.HardwareAddr {
	hw, err := net.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return hw
}

func serialize(layerList ...gopacket.SerializableLayer) []byte {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, layerList...); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func newFrame(data []byte) *frame.Frame {
	return frame.New(data, testTime)
}

// build802Dot3 assembles a raw 802.3 (length-field) frame: dst/src MAC,
// a length field set to the exact remaining payload size, followed by
// verbatim payload bytes (LLC onward). Used for CDP/STP test fixtures,
// since gopacket has no SerializableLayer for LLC/SNAP in this version.
func build802Dot3(dst, src net.HardwareAddr, payload []byte) []byte {
	out := make([]byte, 0, 14+len(payload))
	out = append(out, dst...)
	out = append(out, src...)
	lengthField := make([]byte, 2)
	binary.BigEndian.PutUint16(lengthField, uint16(len(payload)))
	out = append(out, lengthField...)
	out = append(out, payload...)
	return out
}

// llcUI builds a 3-byte 802.2 LLC header for an Unnumbered Information
// frame (the framing CDP and STP both use).
func llcUI(dsap, ssap byte) []byte {
	return []byte{dsap, ssap, 0x03}
}

func snapHeader(orgCode [3]byte, protocolID uint16) []byte {
	out := append([]byte{}, orgCode[:]...)
	pid := make([]byte, 2)
	binary.BigEndian.PutUint16(pid, protocolID)
	return append(out, pid...)
}

func cdpTLV(tlvType uint16, value []byte) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint16(out[0:2], tlvType)
	binary.BigEndian.PutUint16(out[2:4], uint16(4+len(value)))
	return append(out, value...)
}

func uint16be(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func uint32be(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
