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

// Package capture adapts gopacket packet sources, live interfaces and
// recorded capture files alike, into a single Source the daemon's
// worker loop polls with Next.
package capture

import (
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/An0n1mity/netprobe/internal/frame"
)

// Source produces Frames one read at a time.
type Source interface {
	// Next returns the next captured Frame. A (nil, nil) result means
	// the underlying read timed out with nothing captured; the caller
	// should check its own shutdown signal and call Next again. A
	// non-nil error means the source is exhausted (io.EOF, from a
	// replayed file reaching its end) or failed outright; either way
	// the caller should stop calling Next.
	Next() (*frame.Frame, error)
	// Close releases the underlying handle.
	Close() error
}

// packetHandle is the subset of pcap.Handle and pcapgo's file readers
// the daemon needs, letting Live and Replay share one read loop.
type packetHandle interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

// ErrUnsupportedLinkType is returned when a source's link-layer type
// isn't Ethernet. Every Reader in internal/decode assumes an Ethernet
// or 802.3 base layer.
var ErrUnsupportedLinkType = errors.New("capture: only Ethernet link-layer captures are supported")

// genericSource wraps any packetHandle into a Source.
type genericSource struct {
	handle packetHandle
	closer func() error
}

func newGenericSource(handle packetHandle, closer func() error) (*genericSource, error) {
	if handle.LinkType() != layers.LinkTypeEthernet {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedLinkType, handle.LinkType())
	}
	return &genericSource{handle: handle, closer: closer}, nil
}

// Next implements Source.
func (s *genericSource) Next() (*frame.Frame, error) {
	data, ci, err := s.handle.ReadPacketData()
	if err != nil {
		// a live handle's read timeout expiring isn't a capture failure,
		// just an empty poll; let the caller decide whether to keep going.
		if errors.Is(err, pcap.NextErrorTimeoutExpired) {
			return nil, nil
		}
		return nil, err
	}
	return frame.New(data, ci.Timestamp), nil
}

// Close implements Source.
func (s *genericSource) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
