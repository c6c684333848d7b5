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

package capture

import (
	"fmt"
	"time"

	"github.com/google/gopacket/pcap"
)

const (
	defaultSnaplen = 65536
	defaultTimeout = 1 * time.Second
)

// Live captures frames directly off a network interface via libpcap.
type Live struct {
	*genericSource
	handle *pcap.Handle
}

// OpenLive opens iface in promiscuous mode with a 1-second read
// timeout, matching the interface/timeout pattern used for PTP capture
// elsewhere in this tree.
func OpenLive(iface string) (*Live, error) {
	handle, err := pcap.OpenLive(iface, defaultSnaplen, true, defaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("opening %s for live capture: %w", iface, err)
	}
	gs, err := newGenericSource(handle, func() error { handle.Close(); return nil })
	if err != nil {
		handle.Close()
		return nil, err
	}
	return &Live{genericSource: gs, handle: handle}, nil
}

// SetBPFFilter installs a BPF filter expression on the live handle,
// letting the daemon narrow capture to the EtherTypes and UDP ports
// its Readers understand instead of paying the decode cost for every
// frame on the wire.
func (l *Live) SetBPFFilter(expr string) error {
	if err := l.handle.SetBPFFilter(expr); err != nil {
		return fmt.Errorf("setting BPF filter %q: %w", expr, err)
	}
	return nil
}
