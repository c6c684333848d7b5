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

// Package aggregate fuses Observations into a deduplicated, timestamped
// Host model keyed by MAC address.
package aggregate

import (
	"time"

	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

// Host is everything known about one link-layer address: its most
// recently observed IP and hostname, the wall-clock bounds of when it
// was first and last heard from, and a deduplicated set of every
// Observation attached to it, one set per protocol.
type Host struct {
	MAC identity.MAC

	IP       identity.IP
	Hostname string

	FirstSeen time.Time
	LastSeen  time.Time

	observations map[observation.Tag][]observation.Observation
}

// newHost constructs an empty Host for mac, seen for the first time at
// now.
func newHost(mac identity.MAC, now time.Time) *Host {
	return &Host{
		MAC:          mac,
		FirstSeen:    now,
		LastSeen:     now,
		observations: make(map[observation.Tag][]observation.Observation, len(observation.AllTags)),
	}
}

// Observations returns the deduplicated set for one protocol tag in
// insertion order. Callers that need it sorted by timestamp (rendering
// does) sort their own copy.
func (h *Host) Observations(tag observation.Tag) []observation.Observation {
	set := h.observations[tag]
	out := make([]observation.Observation, len(set))
	copy(out, set)
	return out
}

// refineIP applies monotonic refinement: a non-zero value always wins
// over ZeroIP, and a newer non-zero value replaces an older one, but
// nothing ever resets a set field back to zero.
func (h *Host) refineIP(ip identity.IP) {
	if ip.IsZero() {
		return
	}
	h.IP = ip
}

// refineHostname applies the same monotonic rule to the hostname label.
func (h *Host) refineHostname(name string) {
	if name == "" {
		return
	}
	h.Hostname = name
}

// attach inserts obs into its protocol's deduplicated set, or refreshes
// the timestamp of an existing identical Observation in place.
func (h *Host) attach(obs observation.Observation) {
	tag := obs.Tag()
	set := h.observations[tag]
	for i, existing := range set {
		if observation.IdentityEqual(existing, obs) {
			set[i] = existing.WithTimestamp(obs.Timestamp())
			return
		}
	}
	h.observations[tag] = append(set, obs)
}
