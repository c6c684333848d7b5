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

package aggregate

import (
	"time"

	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

// View is the subset of internal/inventory.View the Aggregator depends
// on, kept in sync with every submit so the rendered inventory never
// diverges from the Host collection.
type View interface {
	Upsert(h *Host)
}

// MetricsSink is the subset of internal/metrics.Registry the Aggregator
// reports into. A nil sink is valid (tests and the inspection CLI don't
// need one).
type MetricsSink interface {
	ObserveProtocol(tag observation.Tag)
	SetHostsKnown(n int)
}

// Aggregator is the keyed Host collection: submitting an Observation
// either updates an existing Host or inserts a new one. It is
// single-threaded and unlocked, called only from the capture
// pipeline's single worker goroutine.
type Aggregator struct {
	// Now returns wall-clock time at submit, not the Observation's own
	// capture timestamp, since FirstSeen/LastSeen track when the host
	// was observed by this process rather than the packet's own
	// timestamp. Defaults to time.Now; tests inject a fixed/advancing
	// clock here instead of sleeping.
	Now func() time.Time

	View    View
	Metrics MetricsSink

	hosts map[identity.MAC]*Host
	order []identity.MAC
}

// NewAggregator builds an empty Aggregator reporting into view.
func NewAggregator(view View) *Aggregator {
	return &Aggregator{
		Now:   time.Now,
		View:  view,
		hosts: make(map[identity.MAC]*Host),
	}
}

// Submit folds obs into the Host keyed by its sender MAC, inserting a
// new Host on first sight, and pushes the update into View and Metrics.
func (a *Aggregator) Submit(obs observation.Observation) {
	mac := observation.HostMAC(obs)
	now := a.now()

	h, known := a.hosts[mac]
	if !known {
		h = newHost(mac, now)
		a.hosts[mac] = h
		a.order = append(a.order, mac)
	}

	h.refineIP(observation.HostIP(obs))
	h.refineHostname(observation.HostHostname(obs))
	h.LastSeen = now
	h.attach(obs)

	if a.View != nil {
		a.View.Upsert(h)
	}
	if a.Metrics != nil {
		a.Metrics.ObserveProtocol(obs.Tag())
		a.Metrics.SetHostsKnown(len(a.hosts))
	}
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Host returns the Host known for mac, if any.
func (a *Aggregator) Host(mac identity.MAC) (*Host, bool) {
	h, ok := a.hosts[mac]
	return h, ok
}

// Hosts returns every known Host in insertion order.
func (a *Aggregator) Hosts() []*Host {
	out := make([]*Host, 0, len(a.order))
	for _, mac := range a.order {
		out = append(out, a.hosts[mac])
	}
	return out
}

// Len returns the number of known Hosts.
func (a *Aggregator) Len() int {
	return len(a.hosts)
}
