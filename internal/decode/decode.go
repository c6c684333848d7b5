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

// Package decode holds the wire-format Readers (one per protocol) and
// the Dispatcher that offers each inbound frame to all of them.
//
// A Reader never throws on malformed input: bounds violations and
// unrecognized framing are declines, not errors. Readers that fail
// partway through a TLV walk discard whatever fields they'd extracted
// so far rather than emit a partial Observation.
package decode

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/An0n1mity/netprobe/internal/frame"
	"github.com/An0n1mity/netprobe/internal/observation"
)

// Reader reduces a parsed frame to at most one Observation.
type Reader interface {
	// Name identifies the reader for logging.
	Name() string
	// Offer inspects f and returns an Observation and true if it
	// matched and parsed cleanly, or the zero value and false
	// otherwise.
	Offer(f *frame.Frame) (observation.Observation, bool)
}

// DefaultReaders returns the full Reader set in the registration order
// the daemon uses. Order is irrelevant for correctness (every Reader
// declines frames it doesn't own) but fixed here for deterministic
// tests.
func DefaultReaders() []Reader {
	return []Reader{
		ARPReader{},
		DHCPReader{},
		MDNSReader{},
		LLDPReader{},
		CDPReader{},
		STPReader{},
		SSDPReader{},
		WOLReader{},
	}
}

// MetricsSink is the subset of internal/metrics.Registry the Dispatcher
// reports frame and decline counts into. A nil sink is valid.
type MetricsSink interface {
	ObserveFrame()
	ObserveDecline(protocol string)
}

// Dispatcher holds an ordered Reader set and offers every inbound frame
// to each of them in turn.
type Dispatcher struct {
	Readers []Reader
	Metrics MetricsSink
}

// NewDispatcher builds a Dispatcher over the default Reader set.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{Readers: DefaultReaders()}
}

// Dispatch offers f to every registered Reader and returns every
// Observation emitted. A Reader that panics on malformed input is
// contained here and logged at most once per frame, so one bad frame
// never interrupts the pipeline.
func (d *Dispatcher) Dispatch(f *frame.Frame) []observation.Observation {
	if d.Metrics != nil {
		d.Metrics.ObserveFrame()
	}
	var out []observation.Observation
	for _, r := range d.Readers {
		obs, matched := offerSafely(r, f)
		if matched {
			out = append(out, obs)
			continue
		}
		if d.Metrics != nil {
			d.Metrics.ObserveDecline(strings.ToUpper(r.Name()))
		}
	}
	return out
}

func offerSafely(r Reader, f *frame.Frame) (obs observation.Observation, matched bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Debugf("decode: %s reader declined frame after panic: %v", r.Name(), rec)
			matched = false
		}
	}()
	return r.Offer(f)
}
