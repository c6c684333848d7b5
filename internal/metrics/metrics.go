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

// Package metrics exposes the daemon's Prometheus counters and gauges.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/An0n1mity/netprobe/internal/observation"
)

// Registry owns the daemon's metric collectors. The zero value is not
// usable; build one with NewRegistry.
type Registry struct {
	registry *prometheus.Registry

	framesTotal       prometheus.Counter
	observationsTotal *prometheus.CounterVec
	declinesTotal     *prometheus.CounterVec
	hostsKnown        prometheus.Gauge
}

// NewRegistry builds and registers the daemon's metric collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netprobe",
			Name:      "frames_total",
			Help:      "Frames pulled off the capture source.",
		}),
		observationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netprobe",
			Name:      "observations_total",
			Help:      "Observations accepted into the host inventory, by protocol.",
		}, []string{"protocol"}),
		declinesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netprobe",
			Name:      "decode_declines_total",
			Help:      "Frames a protocol reader declined to parse, by protocol.",
		}, []string{"protocol"}),
		hostsKnown: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netprobe",
			Name:      "hosts_known",
			Help:      "Distinct MAC addresses currently in the host inventory.",
		}),
	}
	r.registry.MustRegister(r.framesTotal, r.observationsTotal, r.declinesTotal, r.hostsKnown)

	// seed every known protocol label so dashboards don't show gaps for
	// protocols that simply haven't fired yet.
	for _, tag := range observation.AllTags {
		r.observationsTotal.WithLabelValues(string(tag))
		r.declinesTotal.WithLabelValues(string(tag))
	}
	return r
}

// ObserveFrame implements decode.MetricsSink.
func (r *Registry) ObserveFrame() {
	r.framesTotal.Inc()
}

// ObserveDecline implements decode.MetricsSink.
func (r *Registry) ObserveDecline(protocol string) {
	r.declinesTotal.WithLabelValues(protocol).Inc()
}

// ObserveProtocol implements aggregate.MetricsSink.
func (r *Registry) ObserveProtocol(tag observation.Tag) {
	r.observationsTotal.WithLabelValues(string(tag)).Inc()
}

// SetHostsKnown implements aggregate.MetricsSink.
func (r *Registry) SetHostsKnown(n int) {
	r.hostsKnown.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ListenAndServe blocks serving /metrics on addr. Mirrors the
// single-endpoint exporter pattern used for sptp's Prometheus exporter.
func (r *Registry) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		return fmt.Errorf("serving metrics on %s: %w", addr, err)
	}
	return nil
}
