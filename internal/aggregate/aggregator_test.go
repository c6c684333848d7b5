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
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
)

func testMAC(s string) identity.MAC {
	hw, err := net.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return identity.MACFromHardwareAddr(hw)
}

type fakeView struct {
	upserts []*Host
}

func (v *fakeView) Upsert(h *Host) { v.upserts = append(v.upserts, h) }

type fakeSink struct {
	protocols  []observation.Tag
	hostsKnown []int
}

func (s *fakeSink) ObserveProtocol(tag observation.Tag) { s.protocols = append(s.protocols, tag) }
func (s *fakeSink) SetHostsKnown(n int)                 { s.hostsKnown = append(s.hostsKnown, n) }

func clockAt(times ...time.Time) func() time.Time {
	i := -1
	return func() time.Time {
		if i < len(times)-1 {
			i++
		}
		return times[i]
	}
}

func TestSubmitInsertsNewHost(t *testing.T) {
	view := &fakeView{}
	a := NewAggregator(view)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a.Now = clockAt(at)

	a.Submit(observation.ARP{At: at, SenderMAC: testMAC("aa:bb:cc:dd:ee:01"), SenderIP: identity.IPFrom(net.ParseIP("10.0.0.1"))})

	require.Equal(t, 1, a.Len())
	h, ok := a.Host(testMAC("aa:bb:cc:dd:ee:01"))
	require.True(t, ok)
	require.Equal(t, "10.0.0.1", h.IP.String())
	require.Equal(t, at, h.FirstSeen)
	require.Equal(t, at, h.LastSeen)
	require.Len(t, view.upserts, 1)
}

func TestSubmitRefinesIPMonotonically(t *testing.T) {
	a := NewAggregator(nil)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	t2 := t1.Add(time.Minute)
	a.Now = clockAt(t0, t1, t2)

	mac := testMAC("aa:bb:cc:dd:ee:01")
	a.Submit(observation.ARP{At: t0, SenderMAC: mac, SenderIP: identity.IPFrom(net.ParseIP("10.0.0.1"))})
	a.Submit(observation.ARP{At: t1, SenderMAC: mac, SenderIP: identity.ZeroIP, TargetIP: identity.IPFrom(net.ParseIP("10.0.0.254"))})
	h, _ := a.Host(mac)
	require.Equal(t, "10.0.0.1", h.IP.String(), "a zero IP must never overwrite a known one")

	a.Submit(observation.ARP{At: t2, SenderMAC: mac, SenderIP: identity.IPFrom(net.ParseIP("10.0.0.2"))})
	h, _ = a.Host(mac)
	require.Equal(t, "10.0.0.2", h.IP.String(), "a newer non-zero IP replaces an older one")
}

func TestSubmitRefinesHostnameMonotonically(t *testing.T) {
	a := NewAggregator(nil)
	at := time.Now()
	a.Now = clockAt(at, at, at)
	mac := testMAC("aa:bb:cc:dd:ee:01")

	a.Submit(observation.DHCP{At: at, ClientMAC: mac, Hostname: "host1"})
	a.Submit(observation.ARP{At: at, SenderMAC: mac})
	h, _ := a.Host(mac)
	require.Equal(t, "host1", h.Hostname)

	a.Submit(observation.DHCP{At: at, ClientMAC: mac, Hostname: "host2"})
	h, _ = a.Host(mac)
	require.Equal(t, "host2", h.Hostname)
}

func TestSubmitTracksFirstAndLastSeenBounds(t *testing.T) {
	a := NewAggregator(nil)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	a.Now = clockAt(t0, t1)
	mac := testMAC("aa:bb:cc:dd:ee:01")

	a.Submit(observation.WOL{At: t0, SenderMAC: mac})
	a.Submit(observation.WOL{At: t1, SenderMAC: mac, TargetMAC: testMAC("11:22:33:44:55:66")})

	h, _ := a.Host(mac)
	require.Equal(t, t0, h.FirstSeen)
	require.Equal(t, t1, h.LastSeen)
}

func TestSubmitDedupesIdenticalObservationsPerProtocol(t *testing.T) {
	a := NewAggregator(nil)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	a.Now = clockAt(t0, t1)
	mac := testMAC("aa:bb:cc:dd:ee:01")

	a.Submit(observation.WOL{At: t0, SenderMAC: mac, TargetMAC: testMAC("11:22:33:44:55:66")})
	a.Submit(observation.WOL{At: t1, SenderMAC: mac, TargetMAC: testMAC("11:22:33:44:55:66")})

	h, _ := a.Host(mac)
	wols := h.Observations(observation.TagWOL)
	require.Len(t, wols, 1, "identical WOL observations dedupe into one entry")
	require.Equal(t, t1, wols[0].Timestamp(), "the surviving entry's timestamp refreshes to the latest sighting")
}

func TestSubmitCallsMetricsSink(t *testing.T) {
	sink := &fakeSink{}
	a := NewAggregator(nil)
	a.Metrics = sink
	a.Now = clockAt(time.Now())

	a.Submit(observation.ARP{SenderMAC: testMAC("aa:bb:cc:dd:ee:01")})

	require.Equal(t, []observation.Tag{observation.TagARP}, sink.protocols)
	require.Equal(t, []int{1}, sink.hostsKnown)
}

func TestHostsReturnsInsertionOrder(t *testing.T) {
	a := NewAggregator(nil)
	now := time.Now()
	a.Now = clockAt(now, now, now)

	a.Submit(observation.ARP{SenderMAC: testMAC("aa:bb:cc:dd:ee:01")})
	a.Submit(observation.ARP{SenderMAC: testMAC("aa:bb:cc:dd:ee:02")})
	a.Submit(observation.ARP{SenderMAC: testMAC("aa:bb:cc:dd:ee:01")})

	hosts := a.Hosts()
	require.Len(t, hosts, 2)
	require.Equal(t, testMAC("aa:bb:cc:dd:ee:01"), hosts[0].MAC)
	require.Equal(t, testMAC("aa:bb:cc:dd:ee:02"), hosts[1].MAC)
}
