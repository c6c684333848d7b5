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

// Package inventory maintains the structured document that mirrors the
// Host collection, updated incrementally so no packet triggers a full
// rebuild.
package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/An0n1mity/netprobe/internal/aggregate"
	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/observation"
	"github.com/An0n1mity/netprobe/internal/vendor"
)

const timeLayout = "02-01-2006 15:04:05"

// Record is the serializable mirror of one Host.
type Record struct {
	MAC       string                      `json:"MAC"`
	IP        string                      `json:"IP"`
	Hostname  string                      `json:"HOSTNAME"`
	FirstSeen string                      `json:"FIRST SEEN"`
	LastSeen  string                      `json:"LAST SEEN"`
	Protocols map[string][]ObservationDoc `json:"PROTOCOLS"`
}

// ObservationDoc is one rendered Observation: an ordered key/value
// document whose keys mirror the Observation's field names, uppercased
// with spaces permitted. encoding/json preserves field insertion order
// only for structs, so this is a slice of key/value pairs rather than a
// map, keeping SSDP's header multiset and every other protocol's field
// order stable across runs.
type ObservationDoc struct {
	fields []kv
}

type kv struct {
	Key   string
	Value interface{}
}

// Set appends a rendered field. Returns the receiver for chaining.
func (d *ObservationDoc) Set(key string, value interface{}) *ObservationDoc {
	d.fields = append(d.fields, kv{Key: key, Value: value})
	return d
}

// MarshalJSON renders the document as a JSON object preserving
// insertion order.
func (d ObservationDoc) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, f := range d.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		valJSON, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("rendering field %q: %w", f.Key, err)
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// renderTime formats a timestamp in the local zone, or "" for the zero
// value.
func renderTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

// renderMAC formats a MAC with its vendor annotation.
func renderMAC(mac identity.MAC, vendors *vendor.Table) string {
	return vendors.Render(mac)
}

// renderIP formats an IP, or "" for the zero value.
func renderIP(ip identity.IP) string {
	return ip.String()
}

// renderHost builds the Record mirroring one Host, sorting each
// protocol's Observation set by timestamp ascending (ties keep
// insertion order, since sort.SliceStable is used).
func renderHost(h *aggregate.Host, vendors *vendor.Table) Record {
	rec := Record{
		MAC:       renderMAC(h.MAC, vendors),
		IP:        renderIP(h.IP),
		Hostname:  h.Hostname,
		FirstSeen: renderTime(h.FirstSeen),
		LastSeen:  renderTime(h.LastSeen),
		Protocols: make(map[string][]ObservationDoc, len(observation.AllTags)),
	}
	for _, tag := range observation.AllTags {
		set := h.Observations(tag)
		sort.SliceStable(set, func(i, j int) bool {
			return set[i].Timestamp().Before(set[j].Timestamp())
		})
		docs := make([]ObservationDoc, 0, len(set))
		for _, obs := range set {
			docs = append(docs, renderObservation(obs, vendors))
		}
		rec.Protocols[string(tag)] = docs
	}
	return rec
}

// renderObservation dispatches on the closed Observation variant set to
// produce its rendered document.
func renderObservation(obs observation.Observation, vendors *vendor.Table) ObservationDoc {
	var d ObservationDoc
	d.Set("TIMESTAMP", renderTime(obs.Timestamp()))

	switch o := obs.(type) {
	case observation.ARP:
		d.Set("SENDER MAC", renderMAC(o.SenderMAC, vendors)).
			Set("SENDER IP", renderIP(o.SenderIP)).
			Set("TARGET IP", renderIP(o.TargetIP))
	case observation.DHCP:
		d.Set("CLIENT MAC", renderMAC(o.ClientMAC, vendors)).
			Set("OFFERED IP", renderIP(o.OfferedIP)).
			Set("HOSTNAME", o.Hostname).
			Set("DHCP SERVER IP", renderIP(o.DHCPServerIP)).
			Set("GATEWAY IP", renderIP(o.GatewayIP)).
			Set("DNS SERVER IP", renderIP(o.DNSServerIP))
	case observation.MDNS:
		d.Set("CLIENT MAC", renderMAC(o.ClientMAC, vendors)).
			Set("QUERIED DOMAIN", o.QueriedDomain).
			Set("ANSWERED HOSTNAME", o.AnsweredHostname).
			Set("ANSWERED IP", renderIP(o.AnsweredIP))
	case observation.LLDP:
		d.Set("SENDER MAC", renderMAC(o.SenderMAC, vendors)).
			Set("PORT ID", o.PortID).
			Set("PORT DESCRIPTION", o.PortDescription).
			Set("SYSTEM NAME", o.SystemName).
			Set("SYSTEM DESCRIPTION", o.SystemDescription)
	case observation.CDP:
		d.Set("SENDER MAC", renderMAC(o.SenderMAC, vendors)).
			Set("SENDER IP", renderIP(o.SenderIP)).
			Set("DEVICE ID", o.DeviceID).
			Set("ADDRESS LIST", renderCDPAddressList(o.AddressList)).
			Set("PORT ID", o.PortID).
			Set("CAPABILITIES MASK", o.CapabilitiesMask).
			Set("SOFTWARE VERSION", o.SoftwareVersion).
			Set("PLATFORM", o.Platform).
			Set("VTP DOMAIN", o.VTPDomain).
			Set("NATIVE VLAN", o.NativeVLAN).
			Set("DUPLEX", o.Duplex).
			Set("TRUST BITMAP", o.TrustBitmap).
			Set("UNTRUSTED PORT COS", o.UntrustedPortCoS).
			Set("MGMT ADDRESS LIST", renderCDPAddressList(o.MgmtAddressList))
	case observation.STP:
		d.Set("SENDER MAC", renderMAC(o.SenderMAC, vendors)).
			Set("ROOT IDENTIFIER", renderBridgeID(o.RootID)).
			Set("BRIDGE IDENTIFIER", renderBridgeID(o.BridgeID))
	case observation.SSDP:
		d.Set("SENDER MAC", renderMAC(o.SenderMAC, vendors)).
			Set("SENDER IP", renderIP(o.SenderIP)).
			Set("KIND", string(o.Kind)).
			Set("HEADERS", renderSSDPHeaders(o.Headers))
	case observation.WOL:
		d.Set("SENDER MAC", renderMAC(o.SenderMAC, vendors)).
			Set("TARGET MAC", renderMAC(o.TargetMAC, vendors))
	default:
		panic("inventory: unhandled observation variant")
	}
	return d
}

func renderCDPAddressList(addrs []observation.CDPAddress) []map[string]string {
	out := make([]map[string]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, map[string]string{
			"PROTOCOL TYPE": fmt.Sprintf("%d", a.ProtocolType),
			"PROTOCOL":      fmt.Sprintf("%X", a.Protocol),
			"ADDRESS":       fmt.Sprintf("%X", a.Address),
		})
	}
	return out
}

func renderBridgeID(b observation.BridgeID) map[string]interface{} {
	return map[string]interface{}{
		"PRIORITY":   b.Priority,
		"SYS ID EXT": b.SysIDExt,
		"SYS ID":     b.SysID.String(),
	}
}

func renderSSDPHeaders(headers []observation.SSDPHeader) []map[string]string {
	out := make([]map[string]string, 0, len(headers))
	for _, h := range headers {
		out = append(out, map[string]string{"NAME": h.Name, "VALUE": h.Value})
	}
	return out
}

// writeJSONAtomic serializes v as indented JSON to a temp file in the
// same directory as path and renames it into place, so a crash
// mid-write never corrupts the previous snapshot.
func writeJSONAtomic(path string, v interface{}) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".netprobe-snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming snapshot into place: %w", err)
	}
	return nil
}
