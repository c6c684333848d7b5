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

package inventory

import (
	"github.com/An0n1mity/netprobe/internal/aggregate"
	"github.com/An0n1mity/netprobe/internal/identity"
	"github.com/An0n1mity/netprobe/internal/vendor"
)

// View is the ordered, MAC-keyed mirror of the Host collection. Upsert
// is O(1): records are kept in an insertion-ordered slice alongside a
// MAC-to-index map, rather than found by re-scanning and string
// comparing rendered MAC fields on every update.
type View struct {
	vendors *vendor.Table

	records []Record
	index   map[identity.MAC]int
}

// NewView builds an empty View annotating rendered MAC addresses from
// vendors. A nil vendors table is valid; every lookup then resolves to
// vendor.UnknownVendor.
func NewView(vendors *vendor.Table) *View {
	if vendors == nil {
		vendors = vendor.Empty()
	}
	return &View{
		vendors: vendors,
		index:   make(map[identity.MAC]int),
	}
}

// Upsert implements aggregate.View: it replaces the record for h.MAC in
// place if one already exists, or appends a new one, preserving first-
// seen order for iteration and for the JSON dump.
func (v *View) Upsert(h *aggregate.Host) {
	rec := renderHost(h, v.vendors)
	if i, ok := v.index[h.MAC]; ok {
		v.records[i] = rec
		return
	}
	v.index[h.MAC] = len(v.records)
	v.records = append(v.records, rec)
}

// Records returns every known Record in first-seen order. The returned
// slice is a copy; mutating it does not affect the View.
func (v *View) Records() []Record {
	out := make([]Record, len(v.records))
	copy(out, v.records)
	return out
}

// Len returns the number of known records.
func (v *View) Len() int {
	return len(v.records)
}

// DumpJSON serializes the current view to path as indented JSON,
// written to a temp file and renamed into place so a reader never
// observes a partially written snapshot.
func (v *View) DumpJSON(path string) error {
	return writeJSONAtomic(path, v.Records())
}
