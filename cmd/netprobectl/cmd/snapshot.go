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

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// snapshotRow mirrors the shape internal/inventory.Record serializes
// to, loosely: protocol documents are decoded as generic maps since
// the CLI only needs to count and display them, not round-trip them.
type snapshotRow struct {
	MAC       string                              `json:"MAC"`
	IP        string                              `json:"IP"`
	Hostname  string                              `json:"HOSTNAME"`
	FirstSeen string                              `json:"FIRST SEEN"`
	LastSeen  string                              `json:"LAST SEEN"`
	Protocols map[string][]map[string]interface{} `json:"PROTOCOLS"`
}

func loadSnapshot(path string) ([]snapshotRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	var rows []snapshotRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return rows, nil
}

// protocolSummary renders "ARP:2, DHCP:1" for every protocol with at
// least one observation, color-coded green when present at all.
func protocolSummary(row snapshotRow) string {
	var parts []string
	for proto, docs := range row.Protocols {
		if len(docs) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", proto, len(docs)))
	}
	sort.Strings(parts)
	if len(parts) == 0 {
		return color.New(color.FgHiBlack).Sprint("none")
	}
	return color.New(color.FgGreen).Sprint(strings.Join(parts, ", "))
}

func renderTable(rows []snapshotRow) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"MAC", "IP", "HOSTNAME", "FIRST SEEN", "LAST SEEN", "PROTOCOLS"})
	for _, row := range rows {
		table.Append([]string{
			row.MAC,
			row.IP,
			row.Hostname,
			row.FirstSeen,
			row.LastSeen,
			protocolSummary(row),
		})
	}
	table.Render()
}
