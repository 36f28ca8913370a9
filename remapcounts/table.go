// Copyright 2022 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remapcounts

import "sort"

// Names of the fixed output columns.
const (
	ColTaxonomyID        = "taxonomy_id"
	ColAssemblyAccession = "assembly_accession"
	ColAllCount          = "all_count"
	ColFilteredCount     = "filtered_count"
)

// Row is the aggregated counts of one assembly.
type Row struct {
	TaxonomyID    string
	Accession     string
	AllCount      int64
	FilteredCount int64
	// Counts maps flank size -> normalized failure reason -> count.
	Counts map[FlankSize]map[string]int64
}

// Count returns the count for the given flank and failure reason, or 0 if the
// assembly did not report it.
func (r *Row) Count(flank FlankSize, label string) int64 {
	return r.Counts[flank][label]
}

// Table accumulates rows, and the union of the failure reasons seen in any
// of them.
type Table struct {
	rows   []*Row
	labels map[string]struct{}
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{labels: map[string]struct{}{}}
}

// Add appends a row for the given assembly. rec is not retained.
func (t *Table) Add(a Assembly, rec *Record) *Row {
	row := &Row{
		TaxonomyID:    a.TaxonomyID,
		Accession:     a.Accession,
		AllCount:      rec.All,
		FilteredCount: rec.Filtered,
		Counts:        make(map[FlankSize]map[string]int64, len(FlankSizes)),
	}
	for _, flank := range FlankSizes {
		counts := make(map[string]int64, len(rec.Flanks[flank]))
		for label, n := range rec.Flanks[flank] {
			counts[label] = n
			t.labels[label] = struct{}{}
		}
		row.Counts[flank] = counts
	}
	t.rows = append(t.rows, row)
	return row
}

// Rows returns the rows in the order they were added.
func (t *Table) Rows() []*Row { return t.rows }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Labels returns the sorted union of failure reasons across all rows and all
// flank sizes.
func (t *Table) Labels() []string {
	labels := make([]string, 0, len(t.labels))
	for label := range t.labels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// ColumnName returns the output column name for a flank and failure reason,
// e.g. "flank_2000_Unmapped".
func ColumnName(flank FlankSize, label string) string {
	return flank.ColumnPrefix() + "_" + label
}

// Columns returns the header of the table: the fixed columns, then one
// column per flank size and failure reason.
func (t *Table) Columns() []string {
	labels := t.Labels()
	cols := make([]string, 0, 4+len(FlankSizes)*len(labels))
	cols = append(cols, ColTaxonomyID, ColAssemblyAccession, ColAllCount, ColFilteredCount)
	for _, flank := range FlankSizes {
		for _, label := range labels {
			cols = append(cols, ColumnName(flank, label))
		}
	}
	return cols
}
