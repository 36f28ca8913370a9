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

// Package remapcounts gathers the per-assembly variant remapping statistics
// produced by the remapping pipeline into a single table with one row per
// (taxonomy id, assembly accession).
package remapcounts

import (
	"context"
	"fmt"
	"io/ioutil"
	"strings"
	"unicode"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"gopkg.in/yaml.v3"
)

// FlankSize is the length, in bp, of the flanking sequence used when
// remapping a variant.
type FlankSize int

const (
	Flank50    FlankSize = 50
	Flank2000  FlankSize = 2000
	Flank50000 FlankSize = 50000
)

// FlankSizes lists the flank sizes in the order they appear in the output.
var FlankSizes = []FlankSize{Flank50, Flank2000, Flank50000}

// RecordKey returns the key under which the flank's counts are stored in a
// stats file, e.g. "Flank_50".
func (f FlankSize) RecordKey() string { return fmt.Sprintf("Flank_%d", int(f)) }

// ColumnPrefix returns the prefix of the output columns for the flank,
// e.g. "flank_50".
func (f FlankSize) ColumnPrefix() string { return fmt.Sprintf("flank_%d", int(f)) }

// Keys of the scalar fields of a stats file.
const (
	keyAll      = "all"
	keyFiltered = "filtered"
)

// Record is the content of one <accession>_eva_remapped_counts.yml file.
type Record struct {
	// All is the number of variants considered for remapping.
	All int64
	// Filtered is the number of variants filtered out before remapping.
	Filtered int64
	// Flanks maps each flank size to counts keyed by normalized failure
	// reason.
	Flanks map[FlankSize]map[string]int64
}

// NormalizeLabel strips all whitespace from a failure-reason label, so
// "Multiple mapped" becomes "Multiplemapped".
func NormalizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, label)
}

// StatsFileName returns the name of the stats file for an assembly.
func StatsFileName(accession string) string {
	return accession + "_eva_remapped_counts.yml"
}

// ParseRecord decodes and validates a stats file. All the required fields
// must be present and non-null; counts must be non-negative integers. Labels
// that normalize to the same identifier within one flank are summed.
//
// Errors are of type *MalformedRecordError, without assembly information.
func ParseRecord(data []byte) (*Record, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedRecordError{Reason: "document is not a mapping: " + err.Error()}
	}
	rec := &Record{Flanks: make(map[FlankSize]map[string]int64, len(FlankSizes))}
	var err error
	if rec.All, err = parseCount(doc, keyAll); err != nil {
		return nil, err
	}
	if rec.Filtered, err = parseCount(doc, keyFiltered); err != nil {
		return nil, err
	}
	for _, flank := range FlankSizes {
		if rec.Flanks[flank], err = parseFlank(doc, flank.RecordKey()); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func requiredNode(doc map[string]yaml.Node, key string) (*yaml.Node, error) {
	n, ok := doc[key]
	if !ok {
		return nil, &MalformedRecordError{Field: key, Reason: "field is missing"}
	}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return nil, &MalformedRecordError{Field: key, Reason: "field is null"}
	}
	return &n, nil
}

func parseCount(doc map[string]yaml.Node, key string) (int64, error) {
	n, err := requiredNode(doc, key)
	if err != nil {
		return 0, err
	}
	if n.Kind != yaml.ScalarNode {
		return 0, &MalformedRecordError{Field: key, Reason: fmt.Sprintf("line %d: expected an integer", n.Line)}
	}
	var v int64
	if err := n.Decode(&v); err != nil {
		return 0, &MalformedRecordError{Field: key, Reason: err.Error()}
	}
	if v < 0 {
		return 0, &MalformedRecordError{Field: key, Reason: fmt.Sprintf("negative count %d", v)}
	}
	return v, nil
}

func parseFlank(doc map[string]yaml.Node, key string) (map[string]int64, error) {
	n, err := requiredNode(doc, key)
	if err != nil {
		return nil, err
	}
	if n.Kind != yaml.MappingNode {
		return nil, &MalformedRecordError{Field: key, Reason: fmt.Sprintf("line %d: expected a mapping of failure reason to count", n.Line)}
	}
	counts := make(map[string]int64, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		label := k.Value
		field := key + "." + label
		if k.Kind != yaml.ScalarNode {
			return nil, &MalformedRecordError{Field: key, Reason: fmt.Sprintf("line %d: failure reason is not a string", k.Line)}
		}
		if v.Kind != yaml.ScalarNode || v.ShortTag() != "!!int" {
			return nil, &MalformedRecordError{Field: field, Reason: fmt.Sprintf("line %d: expected an integer count", v.Line)}
		}
		var c int64
		if err := v.Decode(&c); err != nil {
			return nil, &MalformedRecordError{Field: field, Reason: err.Error()}
		}
		if c < 0 {
			return nil, &MalformedRecordError{Field: field, Reason: fmt.Sprintf("negative count %d", c)}
		}
		norm := NormalizeLabel(label)
		if norm == "" {
			return nil, &MalformedRecordError{Field: key, Reason: fmt.Sprintf("blank failure reason %q", label)}
		}
		counts[norm] += c
	}
	return counts, nil
}

// LoadRecord reads the stats file of the given assembly. It returns a
// *MissingFileError if the file does not exist, and a *MalformedRecordError
// if its content is invalid.
func LoadRecord(ctx context.Context, a Assembly) (rec *Record, err error) {
	in, err := file.Open(ctx, a.Path)
	if err != nil {
		if notExist(a.Path, err) {
			return nil, &MissingFileError{Assembly: a, Path: a.Path, Err: err}
		}
		return nil, errors.E(err, "open stats file", a.Path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	data, err := ioutil.ReadAll(in.Reader(ctx))
	if err != nil {
		return nil, errors.E(err, "read stats file", a.Path)
	}
	if rec, err = ParseRecord(data); err != nil {
		if merr, ok := err.(*MalformedRecordError); ok {
			merr.Assembly = a
			merr.Path = a.Path
		}
		return nil, err
	}
	return rec, nil
}
