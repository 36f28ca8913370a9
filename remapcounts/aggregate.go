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

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Opts controls Aggregate.
type Opts struct {
	// RootPath is the directory holding the per-taxonomy remapping results.
	RootPath string
	// OutputPath is where the aggregated table is written. A ".gz" suffix
	// selects gzip output.
	OutputPath string
}

// Validate checks that all required options are set.
func (o Opts) Validate() error {
	if o.RootPath == "" {
		return errors.E(errors.Invalid, "remapping root path must be set")
	}
	if o.OutputPath == "" {
		return errors.E(errors.Invalid, "output file must be set")
	}
	return nil
}

// Aggregate reads the stats file of every assembly under opts.RootPath and
// writes one row per assembly to opts.OutputPath.
//
// Assemblies are processed one at a time. The first missing or malformed
// stats file aborts the run; in that case the output file is not created.
func Aggregate(ctx context.Context, opts Opts) (*Table, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	assemblies, err := Discover(ctx, opts.RootPath)
	if err != nil {
		return nil, err
	}
	log.Printf("remapcounts: found %d assemblies under %s", len(assemblies), opts.RootPath)
	t := NewTable()
	for _, a := range assemblies {
		rec, err := LoadRecord(ctx, a)
		if err != nil {
			return nil, err
		}
		t.Add(a, rec)
		log.Debug.Printf("remapcounts: %s/%s: all=%d filtered=%d", a.TaxonomyID, a.Accession, rec.All, rec.Filtered)
	}
	if err := WriteTableFile(ctx, opts.OutputPath, t); err != nil {
		return nil, err
	}
	log.Printf("remapcounts: wrote %d rows, %d failure reasons to %s", t.Len(), len(t.Labels()), opts.OutputPath)
	return t, nil
}
