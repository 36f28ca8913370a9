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
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// WriteTable writes t as tab-separated text: a header line naming every
// column, then one line per row. Absent counts are written as 0.
func WriteTable(w io.Writer, t *Table) error {
	tsvw := tsv.NewWriter(w)
	for _, col := range t.Columns() {
		tsvw.WriteString(col)
	}
	if err := tsvw.EndLine(); err != nil {
		return err
	}
	labels := t.Labels()
	for _, row := range t.Rows() {
		tsvw.WriteString(row.TaxonomyID)
		tsvw.WriteString(row.Accession)
		tsvw.WriteInt64(row.AllCount)
		tsvw.WriteInt64(row.FilteredCount)
		for _, flank := range FlankSizes {
			for _, label := range labels {
				tsvw.WriteInt64(row.Count(flank, label))
			}
		}
		if err := tsvw.EndLine(); err != nil {
			return err
		}
	}
	return tsvw.Flush()
}

// WriteTableFile writes t to path. The output is gzip-compressed if path has
// a gzip extension. If writing fails, path is removed.
func WriteTableFile(ctx context.Context, path string, t *Table) error {
	return writeTableFile(ctx, path, t, WriteTable)
}

func writeTableFile(ctx context.Context, path string, t *Table, write func(io.Writer, *Table) error) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create output file", path)
	}
	defer func() {
		file.CloseAndReport(ctx, out, &err)
		if err == nil {
			return
		}
		if e := file.Remove(ctx, path); e != nil {
			log.Debug.Printf("remapcounts: remove partial output %s: %v", path, e)
		}
	}()
	w := out.Writer(ctx)
	if fileio.DetermineType(path) != fileio.Gzip {
		if err = write(w, t); err != nil {
			return errors.E(err, "write output file", path)
		}
		return nil
	}
	gz := gzip.NewWriter(w)
	if err = write(gz, t); err != nil {
		return errors.E(err, "write output file", path)
	}
	if err = gz.Close(); err != nil {
		return errors.E(err, "write output file", path)
	}
	return nil
}
