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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = fmt.Errorf("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func sampleTable() *Table {
	t := NewTable()
	t.Add(Assembly{TaxonomyID: "9606", Accession: "GCA_1"}, &Record{
		All:      100,
		Filtered: 10,
		Flanks:   map[FlankSize]map[string]int64{Flank50: {"Unmapped": 5}},
	})
	return t
}

func TestWriteTableWriterError(t *testing.T) {
	err := WriteTable(failingWriter{}, sampleTable())
	assert.Equal(t, errDiskFull, err)
}

func TestWriteTableFileRemovesPartialOutput(t *testing.T) {
	ctx := context.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	// Writes part of the table, then fails.
	partial := func(w io.Writer, t *Table) error {
		if _, err := io.WriteString(w, "taxonomy_id\tassembly_accession\n9606\t"); err != nil {
			return err
		}
		return errDiskFull
	}
	for _, name := range []string{"counts.tsv", "counts.tsv.gz"} {
		path := filepath.Join(tmpDir, name)
		err := writeTableFile(ctx, path, sampleTable(), partial)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "disk full", name)
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "%s: %v", name, err)
	}
}

func TestWriteTableFile(t *testing.T) {
	ctx := context.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tmpDir, "counts.tsv")
	require.NoError(t, WriteTableFile(ctx, path, sampleTable()))
	lines := readLines(t, path)
	assert.Equal(t, []string{
		"taxonomy_id\tassembly_accession\tall_count\tfiltered_count\tflank_50_Unmapped\tflank_2000_Unmapped\tflank_50000_Unmapped",
		"9606\tGCA_1\t100\t10\t5\t0\t0",
	}, lines)
}
