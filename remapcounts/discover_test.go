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
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	ctx := context.Background()
	root, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	writeFile(t, StatsPath(root, "9606", "GCA_000001405.15"), sampleRecord)
	writeFile(t, StatsPath(root, "9606", "GCA_000001405.1"), sampleRecord)
	writeFile(t, StatsPath(root, "10090", "GCA_000001635.2"), sampleRecord)
	writeFile(t, StatsPath(root, "9913", "GCA_000003055.3"), sampleRecord)
	// Stats file is missing, but the assembly directory exists.
	writeFile(t, filepath.Join(root, "9913", "GCA_000003205.1", "dbsnp", "out.log"), "")
	// Not taxonomy directories.
	writeFile(t, filepath.Join(root, "logs", "GCA_1", "eva", "x.yml"), "")
	writeFile(t, filepath.Join(root, "README"), "")

	assemblies, err := Discover(ctx, root)
	require.NoError(t, err)
	var got [][2]string
	for _, a := range assemblies {
		got = append(got, [2]string{a.TaxonomyID, a.Accession})
		assert.Equal(t, StatsPath(root, a.TaxonomyID, a.Accession), a.Path)
	}
	assert.Equal(t, [][2]string{
		{"9606", "GCA_000001405.1"},
		{"9606", "GCA_000001405.15"},
		{"9913", "GCA_000003055.3"},
		{"9913", "GCA_000003205.1"},
		{"10090", "GCA_000001635.2"},
	}, got)
}

func TestDiscoverMissingRoot(t *testing.T) {
	ctx := context.Background()
	root, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	_, err := Discover(ctx, filepath.Join(root, "nonexistent"))
	require.Error(t, err)
	_, ok := err.(*MissingFileError)
	assert.True(t, ok, "got %T: %v", err, err)
}

func TestDiscoverUncleanRoot(t *testing.T) {
	ctx := context.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	writeFile(t, StatsPath(filepath.Join(tmpDir, "remapping"), "9606", "GCA_000001405.15"), sampleRecord)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	for _, root := range []string{
		"remapping",
		"./remapping",
		"./remapping/",
		tmpDir + "//remapping",
		tmpDir + "/./remapping/",
	} {
		assemblies, err := Discover(ctx, root)
		require.NoError(t, err, root)
		require.Len(t, assemblies, 1, root)
		assert.Equal(t, "9606", assemblies[0].TaxonomyID, root)
		assert.Equal(t, "GCA_000001405.15", assemblies[0].Accession, root)

		rec, err := LoadRecord(ctx, assemblies[0])
		require.NoError(t, err, root)
		assert.Equal(t, int64(100), rec.All, root)
	}
}

func TestDiscoverSkipsAssemblyWithoutFiles(t *testing.T) {
	ctx := context.Background()
	root, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	writeFile(t, StatsPath(root, "9606", "GCA_000001405.15"), sampleRecord)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "9606", "GCA_000001405.1", "eva"), 0755))

	assemblies, err := Discover(ctx, root)
	require.NoError(t, err)
	require.Len(t, assemblies, 1)
	assert.Equal(t, "GCA_000001405.15", assemblies[0].Accession)
}
