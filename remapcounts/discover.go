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
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// evaSubdir is the subdirectory of an assembly directory that holds the results
// of remapping the EVA-submitted variants.
const evaSubdir = "eva"

// Assembly identifies one remapped assembly under the remapping root.
type Assembly struct {
	TaxonomyID string
	Accession  string
	// Path is the expected location of the assembly's stats file.
	Path string
}

// StatsPath returns the expected location of the stats file for the
// assembly under root.
func StatsPath(root, taxonomyID, accession string) string {
	return file.Join(root, taxonomyID, accession, evaSubdir, StatsFileName(accession))
}

func isTaxonomyID(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Discover lists the assemblies under the remapping root. The root is laid
// out as
//
//   <root>/<taxonomy_id>/<assembly_accession>/eva/<assembly_accession>_eva_remapped_counts.yml
//
// Every <root>/<taxonomy_id>/<assembly_accession> directory with at least one
// file below it yields an Assembly, whether or not its stats file exists;
// LoadRecord reports the missing ones. The listing yields files only, so an
// assembly directory that holds nothing but empty subdirectories is not
// discovered and produces no row. Top-level entries whose name is not a
// numeric taxonomy id are ignored. The result is sorted by taxonomy id, then
// accession.
func Discover(ctx context.Context, root string) ([]Assembly, error) {
	root = strings.TrimSuffix(root, "/")
	if !strings.Contains(root, "://") {
		// The local lister cleans the paths it returns.
		root = filepath.Clean(root)
		// Object stores have no directories to stat.
		if _, err := os.Stat(root); err != nil {
			if os.IsNotExist(err) {
				return nil, &MissingFileError{Path: root, Err: err}
			}
			return nil, errors.Wrapf(err, "stat remapping root %s", root)
		}
	}
	seen := map[Assembly]bool{}
	var assemblies []Assembly
	lister := file.List(ctx, root, true /*recursive*/)
	for lister.Scan() {
		rel := strings.TrimPrefix(strings.TrimPrefix(lister.Path(), root), "/")
		parts := strings.Split(rel, "/")
		if len(parts) < 3 {
			continue
		}
		if !isTaxonomyID(parts[0]) {
			log.Debug.Printf("remapcounts: skipping %s: %q is not a taxonomy id", lister.Path(), parts[0])
			continue
		}
		a := Assembly{
			TaxonomyID: parts[0],
			Accession:  parts[1],
			Path:       StatsPath(root, parts[0], parts[1]),
		}
		if !seen[a] {
			seen[a] = true
			assemblies = append(assemblies, a)
		}
	}
	if err := lister.Err(); err != nil {
		if notExist(root, err) {
			return nil, &MissingFileError{Path: root, Err: err}
		}
		return nil, errors.Wrapf(err, "list remapping root %s", root)
	}
	sort.Slice(assemblies, func(i, j int) bool {
		ti, tj := assemblies[i].TaxonomyID, assemblies[j].TaxonomyID
		if ti != tj {
			ni, _ := strconv.ParseUint(ti, 10, 64)
			nj, _ := strconv.ParseUint(tj, 10, 64)
			if ni != nj {
				return ni < nj
			}
			return ti < tj
		}
		return assemblies[i].Accession < assemblies[j].Accession
	})
	return assemblies, nil
}
