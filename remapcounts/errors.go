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
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/errors"
)

// MissingFileError is returned when an expected stats file, or the
// remapping root itself, cannot be found.
type MissingFileError struct {
	// Assembly is the zero value when the remapping root is missing.
	Assembly Assembly
	Path     string
	Err      error
}

func (e *MissingFileError) Error() string {
	if e.Assembly.Accession == "" {
		return fmt.Sprintf("missing remapping root %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("missing stats file for assembly %s (taxonomy %s): %s: %v",
		e.Assembly.Accession, e.Assembly.TaxonomyID, e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *MissingFileError) Unwrap() error { return e.Err }

// MalformedRecordError is returned when a stats file lacks a required field,
// or a field has the wrong shape.
type MalformedRecordError struct {
	Assembly Assembly
	Path     string
	// Field is the offending key. It is empty if the document as a whole is
	// unusable.
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	where := "stats record"
	if e.Path != "" {
		where = fmt.Sprintf("stats file for assembly %s (taxonomy %s): %s",
			e.Assembly.Accession, e.Assembly.TaxonomyID, e.Path)
	}
	if e.Field == "" {
		return fmt.Sprintf("malformed %s: %s", where, e.Reason)
	}
	return fmt.Sprintf("malformed %s: field %q: %s", where, e.Field, e.Reason)
}

// notExist reports whether err, returned for path, means that path does not
// exist. Local paths are checked directly, since the error may have lost its
// kind on the way up.
func notExist(path string, err error) bool {
	if os.IsNotExist(err) || errors.Is(errors.NotExist, err) {
		return true
	}
	if strings.Contains(path, "://") {
		return false
	}
	_, serr := os.Stat(path)
	return os.IsNotExist(serr)
}
