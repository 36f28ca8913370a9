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

package main

// See doc.go for documentation

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/remapstats/remapcounts"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s --remapping_root_path <dir> --output_file <path>\n\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	opts := remapcounts.Opts{}
	flag.StringVar(&opts.RootPath, "remapping_root_path", "", "Path where the remapping directories are present")
	flag.StringVar(&opts.OutputPath, "output_file", "", "Path to the output table. A .gz suffix selects gzip compression")

	shutdown := grail.Init()
	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		shutdown()
		os.Exit(2)
	}
	ctx := vcontext.Background()
	_, err := remapcounts.Aggregate(ctx, opts)
	shutdown()
	if err != nil {
		log.Fatal(err)
	}
}
