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

/*
bio-remap-counts gathers the variant remapping statistics of every assembly
under a remapping root into one tab-separated table.

The remapping root is expected to be laid out as

    <root>/<taxonomy_id>/<assembly_accession>/eva/<assembly_accession>_eva_remapped_counts.yml

where each stats file holds the keys "all", "filtered", "Flank_50",
"Flank_2000" and "Flank_50000". The Flank_* values map a failure reason, such
as "Multiple mapped", to a variant count.

The output has one row per assembly. Its columns are taxonomy_id,
assembly_accession, all_count and filtered_count, followed by one
flank_<size>_<reason> column for every flank size and every failure reason
seen in any assembly. Spaces are removed from failure reasons. An output path
ending in .gz is gzip-compressed.

A missing or malformed stats file stops the run with a non-zero exit status,
and no output is written.

Sample usage:
bio-remap-counts \
    --remapping_root_path /nfs/remapping \
    --output_file remapping_counts.tsv
*/
package main
