// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package etl derives a star schema from raw song-catalog and play-event JSON
// records: songs, artists, users and time dimension tables plus the songplays
// fact table, written as parquet datasets under a fixed output layout.
package etl

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/x/beamx"
	"github.com/sparkify/starlake/pkg/starlake/io/parquetio"
)

// Input globs, relative to the input root. Song metadata is nested four levels
// deep, play-event logs three.
const (
	songDataGlob = "song-data/*/*/*/*.json"
	logDataGlob  = "log_data/*/*/*.json"
)

// Output locations, relative to the output root.
const (
	songsPath     = "star_tables/dim_tables/songs/"
	artistsPath   = "star_tables/dim_tables/artists/"
	usersPath     = "star_tables/dim_tables/users/"
	timePath      = "star_tables/dim_tables/time/"
	songplaysPath = "star_tables/fact_tables/songplays/"
)

var outputPaths = []string{songsPath, artistsPath, usersPath, timePath, songplaysPath}

// Run executes the full pipeline: clears the five table locations under
// output, then derives and writes all tables from the records under input in
// a single batch. The song catalog is processed first; the songplays join
// consumes its in-memory deduplicated records, not the persisted songs table.
func Run(ctx context.Context, input, output string) error {
	input = strings.TrimSuffix(input, "/") + "/"
	output = strings.TrimSuffix(output, "/") + "/"

	for _, p := range outputPaths {
		if err := parquetio.Clear(ctx, output+p); err != nil {
			return fmt.Errorf("etl: preparing output location: %w", err)
		}
	}

	p := beam.NewPipeline()
	s := p.Root()

	catalog := ProcessSongData(s, input, output)
	ProcessLogData(s, input, output, catalog)

	return beamx.Run(ctx, p)
}
