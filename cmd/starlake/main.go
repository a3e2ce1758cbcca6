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

// starlake builds a star schema from raw song-catalog and play-event JSON
// records: it derives the songs, artists, users and time dimension tables and
// the songplays fact table and writes them as partitioned parquet datasets
// under the output root, replacing any previous run's output.
//
// The input and output roots may be local paths or object-store URIs
// (s3://..., gs://...). For s3, credentials come from the environment or an
// env-style file passed via --credentials, mirroring the usual dl.cfg layout:
//
//	AWS_ACCESS_KEY_ID=...
//	AWS_SECRET_ACCESS_KEY=...
//
// To change the runner, specify --runner (direct by default).
package main

import (
	"context"
	"flag"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/log"
	"github.com/sparkify/starlake/pkg/starlake/config"
	"github.com/sparkify/starlake/pkg/starlake/etl"

	_ "github.com/apache/beam/sdks/v2/go/pkg/beam/io/filesystem/gcs"
	_ "github.com/apache/beam/sdks/v2/go/pkg/beam/io/filesystem/local"
	_ "github.com/apache/beam/sdks/v2/go/pkg/beam/io/filesystem/s3"
)

var (
	input       = flag.String("input", "s3://udacity-dend/", "Root location of the raw song and event data")
	output      = flag.String("output", "", "Root location for the star-schema tables (required)")
	credentials = flag.String("credentials", "", "Optional env-style file with storage credentials")
)

func main() {
	flag.Parse()
	beam.Init()

	ctx := context.Background()

	if *output == "" {
		log.Exit(ctx, "No output location specified. Use --output=<uri>")
	}
	if err := config.Load(*credentials); err != nil {
		log.Exitf(ctx, "%v", err)
	}
	for _, loc := range []string{*input, *output} {
		if err := config.Verify(loc); err != nil {
			log.Exitf(ctx, "%v", err)
		}
	}

	log.Infof(ctx, "Building star schema from %v into %v", *input, *output)

	if err := etl.Run(ctx, *input, *output); err != nil {
		log.Exitf(ctx, "Failed to execute job: %v", err)
	}
}
