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

package jsonio

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/testing/passert"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/testing/ptest"

	_ "github.com/apache/beam/sdks/v2/go/pkg/beam/io/filesystem/local"
)

func TestMain(m *testing.M) {
	ptest.Main(m)
}

type track struct {
	Name     string  `json:"name"`
	Plays    int64   `json:"plays"`
	Duration float64 `json:"duration"`
}

func init() {
	beam.RegisterType(reflect.TypeOf((*track)(nil)).Elem())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a/one.json"),
		`{"name":"first","plays":3,"duration":218.93179}
{"name":"second","plays":1,"duration":266.39628}
`)
	writeFile(t, filepath.Join(dir, "b/two.json"),
		`{"name":"third","plays":7,"duration":100.5}
`)

	p := beam.NewPipeline()
	s := p.Root()
	records := Read(s, filepath.Join(dir, "*", "*.json"), reflect.TypeOf(track{}))
	passert.Equals(s, records,
		track{Name: "first", Plays: 3, Duration: 218.93179},
		track{Name: "second", Plays: 1, Duration: 266.39628},
		track{Name: "third", Plays: 7, Duration: 100.5},
	)
	if err := ptest.Run(p); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
}

func TestRead_SkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sparse.json"),
		`{"name":"only","plays":1,"duration":1}


`)

	p := beam.NewPipeline()
	s := p.Root()
	records := Read(s, filepath.Join(dir, "*.json"), reflect.TypeOf(track{}))
	passert.Count(s, records, "records", 1)
	if err := ptest.Run(p); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
}

func TestRead_MalformedRecord(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.json"), "{not json\n")

	p := beam.NewPipeline()
	s := p.Root()
	Read(s, filepath.Join(dir, "*.json"), reflect.TypeOf(track{}))
	if err := ptest.Run(p); err == nil {
		t.Fatal("pipeline with malformed record did not fail")
	}
}
