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

// Package parquetio writes PCollections of tagged structs as parquet datasets,
// optionally laid out as hive-style partitions (col=value/ directories).
package parquetio

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/filesystem"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/util/structx"
	"github.com/xitongsys/parquet-go/writer"
)

func init() {
	register.DoFn1x2[beam.X, string, beam.X](&partitionKeyFn{})
	register.DoFn3x1[context.Context, string, func(*beam.X) bool, error](&writeFn{})
	register.Iter1[beam.X]()
}

// shardName is deterministic so that reruns overwrite rather than accumulate.
const shardName = "part-00000.parquet"

// maxPartitionDepth bounds how deep Clear looks for previously written files.
const maxPartitionDepth = 2

// Option configures a Write.
type Option func(*writeConfig)

type writeConfig struct {
	partitions []string
}

// PartitionBy arranges the output under one col=value/ directory level per
// named column, in order. Columns are referenced by their json tag name and
// must exist on the element type.
func PartitionBy(columns ...string) Option {
	return func(c *writeConfig) {
		c.partitions = columns
	}
}

// Write writes a PCollection<parquetStruct> under dir, replacing elements of a
// struct type with parquet tags. Each partition (the whole collection, when
// unpartitioned) becomes a single deterministically named file, so writing to
// a cleared location twice yields the same layout. Use Clear first for full
// overwrite semantics.
func Write(s beam.Scope, dir string, col beam.PCollection, opts ...Option) {
	s = s.Scope("parquetio.Write")
	filesystem.ValidateScheme(dir)

	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	t := col.Type().Type()
	for _, name := range cfg.partitions {
		if structx.FieldIndexByTag(t, "json", name) < 0 {
			panic(fmt.Sprintf("parquetio: type %v has no column %q", t, name))
		}
	}
	if len(cfg.partitions) > maxPartitionDepth {
		panic(fmt.Sprintf("parquetio: at most %d partition columns supported, got %d", maxPartitionDepth, len(cfg.partitions)))
	}

	keyed := beam.ParDo(s, &partitionKeyFn{Type: beam.EncodedType{T: t}, Columns: cfg.partitions}, col)
	grouped := beam.GroupByKey(s, keyed)
	beam.ParDo0(s, &writeFn{Dir: normalizeDir(dir), Type: beam.EncodedType{T: t}}, grouped)
}

// Clear removes all files previously written under dir, including nested
// partition directories, preparing the location for an overwriting Write. A
// location that does not exist is not an error.
func Clear(ctx context.Context, dir string) error {
	filesystem.ValidateScheme(dir)
	dir = normalizeDir(dir)

	fs, err := filesystem.New(ctx, dir)
	if err != nil {
		return err
	}
	defer fs.Close()

	remover, ok := fs.(filesystem.Remover)
	if !ok {
		return fmt.Errorf("parquetio: filesystem for %v does not support removal", dir)
	}

	// Deepest entries first, so directory entries surfaced by the local
	// filesystem are empty by the time they are removed.
	for depth := maxPartitionDepth; depth >= 0; depth-- {
		glob := dir + strings.Repeat("*/", depth) + "*"
		files, err := fs.List(ctx, glob)
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := remover.Remove(ctx, f); err != nil {
				return fmt.Errorf("parquetio: clearing %v: %w", f, err)
			}
		}
	}
	return nil
}

func normalizeDir(dir string) string {
	return strings.TrimSuffix(dir, "/") + "/"
}

// partitionKeyFn keys each element by its partition subpath, e.g.
// "year=2018/artist_id=AR123/". Unpartitioned writes key everything by "".
type partitionKeyFn struct {
	Type    beam.EncodedType
	Columns []string `json:"columns"`

	indices []int
}

func (f *partitionKeyFn) Setup() error {
	f.indices = f.indices[:0]
	for _, name := range f.Columns {
		i := structx.FieldIndexByTag(f.Type.T, "json", name)
		if i < 0 {
			return fmt.Errorf("parquetio: type %v has no column %q", f.Type.T, name)
		}
		f.indices = append(f.indices, i)
	}
	return nil
}

func (f *partitionKeyFn) ProcessElement(val beam.X) (string, beam.X) {
	if len(f.indices) == 0 {
		return "", val
	}
	rv := reflect.ValueOf(val)
	var sb strings.Builder
	for i, name := range f.Columns {
		fmt.Fprintf(&sb, "%s=%v/", name, rv.Field(f.indices[i]).Interface())
	}
	return sb.String(), val
}

// writeFn writes one partition's rows to a single parquet file.
type writeFn struct {
	Type beam.EncodedType
	Dir  string `json:"dir"`
}

func (a *writeFn) ProcessElement(ctx context.Context, subdir string, iter func(*beam.X) bool) error {
	filename := a.Dir + subdir + shardName

	fs, err := filesystem.New(ctx, filename)
	if err != nil {
		return err
	}
	defer fs.Close()

	fd, err := fs.OpenWrite(ctx, filename)
	if err != nil {
		return err
	}
	defer fd.Close()

	pw, err := writer.NewParquetWriterFromWriter(fd, reflect.New(a.Type.T).Interface(), 4)
	if err != nil {
		return err
	}

	var val beam.X
	for iter(&val) {
		if err := pw.Write(val); err != nil {
			return err
		}
	}
	return pw.WriteStop()
}
