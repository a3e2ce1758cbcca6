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

// Package jsonio reads files of newline-delimited JSON records into typed
// elements.
package jsonio

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/filesystem"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/textio"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
)

func init() {
	register.DoFn2x1[string, func(beam.X), error](&decodeFn{})
	register.Emitter1[beam.X]()
}

// Read reads all files matching glob and returns a PCollection<elem> of the
// given type, decoding one JSON object per non-empty line. A glob matching no
// files yields an empty collection. A line that fails to decode fails the
// bundle; there is no per-record recovery.
func Read(s beam.Scope, glob string, t reflect.Type) beam.PCollection {
	s = s.Scope("jsonio.Read")
	filesystem.ValidateScheme(glob)
	lines := textio.Read(s, glob)
	return beam.ParDo(s,
		&decodeFn{Type: beam.EncodedType{T: t}},
		lines,
		beam.TypeDefinition{Var: beam.XType, T: t},
	)
}

type decodeFn struct {
	Type beam.EncodedType
}

func (f *decodeFn) ProcessElement(line string, emit func(beam.X)) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	val := reflect.New(f.Type.T)
	if err := json.Unmarshal([]byte(line), val.Interface()); err != nil {
		return fmt.Errorf("jsonio: decoding %v record: %w", f.Type.T, err)
	}
	emit(val.Elem().Interface())
	return nil
}
