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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	const key = "STARLAKE_TEST_ACCESS_KEY"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "dl.cfg")
	if err := os.WriteFile(path, []byte(key+"=abc123\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := os.Getenv(key); got != "abc123" {
		t.Errorf("got %q, want %q", got, "abc123")
	}
}

func TestLoad_EmptyPathIsNoop(t *testing.T) {
	if err := Load(""); err != nil {
		t.Errorf("Load(\"\") = %v, want nil", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "absent.cfg")); err == nil {
		t.Error("Load of missing file did not fail")
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name     string
		location string
		key      string
		secret   string
		wantErr  bool
	}{
		{name: "local path needs nothing", location: "/data/lake/"},
		{name: "s3 with both", location: "s3://bucket/lake/", key: "k", secret: "s"},
		{name: "s3 with neither relies on ambient credentials", location: "s3://bucket/lake/"},
		{name: "s3 with key only", location: "s3://bucket/lake/", key: "k", wantErr: true},
		{name: "s3 with secret only", location: "s3://bucket/lake/", secret: "s", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(awsAccessKeyID, "")
			t.Setenv(awsSecretAccessKey, "")
			os.Unsetenv(awsAccessKeyID)
			os.Unsetenv(awsSecretAccessKey)
			if test.key != "" {
				os.Setenv(awsAccessKeyID, test.key)
			}
			if test.secret != "" {
				os.Setenv(awsSecretAccessKey, test.secret)
			}

			err := Verify(test.location)
			if (err != nil) != test.wantErr {
				t.Errorf("Verify(%q) = %v, wantErr %v", test.location, err, test.wantErr)
			}
		})
	}
}
