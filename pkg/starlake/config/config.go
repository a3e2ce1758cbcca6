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

// Package config injects object-storage credentials into the process
// environment, where the storage backends pick them up.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Credential variables the s3 backend reads from the environment.
const (
	awsAccessKeyID     = "AWS_ACCESS_KEY_ID"
	awsSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
)

// Load reads an env-style credentials file (KEY=value per line) and sets the
// variables into the process environment. Variables already set in the
// environment win. An empty path is a no-op: credentials are expected to come
// from the ambient environment or an instance role.
func Load(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading credentials from %s: %w", path, err)
	}
	return nil
}

// Verify checks that credentials are present for the storage scheme of the
// given location. Only s3 locations require anything; key-based credentials
// are optional there too (instance roles work), so Verify only rejects the
// half-configured case of an access key without its secret, or vice versa.
func Verify(location string) error {
	if !strings.HasPrefix(location, "s3://") {
		return nil
	}
	_, haveKey := os.LookupEnv(awsAccessKeyID)
	_, haveSecret := os.LookupEnv(awsSecretAccessKey)
	if haveKey != haveSecret {
		return fmt.Errorf("config: %s and %s must be set together for %s", awsAccessKeyID, awsSecretAccessKey, location)
	}
	return nil
}
