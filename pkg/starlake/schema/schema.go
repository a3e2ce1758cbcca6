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

// Package schema defines the raw record types read from the data lake and the
// star-schema row types written back to it.
//
// Raw types carry json tags matching the field spellings in the source files.
// Table row types carry parquet tags for the columnar writer and json tags
// naming the output columns; partition columns are referenced by their json
// name.
package schema

import (
	"reflect"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
)

func init() {
	beam.RegisterType(reflect.TypeOf((*SongRecord)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*LogEvent)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*Song)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*Artist)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*User)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*TimeRow)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*Songplay)(nil)).Elem())
}

// SongRecord is one raw song-catalog record, one JSON object per line.
type SongRecord struct {
	NumSongs        int64   `json:"num_songs"`
	ArtistID        string  `json:"artist_id"`
	ArtistLatitude  float64 `json:"artist_latitude"`
	ArtistLongitude float64 `json:"artist_longitude"`
	ArtistLocation  string  `json:"artist_location"`
	ArtistName      string  `json:"artist_name"`
	SongID          string  `json:"song_id"`
	Title           string  `json:"title"`
	Duration        float64 `json:"duration"`
	Year            int32   `json:"year"`
}

// LogEvent is one raw play-event record. All source fields are kept so that
// duplicate removal compares whole records, not a projection.
type LogEvent struct {
	Artist        string  `json:"artist"`
	Auth          string  `json:"auth"`
	FirstName     string  `json:"firstName"`
	Gender        string  `json:"gender"`
	ItemInSession int64   `json:"itemInSession"`
	LastName      string  `json:"lastName"`
	Length        float64 `json:"length"`
	Level         string  `json:"level"`
	Location      string  `json:"location"`
	Method        string  `json:"method"`
	Page          string  `json:"page"`
	Registration  float64 `json:"registration"`
	SessionID     int64   `json:"sessionId"`
	Song          string  `json:"song"`
	Status        int64   `json:"status"`
	TS            int64   `json:"ts"`
	UserAgent     string  `json:"userAgent"`
	UserID        string  `json:"userId"`
}

// Song is a row of the songs dimension table, partitioned by (year, artist_id).
type Song struct {
	SongID   string  `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"song_id"`
	Title    string  `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8" json:"title"`
	ArtistID string  `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"artist_id"`
	Year     int32   `parquet:"name=year, type=INT32" json:"year"`
	Duration float64 `parquet:"name=duration, type=DOUBLE" json:"duration"`
}

// Artist is a row of the artists dimension table.
type Artist struct {
	ArtistID  string  `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"artist_id"`
	Name      string  `parquet:"name=artist_name, type=BYTE_ARRAY, convertedtype=UTF8" json:"artist_name"`
	Location  string  `parquet:"name=artist_location, type=BYTE_ARRAY, convertedtype=UTF8" json:"artist_location"`
	Latitude  float64 `parquet:"name=artist_latitude, type=DOUBLE" json:"artist_latitude"`
	Longitude float64 `parquet:"name=artist_longitude, type=DOUBLE" json:"artist_longitude"`
}

// User is a row of the users dimension table. Level reflects the user's most
// recent subscription tier.
type User struct {
	UserID    string `parquet:"name=userId, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"userId"`
	FirstName string `parquet:"name=firstName, type=BYTE_ARRAY, convertedtype=UTF8" json:"firstName"`
	LastName  string `parquet:"name=lastName, type=BYTE_ARRAY, convertedtype=UTF8" json:"lastName"`
	Gender    string `parquet:"name=gender, type=BYTE_ARRAY, convertedtype=UTF8" json:"gender"`
	Level     string `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8" json:"level"`
}

// TimeRow is a row of the time dimension table, one per distinct start_time,
// partitioned by (year, month). StartTime is epoch milliseconds; week and
// weekday are ISO 8601 (Monday=1).
type TimeRow struct {
	StartTime int64 `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MILLIS" json:"start_time"`
	Hour      int32 `parquet:"name=hour, type=INT32" json:"hour"`
	Day       int32 `parquet:"name=day, type=INT32" json:"day"`
	Week      int32 `parquet:"name=week, type=INT32" json:"week"`
	Month     int32 `parquet:"name=month, type=INT32" json:"month"`
	Year      int32 `parquet:"name=year, type=INT32" json:"year"`
	Weekday   int32 `parquet:"name=weekday, type=INT32" json:"weekday"`
}

// Songplay is a row of the songplays fact table, partitioned by (year, month).
// Rows exist only for events whose (artist, song, length) matched a catalog
// record exactly.
type Songplay struct {
	StartTime int64  `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MILLIS" json:"start_time"`
	UserID    string `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"user_id"`
	Level     string `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8" json:"level"`
	SongID    string `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"song_id"`
	ArtistID  string `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" json:"artist_id"`
	SessionID int64  `parquet:"name=session_id, type=INT64" json:"session_id"`
	Location  string `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8" json:"location"`
	UserAgent string `parquet:"name=user_agent, type=BYTE_ARRAY, convertedtype=UTF8" json:"user_agent"`
	Year      int32  `parquet:"name=year, type=INT32" json:"year"`
	Month     int32  `parquet:"name=month, type=INT32" json:"month"`
}
