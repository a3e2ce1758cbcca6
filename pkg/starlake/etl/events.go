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

package etl

import (
	"reflect"
	"time"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/transforms/filter"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/transforms/top"
	"github.com/sparkify/starlake/pkg/starlake/io/jsonio"
	"github.com/sparkify/starlake/pkg/starlake/io/parquetio"
	"github.com/sparkify/starlake/pkg/starlake/schema"
)

func init() {
	register.Function1x1(isNextSong)
	register.Function1x1(anonymousEvent)
	register.Function1x2(userKeyFn)
	register.Function2x1(olderEvent)
	register.Function2x1(userRowFn)
	register.Function1x1(timeRowFn)
	register.Function1x2(playKeyFn)
	register.Function1x2(catalogKeyFn)
	register.Function4x0(songplayFn)
	register.Iter1[schema.LogEvent]()
	register.Iter1[schema.SongRecord]()
	register.Emitter1[schema.Songplay]()
	beam.RegisterType(reflect.TypeOf((*SongKey)(nil)).Elem())
}

// pageNextSong marks the events that are actual song plays. Only these count
// toward the users, time and songplays tables.
const pageNextSong = "NextSong"

// SongKey joins a play event to the catalog record it played. Equality is
// exact, duration included.
type SongKey struct {
	Artist   string
	Title    string
	Duration float64
}

// ProcessLogData reads the play-event logs and writes the users and time
// dimension tables and the songplays fact table. catalog is the deduplicated
// song-catalog collection produced by ProcessSongData.
func ProcessLogData(s beam.Scope, input, output string, catalog beam.PCollection) {
	s = s.Scope("ProcessLogData")

	events := jsonio.Read(s, input+logDataGlob, reflect.TypeOf(schema.LogEvent{}))
	users, times, songplays := LogTables(s, events, catalog)

	parquetio.Write(s, output+usersPath, users)
	parquetio.Write(s, output+timePath, times,
		parquetio.PartitionBy("year", "month"))
	parquetio.Write(s, output+songplaysPath, songplays,
		parquetio.PartitionBy("year", "month"))
}

// LogTables derives the three event-driven tables from raw log events.
// Whole-row duplicates are removed once, then everything downstream sees only
// song-play events.
func LogTables(s beam.Scope, events, catalog beam.PCollection) (users, times, songplays beam.PCollection) {
	s = s.Scope("LogTables")

	events = filter.Distinct(s, events)
	plays := filter.Include(s, events, isNextSong)

	return UserRows(s, plays), TimeRows(s, plays), SongplayRows(s, plays, catalog)
}

// UserRows produces one users row per userId, carrying the attributes of that
// user's most recent event. The original selected "latest wins" by sorting
// descending and relying on dedup keeping the first occurrence; here it is an
// explicit max-ts aggregation per user. Events without a userId are dropped.
func UserRows(s beam.Scope, plays beam.PCollection) beam.PCollection {
	s = s.Scope("UserRows")

	known := filter.Exclude(s, plays, anonymousEvent)
	keyed := beam.ParDo(s, userKeyFn, known)
	latest := top.LargestPerKey(s, keyed, 1, olderEvent)
	return beam.ParDo(s, userRowFn, latest)
}

// TimeRows produces one time dimension row per distinct event timestamp. The
// derived fields are deterministic in start_time, so whole-row distinctness
// equals distinctness of start_time.
func TimeRows(s beam.Scope, plays beam.PCollection) beam.PCollection {
	s = s.Scope("TimeRows")
	return filter.Distinct(s, beam.ParDo(s, timeRowFn, plays))
}

// SongplayRows joins play events against the catalog on exact
// (artist, song, length) equality and keeps only matches. The original
// expressed this as a left join with a not-null filter on the matched title;
// the net effect is this inner join. Events with no match contribute nothing.
func SongplayRows(s beam.Scope, plays, catalog beam.PCollection) beam.PCollection {
	s = s.Scope("SongplayRows")

	byPlay := beam.ParDo(s, playKeyFn, plays)
	bySong := beam.ParDo(s, catalogKeyFn, catalog)
	joined := beam.CoGroupByKey(s, byPlay, bySong)
	return beam.ParDo(s, songplayFn, joined)
}

// TimeOf decomposes an epoch-millisecond timestamp, interpreted in UTC, into
// a time dimension row.
func TimeOf(ms int64) schema.TimeRow {
	t := time.UnixMilli(ms).UTC()
	_, week := t.ISOWeek()
	weekday := int32(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return schema.TimeRow{
		StartTime: ms,
		Hour:      int32(t.Hour()),
		Day:       int32(t.Day()),
		Week:      int32(week),
		Month:     int32(t.Month()),
		Year:      int32(t.Year()),
		Weekday:   weekday,
	}
}

func isNextSong(e schema.LogEvent) bool {
	return e.Page == pageNextSong
}

func anonymousEvent(e schema.LogEvent) bool {
	return e.UserID == ""
}

func userKeyFn(e schema.LogEvent) (string, schema.LogEvent) {
	return e.UserID, e
}

func olderEvent(a, b schema.LogEvent) bool {
	return a.TS < b.TS
}

func userRowFn(id string, latest []schema.LogEvent) schema.User {
	e := latest[0]
	return schema.User{
		UserID:    id,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Gender:    e.Gender,
		Level:     e.Level,
	}
}

func timeRowFn(e schema.LogEvent) schema.TimeRow {
	return TimeOf(e.TS)
}

func playKeyFn(e schema.LogEvent) (SongKey, schema.LogEvent) {
	return SongKey{Artist: e.Artist, Title: e.Song, Duration: e.Length}, e
}

func catalogKeyFn(r schema.SongRecord) (SongKey, schema.SongRecord) {
	return SongKey{Artist: r.ArtistName, Title: r.Title, Duration: r.Duration}, r
}

// songplayFn emits one fact row per event and matching catalog record. A
// catalog holding several rows under the same key yields one row per match,
// the multiplicity a relational join would produce.
func songplayFn(key SongKey, events func(*schema.LogEvent) bool, songs func(*schema.SongRecord) bool, emit func(schema.Songplay)) {
	var matches []schema.SongRecord
	var r schema.SongRecord
	for songs(&r) {
		matches = append(matches, r)
	}
	if len(matches) == 0 {
		return
	}

	var e schema.LogEvent
	for events(&e) {
		t := TimeOf(e.TS)
		for _, m := range matches {
			emit(schema.Songplay{
				StartTime: e.TS,
				UserID:    e.UserID,
				Level:     e.Level,
				SongID:    m.SongID,
				ArtistID:  m.ArtistID,
				SessionID: e.SessionID,
				Location:  e.Location,
				UserAgent: e.UserAgent,
				Year:      t.Year,
				Month:     t.Month,
			})
		}
	}
}
