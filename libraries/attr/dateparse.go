// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package attr

import (
	"strings"
	"time"

	"github.com/dolthub/attrval/libraries/utils/config"
)

// Built in layouts, tried after the configured ones. We are more permissive than what
// is documented.
var (
	dateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"2006.01.02",
	}

	timeLayouts = []string{
		"15:04:05.999999999",
		"15:04",
	}

	timestampLayouts = []string{
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05Z07:00",
		"2006/01/02 15:04:05.999999999",
		"2006/01/02T15:04:05",
		"2006.01.02 15:04:05.999999999",
		"2006.01.02T15:04:05",
	}
)

const (
	dateDisplayLayout      = "2006-01-02"
	timeDisplayLayout      = "15:04:05"
	timestampDisplayLayout = "2006-01-02 15:04:05.999999999"
)

func layoutsFor(st SQLType, s *config.Settings) (configured, builtin []string) {
	switch st {
	case SQLDate:
		return s.DateFormats, dateLayouts
	case SQLTime:
		return s.TimeFormats, timeLayouts
	}
	return s.TimestampFormats, timestampLayouts
}

// parseDateText parses |text| as a value of the DATE family. The subtype |hint| is tried
// first; the other subtypes follow. The returned SQL type is the subtype whose layout
// matched, and the time is normalized for that subtype.
func parseDateText(text string, hint SQLType, s *config.Settings) (time.Time, SQLType, error) {
	text = strings.TrimSpace(text)
	order := []SQLType{hint}
	for _, st := range []SQLType{SQLTimestamp, SQLDate, SQLTime} {
		if st != hint {
			order = append(order, st)
		}
	}

	// configured layouts win over every built in layout
	for _, st := range order {
		configured, _ := layoutsFor(st, s)
		if t, ok := tryLayouts(configured, text); ok {
			return normalizeTime(t, st), st, nil
		}
	}
	for _, st := range order {
		_, builtin := layoutsFor(st, s)
		if t, ok := tryLayouts(builtin, text); ok {
			return normalizeTime(t, st), st, nil
		}
	}
	return time.Time{}, hint, ErrIllegalValue.New(text, hint)
}

func tryLayouts(layouts []string, text string) (time.Time, bool) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeTime clears the fields a DATE family subtype does not carry. DATE keeps the
// calendar fields, TIME keeps the clock fields on day 0000-01-01.
func normalizeTime(t time.Time, st SQLType) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	switch st {
	case SQLDate:
		return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	case SQLTime:
		return time.Date(0, time.January, 1, h, mi, s, t.Nanosecond(), time.UTC)
	}
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)
}

func formatTime(t time.Time, st SQLType) string {
	switch st {
	case SQLDate:
		return t.Format(dateDisplayLayout)
	case SQLTime:
		return t.Format(timeDisplayLayout)
	}
	return t.Format(timestampDisplayLayout)
}
