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

package va

import (
	"encoding/binary"
	"math"
	"time"
)

// DateSize is the payload width of the DATE family:
// year(2) month(1) day(1) hour(1) minute(1) second(1) nanos(4)
const DateSize = 11

// PutDate encodes the wall clock fields of |t|. The location of |t| is ignored.
func PutDate(t time.Time) []byte {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	v := make([]byte, 1+DateSize)
	v[0] = MarkerValue
	binary.BigEndian.PutUint16(v[1:3], uint16(int16(clampYear(y)))^0x8000)
	v[3] = byte(mo)
	v[4] = byte(d)
	v[5] = byte(h)
	v[6] = byte(mi)
	v[7] = byte(s)
	binary.BigEndian.PutUint32(v[8:], uint32(t.Nanosecond()))
	return v
}

// Date decodes a value written by PutDate into a UTC time.
func Date(v []byte) (time.Time, error) {
	p, err := payload("date", v)
	if err != nil {
		return time.Time{}, err
	}
	if len(p) != DateSize {
		return time.Time{}, ErrMalformed.New("date", "bad length")
	}
	y := int(int16(binary.BigEndian.Uint16(p[0:2]) ^ 0x8000))
	mo, d, h, mi, s := p[2], p[3], p[4], p[5], p[6]
	ns := binary.BigEndian.Uint32(p[7:])
	if mo < 1 || mo > 12 || d < 1 || d > 31 || h > 23 || mi > 59 || s > 60 || ns > 999999999 {
		return time.Time{}, ErrMalformed.New("date", "field out of range")
	}
	return time.Date(y, time.Month(mo), int(d), int(h), int(mi), int(s), int(ns), time.UTC), nil
}

func clampYear(y int) int {
	if y > math.MaxInt16 {
		return math.MaxInt16
	}
	if y < math.MinInt16 {
		return math.MinInt16
	}
	return y
}
