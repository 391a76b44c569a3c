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

// Package va implements the canonical encoded form of attribute values. Every encoded
// value starts with a marker byte. Ascending payloads are byte-comparable: for two values
// of the same datatype, an unsigned byte compare of their encodings orders them the same
// way as their native values. NULL is encoded as a single MarkerNull byte and sorts after
// every non-NULL encoding.
package va

import (
	"bytes"
	"encoding/binary"

	"gopkg.in/src-d/go-errors.v1"
)

const (
	// MarkerValue starts every ascending non-NULL encoding.
	MarkerValue byte = 0x01
	// MarkerBlob starts an out-of-line BLOB reference.
	MarkerBlob byte = 0x02
	// MarkerDesc starts an encoding that went through a bitwise NOT.
	MarkerDesc byte = ^MarkerValue
	// MarkerNull is the whole encoding of NULL.
	MarkerNull byte = 0xFF
)

// ErrMalformed is returned when an encoded value cannot be decoded as the requested datatype.
var ErrMalformed = errors.NewKind("malformed %s encoding: %v")

var nullEnc = []byte{MarkerNull}

// Null returns the encoding of NULL.
func Null() []byte {
	return []byte{MarkerNull}
}

// IsNull returns whether |v| is the NULL encoding.
func IsNull(v []byte) bool {
	return bytes.Equal(v, nullEnc)
}

// IsDescending returns whether |v| carries the descending marker.
func IsDescending(v []byte) bool {
	return len(v) > 0 && v[0] == MarkerDesc
}

// Compare is the unsigned byte-string compare used for key ordering.
func Compare(l, r []byte) int {
	return bytes.Compare(l, r)
}

// Invert applies a bitwise NOT to every byte of |v| in place.
func Invert(v []byte) {
	for i := range v {
		v[i] = ^v[i]
	}
}

// Inverted returns a bitwise-NOT copy of |v| appended to |dst|.
func Inverted(dst, v []byte) []byte {
	for _, b := range v {
		dst = append(dst, ^b)
	}
	return dst
}

// payload returns the bytes following the marker of an ascending value.
func payload(kind string, v []byte) ([]byte, error) {
	if len(v) == 0 {
		return nil, ErrMalformed.New(kind, "empty")
	}
	if v[0] != MarkerValue {
		return nil, ErrMalformed.New(kind, "unexpected marker")
	}
	return v[1:], nil
}

const maxShortLen = 0xFE

// AppendLengthPrefixed appends |v| to |dst| preceded by its length. Lengths below 0xFE take
// one byte, longer values are introduced by 0xFE and a 4 byte big endian length.
func AppendLengthPrefixed(dst, v []byte) []byte {
	if len(v) < maxShortLen {
		dst = append(dst, byte(len(v)))
	} else {
		dst = append(dst, maxShortLen)
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(v)))
	}
	return append(dst, v...)
}

// ReadLengthPrefixed reads one value written by AppendLengthPrefixed, returning the value
// and the remaining bytes. The returned value aliases |buf|.
func ReadLengthPrefixed(buf []byte) (v, rest []byte, err error) {
	if len(buf) == 0 {
		return nil, nil, ErrMalformed.New("length prefix", "empty")
	}
	n := int(buf[0])
	buf = buf[1:]
	if n == maxShortLen {
		if len(buf) < 4 {
			return nil, nil, ErrMalformed.New("length prefix", "short header")
		}
		n = int(binary.BigEndian.Uint32(buf))
		buf = buf[4:]
	}
	if len(buf) < n {
		return nil, nil, ErrMalformed.New("length prefix", "short value")
	}
	return buf[:n], buf[n:], nil
}
