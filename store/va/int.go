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
	"math/bits"
)

const (
	int32Offset = uint32(1) << 31
	int64Offset = uint64(1) << 63

	// Int64Size is the payload width of a BIGINT.
	Int64Size = 8
	// Int32DescSize is the payload width of a descending INTEGER.
	Int32DescSize = 4
)

// PutUint64Stripped encodes |u| as MarkerValue, a length byte and the big endian bytes
// of |u| with leading zero bytes removed. Shorter encodings sort before longer ones.
func PutUint64Stripped(u uint64) []byte {
	n := (bits.Len64(u) + 7) / 8
	v := make([]byte, 2+n)
	v[0] = MarkerValue
	v[1] = byte(n)
	for i := 0; i < n; i++ {
		v[2+i] = byte(u >> (8 * uint(n-1-i)))
	}
	return v
}

// Uint64Stripped decodes a value written by PutUint64Stripped.
func Uint64Stripped(v []byte) (uint64, error) {
	p, err := payload("unsigned", v)
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, ErrMalformed.New("unsigned", "missing length")
	}
	n := int(p[0])
	if n > 8 || len(p) != n+1 {
		return 0, ErrMalformed.New("unsigned", "bad length")
	}
	var u uint64
	for _, b := range p[1:] {
		u = u<<8 | uint64(b)
	}
	return u, nil
}

// PutInt32 encodes a 32-bit integer in the sign-offset, leading-zero-stripped form.
func PutInt32(x int32) []byte {
	return PutUint64Stripped(uint64(uint32(x) ^ int32Offset))
}

// Int32 decodes a value written by PutInt32.
func Int32(v []byte) (int32, error) {
	u, err := Uint64Stripped(v)
	if err != nil {
		return 0, err
	}
	if u > 0xFFFFFFFF {
		return 0, ErrMalformed.New("integer", "out of range")
	}
	return int32(uint32(u) ^ int32Offset), nil
}

// PutInt32Desc encodes the descending form of |x|: MarkerDesc followed by the fixed width
// big endian value of NOT(x) + 0x80000000.
func PutInt32Desc(x int32) []byte {
	v := make([]byte, 1+Int32DescSize)
	v[0] = MarkerDesc
	binary.BigEndian.PutUint32(v[1:], uint32(^x)+int32Offset)
	return v
}

// Int32Desc decodes a value written by PutInt32Desc.
func Int32Desc(v []byte) (int32, error) {
	if len(v) != 1+Int32DescSize || v[0] != MarkerDesc {
		return 0, ErrMalformed.New("descending integer", "bad shape")
	}
	return ^int32(binary.BigEndian.Uint32(v[1:]) - int32Offset), nil
}

// PutInt64 encodes a 64-bit integer as two big endian 32-bit halves, the high half sign-offset.
func PutInt64(x int64) []byte {
	v := make([]byte, 1+Int64Size)
	v[0] = MarkerValue
	binary.BigEndian.PutUint64(v[1:], uint64(x)^int64Offset)
	return v
}

// Int64 decodes a value written by PutInt64.
func Int64(v []byte) (int64, error) {
	p, err := payload("bigint", v)
	if err != nil {
		return 0, err
	}
	if len(p) != Int64Size {
		return 0, ErrMalformed.New("bigint", "bad length")
	}
	return int64(binary.BigEndian.Uint64(p) ^ int64Offset), nil
}
