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
)

const (
	// Float32Size is the payload width of a FLOAT.
	Float32Size = 4
	// Float64Size is the payload width of a DOUBLE.
	Float64Size = 8
)

// PutFloat32 encodes |f| so that unsigned byte order matches numeric order.
func PutFloat32(f float32) []byte {
	b := math.Float32bits(f)
	if b&(1<<31) != 0 {
		b = ^b
	} else {
		b |= 1 << 31
	}
	v := make([]byte, 1+Float32Size)
	v[0] = MarkerValue
	binary.BigEndian.PutUint32(v[1:], b)
	return v
}

// Float32 decodes a value written by PutFloat32.
func Float32(v []byte) (float32, error) {
	p, err := payload("float", v)
	if err != nil {
		return 0, err
	}
	if len(p) != Float32Size {
		return 0, ErrMalformed.New("float", "bad length")
	}
	b := binary.BigEndian.Uint32(p)
	if b&(1<<31) != 0 {
		b &^= 1 << 31
	} else {
		b = ^b
	}
	return math.Float32frombits(b), nil
}

// PutFloat64 encodes |f| so that unsigned byte order matches numeric order.
func PutFloat64(f float64) []byte {
	b := math.Float64bits(f)
	if b&(1<<63) != 0 {
		b = ^b
	} else {
		b |= 1 << 63
	}
	v := make([]byte, 1+Float64Size)
	v[0] = MarkerValue
	binary.BigEndian.PutUint64(v[1:], b)
	return v
}

// Float64 decodes a value written by PutFloat64.
func Float64(v []byte) (float64, error) {
	p, err := payload("double", v)
	if err != nil {
		return 0, err
	}
	if len(p) != Float64Size {
		return 0, ErrMalformed.New("double", "bad length")
	}
	b := binary.BigEndian.Uint64(p)
	if b&(1<<63) != 0 {
		b &^= 1 << 63
	} else {
		b = ^b
	}
	return math.Float64frombits(b), nil
}
