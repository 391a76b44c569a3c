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

package tuplenum

import (
	"bytes"
	"encoding/binary"
	"strconv"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/attrval/store/va"
)

// Size is the width of a TupleNumber in bytes.
const Size = 8

var (
	// ErrOverflow is returned when incrementing the largest TupleNumber.
	ErrOverflow = errors.NewKind("tuple number overflow")
	// ErrInvalid is returned when decoding or parsing a malformed tuple number.
	ErrInvalid = errors.NewKind("invalid tuple number: %v")
)

// TupleNumber is a row or version identifier stored as an 8 byte big endian unsigned integer.
// The zero value is the number zero.
type TupleNumber [Size]byte

// Zero is the smallest TupleNumber.
var Zero TupleNumber

// Max is the largest TupleNumber.
var Max = FromUint64(^uint64(0))

// FromUint64 builds a TupleNumber from |u|.
func FromUint64(u uint64) TupleNumber {
	var tn TupleNumber
	binary.BigEndian.PutUint64(tn[:], u)
	return tn
}

// Uint64 returns the numeric value of |tn|.
func (tn TupleNumber) Uint64() uint64 {
	return binary.BigEndian.Uint64(tn[:])
}

// Inc returns |tn| + 1.
func (tn TupleNumber) Inc() (TupleNumber, error) {
	if tn == Max {
		return tn, ErrOverflow.New()
	}
	return FromUint64(tn.Uint64() + 1), nil
}

// IsZero returns whether |tn| is zero.
func (tn TupleNumber) IsZero() bool {
	return tn == Zero
}

// Compare orders tuple numbers by numeric value.
func Compare(a, b TupleNumber) int {
	return bytes.Compare(a[:], b[:])
}

// Encode returns the persisted form of |tn|. Leading zero bytes are stripped and the
// remaining length is stored first, so encodings order the same way as the numbers.
func (tn TupleNumber) Encode() []byte {
	return va.PutUint64Stripped(tn.Uint64())
}

// Decode parses a value written by Encode.
func Decode(v []byte) (TupleNumber, error) {
	if va.IsNull(v) {
		return Zero, ErrInvalid.New("null")
	}
	u, err := va.Uint64Stripped(v)
	if err != nil {
		return Zero, ErrInvalid.New(err)
	}
	return FromUint64(u), nil
}

// Parse reads a tuple number from its decimal text form.
func Parse(s string) (TupleNumber, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Zero, ErrInvalid.New(s)
	}
	return FromUint64(u), nil
}

func (tn TupleNumber) String() string {
	return strconv.FormatUint(tn.Uint64(), 10)
}
