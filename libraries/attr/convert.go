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
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"

	"gopkg.in/src-d/go-errors.v1"
)

// convFunc stores the value of |src| into |dst|. On failure |dst| is unchanged.
type convFunc func(dst, src *Value) (Result, error)

type cellKind uint8

const (
	cellIllegal cellKind = iota
	// cellTrivial pairs share one representation; the encoding is copied as is.
	cellTrivial
	cellFunc
)

type cell struct {
	kind cellKind
	fn   convFunc
	// switched cells are legal only while BINARY/CHAR conversion is enabled.
	switched bool
}

type matrix [NumDatatypes][NumDatatypes]cell

// assignMatrix and convertMatrix are indexed [source][destination].
var (
	assignMatrix  matrix
	convertMatrix matrix
)

var binaryCharConversion atomic.Bool

// SetBinaryCharConversion enables or disables BINARY <-> CHAR conversion, in both
// directions and in both matrices.
func SetBinaryCharConversion(enabled bool) {
	binaryCharConversion.Store(enabled)
}

// BinaryCharConversion returns whether BINARY <-> CHAR conversion is enabled.
func BinaryCharConversion() bool {
	return binaryCharConversion.Load()
}

var numericDatatypes = []Datatype{DTInteger, DTFloat, DTDouble, DTDecimal, DTBigint}
var textDatatypes = []Datatype{DTChar, DTUnicode}

func init() {
	binaryCharConversion.Store(true)

	fn := func(f convFunc) cell { return cell{kind: cellFunc, fn: f} }
	switched := func(f convFunc) cell { return cell{kind: cellFunc, fn: f, switched: true} }

	for _, m := range []*matrix{&assignMatrix, &convertMatrix} {
		for _, s := range numericDatatypes {
			for _, d := range numericDatatypes {
				m[s][d] = fn(convNumeric)
			}
			for _, d := range textDatatypes {
				m[s][d] = fn(convNumericToText)
				m[d][s] = fn(convTextToNumeric)
			}
		}
		for _, s := range textDatatypes {
			for _, d := range textDatatypes {
				m[s][d] = fn(convText)
			}
		}
		m[DTFloat][DTFloat] = cell{kind: cellTrivial}
		m[DTDouble][DTDouble] = cell{kind: cellTrivial}
		m[DTBigint][DTBigint] = cell{kind: cellTrivial}
		m[DTDate][DTDate] = fn(convDate)
		m[DTBinary][DTBinary] = fn(convBinary)
		m[DTBinary][DTChar] = switched(convBinaryToText)
		m[DTChar][DTBinary] = switched(convTextToBinary)
	}

	for _, t := range textDatatypes {
		convertMatrix[t][DTDate] = fn(convTextToDate)
		convertMatrix[DTDate][t] = fn(convDateToText)
	}
	convertMatrix[DTBinary][DTUnicode] = switched(convBinaryToText)
	convertMatrix[DTUnicode][DTBinary] = switched(convTextToBinary)
}

func (m *matrix) lookup(src, dst Datatype) cell {
	c := m[src][dst]
	if c.switched && !binaryCharConversion.Load() {
		return cell{}
	}
	return c
}

// Assign stores |src| into |dst| with implicit assignment rules, as for INSERT, UPDATE or
// parameter binding. A NULL or unknown source makes |dst| NULL or unknown.
func Assign(dst, src *Value) (Result, error) {
	return dispatch(&assignMatrix, ErrIllegalAssignment, dst, src)
}

// Convert stores |src| into |dst| with explicit CAST rules, a superset of Assign.
func Convert(dst, src *Value) (Result, error) {
	return dispatch(&convertMatrix, ErrIllegalConversion, dst, src)
}

func dispatch(m *matrix, illegal *errors.Kind, dst, src *Value) (Result, error) {
	switch src.st {
	case stNull, stUnknown:
		if err := dst.releaseData(); err != nil {
			return Failure, err
		}
		dst.st = src.st
		dst.literal = false
		return Success, nil
	case stMin, stMax:
		if err := dst.releaseData(); err != nil {
			return Failure, err
		}
		dst.st = src.st
		return Success, nil
	}
	if src.desc || src.collKey {
		panic(fmt.Sprintf("conversion of key encoded %s value", src.typ))
	}

	c := m.lookup(src.Datatype(), dst.Datatype())
	var res Result
	var err error
	switch c.kind {
	case cellIllegal:
		return Failure, illegal.New(src.typ, dst.typ)
	case cellTrivial:
		res, err = convTrivial(dst, src)
	case cellFunc:
		res, err = c.fn(dst, src)
	}
	if err != nil {
		if ErrIllegalValue.Is(err) || errDateTimeClash.Is(err) {
			err = illegal.Wrap(err, src.typ, dst.typ)
		}
		return Failure, err
	}
	dst.literal = false
	return res, nil
}

func convTrivial(dst, src *Value) (Result, error) {
	if err := dst.share(src.VA()); err != nil {
		return Failure, err
	}
	if src.cache != nil {
		c := *src.cache
		dst.cache = &c
	}
	return Success, nil
}

func convNumeric(dst, src *Value) (Result, error) {
	return putNumber(dst, srcNumber(src))
}

func convNumericToText(dst, src *Value) (Result, error) {
	return putExactText(dst, src.displayText(), ErrNumericOverflow)
}

func convTextToNumeric(dst, src *Value) (Result, error) {
	s, err := srcText(src)
	if err != nil {
		return Failure, err
	}
	n, err := parseNumber(s, dst.Datatype())
	if err != nil {
		return Failure, err
	}
	return putNumber(dst, n)
}

// shareBlob copies a BLOB reference into a long value of the same datatype, which can
// hold the whole content.
func shareBlob(dst, src *Value) (bool, error) {
	if !src.IsBlob() || src.Datatype() != dst.Datatype() || !dst.typ.isLong() {
		return false, nil
	}
	return true, dst.share(src.data)
}

func convText(dst, src *Value) (Result, error) {
	if ok, err := shareBlob(dst, src); ok || err != nil {
		if err != nil {
			return Failure, err
		}
		return Success, nil
	}
	s, err := srcText(src)
	if err != nil {
		return Failure, err
	}
	res, err := putText(dst, s)
	if err == nil && src.Datatype() != dst.Datatype() {
		dst.charsetConverted = true
	}
	return res, err
}

func convBinary(dst, src *Value) (Result, error) {
	if ok, err := shareBlob(dst, src); ok || err != nil {
		if err != nil {
			return Failure, err
		}
		return Success, nil
	}
	b, err := srcData(src)
	if err != nil {
		return Failure, err
	}
	return putBytes(dst, b)
}

func convDate(dst, src *Value) (Result, error) {
	return putTime(dst, src.Time(), src.typ.sqlType)
}

func convTextToDate(dst, src *Value) (Result, error) {
	s, err := srcText(src)
	if err != nil {
		return Failure, err
	}
	t, from, err := parseDateText(s, dst.typ.sqlType, dst.env.settings())
	if err != nil {
		return Failure, err
	}
	return putTime(dst, t, from)
}

func convDateToText(dst, src *Value) (Result, error) {
	return putExactText(dst, src.displayText(), ErrValueTooLong)
}

// convBinaryToText writes two upper case hex digits per byte.
func convBinaryToText(dst, src *Value) (Result, error) {
	b, err := srcData(src)
	if err != nil {
		return Failure, err
	}
	return putText(dst, strings.ToUpper(hex.EncodeToString(b)))
}

func convTextToBinary(dst, src *Value) (Result, error) {
	s, err := srcText(src)
	if err != nil {
		return Failure, err
	}
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Failure, ErrIllegalValue.New(s, dst.typ)
	}
	return putBytes(dst, b)
}

// dateTimeClash returns whether two SQL types are the TIME and DATE pair, which never
// convert or compare.
func dateTimeClash(a, b SQLType) bool {
	return (a == SQLTime && b == SQLDate) || (a == SQLDate && b == SQLTime)
}

func positionPossible(m *matrix, dst, src *Type) bool {
	if m.lookup(src.Datatype(), dst.Datatype()).kind == cellIllegal {
		return false
	}
	return !dateTimeClash(src.sqlType, dst.sqlType)
}

// AssignPositionPossible returns whether values of |src| can be assigned to |dst|.
func AssignPositionPossible(dst, src *Type) bool {
	return positionPossible(&assignMatrix, dst, src)
}

// ConvertPositionPossible returns whether values of |src| can be converted to |dst|.
func ConvertPositionPossible(dst, src *Type) bool {
	return positionPossible(&convertMatrix, dst, src)
}

// CanBeConvertedTo returns every SQL type values of |src| can be converted to.
func CanBeConvertedTo(src SQLType) []SQLType {
	var out []SQLType
	for _, dst := range AllSQLTypes() {
		if convertMatrix.lookup(src.Datatype(), dst.Datatype()).kind == cellIllegal {
			continue
		}
		if dateTimeClash(src, dst) {
			continue
		}
		out = append(out, dst)
	}
	return out
}
