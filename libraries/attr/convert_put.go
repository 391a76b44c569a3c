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
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/attrval/store/va"
)

// errDateTimeClash is reported by DATE family conversions between TIME and DATE. Dispatch
// reports it as an illegal assignment or conversion.
var errDateTimeClash = errors.NewKind("%s cannot be stored as %s")

// portableFloatLimit is the largest magnitude a float is converted to a fixed point type from.
const portableFloatLimit = 1e38

type numKind uint8

const (
	numInt numKind = iota
	numFloat
	numDecimal
)

// number is a numeric value read from a source value or parsed from text.
type number struct {
	kind numKind
	i    int64
	f    float64
	d    decimal.Decimal
	// single marks a float read from a REAL, so it widens without noise digits.
	single bool
}

func (n number) String() string {
	switch n.kind {
	case numInt:
		return strconv.FormatInt(n.i, 10)
	case numFloat:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return n.d.String()
}

// srcNumber reads a numeric value.
func srcNumber(src *Value) number {
	n := src.native()
	switch src.Datatype() {
	case DTInteger, DTBigint:
		return number{kind: numInt, i: n.i64}
	case DTFloat:
		return number{kind: numFloat, f: n.f64, single: true}
	case DTDouble:
		return number{kind: numFloat, f: n.f64}
	case DTDecimal:
		return number{kind: numDecimal, d: n.dec}
	}
	panic("not a numeric value: " + src.typ.String())
}

// parseNumber parses the whole of |text|, ignoring surrounding spaces, for storing into a
// value of datatype |dt|.
func parseNumber(text string, dt Datatype) (number, error) {
	s := strings.TrimSpace(text)
	if dt == DTFloat || dt == DTDouble {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				return number{}, ErrNumericOverflow.New(s, dt)
			}
			return number{}, ErrIllegalValue.New(text, dt)
		}
		return number{kind: numFloat, f: f}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return number{}, ErrIllegalValue.New(text, dt)
	}
	return number{kind: numDecimal, d: d}, nil
}

func checkFixedPointSource(n number, dst *Value) error {
	if n.kind == numFloat && (math.IsNaN(n.f) || math.IsInf(n.f, 0) || math.Abs(n.f) > portableFloatLimit) {
		return ErrNumericOverflow.New(n, dst.typ)
	}
	return nil
}

// putNumber stores a numeric value into a numeric or character value.
func putNumber(dst *Value, n number) (Result, error) {
	switch dst.Datatype() {
	case DTInteger, DTBigint:
		return putInt(dst, n)
	case DTFloat:
		return putFloat32(dst, n)
	case DTDouble:
		return putFloat64(dst, n)
	case DTDecimal:
		if err := checkFixedPointSource(n, dst); err != nil {
			return Failure, err
		}
		return putDecimal(dst, toDecimal(n))
	}
	panic("not a numeric value: " + dst.typ.String())
}

func toDecimal(n number) decimal.Decimal {
	switch n.kind {
	case numInt:
		return decimal.NewFromInt(n.i)
	case numFloat:
		if n.single {
			return decimal.NewFromFloat32(float32(n.f))
		}
		return decimal.NewFromFloat(n.f)
	}
	return n.d
}

var (
	minInt64Dec = decimal.NewFromInt(math.MinInt64)
	maxInt64Dec = decimal.NewFromInt(math.MaxInt64)
)

func putInt(dst *Value, n number) (Result, error) {
	if err := checkFixedPointSource(n, dst); err != nil {
		return Failure, err
	}
	res := Success
	var x int64
	switch n.kind {
	case numInt:
		x = n.i
	case numFloat:
		r := math.Round(n.f)
		if r < math.MinInt64 || r >= math.MaxInt64 {
			return Failure, ErrNumericOutOfRange.New(n, dst.typ)
		}
		if r != n.f {
			res = Truncation
		}
		x = int64(r)
	case numDecimal:
		r := n.d.Round(0)
		if r.LessThan(minInt64Dec) || r.GreaterThan(maxInt64Dec) {
			return Failure, ErrNumericOutOfRange.New(n, dst.typ)
		}
		if !r.Equal(n.d) {
			res = Truncation
		}
		x = r.IntPart()
	}

	info := dst.typ.sqlType.info()
	if x < info.minInt || x > info.maxInt {
		return Failure, ErrNumericOutOfRange.New(n, dst.typ)
	}
	var enc []byte
	if dst.Datatype() == DTInteger {
		enc = va.PutInt32(int32(x))
	} else {
		enc = va.PutInt64(x)
	}
	if err := dst.adopt(enc); err != nil {
		return Failure, err
	}
	return res, nil
}

func putFloat32(dst *Value, n number) (Result, error) {
	var wide float64
	switch n.kind {
	case numInt:
		wide = float64(n.i)
	case numFloat:
		wide = n.f
	case numDecimal:
		wide = n.d.InexactFloat64()
	}
	if !math.IsInf(wide, 0) && math.Abs(wide) > math.MaxFloat32 {
		return Failure, ErrNumericOutOfRange.New(n, dst.typ)
	}
	f := float32(wide)

	exact := true
	switch n.kind {
	case numInt:
		exact = decimal.NewFromFloat32(f).Equal(decimal.NewFromInt(n.i))
	case numFloat:
		exact = float64(f) == n.f || math.IsNaN(n.f)
	case numDecimal:
		exact = decimal.NewFromFloat32(f).Equal(n.d)
	}
	if err := dst.adopt(va.PutFloat32(f)); err != nil {
		return Failure, err
	}
	if !exact {
		return Truncation, nil
	}
	return Success, nil
}

func putFloat64(dst *Value, n number) (Result, error) {
	var f float64
	exact := true
	switch n.kind {
	case numInt:
		f = float64(n.i)
		exact = decimal.NewFromFloat(f).Equal(decimal.NewFromInt(n.i))
	case numFloat:
		f = n.f
	case numDecimal:
		f = n.d.InexactFloat64()
		exact = decimal.NewFromFloat(f).Equal(n.d)
	}
	if err := dst.adopt(va.PutFloat64(f)); err != nil {
		return Failure, err
	}
	if !exact {
		return Truncation, nil
	}
	return Success, nil
}

// putDecimal rounds |d| to the scale of |dst|. Integer digits beyond length-scale overflow.
func putDecimal(dst *Value, d decimal.Decimal) (Result, error) {
	length, scale := dst.typ.length, dst.typ.scale
	r := d.Round(int32(scale))
	if r.Abs().Cmp(decimal.New(1, int32(length-scale))) >= 0 {
		return Failure, ErrNumericOverflow.New(d, dst.typ)
	}
	enc, err := va.PutDecimal(r)
	if err != nil {
		return Failure, ErrNumericOverflow.New(d, dst.typ)
	}
	if err := dst.adopt(enc); err != nil {
		return Failure, err
	}
	if !r.Equal(d) {
		return Truncation, nil
	}
	return Success, nil
}

// fitsText returns whether |s| fits the declared length of a character value without loss.
func fitsText(dst *Value, s string) bool {
	if dst.typ.isLong() {
		return true
	}
	if dst.Datatype() == DTUnicode {
		n, err := va.WideLen(s)
		return err == nil && n <= dst.typ.length
	}
	return len(s) <= dst.typ.length
}

// putExactText stores text that must not be truncated, e.g. a formatted number.
func putExactText(dst *Value, s string, tooLong *errors.Kind) (Result, error) {
	if !fitsText(dst, s) {
		return Failure, tooLong.New(s, dst.typ)
	}
	return putText(dst, s)
}

// putText stores character data into a CHAR or UNICODE value.
func putText(dst *Value, s string) (Result, error) {
	if dst.Datatype() == DTUnicode {
		units, err := va.EncodeWideUnits(s)
		if err != nil {
			return Failure, ErrIllegalValue.New(s, dst.typ)
		}
		return putWideUnits(dst, units)
	}
	return putChars(dst, s)
}

// significant returns whether truncated text carried more than trailing spaces.
func significant(lost string) bool {
	return strings.TrimRight(lost, " ") != ""
}

// putChars stores |s|, cut to the declared length at a character boundary.
func putChars(dst *Value, s string) (Result, error) {
	res := Success
	if !dst.typ.isLong() && len(s) > dst.typ.length {
		cut := dst.typ.length
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if significant(s[cut:]) {
			res = Truncation
		}
		s = s[:cut]
	}
	if err := dst.adopt(va.PutChars(s)); err != nil {
		return Failure, err
	}
	return res, nil
}

// putWideUnits stores UTF-16BE units, cut to the declared length without splitting a
// surrogate pair.
func putWideUnits(dst *Value, units []byte) (Result, error) {
	res := Success
	if limit := dst.typ.length * va.WideUnitSize; !dst.typ.isLong() && len(units) > limit {
		cut := limit
		if hi := uint16(units[cut-2])<<8 | uint16(units[cut-1]); hi >= 0xD800 && hi < 0xDC00 {
			cut -= va.WideUnitSize
		}
		lost, err := va.DecodeWideUnits(units[cut:])
		if err != nil || significant(lost) {
			res = Truncation
		}
		units = units[:cut]
	}
	if err := dst.adopt(va.PutWideUnits(units)); err != nil {
		return Failure, err
	}
	return res, nil
}

// putBytes stores binary data cut to the declared length.
func putBytes(dst *Value, b []byte) (Result, error) {
	res := Success
	if !dst.typ.isLong() && len(b) > dst.typ.length {
		b = b[:dst.typ.length]
		res = Truncation
	}
	if err := dst.adopt(va.PutBytes(b)); err != nil {
		return Failure, err
	}
	return res, nil
}

var dayZero = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)

// putTime stores |t|, read from a value of DATE family subtype |from|, into a DATE
// family value.
func putTime(dst *Value, t time.Time, from SQLType) (Result, error) {
	to := dst.typ.sqlType
	if (from == SQLTime && to == SQLDate) || (from == SQLDate && to == SQLTime) {
		return Failure, errDateTimeClash.New(from, to)
	}

	res := Success
	switch {
	case from == SQLTime && to == SQLTimestamp:
		y, mo, d := dst.env.now().Date()
		t = time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	case from == SQLTimestamp && to == SQLDate:
		if h, mi, s := t.Clock(); h != 0 || mi != 0 || s != 0 || t.Nanosecond() != 0 {
			res = Truncation
		}
	case from == SQLTimestamp && to == SQLTime:
		y, mo, d := t.Date()
		if zy, zmo, zd := dayZero.Date(); y != zy || mo != zmo || d != zd {
			res = Truncation
		}
	}

	if err := dst.adopt(va.PutDate(normalizeTime(t, to))); err != nil {
		return Failure, err
	}
	return res, nil
}

// srcData returns the data portion of a CHAR, UNICODE or BINARY value, loading a BLOB
// within the load limit of the value's environment.
func srcData(src *Value) ([]byte, error) {
	if src.IsBlob() {
		return src.env.hooks().Load(src.data, src.env.loadLimit())
	}
	if src.st == stOnlyConverted {
		enc := src.VA()
		return dataOf(src.Datatype(), enc)
	}
	return dataOf(src.Datatype(), src.data)
}

func dataOf(dt Datatype, enc []byte) ([]byte, error) {
	switch dt {
	case DTUnicode:
		return va.WideUnits(enc)
	case DTBinary:
		return va.Bytes(enc)
	}
	return va.CharData(enc)
}

// srcText returns the text of a CHAR or UNICODE value, loading a BLOB when needed.
func srcText(src *Value) (string, error) {
	data, err := srcData(src)
	if err != nil {
		return "", err
	}
	if src.Datatype() == DTUnicode {
		return va.DecodeWideUnits(data)
	}
	return string(data), nil
}
