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
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dolthub/attrval/store/va"
)

// Source types of the ext setters. Their values go through the assign matrix.
var (
	extBigint    = mustNewType(SQLBigint, 0, 0, true)
	extDouble    = mustNewType(SQLDouble, 0, 0, true)
	extText      = mustNewType(SQLLongVarchar, 0, 0, true)
	extWide      = mustNewType(SQLWLongVarchar, 0, 0, true)
	extBinary    = mustNewType(SQLLongVarbinary, 0, 0, true)
	extTimestamp = mustNewType(SQLTimestamp, 0, 0, true)
)

// assignExt assigns a temporary value of type |t| holding |enc| to |v|.
func (v *Value) assignExt(t *Type, enc []byte) (Result, error) {
	src := &Value{env: v.env, typ: t}
	src.setData(enc)
	return Assign(v, src)
}

// SetInt64Ext stores an integer into the value's type.
func (v *Value) SetInt64Ext(x int64) (Result, error) {
	return v.assignExt(extBigint, va.PutInt64(x))
}

// SetFloat64Ext stores a float into the value's type.
func (v *Value) SetFloat64Ext(f float64) (Result, error) {
	return v.assignExt(extDouble, va.PutFloat64(f))
}

// SetDecimalExt stores a decimal into the value's type.
func (v *Value) SetDecimalExt(d decimal.Decimal) (Result, error) {
	enc, err := va.PutDecimal(d)
	if err != nil {
		return Failure, ErrNumericOverflow.New(d, v.typ)
	}
	scale := min(max(-int(d.Exponent()), 0), MaxDecimalLength)
	t, err := NewType(SQLDecimal, MaxDecimalLength, scale, true)
	if err != nil {
		return Failure, err
	}
	return v.assignExt(t, enc)
}

// SetStringExt stores character data into the value's type.
func (v *Value) SetStringExt(s string) (Result, error) {
	return v.assignExt(extText, va.PutChars(s))
}

// SetWideExt stores character data, read as wide characters, into the value's type.
func (v *Value) SetWideExt(s string) (Result, error) {
	enc, err := va.PutWide(s)
	if err != nil {
		return Failure, ErrIllegalValue.New(s, v.typ)
	}
	return v.assignExt(extWide, enc)
}

// SetBytesExt stores binary data into the value's type.
func (v *Value) SetBytesExt(b []byte) (Result, error) {
	return v.assignExt(extBinary, va.PutBytes(b))
}

// SetTimeExt stores a timestamp into the value's type.
func (v *Value) SetTimeExt(t time.Time) (Result, error) {
	return v.assignExt(extTimestamp, va.PutDate(normalizeTime(t, SQLTimestamp)))
}

// SetRawInt32 stores an INTEGER family value. The value must fit the SQL type's range.
func (v *Value) SetRawInt32(x int32) (Result, error) {
	v.expectDatatype(DTInteger)
	return putInt(v, number{kind: numInt, i: int64(x)})
}

// SetRawInt64 stores an INTEGER family or BIGINT value.
func (v *Value) SetRawInt64(x int64) (Result, error) {
	v.expectDatatype(DTInteger, DTBigint)
	return putInt(v, number{kind: numInt, i: x})
}

// SetRawFloat32 stores a REAL value.
func (v *Value) SetRawFloat32(f float32) (Result, error) {
	v.expectDatatype(DTFloat)
	if err := v.adopt(va.PutFloat32(f)); err != nil {
		return Failure, err
	}
	return Success, nil
}

// SetRawFloat64 stores a REAL, FLOAT or DOUBLE value. REAL values may lose precision.
func (v *Value) SetRawFloat64(f float64) (Result, error) {
	v.expectDatatype(DTFloat, DTDouble)
	if v.Datatype() == DTFloat {
		return putFloat32(v, number{kind: numFloat, f: f})
	}
	if err := v.adopt(va.PutFloat64(f)); err != nil {
		return Failure, err
	}
	return Success, nil
}

// SetRawDecimal stores a NUMERIC or DECIMAL value, rounded to the type's scale.
func (v *Value) SetRawDecimal(d decimal.Decimal) (Result, error) {
	v.expectDatatype(DTDecimal)
	return putDecimal(v, d)
}

// SetRawTime stores a DATE family value. Fields the SQL type does not carry are dropped,
// with Truncation when they were set.
func (v *Value) SetRawTime(t time.Time) (Result, error) {
	v.expectDatatype(DTDate)
	norm := normalizeTime(t, v.typ.sqlType)
	res := Success
	switch v.typ.sqlType {
	case SQLDate:
		if h, mi, sec := t.Clock(); h != 0 || mi != 0 || sec != 0 || t.Nanosecond() != 0 {
			res = Truncation
		}
	case SQLTime:
		if y, mo, d := t.Date(); y != 0 || mo != time.January || d != 1 {
			res = Truncation
		}
	}
	if err := v.adopt(va.PutDate(norm)); err != nil {
		return Failure, err
	}
	return res, nil
}

// SetRawChars stores CHAR family data, cut to the declared length.
func (v *Value) SetRawChars(s string) (Result, error) {
	v.expectDatatype(DTChar)
	return putChars(v, s)
}

// SetRawWide stores WCHAR family data, cut to the declared length.
func (v *Value) SetRawWide(s string) (Result, error) {
	v.expectDatatype(DTUnicode)
	units, err := va.EncodeWideUnits(s)
	if err != nil {
		return Failure, ErrIllegalValue.New(s, v.typ)
	}
	return putWideUnits(v, units)
}

// SetRawBytes stores BINARY family data, cut to the declared length.
func (v *Value) SetRawBytes(b []byte) (Result, error) {
	v.expectDatatype(DTBinary)
	return putBytes(v, b)
}

// computed replaces the value with a native only result.
func (v *Value) computed(n *native) error {
	if err := v.releaseData(); err != nil {
		return err
	}
	v.st = stOnlyConverted
	v.cache = n
	return nil
}

// SetComputedInt64 stores an intermediate integer result without encoding it.
func (v *Value) SetComputedInt64(x int64) error {
	v.expectDatatype(DTInteger, DTBigint)
	if v.Datatype() == DTInteger && (x < math.MinInt32 || x > math.MaxInt32) {
		return ErrNumericOutOfRange.New(x, v.typ)
	}
	return v.computed(&native{i64: x})
}

// SetComputedFloat64 stores an intermediate floating point result without encoding it.
func (v *Value) SetComputedFloat64(f float64) error {
	v.expectDatatype(DTFloat, DTDouble)
	if v.Datatype() == DTFloat {
		f = float64(float32(f))
	}
	return v.computed(&native{f64: f})
}

// SetComputedDecimal stores an intermediate decimal result without encoding it.
func (v *Value) SetComputedDecimal(d decimal.Decimal) error {
	v.expectDatatype(DTDecimal)
	return v.computed(&native{dec: d})
}

// TrimChar removes trailing spaces from a character value. With |truncate| the value is
// also cut to the declared length. It returns false if data other than spaces was lost.
func (v *Value) TrimChar(truncate bool) (bool, error) {
	v.expectDatatype(DTChar, DTUnicode)
	if !v.hasEncoding() && v.st != stOnlyConverted {
		return true, nil
	}
	if err := v.Materialize(); err != nil {
		return false, err
	}
	s := strings.TrimRight(v.native().str, " ")
	if truncate {
		res, err := putText(v, s)
		return res == Success, err
	}
	var enc []byte
	var err error
	if v.Datatype() == DTUnicode {
		enc, err = va.PutWide(s)
	} else {
		enc = va.PutChars(s)
	}
	if err != nil {
		return false, err
	}
	return true, v.adopt(enc)
}
