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
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dolthub/attrval/store/va"
)

// decodeNative decodes an ascending, non-BLOB encoding of datatype |dt|.
func decodeNative(dt Datatype, enc []byte) (*native, error) {
	n := &native{}
	var err error
	switch dt {
	case DTChar:
		n.str, err = va.Chars(enc)
	case DTUnicode:
		n.str, err = va.Wide(enc)
	case DTBinary:
		var b []byte
		b, err = va.Bytes(enc)
		n.bin = append([]byte(nil), b...)
	case DTInteger:
		var x int32
		x, err = va.Int32(enc)
		n.i64 = int64(x)
	case DTBigint:
		n.i64, err = va.Int64(enc)
	case DTFloat:
		var f float32
		f, err = va.Float32(enc)
		n.f64 = float64(f)
	case DTDouble:
		n.f64, err = va.Float64(enc)
	case DTDecimal:
		n.dec, err = va.Decimal(enc)
	case DTDate:
		n.tm, err = va.Date(enc)
	default:
		panic(fmt.Sprintf("unknown datatype %d", dt))
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// encodeNative is the inverse of decodeNative.
func encodeNative(dt Datatype, n *native) ([]byte, error) {
	switch dt {
	case DTChar:
		return va.PutChars(n.str), nil
	case DTUnicode:
		return va.PutWide(n.str)
	case DTBinary:
		return va.PutBytes(n.bin), nil
	case DTInteger:
		return va.PutInt32(int32(n.i64)), nil
	case DTBigint:
		return va.PutInt64(n.i64), nil
	case DTFloat:
		return va.PutFloat32(float32(n.f64)), nil
	case DTDouble:
		return va.PutFloat64(n.f64), nil
	case DTDecimal:
		return va.PutDecimal(n.dec)
	case DTDate:
		return va.PutDate(n.tm), nil
	}
	panic(fmt.Sprintf("unknown datatype %d", dt))
}

// native returns the decoded value, filling the cache on first use. The value must be
// readable: not NULL, not a sentinel, not descending and not a BLOB reference.
func (v *Value) native() *native {
	switch {
	case v.st == stOnlyConverted:
		return v.cache
	case !v.hasEncoding():
		panic(fmt.Sprintf("read of %s value in state %d", v.typ, v.st))
	case v.desc:
		panic(fmt.Sprintf("read of descending %s value", v.typ))
	case v.collKey:
		panic(fmt.Sprintf("read of %s collation key", v.typ))
	case va.IsBlob(v.data):
		panic(fmt.Sprintf("read of %s blob reference", v.typ))
	}
	if v.cache == nil {
		n, err := decodeNative(v.Datatype(), v.data)
		if err != nil {
			panic(err)
		}
		v.cache = n
	}
	return v.cache
}

func (v *Value) expectDatatype(dts ...Datatype) {
	dt := v.Datatype()
	for _, d := range dts {
		if d == dt {
			return
		}
	}
	panic(fmt.Sprintf("%s value read as %v", v.typ, dts))
}

// Int32 returns the value of an INTEGER family value.
func (v *Value) Int32() int32 {
	v.expectDatatype(DTInteger)
	return int32(v.native().i64)
}

// Int64 returns the value of an INTEGER or BIGINT value.
func (v *Value) Int64() int64 {
	v.expectDatatype(DTInteger, DTBigint)
	return v.native().i64
}

// Float32 returns the value of a REAL value.
func (v *Value) Float32() float32 {
	v.expectDatatype(DTFloat)
	return float32(v.native().f64)
}

// Float64 returns the value of a REAL, FLOAT or DOUBLE value.
func (v *Value) Float64() float64 {
	v.expectDatatype(DTFloat, DTDouble)
	return v.native().f64
}

// Decimal returns the value of a NUMERIC or DECIMAL value.
func (v *Value) Decimal() decimal.Decimal {
	v.expectDatatype(DTDecimal)
	return v.native().dec
}

// Time returns the value of a DATE, TIME or TIMESTAMP value, in UTC.
func (v *Value) Time() time.Time {
	v.expectDatatype(DTDate)
	return v.native().tm
}

// Chars returns the value of a CHAR family value.
func (v *Value) Chars() string {
	v.expectDatatype(DTChar)
	return v.native().str
}

// Wide returns the value of a WCHAR family value.
func (v *Value) Wide() string {
	v.expectDatatype(DTUnicode)
	return v.native().str
}

// Bytes returns the value of a BINARY family value. The result must not be modified.
func (v *Value) Bytes() []byte {
	v.expectDatatype(DTBinary)
	return v.native().bin
}

// VA returns the encoded form of the value. The result must not be modified. An only
// converted value is encoded on demand.
func (v *Value) VA() []byte {
	switch v.st {
	case stNull, stUnknown:
		return va.Null()
	case stOnlyConverted:
		enc, err := encodeNative(v.Datatype(), v.cache)
		if err != nil {
			panic(err)
		}
		return enc
	case stMin, stMax:
		panic(fmt.Sprintf("encoding of %s range sentinel", v.typ))
	}
	return v.data
}

// String returns a display form of the value.
func (v *Value) String() string {
	switch {
	case v == nil:
		return "<nil>"
	case v.st == stNull:
		return "NULL"
	case v.st == stUnknown:
		return "UNKNOWN"
	case v.st == stMin:
		return "MIN"
	case v.st == stMax:
		return "MAX"
	case v.desc || v.collKey:
		return "0x" + strings.ToUpper(hex.EncodeToString(v.data))
	case v.IsBlob():
		return fmt.Sprintf("BLOB(%s, %d)", v.BlobID(), v.BlobSize())
	}
	return v.displayText()
}

// displayText formats a readable value the way it is converted to character data.
func (v *Value) displayText() string {
	n := v.native()
	switch v.Datatype() {
	case DTChar, DTUnicode:
		return n.str
	case DTBinary:
		return strings.ToUpper(hex.EncodeToString(n.bin))
	case DTInteger, DTBigint:
		return strconv.FormatInt(n.i64, 10)
	case DTFloat:
		return strconv.FormatFloat(n.f64, 'g', -1, 32)
	case DTDouble:
		return strconv.FormatFloat(n.f64, 'g', -1, 64)
	case DTDecimal:
		return n.dec.StringFixed(int32(v.typ.scale))
	case DTDate:
		return formatTime(n.tm, v.typ.sqlType)
	}
	panic(fmt.Sprintf("unknown datatype %d", v.Datatype()))
}
