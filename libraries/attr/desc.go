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
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/dolthub/attrval/store/va"
)

// wideDescPad follows the inverted form of a wide value so that it never equals or
// prefixes the WCHAR NULL sentinel.
const wideDescPad = 0xFF

func repeatFF(n int) []byte {
	return bytes.Repeat([]byte{0xFF}, n)
}

// descNullSentinels are the descending forms of NULL. Each starts with 0xFF and orders
// after every descending non-NULL value of its SQL type. These bytes are persisted in
// index keys and must not change.
var descNullSentinels = map[SQLType][]byte{
	SQLChar:      {0xFF, 0xFE},
	SQLVarchar:   {0xFF, 0xFE},
	SQLWChar:     {0xFF, 0xFE, 0xFF},
	SQLWVarchar:  {0xFF, 0xFE, 0xFF},
	SQLBinary:    {0xFF, 0xFD},
	SQLVarbinary: {0xFF, 0xFD},
	SQLInteger:   repeatFF(6),
	SQLSmallint:  repeatFF(6),
	SQLTinyint:   repeatFF(6),
	SQLBit:       repeatFF(6),
	SQLBigint:    repeatFF(10),
	SQLReal:      repeatFF(6),
	SQLFloat:     repeatFF(10),
	SQLDouble:    repeatFF(10),
	SQLDate:      repeatFF(13),
	SQLTime:      repeatFF(13),
	SQLTimestamp: repeatFF(13),
	SQLNumeric:   {0xFF, 0x00},
	SQLDecimal:   {0xFF, 0x00},
}

// DescendingNull returns the descending form of NULL for |st|, false for types that
// cannot be part of a descending key.
func DescendingNull(st SQLType) ([]byte, bool) {
	s, ok := descNullSentinels[st]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), s...), true
}

// descendingForm maps an ascending encoding to one whose byte order is reversed.
func descendingForm(dt Datatype, enc []byte) ([]byte, error) {
	switch dt {
	case DTInteger:
		x, err := va.Int32(enc)
		if err != nil {
			return nil, err
		}
		return va.PutInt32Desc(x), nil
	case DTDecimal:
		d, err := va.Decimal(enc)
		if err != nil {
			return nil, err
		}
		return va.PutDecimal(d.Neg())
	case DTUnicode:
		out := va.Inverted(make([]byte, 0, len(enc)+1), enc)
		return append(out, wideDescPad), nil
	}
	return va.Inverted(nil, enc), nil
}

// ascendingForm is the inverse of descendingForm.
func ascendingForm(dt Datatype, enc []byte) ([]byte, error) {
	switch dt {
	case DTInteger:
		x, err := va.Int32Desc(enc)
		if err != nil {
			return nil, err
		}
		return va.PutInt32(x), nil
	case DTDecimal:
		return descendingForm(dt, enc)
	case DTUnicode:
		if len(enc) == 0 || enc[len(enc)-1] != wideDescPad {
			return nil, va.ErrMalformed.New("descending wide char", "missing pad")
		}
		enc = enc[:len(enc)-1]
	}
	return va.Inverted(nil, enc), nil
}

// ToDescending rewrites the value into its descending key form. NULL becomes the NULL
// sentinel of the SQL type.
func (v *Value) ToDescending() error {
	if v.desc {
		return nil
	}
	switch {
	case v.IsNull():
		s, ok := DescendingNull(v.typ.sqlType)
		if !ok {
			return ErrNoNullSentinel.New(v.typ)
		}
		if err := v.adopt(s); err != nil {
			return err
		}
		v.desc = true
		return nil
	case v.st == stMin || v.st == stMax || v.collKey || v.IsBlob():
		return ErrDescendingUnsupported.New(v.typ)
	}
	if _, ok := descNullSentinels[v.typ.sqlType]; !ok {
		return ErrNoNullSentinel.New(v.typ)
	}

	if err := v.Materialize(); err != nil {
		return err
	}
	enc, err := descendingForm(v.Datatype(), v.VA())
	if err != nil {
		return err
	}
	if err := v.adopt(enc); err != nil {
		return err
	}
	v.desc = true
	return nil
}

// ToAscending reverses ToDescending.
func (v *Value) ToAscending() {
	if !v.desc {
		return
	}
	if s, ok := descNullSentinels[v.typ.sqlType]; ok && bytes.Equal(v.data, s) {
		if err := v.releaseData(); err != nil {
			panic(err)
		}
		return
	}
	if err := v.Materialize(); err != nil {
		panic(err)
	}
	enc, err := ascendingForm(v.Datatype(), v.data)
	if err != nil {
		panic(fmt.Sprintf("malformed descending %s value: %v", v.typ, err))
	}
	if err := v.adopt(enc); err != nil {
		panic(err)
	}
}

// NoEscape is the escape argument for a LIKE pattern without an escape character.
const NoEscape rune = -1

// LikePatternToDescending rewrites a LIKE pattern so that it matches descending values.
// Literal characters are inverted, wildcards stay as they are, and an inverted byte that
// reads as a wildcard or as |newEscape| is escaped with |newEscape|. A terminating
// sentinel is appended. The result cannot be converted back.
func LikePatternToDescending(v *Value, oldEscape, newEscape rune) error {
	dt := v.Datatype()
	if !dt.IsText() {
		return ErrComparisonTypeClash.New(v.typ, "LIKE pattern")
	}
	if v.IsNull() {
		return nil
	}
	if v.desc || v.collKey {
		return ErrDescendingUnsupported.New(v.typ)
	}
	wide := dt == DTUnicode
	if newEscape < 0 || (!wide && newEscape >= utf8.RuneSelf) || (wide && newEscape > 0xFFFF) {
		return ErrIllegalLikeEscapeType.New(string(newEscape))
	}
	if err := v.Materialize(); err != nil {
		return err
	}
	pat := v.native().str

	unit := 1
	if wide {
		unit = va.WideUnitSize
	}
	encodeUnit := func(r rune) []byte {
		if wide {
			return []byte{byte(r >> 8), byte(r)}
		}
		return []byte{byte(r)}
	}
	special := map[string]bool{
		string(encodeUnit(likeAny)):   true,
		string(encodeUnit(likeOne)):   true,
		string(encodeUnit(newEscape)): true,
	}
	escUnit := encodeUnit(newEscape)

	out := []byte{va.MarkerDesc}
	appendLiteral := func(r rune) error {
		var b []byte
		if wide {
			units, err := va.EncodeWideUnits(string(r))
			if err != nil {
				return err
			}
			b = units
		} else {
			b = utf8.AppendRune(nil, r)
		}
		inv := va.Inverted(nil, b)
		for i := 0; i < len(inv); i += unit {
			u := inv[i : i+unit]
			if special[string(u)] {
				out = append(out, escUnit...)
			}
			out = append(out, u...)
		}
		return nil
	}

	runes := []rune(pat)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == oldEscape && oldEscape != NoEscape:
			if i+1 >= len(runes) {
				return ErrIllegalLiteral.New(pat, "LIKE pattern")
			}
			i++
			if err := appendLiteral(runes[i]); err != nil {
				return err
			}
		case r == likeAny || r == likeOne:
			out = append(out, encodeUnit(r)...)
		default:
			if err := appendLiteral(r); err != nil {
				return err
			}
		}
	}
	out = append(out, repeatFF(unit)...)

	if err := v.adopt(out); err != nil {
		return err
	}
	v.desc = true
	return nil
}
