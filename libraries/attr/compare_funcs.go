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
	"cmp"
	"math"
	"math/big"
	"strings"

	"github.com/dolthub/attrval/store/va"
)

func cmpNumbers(a, b *Value) (int, error) {
	na, nb := srcNumber(a), srcNumber(b)
	switch {
	case na.kind == numInt && nb.kind == numInt:
		return cmp.Compare(na.i, nb.i), nil
	case na.kind == numFloat && nb.kind == numFloat:
		return cmpFloats(na.f, nb.f), nil
	case na.kind == numFloat:
		return cmpFloatExact(na.f, nb), nil
	case nb.kind == numFloat:
		return -cmpFloatExact(nb.f, na), nil
	}
	return toDecimal(na).Cmp(toDecimal(nb)), nil
}

// cmpFloats orders NaN after every other float, matching the encoded order.
func cmpFloats(x, y float64) int {
	xn, yn := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xn && yn:
		return 0
	case xn:
		return 1
	case yn:
		return -1
	}
	return cmp.Compare(x, y)
}

// cmpFloatExact orders a float against an exact number without rounding either.
func cmpFloatExact(f float64, n number) int {
	switch {
	case math.IsNaN(f):
		return 1
	case math.IsInf(f, 1):
		return 1
	case math.IsInf(f, -1):
		return -1
	}
	fr := new(big.Rat).SetFloat64(f)
	var nr *big.Rat
	if n.kind == numInt {
		nr = new(big.Rat).SetInt64(n.i)
	} else {
		nr = n.d.Rat()
	}
	return fr.Cmp(nr)
}

// operandData returns the data portion of a CHAR, UNICODE or BINARY operand. A BLOB is
// loaded within the load limit; when it cannot be, its inline prefix is returned and
// complete is false.
func operandData(v *Value) (data []byte, complete bool, err error) {
	if !v.IsBlob() {
		data, err = srcData(v)
		return data, true, err
	}
	h := v.env.hooks()
	if full, err := h.Load(v.data, v.env.loadLimit()); err == nil {
		return full, true, nil
	}
	_, _, prefix, err := va.BlobRef(v.data)
	if err != nil {
		return nil, false, err
	}
	return prefix, false, nil
}

// cmpWithBlobs orders two operands of which at least one is incomplete. Prefixes are
// compared up to the shorter available length. An operand that is shorter than the known
// prefix of the other orders before it; any other tie cannot be resolved.
func cmpWithBlobs(a, b *Value, da, db []byte, ca, cb bool) (int, error) {
	fail := func() (int, error) { return 0, ErrComparisonFailedDueToBlob.New(a.typ, b.typ) }
	if a.Datatype() != b.Datatype() {
		return fail()
	}
	n := min(len(da), len(db))
	if c := bytes.Compare(da[:n], db[:n]); c != 0 {
		return c, nil
	}
	switch {
	case ca && !cb && len(da) < len(db):
		return -1, nil
	case cb && !ca && len(db) < len(da):
		return 1, nil
	}
	return fail()
}

func cmpText(a, b *Value) (int, error) {
	da, ca, err := operandData(a)
	if err != nil {
		return 0, err
	}
	db, cb, err := operandData(b)
	if err != nil {
		return 0, err
	}
	if !ca || !cb {
		return cmpWithBlobs(a, b, da, db, ca, cb)
	}

	fixed := a.typ.isFixedChar() || b.typ.isFixedChar()
	coll := a.env.collationFor(a.typ)
	if coll == nil {
		coll = b.env.collationFor(b.typ)
	}

	// wide pairs compare in unit order, the order of their key encoding
	if a.Datatype() == DTUnicode && b.Datatype() == DTUnicode && coll == nil {
		if fixed {
			da, db = trimWideSpaces(da), trimWideSpaces(db)
		}
		return bytes.Compare(da, db), nil
	}

	sa, err := textOf(a.Datatype(), da)
	if err != nil {
		return 0, err
	}
	sb, err := textOf(b.Datatype(), db)
	if err != nil {
		return 0, err
	}
	if fixed {
		sa, sb = strings.TrimRight(sa, " "), strings.TrimRight(sb, " ")
	}
	if coll != nil {
		return coll.Compare(sa, sb), nil
	}
	return strings.Compare(sa, sb), nil
}

func textOf(dt Datatype, data []byte) (string, error) {
	if dt == DTUnicode {
		return va.DecodeWideUnits(data)
	}
	return string(data), nil
}

func trimWideSpaces(units []byte) []byte {
	for len(units) >= va.WideUnitSize && units[len(units)-2] == 0 && units[len(units)-1] == ' ' {
		units = units[:len(units)-va.WideUnitSize]
	}
	return units
}

func cmpBinary(a, b *Value) (int, error) {
	da, ca, err := operandData(a)
	if err != nil {
		return 0, err
	}
	db, cb, err := operandData(b)
	if err != nil {
		return 0, err
	}
	if !ca || !cb {
		return cmpWithBlobs(a, b, da, db, ca, cb)
	}
	return bytes.Compare(da, db), nil
}

func cmpDates(a, b *Value) (int, error) {
	if dateTimeClash(a.typ.sqlType, b.typ.sqlType) {
		return 0, ErrComparisonTypeClash.New(a.typ, b.typ)
	}
	return va.Compare(a.VA(), b.VA()), nil
}

// cmpTextDate orders a character value against a DATE family value by reading the text
// as a date, time or timestamp. The operands may come in either order.
func cmpTextDate(a, b *Value) (int, error) {
	text, date, sign := a, b, 1
	if a.Datatype() == DTDate {
		text, date, sign = b, a, -1
	}
	s, err := srcText(text)
	if err != nil {
		return 0, ErrComparisonFailedDueToBlob.New(a.typ, b.typ)
	}
	t, st, err := parseDateText(s, date.typ.sqlType, date.env.settings())
	if err != nil {
		return 0, ErrComparisonTypeClash.Wrap(err, a.typ, b.typ)
	}
	if dateTimeClash(st, date.typ.sqlType) {
		return 0, ErrComparisonTypeClash.New(a.typ, b.typ)
	}
	return sign * va.Compare(va.PutDate(t), date.VA()), nil
}
