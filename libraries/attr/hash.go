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
	"encoding/binary"
	"math"
	"math/big"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"

	"github.com/dolthub/attrval/store/va"
)

// Hash families. Values that compare equal hash into the same family.
const (
	hashNumeric byte = iota + 1
	hashText
	hashBinary
	hashDate
	hashKey
)

var nullHash = xxhash.Sum64([]byte{va.MarkerNull})

// Hash returns a hash of |v| that agrees with equality under Compare3: numeric values of
// any type hash by their decimal value, text ignores trailing spaces and collated text
// hashes by its weight string.
func Hash(v *Value) (uint64, error) {
	if v.IsNull() {
		return nullHash, nil
	}
	d := xxhash.New()
	if v.desc || v.collKey || v.st == stMin || v.st == stMax {
		_, _ = d.Write([]byte{hashKey, byte(v.st)})
		_, _ = d.Write(v.data)
		return d.Sum64(), nil
	}

	switch dt := v.Datatype(); {
	case dt.IsNumeric():
		_, _ = d.Write([]byte{hashNumeric})
		n := srcNumber(v)
		if n.kind == numFloat && (math.IsNaN(n.f) || math.IsInf(n.f, 0)) {
			_, _ = d.Write(binary.BigEndian.AppendUint64(nil, math.Float64bits(n.f)))
			break
		}
		dec := toDecimal(n)
		if n.kind == numFloat {
			dec = floatHashDecimal(n.f)
		}
		enc, err := va.PutDecimal(dec)
		if err != nil {
			_, _ = d.Write(binary.BigEndian.AppendUint64(nil, math.Float64bits(n.f)))
			break
		}
		_, _ = d.Write(enc)

	case dt.IsText():
		_, _ = d.Write([]byte{hashText})
		s, err := srcText(v)
		if err != nil {
			return 0, err
		}
		// a fixed width operand on either side of a comparison ignores trailing spaces
		s = strings.TrimRight(s, " ")
		if coll := v.env.collationFor(v.typ); coll != nil {
			_, _ = d.Write(coll.AppendKey(nil, s))
		} else {
			_, _ = d.WriteString(s)
		}

	case dt == DTBinary:
		_, _ = d.Write([]byte{hashBinary})
		b, err := srcData(v)
		if err != nil {
			return 0, err
		}
		_, _ = d.Write(b)

	default:
		_, _ = d.Write([]byte{hashDate})
		_, _ = d.Write(v.VA())
	}
	return d.Sum64(), nil
}

// floatHashPlaces bounds the decimal places of a float that can equal an exact number.
const floatHashPlaces = 64

// floatHashDecimal returns the exact decimal value of |f| when it has one within
// floatHashPlaces. Other floats equal no exact number and hash by their shortest form.
func floatHashDecimal(f float64) decimal.Decimal {
	r := new(big.Rat).SetFloat64(f)
	exact := decimal.NewFromBigRat(r, floatHashPlaces)
	if exact.Rat().Cmp(r) == 0 {
		return exact
	}
	return decimal.NewFromFloat(f)
}
