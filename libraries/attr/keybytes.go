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

	"github.com/dolthub/attrval/libraries/collation"
	"github.com/dolthub/attrval/store/va"
)

// ascendingVA returns the ascending encoding of a value in either key order, nil for NULL.
func (v *Value) ascendingVA() ([]byte, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.desc {
		return v.VA(), nil
	}
	if s, ok := descNullSentinels[v.typ.sqlType]; ok && bytes.Equal(v.data, s) {
		return nil, nil
	}
	return ascendingForm(v.Datatype(), v.data)
}

// prefixText keeps the first |n| characters of |s|.
func prefixText(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// KeyBytes appends the index key form of |v| to |buf|. With a collation and
// |forCollationKey| a character value is keyed by its weight string; otherwise by its
// encoding. |ascending| selects the key order. A positive |prefixLen| keys only the first
// characters of a character value.
func KeyBytes(v *Value, coll collation.Collation, forCollationKey, ascending bool, buf []byte, prefixLen int) ([]byte, error) {
	if v.collKey {
		return nil, ErrAlreadyCollationKey.New()
	}
	enc, err := v.ascendingVA()
	if err != nil {
		return nil, err
	}
	if enc == nil {
		if ascending {
			return append(buf, va.MarkerNull), nil
		}
		s, ok := descNullSentinels[v.typ.sqlType]
		if !ok {
			return nil, ErrNoNullSentinel.New(v.typ)
		}
		return append(buf, s...), nil
	}
	if va.IsBlob(enc) {
		return nil, ErrDescendingUnsupported.New(v.typ)
	}

	dt := v.Datatype()
	if dt.IsText() && (prefixLen > 0 || (coll != nil && forCollationKey)) {
		data, err := dataOf(dt, enc)
		if err != nil {
			return nil, err
		}
		s, err := textOf(dt, data)
		if err != nil {
			return nil, err
		}
		s = prefixText(s, prefixLen)

		if coll != nil && forCollationKey {
			start := len(buf)
			buf = append(buf, va.MarkerValue)
			buf = coll.AppendKey(buf, s)
			buf = append(buf, 0)
			if !ascending {
				va.Invert(buf[start:])
			}
			return buf, nil
		}

		if dt == DTUnicode {
			if enc, err = va.PutWide(s); err != nil {
				return nil, err
			}
		} else {
			enc = va.PutChars(s)
		}
	}

	if !ascending {
		if enc, err = descendingForm(dt, enc); err != nil {
			return nil, err
		}
	}
	return append(buf, enc...), nil
}

// ToCollationKey rewrites a character value into its weight string under |coll|. The
// rewrite cannot be undone. The key order of the value is kept.
func (v *Value) ToCollationKey(coll collation.Collation) error {
	if v.collKey {
		return ErrAlreadyCollationKey.New()
	}
	if !v.Datatype().IsText() {
		return ErrIllegalConversion.New(v.typ, "collation key")
	}
	if v.IsNull() {
		return nil
	}
	ascending := !v.desc
	key, err := KeyBytes(v, coll, true, ascending, nil, 0)
	if err != nil {
		return err
	}
	if err := v.adopt(key); err != nil {
		return err
	}
	v.desc = !ascending
	v.collKey = true
	return nil
}
