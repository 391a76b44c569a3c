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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dolthub/attrval/store/va"
)

// storage is the ownership state of a value's encoded form.
type storage uint8

const (
	stNull storage = iota
	stUnknown
	// stOwned holds a heap buffer the value owns, possibly a BLOB reference.
	stOwned
	// stFlat holds a short encoding in the inline buffer.
	stFlat
	// stBorrowed is a read-only view into shared row storage.
	stBorrowed
	// stOnlyConverted has no encoded form, only the native cache.
	stOnlyConverted
	stMin
	stMax
)

// flatSize is the largest encoding kept in the inline buffer.
const flatSize = 24

// native is the decoded form of a value. Only the member matching the datatype is set.
type native struct {
	i64 int64
	f64 float64
	dec decimal.Decimal
	tm  time.Time
	str string
	bin []byte
}

// Flags is the bit view of a value's state.
type Flags uint16

const (
	FlagNull Flags = 1 << iota
	FlagConverted
	FlagLiteral
	FlagDescending
	FlagCharsetConverted
	FlagTupleRef
	FlagBlob
	FlagMin
	FlagMax
	FlagAccInfoInit
	FlagOnlyConverted
	FlagFlat
	FlagUnknown
	FlagCollationKey
)

// NullState is the SQL view of a value's nullness.
type NullState uint8

const (
	NotNull NullState = iota
	SQLNull
	SQLUnknown
)

// Value is a single attribute value bound to a Type. A Value is not safe for concurrent use.
type Value struct {
	env *Env
	typ *Type

	st   storage
	data []byte
	flat [flatSize]byte

	// cache is the decoded value, nil until a getter or a computed setter fills it.
	cache *native

	literal          bool
	desc             bool
	charsetConverted bool
	collKey          bool

	accInfo any
	accInit bool
}

// NewValue creates a NULL value of type |t|. A nil |env| selects DefaultEnv.
func NewValue(env *Env, t *Type) *Value {
	if env == nil {
		env = DefaultEnv()
	}
	return &Value{env: env, typ: t}
}

// Type returns the type the value is bound to.
func (v *Value) Type() *Type { return v.typ }

// Env returns the environment the value was created in.
func (v *Value) Env() *Env { return v.env }

// Datatype returns the internal datatype of the bound type.
func (v *Value) Datatype() Datatype { return v.typ.Datatype() }

// IsNull returns whether the value is NULL. Unknown values are NULL as well.
func (v *Value) IsNull() bool {
	return v.st == stNull || v.st == stUnknown
}

// IsUnknown returns whether the value is the unbound parameter marker. A nil value is
// unknown.
func (v *Value) IsUnknown() bool {
	return v == nil || v.st == stUnknown
}

// SQLIsNull returns the three valued nullness of the value.
func (v *Value) SQLIsNull() NullState {
	switch {
	case v.IsUnknown():
		return SQLUnknown
	case v.st == stNull:
		return SQLNull
	}
	return NotNull
}

// IsMin returns whether the value is the lower range sentinel.
func (v *Value) IsMin() bool { return v.st == stMin }

// IsMax returns whether the value is the upper range sentinel.
func (v *Value) IsMax() bool { return v.st == stMax }

// IsLiteral returns whether the value was created from a SQL literal.
func (v *Value) IsLiteral() bool { return v.literal }

// IsDescending returns whether the value holds a descending key encoding.
func (v *Value) IsDescending() bool { return v.desc }

// IsCharsetConverted returns whether the value went through a CHAR/UNICODE conversion.
func (v *Value) IsCharsetConverted() bool { return v.charsetConverted }

// IsCollationKey returns whether the value was rewritten into a collation weight string.
func (v *Value) IsCollationKey() bool { return v.collKey }

// IsBorrowed returns whether the value is a view into shared row storage.
func (v *Value) IsBorrowed() bool { return v.st == stBorrowed }

// hasEncoding returns whether the value holds encoded bytes.
func (v *Value) hasEncoding() bool {
	return v.st == stOwned || v.st == stFlat || v.st == stBorrowed
}

// Flags returns the bit view of the value's state.
func (v *Value) Flags() Flags {
	var f Flags
	switch v.st {
	case stNull:
		f |= FlagNull
	case stUnknown:
		f |= FlagNull | FlagUnknown
	case stFlat:
		f |= FlagFlat
	case stBorrowed:
		f |= FlagTupleRef
	case stOnlyConverted:
		f |= FlagOnlyConverted
	case stMin:
		f |= FlagMin
	case stMax:
		f |= FlagMax
	}
	if v.hasEncoding() && va.IsBlob(v.data) {
		f |= FlagBlob
	}
	if v.cache != nil {
		f |= FlagConverted
	}
	if v.literal {
		f |= FlagLiteral
	}
	if v.desc {
		f |= FlagDescending
	}
	if v.charsetConverted {
		f |= FlagCharsetConverted
	}
	if v.collKey {
		f |= FlagCollationKey
	}
	if v.accInit {
		f |= FlagAccInfoInit
	}
	return f
}

// releaseData drops the encoded form, releasing an owned BLOB reference. The value is
// NULL afterwards.
func (v *Value) releaseData() error {
	if v.st == stOwned && v.refersBlob(v.data) {
		if err := v.env.hooks().Dec(v.data); err != nil {
			return err
		}
	}
	v.st = stNull
	v.data = nil
	v.cache = nil
	v.desc = false
	v.collKey = false
	v.charsetConverted = false
	return nil
}

// refersBlob returns whether |enc| is a BLOB reference that counts toward the BLOB's
// owners. Nullified references do not.
func (v *Value) refersBlob(enc []byte) bool {
	return va.IsBlob(enc) && v.env.hooks().ID(enc) != uuid.Nil
}

// adopt installs |enc| as the value's encoding. The value takes over any BLOB reference
// held by |enc|.
func (v *Value) adopt(enc []byte) error {
	if err := v.releaseData(); err != nil {
		return err
	}
	v.setData(enc)
	return nil
}

func (v *Value) setData(enc []byte) {
	if va.IsNull(enc) {
		v.st = stNull
		return
	}
	if len(enc) <= flatSize && !va.IsBlob(enc) {
		n := copy(v.flat[:], enc)
		v.data = v.flat[:n]
		v.st = stFlat
		return
	}
	v.data = enc
	v.st = stOwned
}

// share installs a copy of |enc|, adding a reference when it is a BLOB reference.
func (v *Value) share(enc []byte) error {
	ref := v.refersBlob(enc)
	if ref {
		if err := v.env.hooks().Inc(enc); err != nil {
			return err
		}
	}
	if err := v.releaseData(); err != nil {
		if ref {
			_ = v.env.hooks().Dec(enc)
		}
		return err
	}
	v.setData(append([]byte(nil), enc...))
	return nil
}

// SetVA installs an encoded value, adding a BLOB reference when it is one.
func (v *Value) SetVA(enc []byte) error {
	return v.share(enc)
}

// AdoptVA installs an encoded value whose BLOB reference, if any, the value takes over.
func (v *Value) AdoptVA(enc []byte) error {
	return v.adopt(enc)
}

// LinkTupleRef makes the value a read-only view of |enc|, which lives in shared row
// storage. The value does not own a BLOB reference held by |enc|.
func (v *Value) LinkTupleRef(enc []byte) error {
	if err := v.releaseData(); err != nil {
		return err
	}
	if va.IsNull(enc) {
		return nil
	}
	v.st = stBorrowed
	v.data = enc
	return nil
}

// Materialize turns a borrowed value into an owned one. Every in place mutation
// materializes first.
func (v *Value) Materialize() error {
	if v.st != stBorrowed {
		return nil
	}
	enc := append([]byte(nil), v.data...)
	if v.refersBlob(enc) {
		if err := v.env.hooks().Inc(enc); err != nil {
			return err
		}
	}
	cache, desc, collKey, cs := v.cache, v.desc, v.collKey, v.charsetConverted
	v.setData(enc)
	v.cache, v.desc, v.collKey, v.charsetConverted = cache, desc, collKey, cs
	return nil
}

// SetNull makes the value NULL.
func (v *Value) SetNull() error {
	return v.releaseData()
}

// SetUnknown makes the value the unbound parameter marker.
func (v *Value) SetUnknown() error {
	if err := v.releaseData(); err != nil {
		return err
	}
	v.st = stUnknown
	return nil
}

// SetMin makes the value the lower range sentinel.
func (v *Value) SetMin() error {
	if err := v.releaseData(); err != nil {
		return err
	}
	v.st = stMin
	return nil
}

// SetMax makes the value the upper range sentinel.
func (v *Value) SetMax() error {
	if err := v.releaseData(); err != nil {
		return err
	}
	v.st = stMax
	return nil
}

// SetLiteral marks the value as created from a SQL literal.
func (v *Value) SetLiteral(b bool) { v.literal = b }

// AccInfo returns data an accelerator attached to the value.
func (v *Value) AccInfo() (any, bool) { return v.accInfo, v.accInit }

// SetAccInfo attaches accelerator data. Copies do not carry it.
func (v *Value) SetAccInfo(info any) {
	v.accInfo = info
	v.accInit = true
}

// Release drops every resource the value holds and leaves it NULL.
func (v *Value) Release() error {
	if err := v.releaseData(); err != nil {
		return err
	}
	v.accInfo = nil
	v.accInit = false
	return nil
}

// Copy returns a deep copy. A borrowed value is copied into owned storage and a BLOB
// reference gains an owner.
func (v *Value) Copy() (*Value, error) {
	cp := &Value{env: v.env, typ: v.typ}
	if err := cp.AssignFrom(v); err != nil {
		return nil, err
	}
	return cp, nil
}

// AssignFrom overwrites |v| in place with a copy of |src|, which must have the same
// datatype. The old BLOB reference of |v| is released before the new one is shared.
func (v *Value) AssignFrom(src *Value) error {
	if v == src {
		return nil
	}
	v.expectSameDatatype(src)
	if err := v.releaseData(); err != nil {
		return err
	}
	switch src.st {
	case stOwned, stFlat, stBorrowed:
		if err := v.share(src.data); err != nil {
			return err
		}
	default:
		v.st = src.st
	}
	if src.cache != nil && (src.st == stOnlyConverted || !src.typ.ReconvertOnCopy()) {
		c := *src.cache
		v.cache = &c
	}
	v.literal = src.literal
	v.desc = src.desc
	v.charsetConverted = src.charsetConverted
	v.collKey = src.collKey
	return nil
}

// Move transfers the contents of |src| to |dst| and leaves |src| NULL. A borrowed value
// stays borrowed. No BLOB reference changes owner count.
func Move(dst, src *Value) error {
	if dst == src {
		return nil
	}
	dst.expectSameDatatype(src)
	if err := dst.releaseData(); err != nil {
		return err
	}
	dst.st = src.st
	switch src.st {
	case stFlat:
		n := copy(dst.flat[:], src.data)
		dst.data = dst.flat[:n]
	default:
		dst.data = src.data
	}
	dst.cache = src.cache
	dst.literal = src.literal
	dst.desc = src.desc
	dst.charsetConverted = src.charsetConverted
	dst.collKey = src.collKey
	dst.accInfo, dst.accInit = src.accInfo, src.accInit

	*src = Value{env: src.env, typ: src.typ}
	return nil
}

func (v *Value) expectSameDatatype(other *Value) {
	if v.Datatype() != other.Datatype() {
		panic(fmt.Sprintf("value of type %s used as %s", other.typ, v.typ))
	}
}

// IsBlob returns whether the value holds a BLOB reference.
func (v *Value) IsBlob() bool {
	return v.hasEncoding() && v.env.hooks().IsBlob(v.data)
}

// BlobSize returns the full content size of a BLOB value.
func (v *Value) BlobSize() int64 {
	v.expectBlob()
	return v.env.hooks().Size(v.data)
}

// BlobID returns the storage id of a BLOB value.
func (v *Value) BlobID() uuid.UUID {
	v.expectBlob()
	return v.env.hooks().ID(v.data)
}

// NullifyBlobID replaces the storage id of a BLOB value with the nil id. The value stays a
// BLOB reference. The reference the value owned is released.
func (v *Value) NullifyBlobID() error {
	v.expectBlob()
	if err := v.Materialize(); err != nil {
		return err
	}
	h := v.env.hooks()
	nulled, err := h.Nullify(v.data)
	if err != nil {
		return err
	}
	if err := h.Dec(v.data); err != nil {
		return err
	}
	v.data = nulled
	v.cache = nil
	return nil
}

// LoadBlob returns the full content of a BLOB value, in the data form of the value's
// datatype. Content above |limit| bytes is not loaded.
func (v *Value) LoadBlob(limit int64) ([]byte, error) {
	v.expectBlob()
	return v.env.hooks().Load(v.data, limit)
}

func (v *Value) expectBlob() {
	if !v.IsBlob() {
		panic(fmt.Sprintf("%s value is not a blob", v.typ))
	}
}
