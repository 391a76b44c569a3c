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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/attrval/libraries/blobref/memblob"
	"github.com/dolthub/attrval/libraries/utils/config"
	"github.com/dolthub/attrval/store/va"
)

func testType(st SQLType, length, scale int) *Type {
	return mustNewType(st, length, scale, true)
}

func intVal(t *testing.T, st SQLType, x int64) *Value {
	v := NewValue(nil, testType(st, 0, 0))
	res, err := v.SetRawInt64(x)
	require.NoError(t, err)
	require.Equal(t, Success, res)
	return v
}

func floatVal(t *testing.T, st SQLType, f float64) *Value {
	v := NewValue(nil, testType(st, 0, 0))
	_, err := v.SetRawFloat64(f)
	require.NoError(t, err)
	return v
}

func decVal(t *testing.T, length, scale int, s string) *Value {
	v := NewValue(nil, testType(SQLDecimal, length, scale))
	_, err := v.SetRawDecimal(decimal.RequireFromString(s))
	require.NoError(t, err)
	return v
}

func charVal(t *testing.T, st SQLType, length int, s string) *Value {
	v := NewValue(nil, testType(st, length, 0))
	var err error
	if st.Datatype() == DTUnicode {
		_, err = v.SetRawWide(s)
	} else {
		_, err = v.SetRawChars(s)
	}
	require.NoError(t, err)
	return v
}

func binVal(t *testing.T, length int, b []byte) *Value {
	v := NewValue(nil, testType(SQLVarbinary, length, 0))
	_, err := v.SetRawBytes(b)
	require.NoError(t, err)
	return v
}

func dateVal(t *testing.T, st SQLType, tm time.Time) *Value {
	v := NewValue(nil, testType(st, 0, 0))
	_, err := v.SetRawTime(tm)
	require.NoError(t, err)
	return v
}

func blobEnv(t *testing.T, limit string) (*Env, *memblob.Store) {
	store := memblob.New(nil)
	settings := config.DefaultSettings()
	if limit != "" {
		settings.BlobLoadLimit = limit
	}
	env, err := NewEnv(settings, store, nil)
	require.NoError(t, err)
	return env, store
}

func TestValueStates(t *testing.T) {
	v := NewValue(nil, testType(SQLInteger, 0, 0))
	assert.True(t, v.IsNull())
	assert.False(t, v.IsUnknown())
	assert.Equal(t, SQLNull, v.SQLIsNull())
	assert.Equal(t, FlagNull, v.Flags())
	assert.Equal(t, va.Null(), v.VA())
	assert.Equal(t, "NULL", v.String())

	require.NoError(t, v.SetUnknown())
	assert.True(t, v.IsNull())
	assert.True(t, v.IsUnknown())
	assert.Equal(t, SQLUnknown, v.SQLIsNull())
	assert.Equal(t, FlagNull|FlagUnknown, v.Flags())

	var nilVal *Value
	assert.True(t, nilVal.IsUnknown())

	_, err := v.SetRawInt32(42)
	require.NoError(t, err)
	assert.False(t, v.IsNull())
	assert.Equal(t, NotNull, v.SQLIsNull())
	assert.Equal(t, int32(42), v.Int32())
	assert.Equal(t, int64(42), v.Int64())
	assert.Equal(t, FlagFlat|FlagConverted, v.Flags())
	assert.Equal(t, "42", v.String())

	require.NoError(t, v.SetMin())
	assert.True(t, v.IsMin())
	assert.Equal(t, "MIN", v.String())
	require.NoError(t, v.SetMax())
	assert.True(t, v.IsMax())
	assert.Equal(t, FlagMax, v.Flags())

	require.NoError(t, v.SetNull())
	assert.True(t, v.IsNull())
	assert.Panics(t, func() { v.Int32() })
}

func TestGettersPanicOnWrongDatatype(t *testing.T) {
	v := intVal(t, SQLInteger, 1)
	assert.Panics(t, func() { v.Chars() })
	assert.Panics(t, func() { v.Float64() })
	assert.Panics(t, func() { _, _ = v.SetRawChars("x") })
}

func TestRawSetters(t *testing.T) {
	t.Run("integer range", func(t *testing.T) {
		v := NewValue(nil, testType(SQLSmallint, 0, 0))
		res, err := v.SetRawInt64(40000)
		assert.True(t, ErrNumericOutOfRange.Is(err))
		assert.Equal(t, Failure, res)
		assert.True(t, v.IsNull())

		res, err = v.SetRawInt32(-32768)
		require.NoError(t, err)
		assert.Equal(t, Success, res)
		assert.Equal(t, int32(-32768), v.Int32())
	})

	t.Run("real precision", func(t *testing.T) {
		v := NewValue(nil, testType(SQLReal, 0, 0))
		res, err := v.SetRawFloat64(0.1)
		require.NoError(t, err)
		assert.Equal(t, Truncation, res)
		assert.Equal(t, float32(0.1), v.Float32())

		res, err = v.SetRawFloat64(0.5)
		require.NoError(t, err)
		assert.Equal(t, Success, res)
	})

	t.Run("decimal rounding", func(t *testing.T) {
		v := NewValue(nil, testType(SQLNumeric, 6, 2))
		res, err := v.SetRawDecimal(decimal.RequireFromString("1234.567"))
		require.NoError(t, err)
		assert.Equal(t, Truncation, res)
		assert.Equal(t, "1234.57", v.String())

		res, err = v.SetRawDecimal(decimal.RequireFromString("12345.6"))
		assert.True(t, ErrNumericOverflow.Is(err))
		assert.Equal(t, Failure, res)
		assert.Equal(t, "1234.57", v.String())

		_, err = v.SetRawDecimal(decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.Equal(t, "5.00", v.String())
	})

	t.Run("date fields", func(t *testing.T) {
		tm := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
		v := NewValue(nil, testType(SQLDate, 0, 0))
		res, err := v.SetRawTime(tm)
		require.NoError(t, err)
		assert.Equal(t, Truncation, res)
		assert.Equal(t, "2024-03-15", v.String())

		v = NewValue(nil, testType(SQLTime, 0, 0))
		res, err = v.SetRawTime(tm)
		require.NoError(t, err)
		assert.Equal(t, Truncation, res)
		assert.Equal(t, "10:30:00", v.String())

		v = NewValue(nil, testType(SQLTimestamp, 0, 0))
		res, err = v.SetRawTime(tm)
		require.NoError(t, err)
		assert.Equal(t, Success, res)
		assert.True(t, tm.Equal(v.Time()))
	})

	t.Run("character length", func(t *testing.T) {
		v := NewValue(nil, testType(SQLVarchar, 4, 0))
		res, err := v.SetRawChars("ab  xx")
		require.NoError(t, err)
		assert.Equal(t, Truncation, res)
		assert.Equal(t, "ab  ", v.Chars())

		res, err = v.SetRawChars("abcd   ")
		require.NoError(t, err)
		assert.Equal(t, Success, res)
		assert.Equal(t, "abcd", v.Chars())

		// a multi-byte character is never split
		res, err = v.SetRawChars("abcé")
		require.NoError(t, err)
		assert.Equal(t, Truncation, res)
		assert.Equal(t, "abc", v.Chars())
	})

	t.Run("wide length", func(t *testing.T) {
		v := NewValue(nil, testType(SQLWVarchar, 2, 0))
		res, err := v.SetRawWide("a😀")
		require.NoError(t, err)
		assert.Equal(t, Truncation, res)
		assert.Equal(t, "a", v.Wide())

		res, err = v.SetRawWide("😀")
		require.NoError(t, err)
		assert.Equal(t, Success, res)
		assert.Equal(t, "😀", v.Wide())
	})

	t.Run("binary length", func(t *testing.T) {
		v := NewValue(nil, testType(SQLBinary, 2, 0))
		res, err := v.SetRawBytes([]byte{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, Truncation, res)
		assert.Equal(t, []byte{1, 2}, v.Bytes())
		assert.Equal(t, "0102", v.String())
	})
}

func TestExtSetters(t *testing.T) {
	v := NewValue(nil, testType(SQLInteger, 0, 0))
	res, err := v.SetFloat64Ext(2.5)
	require.NoError(t, err)
	assert.Equal(t, Truncation, res)
	assert.Equal(t, int32(3), v.Int32())

	res, err = v.SetStringExt(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, Success, res)
	assert.Equal(t, int32(42), v.Int32())

	res, err = v.SetStringExt("4x2")
	assert.True(t, ErrIllegalAssignment.Is(err), "%v", err)
	assert.Equal(t, Failure, res)
	assert.Equal(t, int32(42), v.Int32())

	res, err = v.SetInt64Ext(1 << 40)
	assert.True(t, ErrNumericOutOfRange.Is(err))
	assert.Equal(t, Failure, res)

	d := NewValue(nil, testType(SQLNumeric, 6, 2))
	res, err = d.SetDecimalExt(decimal.RequireFromString("-1.005"))
	require.NoError(t, err)
	assert.Equal(t, Truncation, res)
	assert.Equal(t, "-1.01", d.String())

	s := NewValue(nil, testType(SQLVarchar, 10, 0))
	res, err = s.SetInt64Ext(-17)
	require.NoError(t, err)
	assert.Equal(t, Success, res)
	assert.Equal(t, "-17", s.Chars())

	w := NewValue(nil, testType(SQLWChar, 5, 0))
	res, err = w.SetWideExt("héllo")
	require.NoError(t, err)
	assert.Equal(t, Success, res)
	assert.Equal(t, "héllo", w.Wide())

	b := NewValue(nil, testType(SQLVarbinary, 4, 0))
	res, err = b.SetBytesExt([]byte{0xDE, 0xAD})
	require.NoError(t, err)
	assert.Equal(t, Success, res)
	assert.Equal(t, []byte{0xDE, 0xAD}, b.Bytes())

	ts := NewValue(nil, testType(SQLDate, 0, 0))
	res, err = ts.SetTimeExt(time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, Success, res)
	assert.Equal(t, "2020-02-29", ts.String())
}

func TestComputedValues(t *testing.T) {
	v := NewValue(nil, testType(SQLInteger, 0, 0))
	err := v.SetComputedInt64(1 << 40)
	assert.True(t, ErrNumericOutOfRange.Is(err))

	require.NoError(t, v.SetComputedInt64(-9))
	assert.Equal(t, FlagOnlyConverted|FlagConverted, v.Flags())
	assert.Equal(t, int32(-9), v.Int32())
	assert.Equal(t, va.PutInt32(-9), v.VA())

	d := NewValue(nil, testType(SQLDecimal, 10, 2))
	require.NoError(t, d.SetComputedDecimal(decimal.RequireFromString("3.25")))
	cp, err := d.Copy()
	require.NoError(t, err)
	assert.True(t, cp.Decimal().Equal(decimal.RequireFromString("3.25")))

	r := NewValue(nil, testType(SQLReal, 0, 0))
	require.NoError(t, r.SetComputedFloat64(0.1))
	assert.Equal(t, float32(0.1), r.Float32())
}

func TestTrimChar(t *testing.T) {
	v := charVal(t, SQLVarchar, 10, "ab   ")
	ok, err := v.TrimChar(false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ab", v.Chars())

	w := charVal(t, SQLWVarchar, 10, "xy  ")
	ok, err = w.TrimChar(true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "xy", w.Wide())

	n := NewValue(nil, testType(SQLChar, 4, 0))
	ok, err = n.TrimChar(true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, n.IsNull())
}

func TestCopyBorrowedValue(t *testing.T) {
	row := va.PutChars("borrowed")
	v := NewValue(nil, testType(SQLVarchar, 20, 0))
	require.NoError(t, v.LinkTupleRef(row))
	assert.True(t, v.IsBorrowed())
	assert.Equal(t, FlagTupleRef, v.Flags())
	assert.Equal(t, "borrowed", v.Chars())

	cp, err := v.Copy()
	require.NoError(t, err)
	assert.False(t, cp.IsBorrowed())

	row[1] = 'B'
	assert.Equal(t, "borrowed", cp.Chars())

	require.NoError(t, v.Materialize())
	assert.False(t, v.IsBorrowed())
	row[1] = 'b'
	assert.Equal(t, []byte("Borrowed"), v.VA()[1:9])
}

func TestCopyCarriesFlagsButNotAccInfo(t *testing.T) {
	v := charVal(t, SQLVarchar, 10, "abc")
	v.SetLiteral(true)
	v.SetAccInfo("index hint")
	info, ok := v.AccInfo()
	require.True(t, ok)
	assert.Equal(t, "index hint", info)
	assert.NotZero(t, v.Flags()&FlagAccInfoInit)

	cp, err := v.Copy()
	require.NoError(t, err)
	assert.True(t, cp.IsLiteral())
	_, ok = cp.AccInfo()
	assert.False(t, ok)

	other := NewValue(nil, testType(SQLInteger, 0, 0))
	assert.Panics(t, func() { _ = other.AssignFrom(v) })
}

func TestMove(t *testing.T) {
	src := charVal(t, SQLVarchar, 10, "moved")
	src.SetAccInfo(1)
	dst := charVal(t, SQLVarchar, 10, "old")

	require.NoError(t, Move(dst, src))
	assert.True(t, src.IsNull())
	_, ok := src.AccInfo()
	assert.False(t, ok)
	assert.Equal(t, "moved", dst.Chars())
	_, ok = dst.AccInfo()
	assert.True(t, ok)

	row := va.PutChars("row")
	b := NewValue(nil, testType(SQLVarchar, 10, 0))
	require.NoError(t, b.LinkTupleRef(row))
	require.NoError(t, Move(dst, b))
	assert.True(t, dst.IsBorrowed())
}

func TestBlobReferenceCounting(t *testing.T) {
	env, store := blobEnv(t, "")
	typ := testType(SQLLongVarbinary, 0, 0)
	data := bytes.Repeat([]byte{0xAB}, 100)
	ref := store.Put(data, 8)
	id := store.ID(ref)

	v := NewValue(env, typ)
	require.NoError(t, v.AdoptVA(ref))
	assert.True(t, v.IsBlob())
	assert.NotZero(t, v.Flags()&FlagBlob)
	assert.Equal(t, int64(100), v.BlobSize())
	assert.Equal(t, id, v.BlobID())
	assert.Equal(t, 1, store.RefCount(id))
	assert.Panics(t, func() { v.Bytes() })

	loaded, err := v.LoadBlob(1024)
	require.NoError(t, err)
	assert.Equal(t, data, loaded)

	cp, err := v.Copy()
	require.NoError(t, err)
	assert.Equal(t, 2, store.RefCount(id))

	moved := NewValue(env, typ)
	require.NoError(t, Move(moved, cp))
	assert.Equal(t, 2, store.RefCount(id))
	require.NoError(t, cp.Release())
	assert.Equal(t, 2, store.RefCount(id))
	require.NoError(t, moved.Release())
	assert.Equal(t, 1, store.RefCount(id))

	linked := NewValue(env, typ)
	require.NoError(t, linked.LinkTupleRef(v.VA()))
	assert.Equal(t, 1, store.RefCount(id))
	require.NoError(t, linked.Materialize())
	assert.Equal(t, 2, store.RefCount(id))
	require.NoError(t, linked.SetNull())
	assert.Equal(t, 1, store.RefCount(id))

	shared := NewValue(env, typ)
	require.NoError(t, shared.SetVA(v.VA()))
	assert.Equal(t, 2, store.RefCount(id))
	require.NoError(t, shared.NullifyBlobID())
	assert.True(t, shared.IsBlob())
	assert.Equal(t, uuid.Nil, shared.BlobID())
	assert.Equal(t, 1, store.RefCount(id))
	require.NoError(t, shared.Release())
	assert.Equal(t, 1, store.RefCount(id))

	require.NoError(t, v.Release())
	assert.Equal(t, 0, store.Len())
}

func TestAssignSharesBlobIntoLongType(t *testing.T) {
	env, store := blobEnv(t, "")
	ref := store.Put([]byte("long text content"), 4)
	id := store.ID(ref)

	src := NewValue(env, testType(SQLLongVarchar, 0, 0))
	require.NoError(t, src.AdoptVA(ref))

	long := NewValue(env, testType(SQLLongVarchar, 0, 0))
	res, err := Assign(long, src)
	require.NoError(t, err)
	assert.Equal(t, Success, res)
	assert.True(t, long.IsBlob())
	assert.Equal(t, 2, store.RefCount(id))

	short := NewValue(env, testType(SQLVarchar, 4, 0))
	res, err = Assign(short, src)
	require.NoError(t, err)
	assert.Equal(t, Truncation, res)
	assert.Equal(t, "long", short.Chars())
	assert.Equal(t, 2, store.RefCount(id))

	require.NoError(t, long.Release())
	require.NoError(t, src.Release())
	assert.Equal(t, 0, store.Len())
}
