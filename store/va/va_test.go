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

package va

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt32RoundTripAndOrder(t *testing.T) {
	vals := []int32{math.MinInt32, -70000, -256, -1, 0, 1, 5, 10, 255, 256, 70000, math.MaxInt32}
	for i, x := range vals {
		enc := PutInt32(x)
		got, err := Int32(enc)
		require.NoError(t, err)
		assert.Equal(t, x, got)

		desc := PutInt32Desc(x)
		got, err = Int32Desc(desc)
		require.NoError(t, err)
		assert.Equal(t, x, got)

		if i > 0 {
			prev := vals[i-1]
			assert.Equal(t, -1, Compare(PutInt32(prev), enc), "%d < %d", prev, x)
			assert.Equal(t, 1, Compare(PutInt32Desc(prev), desc), "desc %d > %d", prev, x)
		}
		assert.Equal(t, 1, Compare(Null(), enc))
	}
}

func TestUint64Stripped(t *testing.T) {
	tests := []struct {
		u   uint64
		len int
	}{
		{0, 2},
		{1, 3},
		{255, 3},
		{256, 4},
		{math.MaxUint64, 10},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d", test.u), func(t *testing.T) {
			enc := PutUint64Stripped(test.u)
			assert.Len(t, enc, test.len)
			got, err := Uint64Stripped(enc)
			require.NoError(t, err)
			assert.Equal(t, test.u, got)
		})
	}

	_, err := Uint64Stripped([]byte{MarkerValue, 9, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.True(t, ErrMalformed.Is(err))
}

func TestInt64RoundTripAndOrder(t *testing.T) {
	vals := []int64{math.MinInt64, -1 << 40, -1, 0, 1, 1 << 33, math.MaxInt64}
	for i, x := range vals {
		enc := PutInt64(x)
		got, err := Int64(enc)
		require.NoError(t, err)
		assert.Equal(t, x, got)
		if i > 0 {
			assert.Equal(t, -1, Compare(PutInt64(vals[i-1]), enc))
		}
	}
}

func TestFloatOrder(t *testing.T) {
	f64 := []float64{math.Inf(-1), -1e300, -2.5, -1, -0.1, 0, 0.1, 1, 2.5, 1e300, math.Inf(1)}
	for i, f := range f64 {
		enc := PutFloat64(f)
		got, err := Float64(enc)
		require.NoError(t, err)
		assert.Equal(t, f, got)
		if i > 0 {
			assert.Equal(t, -1, Compare(PutFloat64(f64[i-1]), enc), "%v < %v", f64[i-1], f)
		}
	}

	f32 := []float32{-3.5, -1, 0, 0.25, 7}
	for i, f := range f32 {
		enc := PutFloat32(f)
		got, err := Float32(enc)
		require.NoError(t, err)
		assert.Equal(t, f, got)
		if i > 0 {
			assert.Equal(t, -1, Compare(PutFloat32(f32[i-1]), enc))
		}
	}
}

func TestDecimalRoundTripAndOrder(t *testing.T) {
	strs := []string{"-12345.678", "-100", "-5", "-0.55", "-0.5", "-0.05", "0", "0.001", "0.05", "0.5", "0.501", "0.55", "5", "50", "100", "1234.5"}
	for i, s := range strs {
		d := decimal.RequireFromString(s)
		enc, err := PutDecimal(d)
		require.NoError(t, err)
		got, err := Decimal(enc)
		require.NoError(t, err)
		assert.True(t, d.Equal(got), "%s != %s", s, got)
		if i > 0 {
			prev, err := PutDecimal(decimal.RequireFromString(strs[i-1]))
			require.NoError(t, err)
			assert.Equal(t, -1, Compare(prev, enc), "%s < %s", strs[i-1], s)
		}
	}

	// trailing zeros do not change the encoding
	a, err := PutDecimal(decimal.RequireFromString("1.50"))
	require.NoError(t, err)
	b, err := PutDecimal(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDateOrder(t *testing.T) {
	dates := []time.Time{
		time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 999, time.UTC),
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 1, 1, 0, 0, 0, 1, time.UTC),
		time.Date(2024, 2, 29, 12, 30, 0, 0, time.UTC),
	}
	for i, d := range dates {
		enc := PutDate(d)
		assert.Len(t, enc, 1+DateSize)
		got, err := Date(enc)
		require.NoError(t, err)
		assert.True(t, d.Equal(got))
		if i > 0 {
			assert.Equal(t, -1, Compare(PutDate(dates[i-1]), enc))
		}
	}
}

func TestCharsAndWide(t *testing.T) {
	assert.Equal(t, -1, Compare(PutChars("ab"), PutChars("abc")))
	assert.Equal(t, -1, Compare(PutChars(""), PutChars("a")))
	s, err := Chars(PutChars("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	enc, err := PutWide("héllo☃")
	require.NoError(t, err)
	w, err := Wide(enc)
	require.NoError(t, err)
	assert.Equal(t, "héllo☃", w)
	n, err := WideLen("héllo☃")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	b, err := Bytes(PutBytes([]byte{0, 1, 2}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, b)

	_, err = Chars([]byte{MarkerValue, 'a'})
	assert.True(t, ErrMalformed.Is(err))
}

func TestBlobRef(t *testing.T) {
	id := uuid.New()
	enc := PutBlobRef(id, 1<<20, []byte("prefix"))
	assert.True(t, IsBlob(enc))
	assert.False(t, IsBlob(PutChars("prefix")))

	gotID, size, prefix, err := BlobRef(enc)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, int64(1<<20), size)
	assert.Equal(t, []byte("prefix"), prefix)

	nulled, err := NullifyBlobRef(enc)
	require.NoError(t, err)
	gotID, size, _, err = BlobRef(nulled)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, gotID)
	assert.Equal(t, int64(1<<20), size)
}

func TestLengthPrefixed(t *testing.T) {
	long := make([]byte, 300)
	var buf []byte
	buf = AppendLengthPrefixed(buf, []byte("abc"))
	buf = AppendLengthPrefixed(buf, long)
	buf = AppendLengthPrefixed(buf, nil)

	v, rest, err := ReadLengthPrefixed(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)
	v, rest, err = ReadLengthPrefixed(rest)
	require.NoError(t, err)
	assert.Len(t, v, 300)
	v, rest, err = ReadLengthPrefixed(rest)
	require.NoError(t, err)
	assert.Empty(t, v)
	assert.Empty(t, rest)

	_, _, err = ReadLengthPrefixed([]byte{5, 1})
	assert.True(t, ErrMalformed.Is(err))
}

func TestInvert(t *testing.T) {
	v := PutFloat64(1.5)
	inv := Inverted(nil, v)
	assert.Equal(t, MarkerDesc, inv[0])
	assert.True(t, IsDescending(inv))
	Invert(inv)
	assert.Equal(t, v, inv)
}
