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

package tuplenum

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/attrval/store/va"
)

func TestInc(t *testing.T) {
	tn, err := Zero.Inc()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tn.Uint64())

	tn, err = FromUint64(0xFF).Inc()
	require.NoError(t, err)
	assert.Equal(t, TupleNumber{0, 0, 0, 0, 0, 0, 1, 0}, tn)

	_, err = Max.Inc()
	assert.True(t, ErrOverflow.Is(err))
}

func TestEncodedOrderMatchesNumericOrder(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	nums := []TupleNumber{Zero, Max, FromUint64(1), FromUint64(255), FromUint64(256)}
	for i := 0; i < 200; i++ {
		nums = append(nums, FromUint64(r.Uint64()>>uint(r.Intn(64))))
	}

	for _, a := range nums {
		for _, b := range nums[:20] {
			assert.Equal(t, Compare(a, b), va.Compare(a.Encode(), b.Encode()), "%s vs %s", a, b)
		}
	}

	enc := make([][]byte, len(nums))
	for i, n := range nums {
		enc[i] = n.Encode()
	}
	sort.Slice(nums, func(i, j int) bool { return Compare(nums[i], nums[j]) < 0 })
	sort.Slice(enc, func(i, j int) bool { return va.Compare(enc[i], enc[j]) < 0 })
	for i := range nums {
		got, err := Decode(enc[i])
		require.NoError(t, err)
		assert.Equal(t, nums[i], got)
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(va.Null())
	assert.True(t, ErrInvalid.Is(err))
	_, err = Decode([]byte{va.MarkerValue, 3, 1})
	assert.True(t, ErrInvalid.Is(err))
}

func TestParse(t *testing.T) {
	tn, err := Parse("12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", tn.String())
	_, err = Parse("-1")
	assert.True(t, ErrInvalid.Is(err))
}
