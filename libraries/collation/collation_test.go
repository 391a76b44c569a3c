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

package collation

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysFollowCollatedOrder(t *testing.T) {
	c, err := New("en")
	require.NoError(t, err)

	words := []string{"banana", "Apple", "cherry", "apple", "Banana", "ábc"}
	byCompare := append([]string(nil), words...)
	sort.SliceStable(byCompare, func(i, j int) bool { return c.Compare(byCompare[i], byCompare[j]) < 0 })

	byKey := append([]string(nil), words...)
	sort.SliceStable(byKey, func(i, j int) bool {
		return bytes.Compare(c.AppendKey(nil, byKey[i]), c.AppendKey(nil, byKey[j])) < 0
	})
	assert.Equal(t, byCompare, byKey)

	// letters sort alphabetically regardless of case, unlike a byte compare
	assert.Equal(t, -1, c.Compare("apple", "Banana"))
	assert.Equal(t, 1, bytes.Compare([]byte("apple"), []byte("Banana")))
}

func TestCaseInsensitive(t *testing.T) {
	c, err := New("en_ci")
	require.NoError(t, err)
	assert.Equal(t, "en_ci", c.Name())
	assert.Equal(t, 0, c.Compare("HELLO", "hello"))
	assert.Equal(t, c.AppendKey(nil, "HELLO"), c.AppendKey(nil, "hello"))

	cs, err := New("en")
	require.NoError(t, err)
	assert.NotEqual(t, 0, cs.Compare("HELLO", "hello"))
}

func TestRegistry(t *testing.T) {
	r, err := NewRegistry(2)
	require.NoError(t, err)

	a, err := r.Lookup("de")
	require.NoError(t, err)
	b, err := r.Lookup("de")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = r.Lookup("sv")
	require.NoError(t, err)
	_, err = r.Lookup("fr")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	_, err = r.Lookup("not a locale!")
	assert.True(t, ErrUnknownCollation.Is(err))
	_, err = Lookup("")
	assert.True(t, ErrUnknownCollation.Is(err))
}
