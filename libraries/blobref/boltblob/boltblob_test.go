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

package boltblob

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/attrval/libraries/blobref"
)

func TestPersistentRefCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blobs.db")
	s, err := Open(path, nil)
	require.NoError(t, err)

	data := bytes.Repeat([]byte("abcdefgh"), 4096)
	ref, err := s.Put(data, 16)
	require.NoError(t, err)
	id := s.ID(ref)
	assert.Equal(t, int64(len(data)), s.Size(ref))

	require.NoError(t, s.Inc(ref))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.RefCount(id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := s.Load(ref, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = s.Load(ref, 1024)
	assert.True(t, blobref.ErrBlobTooLarge.Is(err))

	require.NoError(t, s.Dec(ref))
	require.NoError(t, s.Dec(ref))
	n, err = s.RefCount(id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = s.Load(ref, 1<<20)
	assert.True(t, blobref.ErrUnknownBlob.Is(err))
	assert.True(t, blobref.ErrUnknownBlob.Is(s.Dec(ref)))
}
