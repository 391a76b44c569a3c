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

package blobref

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/attrval/store/va"
)

func TestDefaultHooks(t *testing.T) {
	id := uuid.New()
	ref := va.PutBlobRef(id, 3<<20, []byte("abc"))
	h := Default()

	assert.True(t, h.IsBlob(ref))
	assert.False(t, h.IsBlob(va.PutChars("abc")))
	assert.Equal(t, int64(3<<20), h.Size(ref))
	assert.Equal(t, id, h.ID(ref))
	assert.NoError(t, h.Inc(ref))
	assert.NoError(t, h.Dec(ref))

	nulled, err := h.Nullify(ref)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, h.ID(nulled))
	_, err = h.Nullify(va.PutChars("abc"))
	assert.True(t, ErrNotBlob.Is(err))

	_, err = h.Load(ref, 1<<20)
	assert.True(t, ErrBlobTooLarge.Is(err))
	assert.Contains(t, err.Error(), "3.0 MiB")
	_, err = h.Load(ref, 4<<20)
	assert.True(t, ErrNoBlobStorage.Is(err))
}

func TestFuncsFallBackToDefault(t *testing.T) {
	var incs int
	f := Funcs{IncFn: func([]byte) error { incs++; return nil }}
	ref := va.PutBlobRef(uuid.New(), 10, nil)

	require.NoError(t, f.Inc(ref))
	require.NoError(t, f.Dec(ref))
	assert.Equal(t, 1, incs)
	assert.True(t, f.IsBlob(ref))
	assert.Equal(t, int64(10), f.Size(ref))
}

func TestInstallOnce(t *testing.T) {
	t.Cleanup(func() { current.Store(nil) })
	current.Store(nil)

	assert.Equal(t, Default(), Installed())

	var decs int
	err := InstallFuncs(nil, func([]byte) error { decs++; return nil }, nil, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, Installed().Dec(va.PutBlobRef(uuid.New(), 1, nil)))
	assert.Equal(t, 1, decs)

	err = Install(Default())
	assert.True(t, ErrAlreadyInstalled.Is(err))
}
