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
	"encoding/binary"

	"github.com/google/uuid"
)

const (
	blobIDSize   = 16
	blobSizeSize = 8
	// BlobHeaderSize is the width of a BLOB reference without its inline prefix.
	BlobHeaderSize = 1 + blobIDSize + blobSizeSize
)

// PutBlobRef encodes a reference to out-of-line content of |size| bytes identified by
// |id|. |prefix| is the leading part of the content kept inline, in the same byte form
// as the data portion of an inline value of the column's datatype.
func PutBlobRef(id uuid.UUID, size int64, prefix []byte) []byte {
	v := make([]byte, BlobHeaderSize, BlobHeaderSize+len(prefix))
	v[0] = MarkerBlob
	copy(v[1:], id[:])
	binary.BigEndian.PutUint64(v[1+blobIDSize:], uint64(size))
	return append(v, prefix...)
}

// IsBlob returns whether |v| is a BLOB reference.
func IsBlob(v []byte) bool {
	return len(v) >= BlobHeaderSize && v[0] == MarkerBlob
}

// BlobRef decodes a BLOB reference. The returned prefix aliases |v|.
func BlobRef(v []byte) (id uuid.UUID, size int64, prefix []byte, err error) {
	if !IsBlob(v) {
		return uuid.Nil, 0, nil, ErrMalformed.New("blob reference", "not a blob")
	}
	copy(id[:], v[1:1+blobIDSize])
	size = int64(binary.BigEndian.Uint64(v[1+blobIDSize:]))
	return id, size, v[BlobHeaderSize:], nil
}

// NullifyBlobRef returns a copy of |v| whose id is replaced by the nil id, leaving the
// size and prefix intact.
func NullifyBlobRef(v []byte) ([]byte, error) {
	if !IsBlob(v) {
		return nil, ErrMalformed.New("blob reference", "not a blob")
	}
	out := make([]byte, len(v))
	copy(out, v)
	for i := 1; i < 1+blobIDSize; i++ {
		out[i] = 0
	}
	return out, nil
}
