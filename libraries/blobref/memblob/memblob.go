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

// Package memblob is an in memory, reference counted BLOB store.
package memblob

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/attrval/libraries/blobref"
	"github.com/dolthub/attrval/store/va"
)

type entry struct {
	data []byte
	refs int
}

// Store keeps BLOB content in memory until the last reference is dropped.
type Store struct {
	blobref.Layout

	mu    sync.Mutex
	blobs map[uuid.UUID]*entry
	log   *logrus.Entry
}

var _ blobref.Hooks = (*Store)(nil)

// New creates an empty store.
func New(log *logrus.Entry) *Store {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{
		blobs: make(map[uuid.UUID]*entry),
		log:   log.WithField("component", "memblob"),
	}
}

// Put stores |data| and returns a reference to it holding one reference. The first
// |prefixLen| bytes are kept inline in the reference.
func (s *Store) Put(data []byte, prefixLen int) []byte {
	id := uuid.New()
	owned := make([]byte, len(data))
	copy(owned, data)

	s.mu.Lock()
	s.blobs[id] = &entry{data: owned, refs: 1}
	s.mu.Unlock()

	if prefixLen > len(data) {
		prefixLen = len(data)
	}
	return va.PutBlobRef(id, int64(len(data)), data[:prefixLen])
}

// Inc implements blobref.Hooks.
func (s *Store) Inc(v []byte) error {
	id := s.ID(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.blobs[id]
	if !ok {
		return blobref.ErrUnknownBlob.New(id)
	}
	e.refs++
	s.log.WithFields(logrus.Fields{"blob": id, "refs": e.refs}).Trace("blob reference added")
	return nil
}

// Dec implements blobref.Hooks.
func (s *Store) Dec(v []byte) error {
	id := s.ID(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.blobs[id]
	if !ok {
		return blobref.ErrUnknownBlob.New(id)
	}
	e.refs--
	if e.refs == 0 {
		delete(s.blobs, id)
		s.log.WithField("blob", id).Debug("blob released")
	}
	return nil
}

// Load implements blobref.Hooks.
func (s *Store) Load(v []byte, limit int64) ([]byte, error) {
	if err := blobref.CheckLimit(s, v, limit); err != nil {
		return nil, err
	}
	id := s.ID(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.blobs[id]
	if !ok {
		return nil, blobref.ErrUnknownBlob.New(id)
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// RefCount returns the number of references to |id|, zero if it is not stored.
func (s *Store) RefCount(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.blobs[id]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of stored BLOBs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
