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

// Package boltblob is a persistent, reference counted BLOB store on top of bbolt. Content
// is stored snappy compressed.
package boltblob

import (
	"encoding/binary"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/dolthub/attrval/libraries/blobref"
	"github.com/dolthub/attrval/store/va"
)

var (
	blobsBucket = []byte("blobs")
	refsBucket  = []byte("refs")
)

// Store is a bbolt backed blobref.Hooks implementation.
type Store struct {
	blobref.Layout

	db  *bolt.DB
	log *logrus.Entry
}

var _ blobref.Hooks = (*Store)(nil)

// Open opens or creates the store at |path|.
func Open(path string, log *logrus.Entry) (*Store, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open blob store '%s'", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(blobsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(refsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to initialize blob store")
	}

	return &Store{db: db, log: log.WithFields(logrus.Fields{"component": "boltblob", "path": path})}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores |data| with one reference and returns the reference, keeping the first
// |prefixLen| bytes inline.
func (s *Store) Put(data []byte, prefixLen int) ([]byte, error) {
	id := uuid.New()
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(blobsBucket).Put(id[:], snappy.Encode(nil, data)); err != nil {
			return err
		}
		return tx.Bucket(refsBucket).Put(id[:], encodeRefs(1))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store blob")
	}

	if prefixLen > len(data) {
		prefixLen = len(data)
	}
	return va.PutBlobRef(id, int64(len(data)), data[:prefixLen]), nil
}

// Inc implements blobref.Hooks.
func (s *Store) Inc(v []byte) error {
	return s.adjust(v, 1)
}

// Dec implements blobref.Hooks.
func (s *Store) Dec(v []byte) error {
	return s.adjust(v, -1)
}

func (s *Store) adjust(v []byte, delta int64) error {
	id := s.ID(v)
	return s.db.Update(func(tx *bolt.Tx) error {
		refs := tx.Bucket(refsBucket)
		cur := refs.Get(id[:])
		if cur == nil {
			return blobref.ErrUnknownBlob.New(id)
		}
		n := decodeRefs(cur) + delta
		if n > 0 {
			s.log.WithFields(logrus.Fields{"blob": id, "refs": n}).Trace("blob reference count changed")
			return refs.Put(id[:], encodeRefs(n))
		}
		if err := refs.Delete(id[:]); err != nil {
			return err
		}
		s.log.WithField("blob", id).Debug("blob released")
		return tx.Bucket(blobsBucket).Delete(id[:])
	})
}

// Load implements blobref.Hooks.
func (s *Store) Load(v []byte, limit int64) ([]byte, error) {
	if err := blobref.CheckLimit(s, v, limit); err != nil {
		return nil, err
	}
	id := s.ID(v)

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		compressed := tx.Bucket(blobsBucket).Get(id[:])
		if compressed == nil {
			return blobref.ErrUnknownBlob.New(id)
		}
		var err error
		data, err = snappy.Decode(nil, compressed)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// RefCount returns the number of references to |id|, zero if it is not stored.
func (s *Store) RefCount(id uuid.UUID) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bolt.Tx) error {
		if cur := tx.Bucket(refsBucket).Get(id[:]); cur != nil {
			n = decodeRefs(cur)
		}
		return nil
	})
	return n, err
}

func encodeRefs(n int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b
}

func decodeRefs(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}
