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

// Package blobref defines the services the value layer needs from the storage subsystem
// for values whose content lives out of line: reference counting, identity, size and
// on demand loading.
package blobref

import (
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/attrval/store/va"
)

var (
	ErrAlreadyInstalled = errors.NewKind("blob reference hooks are already installed")
	ErrNoBlobStorage    = errors.NewKind("no blob storage installed, cannot load blob %s")
	ErrBlobTooLarge     = errors.NewKind("blob %s is %s which exceeds the load limit of %s")
	ErrUnknownBlob      = errors.NewKind("unknown blob %s")
	ErrNotBlob          = errors.NewKind("value is not a blob reference")
)

// Hooks are the BLOB services. Every method receives the full encoded value.
type Hooks interface {
	// Inc adds a reference to the BLOB.
	Inc(v []byte) error
	// Dec drops a reference to the BLOB, releasing it when none remain.
	Dec(v []byte) error
	// Nullify returns a copy of the reference that no longer identifies the BLOB.
	Nullify(v []byte) ([]byte, error)
	IsBlob(v []byte) bool
	// Size is the total content size in bytes.
	Size(v []byte) int64
	ID(v []byte) uuid.UUID
	// Load returns the full content, failing when it is larger than |limit| bytes.
	Load(v []byte, limit int64) ([]byte, error)
}

// Funcs adapts plain callbacks to Hooks. Nil callbacks fall back to Default().
type Funcs struct {
	IncFn     func(v []byte) error
	DecFn     func(v []byte) error
	NullifyFn func(v []byte) ([]byte, error)
	IsBlobFn  func(v []byte) bool
	SizeFn    func(v []byte) int64
	IDFn      func(v []byte) uuid.UUID
	LoadFn    func(v []byte, limit int64) ([]byte, error)
}

var _ Hooks = Funcs{}

func (f Funcs) Inc(v []byte) error {
	if f.IncFn == nil {
		return defaultHooks.Inc(v)
	}
	return f.IncFn(v)
}

func (f Funcs) Dec(v []byte) error {
	if f.DecFn == nil {
		return defaultHooks.Dec(v)
	}
	return f.DecFn(v)
}

func (f Funcs) Nullify(v []byte) ([]byte, error) {
	if f.NullifyFn == nil {
		return defaultHooks.Nullify(v)
	}
	return f.NullifyFn(v)
}

func (f Funcs) IsBlob(v []byte) bool {
	if f.IsBlobFn == nil {
		return defaultHooks.IsBlob(v)
	}
	return f.IsBlobFn(v)
}

func (f Funcs) Size(v []byte) int64 {
	if f.SizeFn == nil {
		return defaultHooks.Size(v)
	}
	return f.SizeFn(v)
}

func (f Funcs) ID(v []byte) uuid.UUID {
	if f.IDFn == nil {
		return defaultHooks.ID(v)
	}
	return f.IDFn(v)
}

func (f Funcs) Load(v []byte, limit int64) ([]byte, error) {
	if f.LoadFn == nil {
		return defaultHooks.Load(v, limit)
	}
	return f.LoadFn(v, limit)
}

// Layout implements the identity parts of Hooks directly on the standard reference
// layout. Storage subsystems embed it.
type Layout struct{}

func (Layout) Nullify(v []byte) ([]byte, error) {
	if !va.IsBlob(v) {
		return nil, ErrNotBlob.New()
	}
	return va.NullifyBlobRef(v)
}

func (Layout) IsBlob(v []byte) bool {
	return va.IsBlob(v)
}

func (Layout) Size(v []byte) int64 {
	_, size, _, err := va.BlobRef(v)
	if err != nil {
		return 0
	}
	return size
}

func (Layout) ID(v []byte) uuid.UUID {
	id, _, _, err := va.BlobRef(v)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// diagnostic is the Hooks used until a storage subsystem installs its own. It owns no
// content.
type diagnostic struct {
	Layout
	log *logrus.Entry
}

var defaultHooks Hooks = diagnostic{log: logrus.WithField("component", "blobref")}

// Default returns the diagnostic hooks.
func Default() Hooks {
	return defaultHooks
}

func (d diagnostic) Inc(v []byte) error {
	d.log.WithField("blob", d.ID(v)).Debug("blob reference added without blob storage installed")
	return nil
}

func (d diagnostic) Dec(v []byte) error {
	d.log.WithField("blob", d.ID(v)).Debug("blob reference dropped without blob storage installed")
	return nil
}

func (d diagnostic) Load(v []byte, limit int64) ([]byte, error) {
	if err := CheckLimit(d, v, limit); err != nil {
		return nil, err
	}
	d.log.WithField("blob", d.ID(v)).Warn("blob load requested without blob storage installed")
	return nil, ErrNoBlobStorage.New(d.ID(v))
}

// CheckLimit returns ErrBlobTooLarge if the BLOB referenced by |v| is larger than |limit|.
func CheckLimit(h Hooks, v []byte, limit int64) error {
	if size := h.Size(v); size > limit {
		return ErrBlobTooLarge.New(h.ID(v), humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limit)))
	}
	return nil
}

type installed struct {
	hooks Hooks
}

var current atomic.Pointer[installed]

// Install replaces the process wide hooks. It may be called once, at startup, before any
// value referencing a BLOB is created.
func Install(h Hooks) error {
	if !current.CompareAndSwap(nil, &installed{hooks: h}) {
		return ErrAlreadyInstalled.New()
	}
	logrus.WithField("component", "blobref").Infof("installed blob reference hooks %T", h)
	return nil
}

// InstallFuncs installs plain callbacks, see Funcs.
func InstallFuncs(inc, dec func([]byte) error, nullify func([]byte) ([]byte, error),
	isBlob func([]byte) bool, size func([]byte) int64, id func([]byte) uuid.UUID) error {
	return Install(Funcs{IncFn: inc, DecFn: dec, NullifyFn: nullify, IsBlobFn: isBlob, SizeFn: size, IDFn: id})
}

// Installed returns the process wide hooks, or Default() if none were installed.
func Installed() Hooks {
	if i := current.Load(); i != nil {
		return i.hooks
	}
	return defaultHooks
}
