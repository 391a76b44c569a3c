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
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/attrval/libraries/blobref"
	"github.com/dolthub/attrval/libraries/collation"
	"github.com/dolthub/attrval/libraries/utils/config"
)

// Env carries the services values consult: BLOB hooks, settings, logging and a clock.
// Values remember the Env they were created in.
type Env struct {
	// Blobs are the BLOB services. Nil means the process wide hooks from blobref.Installed.
	Blobs    blobref.Hooks
	Settings *config.Settings
	Log      *logrus.Entry
	// Now supplies the current date for TIME to TIMESTAMP conversion.
	Now func() time.Time

	blobLimit int64
	// coll is the collation of character types that do not name one.
	coll collation.Collation
}

// NewEnv creates an Env. Nil arguments take their defaults.
func NewEnv(settings *config.Settings, blobs blobref.Hooks, log *logrus.Entry) (*Env, error) {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	limit, err := settings.BlobLoadLimitBytes()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	env := &Env{
		Blobs:     blobs,
		Settings:  settings,
		Log:       log.WithField("component", "attr"),
		Now:       time.Now,
		blobLimit: limit,
	}
	if settings.DefaultCollation != "" {
		c, err := collation.Lookup(settings.DefaultCollation)
		if err != nil {
			return nil, err
		}
		env.coll = c
	}
	return env, nil
}

var (
	defaultEnvOnce sync.Once
	defaultEnv     *Env
)

// DefaultEnv returns the Env used for values created with a nil Env.
func DefaultEnv() *Env {
	defaultEnvOnce.Do(func() {
		env, err := NewEnv(nil, nil, nil)
		if err != nil {
			panic(err)
		}
		defaultEnv = env
	})
	return defaultEnv
}

// ApplySettings applies the process wide parts of |s|: the BINARY/CHAR conversion switch.
func ApplySettings(s *config.Settings) {
	SetBinaryCharConversion(s.BinaryCharConversion)
}

func (e *Env) hooks() blobref.Hooks {
	if e.Blobs != nil {
		return e.Blobs
	}
	return blobref.Installed()
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) logger() *logrus.Entry {
	if e.Log != nil {
		return e.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func (e *Env) settings() *config.Settings {
	if e.Settings != nil {
		return e.Settings
	}
	return DefaultEnv().Settings
}

func (e *Env) loadLimit() int64 {
	if e.blobLimit > 0 {
		return e.blobLimit
	}
	if n, err := e.settings().BlobLoadLimitBytes(); err == nil {
		return n
	}
	return 0
}

// collationFor returns the collation used for character values of |t|, nil for byte order.
func (e *Env) collationFor(t *Type) collation.Collation {
	if t.coll != nil {
		return t.coll
	}
	return e.coll
}
