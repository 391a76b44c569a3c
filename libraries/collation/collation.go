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

// Package collation adapts locale collators to the value layer: collated comparison of
// character data and weight strings whose byte order matches the collated order.
package collation

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/src-d/go-errors.v1"
)

// ErrUnknownCollation is returned for a collation name that does not name a locale.
var ErrUnknownCollation = errors.NewKind("unknown collation: %s")

const (
	caseInsensitiveSuffix   = "_ci"
	accentInsensitiveSuffix = "_ai"
)

// Collation compares character data under locale rules and produces weight strings.
type Collation interface {
	Name() string
	// Compare orders |a| and |b| under the collation, returning -1, 0 or 1.
	Compare(a, b string) int
	// AppendKey appends the weight string of |s| to |dst|.
	AppendKey(dst []byte, s string) []byte
}

// Collator is a Collation backed by a golang.org/x/text collator. A collator keeps
// scratch state, so calls are serialized.
type Collator struct {
	name string

	mu  sync.Mutex
	c   *collate.Collator
	buf collate.Buffer
}

var _ Collation = (*Collator)(nil)

// New creates a collator from a name of the form <locale>[_ci][_ai], e.g. "de", "en_ci",
// "fr_ci_ai".
func New(name string) (*Collator, error) {
	locale := name
	var opts []collate.Option
	for {
		switch {
		case strings.HasSuffix(locale, caseInsensitiveSuffix):
			locale = strings.TrimSuffix(locale, caseInsensitiveSuffix)
			opts = append(opts, collate.IgnoreCase)
			continue
		case strings.HasSuffix(locale, accentInsensitiveSuffix):
			locale = strings.TrimSuffix(locale, accentInsensitiveSuffix)
			opts = append(opts, collate.IgnoreDiacritics)
			continue
		}
		break
	}

	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		return nil, ErrUnknownCollation.New(name)
	}
	return &Collator{name: name, c: collate.New(tag, opts...)}, nil
}

// Name returns the name the collator was created with.
func (c *Collator) Name() string {
	return c.name
}

// Compare implements Collation.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

// AppendKey implements Collation.
func (c *Collator) AppendKey(dst []byte, s string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	dst = append(dst, c.c.KeyFromString(&c.buf, s)...)
	c.buf.Reset()
	return dst
}

// Registry caches collators by name.
type Registry struct {
	cache *lru.Cache[string, *Collator]
}

// DefaultRegistrySize is the number of collators kept by the default registry.
const DefaultRegistrySize = 64

// NewRegistry creates a registry holding at most |size| collators.
func NewRegistry(size int) (*Registry, error) {
	cache, err := lru.New[string, *Collator](size)
	if err != nil {
		return nil, err
	}
	return &Registry{cache: cache}, nil
}

// Lookup returns the collator for |name|, creating and caching it on first use.
func (r *Registry) Lookup(name string) (*Collator, error) {
	if c, ok := r.cache.Get(name); ok {
		return c, nil
	}
	c, err := New(name)
	if err != nil {
		return nil, err
	}
	r.cache.Add(name, c)
	return c, nil
}

// Len returns the number of cached collators.
func (r *Registry) Len() int {
	return r.cache.Len()
}

var defaultRegistry = func() *Registry {
	r, err := NewRegistry(DefaultRegistrySize)
	if err != nil {
		panic(err)
	}
	return r
}()

// Lookup returns a collator from the process wide registry.
func Lookup(name string) (*Collator, error) {
	return defaultRegistry.Lookup(name)
}
