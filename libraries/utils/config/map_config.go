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

package config

import (
	"maps"
	"slices"

	"github.com/pkg/errors"
)

var (
	// ErrConfigParamNotFound is returned when a key is not present in a config.
	ErrConfigParamNotFound = errors.New("param not found")
	// ErrUnknownSettingsKey is returned when an override names no setting.
	ErrUnknownSettingsKey = errors.New("unknown settings key")
)

var settingsKeys = map[string]bool{
	BinaryCharConversionKey: true,
	BlobLoadLimitKey:        true,
	LogLevelKey:             true,
	DefaultCollationKey:     true,
	DateFormatsKey:          true,
	TimeFormatsKey:          true,
	TimestampFormatsKey:     true,
}

// SettingsKeys returns the override keys in sorted order.
func SettingsKeys() []string {
	return slices.Sorted(maps.Keys(settingsKeys))
}

// ReadableConfig is the read side of a key/value settings override.
type ReadableConfig interface {
	GetString(key string) (string, error)
	Iter(func(string, string) (stop bool))
	Size() int
}

// MapConfig holds settings overrides in memory, e.g. from command line flags or in tests.
// Only settings keys are accepted.
type MapConfig struct {
	properties map[string]string
}

var _ ReadableConfig = (*MapConfig)(nil)

// NewMapConfig creates an override set from |properties|. Unknown keys are an error.
func NewMapConfig(properties map[string]string) (*MapConfig, error) {
	mc := &MapConfig{properties: make(map[string]string, len(properties))}
	if err := mc.SetStrings(properties); err != nil {
		return nil, err
	}
	return mc, nil
}

// GetString retrieves the override for |k|.
func (mc *MapConfig) GetString(k string) (string, error) {
	if val, ok := mc.properties[k]; ok {
		return val, nil
	}
	return "", ErrConfigParamNotFound
}

// SetStrings sets the overrides in |updates|. Nothing is set if a key is unknown.
func (mc *MapConfig) SetStrings(updates map[string]string) error {
	for k := range updates {
		if !settingsKeys[k] {
			return errors.Wrap(ErrUnknownSettingsKey, k)
		}
	}
	maps.Copy(mc.properties, updates)
	return nil
}

// Iter calls |cb| for each override in key order until it returns true. Overrides apply
// in the same order on every run.
func (mc *MapConfig) Iter(cb func(string, string) (stop bool)) {
	for _, k := range slices.Sorted(maps.Keys(mc.properties)) {
		if cb(k, mc.properties[k]) {
			return
		}
	}
}

// Unset removes overrides.
func (mc *MapConfig) Unset(keys []string) {
	for _, k := range keys {
		delete(mc.properties, k)
	}
}

func (mc *MapConfig) Size() int {
	return len(mc.properties)
}

// GetStringOrDefault returns the value for |key| or |def| if it is not set.
func GetStringOrDefault(cfg ReadableConfig, key, def string) string {
	if cfg == nil {
		return def
	}
	val, err := cfg.GetString(key)
	if err != nil {
		return def
	}
	return val
}
