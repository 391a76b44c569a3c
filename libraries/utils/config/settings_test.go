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
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.BinaryCharConversion)
	assert.Equal(t, "1 MiB", s.BlobLoadLimit)
	n, err := s.BlobLoadLimitBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), n)
	lvl, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, lvl)
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
binary_char_conversion: false
blob_load_limit: 64 KiB
date_formats:
  - "02.01.2006"
`), 0644))

	s, err := LoadSettings(yamlPath)
	require.NoError(t, err)
	assert.False(t, s.BinaryCharConversion)
	assert.Equal(t, []string{"02.01.2006"}, s.DateFormats)
	assert.Equal(t, "info", s.LogLevel)
	n, err := s.BlobLoadLimitBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(64<<10), n)

	tomlPath := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
log_level = "debug"
timestamp_formats = ["2006/01/02 15:04"]
`), 0644))

	s, err = LoadSettings(tomlPath)
	require.NoError(t, err)
	assert.True(t, s.BinaryCharConversion)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, []string{"2006/01/02 15:04"}, s.TimestampFormats)

	_, err = LoadSettings(filepath.Join(dir, "settings.ini"))
	assert.Error(t, err)
	_, err = LoadSettings(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseSettingsRejectsBadValues(t *testing.T) {
	_, err := ParseSettings([]byte("blob_load_limit: lots\n"), YAMLFormat)
	assert.Error(t, err)
	_, err = ParseSettings([]byte("log_level: loud\n"), YAMLFormat)
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	s := DefaultSettings()
	cfg, err := NewMapConfig(map[string]string{
		BinaryCharConversionKey: "false",
		TimeFormatsKey:          "15h04, 15:04",
		DefaultCollationKey:     "de",
	})
	require.NoError(t, err)
	require.NoError(t, s.ApplyOverrides(cfg))
	assert.False(t, s.BinaryCharConversion)
	assert.Equal(t, []string{"15h04", "15:04"}, s.TimeFormats)
	assert.Equal(t, "de", s.DefaultCollation)

	require.NoError(t, cfg.SetStrings(map[string]string{BinaryCharConversionKey: "maybe"}))
	assert.Error(t, s.ApplyOverrides(cfg))
}

func TestMapConfig(t *testing.T) {
	cfg, err := NewMapConfig(nil)
	require.NoError(t, err)
	_, err = cfg.GetString(LogLevelKey)
	assert.Equal(t, ErrConfigParamNotFound, err)
	assert.Equal(t, "info", GetStringOrDefault(cfg, LogLevelKey, "info"))

	require.NoError(t, cfg.SetStrings(map[string]string{LogLevelKey: "debug", BlobLoadLimitKey: "2 MiB"}))
	assert.Equal(t, 2, cfg.Size())
	assert.Equal(t, "debug", GetStringOrDefault(cfg, LogLevelKey, "info"))

	var seen []string
	cfg.Iter(func(k, _ string) bool {
		seen = append(seen, k)
		return false
	})
	assert.Equal(t, []string{BlobLoadLimitKey, LogLevelKey}, seen)

	err = cfg.SetStrings(map[string]string{LogLevelKey: "warn", "colour": "blue"})
	assert.True(t, errors.Is(err, ErrUnknownSettingsKey))
	assert.Equal(t, "debug", GetStringOrDefault(cfg, LogLevelKey, "info"))

	_, err = NewMapConfig(map[string]string{"colour": "blue"})
	assert.Error(t, err)

	cfg.Unset([]string{LogLevelKey})
	assert.Equal(t, 1, cfg.Size())
	assert.Contains(t, SettingsKeys(), TimestampFormatsKey)
	assert.Len(t, SettingsKeys(), 7)
}
