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
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Override keys understood by Settings.ApplyOverrides.
const (
	BinaryCharConversionKey = "binary_char_conversion"
	BlobLoadLimitKey        = "blob_load_limit"
	LogLevelKey             = "log_level"
	DefaultCollationKey     = "default_collation"
	DateFormatsKey          = "date_formats"
	TimeFormatsKey          = "time_formats"
	TimestampFormatsKey     = "timestamp_formats"
)

// Format is a settings file format.
type Format string

const (
	YAMLFormat Format = "yaml"
	TOMLFormat Format = "toml"
)

// Settings are the engine level knobs consulted by the value layer.
type Settings struct {
	// BinaryCharConversion enables implicit and explicit BINARY <-> CHAR conversion.
	BinaryCharConversion bool `yaml:"binary_char_conversion" toml:"binary_char_conversion" default:"true"`
	// BlobLoadLimit is the largest BLOB that is materialized in memory on demand, e.g. "1 MiB".
	BlobLoadLimit string `yaml:"blob_load_limit" toml:"blob_load_limit" default:"1 MiB"`
	LogLevel      string `yaml:"log_level" toml:"log_level" default:"info"`
	// DefaultCollation is the locale used for character types without an explicit collation.
	DefaultCollation string `yaml:"default_collation,omitempty" toml:"default_collation"`

	// Layouts tried, in order, before the built in layouts when reading dates from text.
	DateFormats      []string `yaml:"date_formats,omitempty" toml:"date_formats"`
	TimeFormats      []string `yaml:"time_formats,omitempty" toml:"time_formats"`
	TimestampFormats []string `yaml:"timestamp_formats,omitempty" toml:"timestamp_formats"`
}

// DefaultSettings returns Settings with every default applied.
func DefaultSettings() *Settings {
	s := &Settings{}
	if err := defaults.Set(s); err != nil {
		panic(err)
	}
	return s
}

// ParseSettings decodes settings of the given format on top of the defaults.
func ParseSettings(data []byte, format Format) (*Settings, error) {
	s := DefaultSettings()
	switch format {
	case YAMLFormat:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, errors.Wrap(err, "failed to parse yaml settings")
		}
	case TOMLFormat:
		if _, err := toml.Decode(string(data), s); err != nil {
			return nil, errors.Wrap(err, "failed to parse toml settings")
		}
	default:
		return nil, errors.Errorf("unknown settings format '%s'", format)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSettings reads a settings file, picking the format from its extension.
func LoadSettings(path string) (*Settings, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = YAMLFormat
	case ".toml":
		format = TOMLFormat
	default:
		return nil, errors.Errorf("cannot determine settings format of '%s'", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read settings file '%s'", path)
	}

	s, err := ParseSettings(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid settings file '%s'", path)
	}

	logrus.WithField("path", path).Info("loaded value settings")
	return s, nil
}

// ApplyOverrides copies every recognized key of |cfg| into |s|. List valued keys are comma
// separated.
func (s *Settings) ApplyOverrides(cfg ReadableConfig) error {
	var err error
	cfg.Iter(func(k, v string) bool {
		switch k {
		case BinaryCharConversionKey:
			var b bool
			b, err = strconv.ParseBool(v)
			if err != nil {
				err = errors.Wrapf(err, "invalid value for %s", k)
				return true
			}
			s.BinaryCharConversion = b
		case BlobLoadLimitKey:
			s.BlobLoadLimit = v
		case LogLevelKey:
			s.LogLevel = v
		case DefaultCollationKey:
			s.DefaultCollation = v
		case DateFormatsKey:
			s.DateFormats = splitList(v)
		case TimeFormatsKey:
			s.TimeFormats = splitList(v)
		case TimestampFormatsKey:
			s.TimestampFormats = splitList(v)
		default:
			logrus.WithField("key", k).Warn("ignoring unknown value setting")
		}
		return false
	})
	if err != nil {
		return err
	}
	return s.Validate()
}

// Validate checks that the string valued settings parse.
func (s *Settings) Validate() error {
	if _, err := s.BlobLoadLimitBytes(); err != nil {
		return err
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// BlobLoadLimitBytes returns BlobLoadLimit in bytes.
func (s *Settings) BlobLoadLimitBytes() (int64, error) {
	n, err := humanize.ParseBytes(s.BlobLoadLimit)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid blob load limit '%s'", s.BlobLoadLimit)
	}
	return int64(n), nil
}

// Level returns LogLevel as a logrus level.
func (s *Settings) Level() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return logrus.InfoLevel, errors.Wrapf(err, "invalid log level '%s'", s.LogLevel)
	}
	return lvl, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
