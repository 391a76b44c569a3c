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
	"golang.org/x/text/encoding/unicode"
)

// WideUnitSize is the width of one wide character unit.
const WideUnitSize = 2

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// PutChars encodes character data followed by a zero terminator.
func PutChars(s string) []byte {
	v := make([]byte, 0, len(s)+2)
	v = append(v, MarkerValue)
	v = append(v, s...)
	return append(v, 0)
}

// Chars decodes a value written by PutChars.
func Chars(v []byte) (string, error) {
	p, err := terminated("char", v, 1)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// PutBytes encodes binary data followed by a zero terminator.
func PutBytes(b []byte) []byte {
	v := make([]byte, 0, len(b)+2)
	v = append(v, MarkerValue)
	v = append(v, b...)
	return append(v, 0)
}

// Bytes decodes a value written by PutBytes. The result aliases |v|.
func Bytes(v []byte) ([]byte, error) {
	return terminated("binary", v, 1)
}

// CharData returns the data bytes of a char or binary encoding without copying.
func CharData(v []byte) ([]byte, error) {
	return terminated("char", v, 1)
}

// PutWide encodes |s| as UTF-16BE units followed by a two byte zero terminator.
func PutWide(s string) ([]byte, error) {
	units, err := EncodeWideUnits(s)
	if err != nil {
		return nil, err
	}
	return PutWideUnits(units), nil
}

// PutWideUnits encodes already UTF-16BE encoded units.
func PutWideUnits(units []byte) []byte {
	v := make([]byte, 0, len(units)+3)
	v = append(v, MarkerValue)
	v = append(v, units...)
	return append(v, 0, 0)
}

// Wide decodes a value written by PutWide.
func Wide(v []byte) (string, error) {
	units, err := WideUnits(v)
	if err != nil {
		return "", err
	}
	return DecodeWideUnits(units)
}

// WideUnits returns the UTF-16BE units of a wide encoding without copying.
func WideUnits(v []byte) ([]byte, error) {
	p, err := terminated("wide char", v, WideUnitSize)
	if err != nil {
		return nil, err
	}
	if len(p)%WideUnitSize != 0 {
		return nil, ErrMalformed.New("wide char", "odd length")
	}
	return p, nil
}

// WideLen returns the number of wide character units in |s|.
func WideLen(s string) (int, error) {
	units, err := EncodeWideUnits(s)
	if err != nil {
		return 0, err
	}
	return len(units) / WideUnitSize, nil
}

// DecodeWideUnits decodes UTF-16BE units into a string.
func DecodeWideUnits(units []byte) (string, error) {
	s, err := utf16be.NewDecoder().Bytes(units)
	if err != nil {
		return "", ErrMalformed.New("wide char", err)
	}
	return string(s), nil
}

// EncodeWideUnits encodes |s| into UTF-16BE units.
func EncodeWideUnits(s string) ([]byte, error) {
	units, err := utf16be.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, ErrMalformed.New("wide char", err)
	}
	return units, nil
}

func terminated(kind string, v []byte, termLen int) ([]byte, error) {
	p, err := payload(kind, v)
	if err != nil {
		return nil, err
	}
	if len(p) < termLen {
		return nil, ErrMalformed.New(kind, "missing terminator")
	}
	for _, b := range p[len(p)-termLen:] {
		if b != 0 {
			return nil, ErrMalformed.New(kind, "missing terminator")
		}
	}
	return p[:len(p)-termLen], nil
}
