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
	"encoding/hex"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dolthub/attrval/store/va"
)

var numericLiteral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// odbcEscapes maps the ODBC date escape keywords to their SQL types.
var odbcEscapes = map[string]SQLType{
	"d":  SQLDate,
	"t":  SQLTime,
	"ts": SQLTimestamp,
}

var typedLiterals = map[string]SQLType{
	"DATE":      SQLDate,
	"TIME":      SQLTime,
	"TIMESTAMP": SQLTimestamp,
}

// NewConst creates a value of type |t| from the SQL literal |lit|. The literal is read in
// its natural type and converted into |t| with CAST rules.
func NewConst(env *Env, t *Type, lit string) (*Value, error) {
	if env == nil {
		env = DefaultEnv()
	}
	src, err := parseLiteral(env, lit)
	if err != nil {
		return nil, err
	}
	v := NewValue(env, t)
	if _, err := Convert(v, src); err != nil {
		return nil, err
	}
	v.literal = true
	return v, nil
}

// parseLiteral reads a literal into a value of its natural type.
func parseLiteral(env *Env, lit string) (*Value, error) {
	s := strings.TrimSpace(lit)
	bad := func() (*Value, error) { return nil, ErrIllegalLiteral.New(lit, "literal") }
	if s == "" {
		return bad()
	}

	if strings.EqualFold(s, "NULL") {
		return NewValue(env, extText), nil
	}

	if numericLiteral.MatchString(s) {
		return parseNumericLiteral(env, s)
	}

	if strings.HasPrefix(s, "{") {
		if !strings.HasSuffix(s, "}") {
			return bad()
		}
		inner := strings.TrimSpace(s[1 : len(s)-1])
		kw, rest, ok := strings.Cut(inner, " ")
		st, known := odbcEscapes[strings.ToLower(kw)]
		if !ok || !known {
			return bad()
		}
		return parseDateLiteral(env, lit, st, strings.TrimSpace(rest))
	}

	if i := strings.IndexByte(s, '\''); i > 0 {
		prefix := strings.ToUpper(strings.TrimSpace(s[:i]))
		body := s[i:]
		switch prefix {
		case "X":
			text, err := unquote(body)
			if err != nil {
				return bad()
			}
			b, err := hex.DecodeString(text)
			if err != nil {
				return bad()
			}
			return literalValue(env, extBinary, va.PutBytes(b)), nil
		case "N":
			text, err := unquote(body)
			if err != nil {
				return bad()
			}
			enc, err := va.PutWide(text)
			if err != nil {
				return bad()
			}
			return literalValue(env, extWide, enc), nil
		}
		if st, ok := typedLiterals[prefix]; ok {
			return parseDateLiteral(env, lit, st, body)
		}
		return bad()
	}

	if strings.HasPrefix(s, "'") {
		text, err := unquote(s)
		if err != nil {
			return bad()
		}
		return literalValue(env, extText, va.PutChars(text)), nil
	}
	return bad()
}

func literalValue(env *Env, t *Type, enc []byte) *Value {
	v := NewValue(env, t)
	v.setData(enc)
	return v
}

// unquote reads a single quoted string in which a quote is written twice.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return "", ErrIllegalLiteral.New(s, "string")
	}
	body := s[1 : len(s)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\'' {
			if i+1 >= len(body) || body[i+1] != '\'' {
				return "", ErrIllegalLiteral.New(s, "string")
			}
			i++
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

func parseDateLiteral(env *Env, lit string, st SQLType, quoted string) (*Value, error) {
	text, err := unquote(quoted)
	if err != nil {
		return nil, ErrIllegalLiteral.New(lit, st)
	}
	t, got, err := parseDateText(text, st, env.settings())
	if err != nil || (got != st && !(st == SQLTimestamp && got == SQLDate)) {
		return nil, ErrIllegalLiteral.New(lit, st)
	}
	return literalValue(env, mustNewType(st, 0, 0, true), va.PutDate(normalizeTime(t, st))), nil
}

// parseNumericLiteral reads an exponent literal as DOUBLE, a literal with a decimal point as
// DECIMAL, and an integer literal as the smallest of INTEGER, BIGINT and DECIMAL it fits.
func parseNumericLiteral(env *Env, s string) (*Value, error) {
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, ErrIllegalLiteral.New(s, SQLDouble)
		}
		return literalValue(env, extDouble, va.PutFloat64(f)), nil
	}

	if !strings.Contains(s, ".") {
		if x, err := strconv.ParseInt(s, 10, 64); err == nil {
			if x >= math.MinInt32 && x <= math.MaxInt32 {
				return literalValue(env, mustNewType(SQLInteger, 0, 0, true), va.PutInt32(int32(x))), nil
			}
			return literalValue(env, extBigint, va.PutInt64(x)), nil
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrIllegalLiteral.New(s, SQLDecimal)
	}
	digits := strings.TrimLeft(strings.TrimLeft(s, "+-"), "0")
	intPart, frac, _ := strings.Cut(digits, ".")
	length, scale := len(intPart)+len(frac), len(frac)
	if length > MaxDecimalLength {
		return nil, ErrIllegalLiteral.New(s, SQLDecimal)
	}
	t, err := NewType(SQLDecimal, max(length, 1), scale, true)
	if err != nil {
		return nil, ErrIllegalLiteral.New(s, SQLDecimal)
	}
	enc, err := va.PutDecimal(d)
	if err != nil {
		return nil, ErrIllegalLiteral.New(s, SQLDecimal)
	}
	return literalValue(env, t, enc), nil
}
