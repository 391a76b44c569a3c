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
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	decNegative byte = 0x20
	decZero     byte = 0x30
	decPositive byte = 0x40
)

// PutDecimal encodes |d| as a sign byte, a base-100 exponent byte and base-100 digit pairs
// terminated by zero. Negative values have everything after the sign byte inverted.
// Values whose magnitude exponent does not fit in a byte are rejected.
func PutDecimal(d decimal.Decimal) ([]byte, error) {
	if d.IsZero() {
		return []byte{MarkerValue, decZero}, nil
	}

	digits := new(big.Int).Abs(d.Coefficient()).String()
	exp := int(d.Exponent())
	trimmed := strings.TrimRight(digits, "0")
	exp += len(digits) - len(trimmed)
	digits = trimmed

	// value == 0.<digits> * 10^e
	e := len(digits) + exp
	if e%2 != 0 {
		digits = "0" + digits
		e++
	}
	if len(digits)%2 != 0 {
		digits += "0"
	}
	e2 := e / 2
	if e2 < -128 || e2 > 127 {
		return nil, ErrMalformed.New("decimal", "exponent out of range")
	}

	neg := d.Sign() < 0
	v := make([]byte, 0, 4+len(digits)/2)
	v = append(v, MarkerValue)
	if neg {
		v = append(v, decNegative)
	} else {
		v = append(v, decPositive)
	}
	v = append(v, flipIf(neg, byte(e2+128)))
	for i := 0; i < len(digits); i += 2 {
		pair := (digits[i]-'0')*10 + (digits[i+1] - '0')
		v = append(v, flipIf(neg, pair+1))
	}
	return append(v, flipIf(neg, 0)), nil
}

// Decimal decodes a value written by PutDecimal.
func Decimal(v []byte) (decimal.Decimal, error) {
	p, err := payload("decimal", v)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(p) == 0 {
		return decimal.Decimal{}, ErrMalformed.New("decimal", "empty")
	}

	var neg bool
	switch p[0] {
	case decZero:
		if len(p) != 1 {
			return decimal.Decimal{}, ErrMalformed.New("decimal", "trailing bytes after zero")
		}
		return decimal.Zero, nil
	case decNegative:
		neg = true
	case decPositive:
	default:
		return decimal.Decimal{}, ErrMalformed.New("decimal", "bad sign byte")
	}
	if len(p) < 3 {
		return decimal.Decimal{}, ErrMalformed.New("decimal", "short")
	}

	e2 := int(flipIf(neg, p[1])) - 128
	var sb strings.Builder
	terminated := false
	for i, b := range p[2:] {
		b = flipIf(neg, b)
		if b == 0 {
			if i != len(p)-3 {
				return decimal.Decimal{}, ErrMalformed.New("decimal", "bytes after terminator")
			}
			terminated = true
			break
		}
		if b > 100 {
			return decimal.Decimal{}, ErrMalformed.New("decimal", "bad digit pair")
		}
		pair := b - 1
		sb.WriteByte('0' + pair/10)
		sb.WriteByte('0' + pair%10)
	}
	if !terminated {
		return decimal.Decimal{}, ErrMalformed.New("decimal", "missing terminator")
	}

	coef, ok := new(big.Int).SetString(sb.String(), 10)
	if !ok {
		return decimal.Decimal{}, ErrMalformed.New("decimal", "bad digits")
	}
	if neg {
		coef.Neg(coef)
	}
	return decimal.NewFromBigInt(coef, int32(2*e2-sb.Len())), nil
}

func flipIf(neg bool, b byte) byte {
	if neg {
		return ^b
	}
	return b
}
