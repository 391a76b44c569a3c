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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstInteger(t *testing.T) {
	v, err := NewConst(nil, testType(SQLInteger, 0, 0), "42")
	require.NoError(t, err)
	assert.Equal(t, int32(42), v.Int32())
	assert.True(t, v.IsLiteral())
	assert.NotZero(t, v.Flags()&FlagLiteral)
}

func TestNewConst(t *testing.T) {
	tests := []struct {
		name     string
		typ      *Type
		lit      string
		expected string
	}{
		{"negative integer", testType(SQLSmallint, 0, 0), " -17 ", "-17"},
		{"integer into decimal", testType(SQLNumeric, 6, 2), "42", "42.00"},
		{"rounded decimal", testType(SQLDecimal, 6, 2), "12.345", "12.35"},
		{"leading point", testType(SQLDecimal, 6, 2), ".5", "0.50"},
		{"big integer", testType(SQLBigint, 0, 0), "9999999999", "9999999999"},
		{"huge integer", testType(SQLDecimal, 30, 0), "123456789012345678901234567890", "123456789012345678901234567890"},
		{"exponent", testType(SQLDouble, 0, 0), "1.5e3", "1500"},
		{"decimal into double", testType(SQLDouble, 0, 0), "0.25", "0.25"},
		{"string", testType(SQLVarchar, 10, 0), "'it''s'", "it's"},
		{"empty string", testType(SQLVarchar, 10, 0), "''", ""},
		{"string into integer", testType(SQLInteger, 0, 0), "'  7'", "7"},
		{"national string", testType(SQLWVarchar, 10, 0), "N'héllo'", "héllo"},
		{"hex", testType(SQLVarbinary, 4, 0), "X'0aFF'", "0AFF"},
		{"date", testType(SQLDate, 0, 0), "DATE '2024-02-29'", "2024-02-29"},
		{"time", testType(SQLTime, 0, 0), "time '13:14:15'", "13:14:15"},
		{"timestamp", testType(SQLTimestamp, 0, 0), "TIMESTAMP '2024-02-29 10:11:12.5'", "2024-02-29 10:11:12.5"},
		{"date only timestamp", testType(SQLTimestamp, 0, 0), "TIMESTAMP '2024-02-29'", "2024-02-29 00:00:00"},
		{"odbc date", testType(SQLDate, 0, 0), "{d '2024-02-29'}", "2024-02-29"},
		{"odbc timestamp", testType(SQLTimestamp, 0, 0), "{ts '2024-02-29 10:11:12'}", "2024-02-29 10:11:12"},
		{"date into text", testType(SQLVarchar, 20, 0), "{d '2024-02-29'}", "2024-02-29"},
		{"text into date", testType(SQLDate, 0, 0), "'2024-02-29'", "2024-02-29"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, err := NewConst(nil, test.typ, test.lit)
			require.NoError(t, err)
			assert.Equal(t, test.expected, v.String())
			assert.True(t, v.IsLiteral())
		})
	}
}

func TestNewConstNull(t *testing.T) {
	for _, st := range []SQLType{SQLInteger, SQLVarchar, SQLDate, SQLLongVarbinary} {
		v, err := NewConst(nil, testType(st, 0, 0), "null")
		require.NoError(t, err)
		assert.True(t, v.IsNull(), st.String())
		assert.True(t, v.IsLiteral(), st.String())
	}
}

func TestNewConstErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		lit  string
		kind interface{ Is(error) bool }
	}{
		{"bare word", testType(SQLVarchar, 10, 0), "abc", ErrIllegalLiteral},
		{"empty", testType(SQLVarchar, 10, 0), "  ", ErrIllegalLiteral},
		{"unterminated", testType(SQLVarchar, 10, 0), "'abc", ErrIllegalLiteral},
		{"lone quote", testType(SQLVarchar, 10, 0), "'a'b'", ErrIllegalLiteral},
		{"bad hex", testType(SQLVarbinary, 10, 0), "X'0G'", ErrIllegalLiteral},
		{"bad date", testType(SQLDate, 0, 0), "DATE '2024-02-30'", ErrIllegalLiteral},
		{"time as date", testType(SQLDate, 0, 0), "DATE '10:00:00'", ErrIllegalLiteral},
		{"unknown prefix", testType(SQLVarchar, 10, 0), "Q'abc'", ErrIllegalLiteral},
		{"open odbc", testType(SQLDate, 0, 0), "{d '2024-01-01'", ErrIllegalLiteral},
		{"unknown odbc", testType(SQLDate, 0, 0), "{x '2024-01-01'}", ErrIllegalLiteral},
		{"text into integer", testType(SQLInteger, 0, 0), "'abc'", ErrIllegalConversion},
		{"out of range", testType(SQLInteger, 0, 0), "3000000000", ErrNumericOutOfRange},
		{"too many digits", testType(SQLDecimal, 6, 2), "12345.6", ErrNumericOverflow},
		{"binary into integer", testType(SQLInteger, 0, 0), "X'01'", ErrIllegalConversion},
		{"time into date", testType(SQLDate, 0, 0), "{t '10:00:00'}", ErrIllegalConversion},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, err := NewConst(nil, test.typ, test.lit)
			assert.Nil(t, v)
			require.Error(t, err)
			assert.True(t, test.kind.Is(err), "%v", err)
		})
	}
}
