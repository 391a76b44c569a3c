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
	"fmt"
	"math"
	"sort"
	"strings"
)

// Datatype is the internal storage representation of a value. The ordinals index the
// conversion and comparison matrices and must not change.
type Datatype uint8

const (
	DTChar Datatype = iota
	DTInteger
	DTFloat
	DTDouble
	DTDate
	DTDecimal
	DTBinary
	DTUnicode
	DTBigint

	// NumDatatypes is the number of internal datatypes.
	NumDatatypes = 9
)

var datatypeNames = [NumDatatypes]string{"CHAR", "INTEGER", "FLOAT", "DOUBLE", "DATE", "DECIMAL", "BINARY", "UNICODE", "BIGINT"}

func (dt Datatype) String() string {
	if int(dt) < NumDatatypes {
		return datatypeNames[dt]
	}
	return fmt.Sprintf("Datatype(%d)", uint8(dt))
}

// IsNumeric returns whether |dt| is one of the numeric families.
func (dt Datatype) IsNumeric() bool {
	switch dt {
	case DTInteger, DTFloat, DTDouble, DTDecimal, DTBigint:
		return true
	}
	return false
}

// IsText returns whether |dt| holds character data.
func (dt Datatype) IsText() bool {
	return dt == DTChar || dt == DTUnicode
}

// SQLType is the externally visible SQL type, numbered with the ODBC type codes.
type SQLType int8

const (
	SQLWLongVarchar  SQLType = -10
	SQLWVarchar      SQLType = -9
	SQLWChar         SQLType = -8
	SQLBit           SQLType = -7
	SQLTinyint       SQLType = -6
	SQLBigint        SQLType = -5
	SQLLongVarbinary SQLType = -4
	SQLVarbinary     SQLType = -3
	SQLBinary        SQLType = -2
	SQLLongVarchar   SQLType = -1
	SQLChar          SQLType = 1
	SQLNumeric       SQLType = 2
	SQLDecimal       SQLType = 3
	SQLInteger       SQLType = 4
	SQLSmallint      SQLType = 5
	SQLFloat         SQLType = 6
	SQLReal          SQLType = 7
	SQLDouble        SQLType = 8
	SQLDate          SQLType = 9
	SQLTime          SQLType = 10
	SQLTimestamp     SQLType = 11
	SQLVarchar       SQLType = 12

	sqlTypeMin    = SQLWLongVarchar
	sqlTypeMax    = SQLVarchar
	sqlTypeOffset = -int(sqlTypeMin)
)

type paramClass uint8

const (
	paramsNone paramClass = iota
	paramsLength
	paramsLengthScale
)

const (
	MaxCharLength     = 32000
	MaxLongLength     = math.MaxInt32
	MaxDecimalLength  = 38
	DefaultDecLength  = 16
	DefaultDecScale   = 2
	DefaultVarLength  = 254
	maxFloatPrecision = 53
)

// sqlTypeInfo is the static description of one SQL type.
type sqlTypeInfo struct {
	valid    bool
	name     string
	dt       Datatype
	params   paramClass
	defLen   int
	defScale int
	maxLen   int
	// reconvertOnCopy marks types whose cached native value is not carried across copies.
	reconvertOnCopy bool
	// fixed marks fixed width character types, whose trailing spaces are insignificant.
	fixed   bool
	long    bool
	widened SQLType
	minInt  int64
	maxInt  int64
}

var sqlTypeTable = func() [int(sqlTypeMax) + sqlTypeOffset + 1]sqlTypeInfo {
	var tbl [int(sqlTypeMax) + sqlTypeOffset + 1]sqlTypeInfo
	set := func(st SQLType, info sqlTypeInfo) {
		info.valid = true
		if info.widened == 0 {
			info.widened = st
		}
		tbl[int(st)+sqlTypeOffset] = info
	}

	set(SQLChar, sqlTypeInfo{name: "CHAR", dt: DTChar, params: paramsLength, defLen: 1, maxLen: MaxCharLength, fixed: true, widened: SQLVarchar})
	set(SQLVarchar, sqlTypeInfo{name: "VARCHAR", dt: DTChar, params: paramsLength, defLen: DefaultVarLength, maxLen: MaxCharLength})
	set(SQLLongVarchar, sqlTypeInfo{name: "LONG VARCHAR", dt: DTChar, params: paramsLength, defLen: MaxLongLength, maxLen: MaxLongLength, long: true})
	set(SQLWChar, sqlTypeInfo{name: "WCHAR", dt: DTUnicode, params: paramsLength, defLen: 1, maxLen: MaxCharLength, fixed: true, widened: SQLWVarchar})
	set(SQLWVarchar, sqlTypeInfo{name: "WVARCHAR", dt: DTUnicode, params: paramsLength, defLen: DefaultVarLength, maxLen: MaxCharLength})
	set(SQLWLongVarchar, sqlTypeInfo{name: "LONG WVARCHAR", dt: DTUnicode, params: paramsLength, defLen: MaxLongLength, maxLen: MaxLongLength, long: true})
	set(SQLBinary, sqlTypeInfo{name: "BINARY", dt: DTBinary, params: paramsLength, defLen: 1, maxLen: MaxCharLength, widened: SQLVarbinary})
	set(SQLVarbinary, sqlTypeInfo{name: "VARBINARY", dt: DTBinary, params: paramsLength, defLen: DefaultVarLength, maxLen: MaxCharLength})
	set(SQLLongVarbinary, sqlTypeInfo{name: "LONG VARBINARY", dt: DTBinary, params: paramsLength, defLen: MaxLongLength, maxLen: MaxLongLength, long: true})
	set(SQLNumeric, sqlTypeInfo{name: "NUMERIC", dt: DTDecimal, params: paramsLengthScale, defLen: DefaultDecLength, defScale: DefaultDecScale, maxLen: MaxDecimalLength, reconvertOnCopy: true, widened: SQLDecimal})
	set(SQLDecimal, sqlTypeInfo{name: "DECIMAL", dt: DTDecimal, params: paramsLengthScale, defLen: DefaultDecLength, defScale: DefaultDecScale, maxLen: MaxDecimalLength, reconvertOnCopy: true})
	set(SQLInteger, sqlTypeInfo{name: "INTEGER", dt: DTInteger, defLen: 10, maxLen: 10, minInt: math.MinInt32, maxInt: math.MaxInt32})
	set(SQLSmallint, sqlTypeInfo{name: "SMALLINT", dt: DTInteger, defLen: 5, maxLen: 5, minInt: math.MinInt16, maxInt: math.MaxInt16, widened: SQLInteger})
	set(SQLTinyint, sqlTypeInfo{name: "TINYINT", dt: DTInteger, defLen: 3, maxLen: 3, minInt: math.MinInt8, maxInt: math.MaxInt8, widened: SQLInteger})
	set(SQLBit, sqlTypeInfo{name: "BIT", dt: DTInteger, defLen: 1, maxLen: 1, minInt: 0, maxInt: 1, widened: SQLInteger})
	set(SQLBigint, sqlTypeInfo{name: "BIGINT", dt: DTBigint, defLen: 19, maxLen: 19, minInt: math.MinInt64, maxInt: math.MaxInt64})
	set(SQLReal, sqlTypeInfo{name: "REAL", dt: DTFloat, defLen: 7, maxLen: 7})
	set(SQLFloat, sqlTypeInfo{name: "FLOAT", dt: DTDouble, params: paramsLength, defLen: 15, maxLen: maxFloatPrecision})
	set(SQLDouble, sqlTypeInfo{name: "DOUBLE", dt: DTDouble, defLen: 15, maxLen: 15})
	set(SQLDate, sqlTypeInfo{name: "DATE", dt: DTDate, defLen: 10, maxLen: 10, reconvertOnCopy: true})
	set(SQLTime, sqlTypeInfo{name: "TIME", dt: DTDate, defLen: 8, maxLen: 8, reconvertOnCopy: true})
	set(SQLTimestamp, sqlTypeInfo{name: "TIMESTAMP", dt: DTDate, defLen: 29, defScale: 9, maxLen: 29, reconvertOnCopy: true})
	return tbl
}()

func (st SQLType) info() *sqlTypeInfo {
	i := int(st) + sqlTypeOffset
	if i < 0 || i >= len(sqlTypeTable) || !sqlTypeTable[i].valid {
		panic(fmt.Sprintf("invalid SQL type %d", int8(st)))
	}
	return &sqlTypeTable[i]
}

// Valid returns whether |st| is a known SQL type.
func (st SQLType) Valid() bool {
	i := int(st) + sqlTypeOffset
	return i >= 0 && i < len(sqlTypeTable) && sqlTypeTable[i].valid
}

// Datatype returns the internal datatype |st| is stored as.
func (st SQLType) Datatype() Datatype {
	return st.info().dt
}

func (st SQLType) String() string {
	if !st.Valid() {
		return fmt.Sprintf("SQLType(%d)", int8(st))
	}
	return st.info().name
}

// AllSQLTypes returns every SQL type in code order.
func AllSQLTypes() []SQLType {
	var out []SQLType
	for st := sqlTypeMin; st <= sqlTypeMax; st++ {
		if st.Valid() {
			out = append(out, st)
		}
	}
	return out
}

type typeAlias struct {
	name string
	st   SQLType
}

// typeAliases is sorted by name.
var typeAliases = []typeAlias{
	{"BIGINT", SQLBigint},
	{"BINARY", SQLBinary},
	{"BINARY LARGE OBJECT", SQLLongVarbinary},
	{"BIT", SQLBit},
	{"BLOB", SQLLongVarbinary},
	{"CHAR", SQLChar},
	{"CHAR VARYING", SQLVarchar},
	{"CHARACTER", SQLChar},
	{"CHARACTER LARGE OBJECT", SQLLongVarchar},
	{"CHARACTER VARYING", SQLVarchar},
	{"CLOB", SQLLongVarchar},
	{"DATE", SQLDate},
	{"DEC", SQLDecimal},
	{"DECIMAL", SQLDecimal},
	{"DOUBLE", SQLDouble},
	{"DOUBLE PRECISION", SQLDouble},
	{"FLOAT", SQLFloat},
	{"INT", SQLInteger},
	{"INTEGER", SQLInteger},
	{"LONG NVARCHAR", SQLWLongVarchar},
	{"LONG VARBINARY", SQLLongVarbinary},
	{"LONG VARCHAR", SQLLongVarchar},
	{"LONG WVARCHAR", SQLWLongVarchar},
	{"NATIONAL CHAR", SQLWChar},
	{"NATIONAL CHAR VARYING", SQLWVarchar},
	{"NATIONAL CHARACTER", SQLWChar},
	{"NATIONAL CHARACTER LARGE OBJECT", SQLWLongVarchar},
	{"NATIONAL CHARACTER VARYING", SQLWVarchar},
	{"NATIONAL VARCHAR", SQLWVarchar},
	{"NCHAR", SQLWChar},
	{"NCHAR VARYING", SQLWVarchar},
	{"NCLOB", SQLWLongVarchar},
	{"NUMERIC", SQLNumeric},
	{"NVARCHAR", SQLWVarchar},
	{"REAL", SQLReal},
	{"SMALLINT", SQLSmallint},
	{"TIME", SQLTime},
	{"TIMESTAMP", SQLTimestamp},
	{"TINYINT", SQLTinyint},
	{"VARBINARY", SQLVarbinary},
	{"VARCHAR", SQLVarchar},
	{"WCHAR", SQLWChar},
	{"WVARCHAR", SQLWVarchar},
}

// SQLTypeByName looks up a SQL type by any of its names. Matching ignores case and
// collapses runs of whitespace.
func SQLTypeByName(name string) (SQLType, bool) {
	key := strings.ToUpper(strings.Join(strings.Fields(name), " "))
	i := sort.Search(len(typeAliases), func(i int) bool { return typeAliases[i].name >= key })
	if i < len(typeAliases) && typeAliases[i].name == key {
		return typeAliases[i].st, true
	}
	return 0, false
}
