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
	"strconv"
	"strings"

	"github.com/dolthub/attrval/libraries/collation"
)

// AttrKind distinguishes user columns from the system pseudo-columns.
type AttrKind uint8

const (
	AttrUser AttrKind = iota
	AttrTupleID
	AttrTupleVersion
	AttrTransactionID
	AttrClusterID
	AttrRelationID
	AttrKeyID
	AttrSyncVersion
	AttrRemoved
	AttrUndefined
	AttrCollationKey
	numAttrKinds
)

// ParamMode is the direction of a procedure parameter.
type ParamMode uint8

const (
	ParamUnknown ParamMode = iota
	ParamIn
	ParamOut
	ParamInOut
)

// Type describes a column, parameter or expression type. A Type owns its default values;
// it does not own the buffers of values that are bound to it.
type Type struct {
	kind    AttrKind
	sqlType SQLType
	length  int
	scale   int

	nullable bool
	pseudo   bool
	sync     bool

	paramMode    ParamMode
	autoInc      bool
	autoIncSeqID int64

	extType   int32
	extLength int
	extScale  int

	coll collation.Collation

	origDefault *Value
	curDefault  *Value
}

// NewType creates a user Type. A zero |length| selects the SQL type's default length and
// scale.
func NewType(st SQLType, length, scale int, nullable bool) (*Type, error) {
	if !st.Valid() {
		return nil, ErrIllegalType.New(fmt.Sprintf("%d", int8(st)))
	}
	info := st.info()
	if length == 0 {
		length, scale = info.defLen, info.defScale
	}
	if err := checkParams(st, length, scale); err != nil {
		return nil, err
	}
	return &Type{kind: AttrUser, sqlType: st, length: length, scale: scale, nullable: nullable}, nil
}

func mustNewType(st SQLType, length, scale int, nullable bool) *Type {
	t, err := NewType(st, length, scale, nullable)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTypeFromName creates a Type from a SQL type name and its parameter text, e.g.
// ("NUMERIC", "6,2") or ("varchar", "30").
func NewTypeFromName(name, params string, nullable bool) (*Type, error) {
	st, ok := SQLTypeByName(name)
	if !ok {
		return nil, ErrIllegalType.New(name)
	}
	length, scale, err := parseParams(st, params)
	if err != nil {
		return nil, err
	}
	return &Type{kind: AttrUser, sqlType: st, length: length, scale: scale, nullable: nullable}, nil
}

// canonicalSQLType is the SQL type used when only an internal datatype is known.
var canonicalSQLType = [NumDatatypes]SQLType{
	DTChar:    SQLVarchar,
	DTInteger: SQLInteger,
	DTFloat:   SQLReal,
	DTDouble:  SQLDouble,
	DTDate:    SQLTimestamp,
	DTDecimal: SQLDecimal,
	DTBinary:  SQLVarbinary,
	DTUnicode: SQLWVarchar,
	DTBigint:  SQLBigint,
}

// NewTypeFromDatatype creates a Type with the canonical SQL type and default parameters
// of |dt|.
func NewTypeFromDatatype(dt Datatype, nullable bool) *Type {
	return mustNewType(canonicalSQLType[dt], 0, 0, nullable)
}

func parseParams(st SQLType, params string) (length, scale int, err error) {
	info := st.info()
	params = strings.TrimSpace(params)
	if params == "" {
		return info.defLen, info.defScale, nil
	}

	bad := func() (int, int, error) {
		return 0, 0, ErrIllegalTypeParameter.New(params, st)
	}

	switch info.params {
	case paramsNone:
		return bad()
	case paramsLength:
		length, err = strconv.Atoi(strings.TrimSpace(params))
		if err != nil || length < 0 {
			return bad()
		}
		if length == 0 {
			length = info.defLen
		}
	case paramsLengthScale:
		parts := strings.Split(params, ",")
		if len(parts) > 2 {
			return bad()
		}
		length, err = strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return bad()
		}
		if len(parts) == 2 {
			scale, err = strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return bad()
			}
		}
	}

	if checkParams(st, length, scale) != nil {
		return bad()
	}
	return length, scale, nil
}

func checkParams(st SQLType, length, scale int) error {
	info := st.info()
	switch info.params {
	case paramsLengthScale:
		if length < 1 || length > info.maxLen || scale < 0 || scale > length {
			return ErrIllegalTypeParameter.New(fmt.Sprintf("%d,%d", length, scale), st)
		}
	case paramsLength:
		if length < 1 || length > info.maxLen {
			return ErrIllegalTypeParameter.New(strconv.Itoa(length), st)
		}
	default:
		if length != info.defLen || scale != info.defScale {
			return ErrIllegalTypeParameter.New(fmt.Sprintf("%d,%d", length, scale), st)
		}
	}
	return nil
}

// Kind returns the attribute kind.
func (t *Type) Kind() AttrKind { return t.kind }

// SQLType returns the SQL datatype.
func (t *Type) SQLType() SQLType { return t.sqlType }

// Datatype returns the internal datatype.
func (t *Type) Datatype() Datatype { return t.sqlType.info().dt }

func (t *Type) Length() int { return t.length }
func (t *Type) Scale() int  { return t.scale }

func (t *Type) NullAllowed() bool        { return t.nullable }
func (t *Type) SetNullAllowed(b bool)    { t.nullable = b }
func (t *Type) IsPseudo() bool           { return t.pseudo }
func (t *Type) SetPseudo(b bool)         { t.pseudo = b }
func (t *Type) IsSync() bool             { return t.sync }
func (t *Type) SetSync(b bool)           { t.sync = b }
func (t *Type) ParamMode() ParamMode     { return t.paramMode }
func (t *Type) SetParamMode(m ParamMode) { t.paramMode = m }

// AutoIncrement returns whether the column is auto incremented, and from which sequence.
func (t *Type) AutoIncrement() (bool, int64) { return t.autoInc, t.autoIncSeqID }

// SetAutoIncrement marks the column as auto incremented from sequence |seqID|.
func (t *Type) SetAutoIncrement(seqID int64) {
	t.autoInc = true
	t.autoIncSeqID = seqID
}

// Collation returns the collation handle, nil when byte order is used.
func (t *Type) Collation() collation.Collation { return t.coll }

// SetCollation attaches a collation to a character type.
func (t *Type) SetCollation(c collation.Collation) { t.coll = c }

// External returns the external-system type tag and its length and scale.
func (t *Type) External() (tag int32, length, scale int) {
	return t.extType, t.extLength, t.extScale
}

// SetExternal records how an external system describes the type.
func (t *Type) SetExternal(tag int32, length, scale int) {
	t.extType, t.extLength, t.extScale = tag, length, scale
}

// isFixedChar returns whether trailing spaces are insignificant for this type.
func (t *Type) isFixedChar() bool { return t.sqlType.info().fixed }

// isLong returns whether the type has no practical length bound.
func (t *Type) isLong() bool { return t.sqlType.info().long }

// ReconvertOnCopy reports whether the native value cached on a value of this type must be
// recomputed after a copy.
func (t *Type) ReconvertOnCopy() bool { return t.sqlType.info().reconvertOnCopy }

func (t *Type) String() string {
	info := t.sqlType.info()
	switch {
	case info.params == paramsLengthScale:
		return fmt.Sprintf("%s(%d,%d)", info.name, t.length, t.scale)
	case info.params == paramsLength && !info.long:
		if t.sqlType == SQLFloat && t.length == info.defLen {
			return info.name
		}
		return fmt.Sprintf("%s(%d)", info.name, t.length)
	}
	return info.name
}

// Copy returns a deep copy, including copies of the defaults.
func (t *Type) Copy() (*Type, error) {
	cp := &Type{}
	if err := t.CopyInto(cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// CopyInto overwrites |dst| with a deep copy of |t|, releasing the defaults |dst| held.
func (t *Type) CopyInto(dst *Type) error {
	if err := dst.ReleaseDefaults(); err != nil {
		return err
	}
	*dst = *t
	dst.origDefault, dst.curDefault = nil, nil
	var err error
	if t.origDefault != nil {
		if dst.origDefault, err = t.origDefault.Copy(); err != nil {
			return err
		}
	}
	if t.curDefault != nil {
		if dst.curDefault, err = t.curDefault.Copy(); err != nil {
			return err
		}
	}
	return nil
}

// CopyWidened returns a copy widened to the most general variant of the same family:
// CHAR becomes VARCHAR, SMALLINT becomes INTEGER, NUMERIC becomes DECIMAL and the length
// is raised to at least the default of the new type. Defaults are not copied.
func (t *Type) CopyWidened() *Type {
	st := t.sqlType.info().widened
	info := st.info()
	cp := *t
	cp.origDefault, cp.curDefault = nil, nil
	cp.sqlType = st
	switch info.params {
	case paramsNone:
		cp.length, cp.scale = info.defLen, info.defScale
	case paramsLength:
		cp.length = max(cp.length, info.defLen)
	case paramsLengthScale:
		cp.length = min(max(cp.length, info.defLen), info.maxLen)
	}
	return &cp
}

// TypesEquivalent returns whether two types describe the same column shape.
func TypesEquivalent(t1, t2 *Type) bool {
	return t1.sqlType == t2.sqlType &&
		t1.length == t2.length &&
		t1.scale == t2.scale &&
		t1.nullable == t2.nullable &&
		t1.pseudo == t2.pseudo
}

// numericRank orders the numeric families for union.
var numericRank = map[Datatype]int{
	DTInteger: 1,
	DTBigint:  2,
	DTDecimal: 3,
	DTFloat:   4,
	DTDouble:  5,
}

// Union returns the type both |t1| and |t2| can be assigned to without loss, e.g. for the
// branches of a UNION or CASE.
func Union(t1, t2 *Type) (*Type, error) {
	dt1, dt2 := t1.Datatype(), t2.Datatype()
	nullable := t1.nullable || t2.nullable
	long := t1.isLong() || t2.isLong()
	clash := func() (*Type, error) { return nil, ErrIncompatibleTypes.New(t1, t2) }

	var res *Type
	switch {
	case t1.sqlType == t2.sqlType:
		res = &Type{kind: AttrUser, sqlType: t1.sqlType, length: max(t1.length, t2.length), scale: max(t1.scale, t2.scale)}
		if dt1 == DTDecimal {
			res = unionDecimal(t1, t2)
		}

	case dt1.IsText() && dt2.IsText():
		st := SQLVarchar
		if dt1 == DTUnicode || dt2 == DTUnicode {
			st = SQLWVarchar
		}
		if long {
			st = map[SQLType]SQLType{SQLVarchar: SQLLongVarchar, SQLWVarchar: SQLWLongVarchar}[st]
		}
		res = &Type{kind: AttrUser, sqlType: st, length: max(t1.length, t2.length)}

	case dt1 == DTBinary && dt2 == DTBinary:
		st := SQLVarbinary
		if long {
			st = SQLLongVarbinary
		}
		res = &Type{kind: AttrUser, sqlType: st, length: max(t1.length, t2.length)}

	case dt1 == DTDate && dt2 == DTDate:
		if t1.sqlType != SQLTimestamp && t2.sqlType != SQLTimestamp {
			return clash()
		}
		res = mustNewType(SQLTimestamp, 0, 0, false)

	case dt1.IsNumeric() && dt2.IsNumeric():
		r1, r2 := numericRank[dt1], numericRank[dt2]
		switch {
		case dt1 == DTInteger && dt2 == DTInteger:
			res = t1.CopyWidened()
		case dt1 == DTDecimal || dt2 == DTDecimal:
			if max(r1, r2) > numericRank[DTDecimal] {
				res = mustNewType(SQLDouble, 0, 0, false)
			} else {
				res = unionDecimal(t1, t2)
			}
		case dt1 == DTFloat && dt2 == DTFloat:
			res = mustNewType(SQLReal, 0, 0, false)
		case max(r1, r2) >= numericRank[DTFloat]:
			res = mustNewType(SQLDouble, 0, 0, false)
		default:
			res = mustNewType(SQLBigint, 0, 0, false)
		}

	default:
		return clash()
	}

	res.nullable = nullable
	res.origDefault, res.curDefault = nil, nil
	if res.Datatype().IsText() {
		res.coll = t1.coll
		if res.coll == nil {
			res.coll = t2.coll
		}
	}
	return res, nil
}

// unionDecimal keeps the larger integer part and the larger scale of two exact numerics.
func unionDecimal(t1, t2 *Type) *Type {
	intDigits := func(t *Type) (int, int) {
		if t.Datatype() == DTDecimal {
			return t.length - t.scale, t.scale
		}
		return t.sqlType.info().defLen, 0
	}
	i1, s1 := intDigits(t1)
	i2, s2 := intDigits(t2)
	scale := max(s1, s2)
	length := min(max(i1, i2)+scale, MaxDecimalLength)
	return &Type{kind: AttrUser, sqlType: SQLDecimal, length: length, scale: min(scale, length)}
}

// systemSQLTypes are the SQL types the system attribute kinds are created with.
var systemSQLTypes = map[AttrKind]SQLType{
	AttrTupleID:       SQLVarbinary,
	AttrTupleVersion:  SQLBinary,
	AttrTransactionID: SQLBigint,
	AttrClusterID:     SQLVarbinary,
	AttrRelationID:    SQLInteger,
	AttrKeyID:         SQLInteger,
	AttrSyncVersion:   SQLBinary,
	AttrRemoved:       SQLTinyint,
	AttrCollationKey:  SQLVarbinary,
}

// CheckTypes validates that an attribute kind, internal datatype and SQL datatype are
// mutually consistent, e.g. when a type description arrives over the wire.
func CheckTypes(kind AttrKind, dt Datatype, st SQLType) bool {
	if kind >= numAttrKinds || int(dt) >= NumDatatypes || !st.Valid() {
		return false
	}
	if st.Datatype() != dt {
		return false
	}
	if want, ok := systemSQLTypes[kind]; ok && want != st {
		return false
	}
	return true
}

func newSystemType(kind AttrKind, length int) *Type {
	t := mustNewType(systemSQLTypes[kind], length, 0, false)
	t.kind = kind
	t.pseudo = true
	return t
}

// tupleVersionLength is the width of tuple and sync versions, an encoded TupleNumber.
const tupleVersionLength = 8

func NewTupleIDType() *Type       { return newSystemType(AttrTupleID, 0) }
func NewTupleVersionType() *Type  { return newSystemType(AttrTupleVersion, tupleVersionLength) }
func NewTransactionIDType() *Type { return newSystemType(AttrTransactionID, 0) }
func NewClusterIDType() *Type     { return newSystemType(AttrClusterID, 0) }
func NewRelationIDType() *Type    { return newSystemType(AttrRelationID, 0) }
func NewKeyIDType() *Type         { return newSystemType(AttrKeyID, 0) }
func NewRemovedType() *Type       { return newSystemType(AttrRemoved, 0) }

// NewSyncVersionType creates the type of the replication version pseudo-column.
func NewSyncVersionType() *Type {
	t := newSystemType(AttrSyncVersion, tupleVersionLength)
	t.sync = true
	return t
}

// NewUndefinedType creates a nullable placeholder type for values whose type is not known
// yet, e.g. an untyped parameter.
func NewUndefinedType() *Type {
	t := mustNewType(SQLVarchar, 0, 0, true)
	t.kind = AttrUndefined
	return t
}

// NewCollationKeyType creates the type of a column holding collation weight strings of up
// to |length| bytes.
func NewCollationKeyType(length int) (*Type, error) {
	t, err := NewType(SQLVarbinary, length, 0, true)
	if err != nil {
		return nil, err
	}
	t.kind = AttrCollationKey
	t.pseudo = true
	return t, nil
}

// InsertOriginalDefault sets the default the column was created with. The type takes
// ownership of |v| and releases a previous default.
func (t *Type) InsertOriginalDefault(v *Value) error {
	if t.origDefault != nil {
		if err := t.origDefault.Release(); err != nil {
			return err
		}
	}
	t.origDefault = v
	return nil
}

// InsertCurrentDefault sets the default in effect. The type takes ownership of |v| and
// releases a previous default.
func (t *Type) InsertCurrentDefault(v *Value) error {
	if t.curDefault != nil {
		if err := t.curDefault.Release(); err != nil {
			return err
		}
	}
	t.curDefault = v
	return nil
}

func (t *Type) OriginalDefault() *Value { return t.origDefault }
func (t *Type) CurrentDefault() *Value  { return t.curDefault }

// ReleaseDefaults releases both default values. It must be called before a type holding
// BLOB defaults is dropped.
func (t *Type) ReleaseDefaults() error {
	for _, slot := range []**Value{&t.origDefault, &t.curDefault} {
		if *slot == nil {
			continue
		}
		if err := (*slot).Release(); err != nil {
			return err
		}
		*slot = nil
	}
	return nil
}
