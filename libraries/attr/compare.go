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

	"github.com/dolthub/attrval/store/va"
)

// cmpFunc orders two non-NULL values whose datatypes are in matrix order.
type cmpFunc func(a, b *Value) (int, error)

type cmpKind uint8

const (
	cmpIllegal cmpKind = iota
	cmpCompare
	// cmpInvalid marks cells below the diagonal, which dispatch never reads.
	cmpInvalid
)

type cmpCell struct {
	kind cmpKind
	fn   cmpFunc
}

// compareMatrix is populated for [i][j] with i <= j.
var compareMatrix [NumDatatypes][NumDatatypes]cmpCell

func init() {
	for i := 0; i < NumDatatypes; i++ {
		for j := 0; j < i; j++ {
			compareMatrix[i][j] = cmpCell{kind: cmpInvalid}
		}
	}
	set := func(a, b Datatype, fn cmpFunc) {
		if a > b {
			a, b = b, a
		}
		compareMatrix[a][b] = cmpCell{kind: cmpCompare, fn: fn}
	}

	for _, a := range numericDatatypes {
		for _, b := range numericDatatypes {
			set(a, b, cmpNumbers)
		}
	}
	set(DTChar, DTChar, cmpText)
	set(DTChar, DTUnicode, cmpText)
	set(DTUnicode, DTUnicode, cmpText)
	set(DTChar, DTDate, cmpTextDate)
	set(DTDate, DTUnicode, cmpTextDate)
	set(DTDate, DTDate, cmpDates)
	set(DTBinary, DTBinary, cmpBinary)
}

// Relop is a relational operator.
type Relop uint8

const (
	RelopEqual Relop = iota
	RelopNotEqual
	RelopLT
	RelopGT
	RelopLE
	RelopGE
	RelopLike
	RelopNotLike
	RelopIsNull
	RelopIsNotNull
)

var relopNames = [...]string{"=", "<>", "<", ">", "<=", ">=", "LIKE", "NOT LIKE", "IS NULL", "IS NOT NULL"}

func (op Relop) String() string {
	if int(op) < len(relopNames) {
		return relopNames[op]
	}
	return fmt.Sprintf("Relop(%d)", uint8(op))
}

// IsComparison returns whether |op| orders two values.
func (op Relop) IsComparison() bool {
	return op <= RelopGE
}

// Tri is the outcome of a predicate.
type Tri int8

const (
	TriFalse Tri = iota
	TriTrue
	// TriFailed means the comparison could not be evaluated; an error accompanies it.
	TriFailed
)

func (t Tri) String() string {
	switch t {
	case TriFalse:
		return "false"
	case TriTrue:
		return "true"
	}
	return "failed"
}

// TypesComparisonCompatible returns whether values of |t1| and |t2| can be compared.
func TypesComparisonCompatible(t1, t2 *Type) bool {
	a, b := t1.Datatype(), t2.Datatype()
	if a > b {
		a, b = b, a
	}
	return compareMatrix[a][b].kind == cmpCompare && !dateTimeClash(t1.sqlType, t2.sqlType)
}

// compareSentinels orders range sentinels, which sort around every other value.
func compareSentinels(a, b *Value) (int, bool) {
	rank := func(v *Value) int {
		switch v.st {
		case stMin:
			return -1
		case stMax:
			return 1
		}
		return 0
	}
	ra, rb := rank(a), rank(b)
	if ra == 0 && rb == 0 {
		return 0, false
	}
	switch {
	case ra < rb:
		return -1, true
	case ra > rb:
		return 1, true
	}
	return 0, true
}

// Compare3 orders two non-NULL values, returning -1, 0 or 1. Values held in descending or
// collation key form are ordered by their encodings.
func Compare3(a, b *Value) (int, error) {
	if a.IsNull() || b.IsNull() {
		panic(fmt.Sprintf("compare of NULL %s with %s", a.typ, b.typ))
	}
	if c, ok := compareSentinels(a, b); ok {
		return c, nil
	}
	if a.desc || b.desc || a.collKey || b.collKey {
		if a.desc != b.desc || a.collKey != b.collKey {
			return 0, ErrComparisonTypeClash.New(a.typ, b.typ)
		}
		return va.Compare(a.data, b.data), nil
	}

	x, y := a, b
	i, j := x.Datatype(), y.Datatype()
	swapped := i > j
	if swapped {
		x, y = y, x
		i, j = j, i
	}
	c := compareMatrix[i][j]
	switch c.kind {
	case cmpIllegal:
		return 0, ErrComparisonTypeClash.New(a.typ, b.typ)
	case cmpInvalid:
		panic(fmt.Sprintf("invalid comparison cell %s, %s", i, j))
	}
	r, err := c.fn(x, y)
	if err != nil {
		return 0, err
	}
	if swapped {
		r = -r
	}
	return r, nil
}

// Compare3NullAllowed orders two values of comparable types with NULL before every
// non-NULL value.
func Compare3NullAllowed(a, b *Value) (int, error) {
	an, bn := a.IsNull(), b.IsNull()
	if !an && !bn {
		return Compare3(a, b)
	}
	if !TypesComparisonCompatible(a.typ, b.typ) {
		return 0, ErrComparisonTypeClash.New(a.typ, b.typ)
	}
	switch {
	case an && bn:
		return 0, nil
	case an:
		return -1, nil
	}
	return 1, nil
}

// CompareWithRelop applies a comparison operator. A NULL or unknown operand makes the
// comparison false.
func CompareWithRelop(a, b *Value, op Relop) (Tri, error) {
	if !op.IsComparison() {
		panic(fmt.Sprintf("%s is not a comparison", op))
	}
	if a.IsNull() || b.IsNull() {
		return TriFalse, nil
	}
	c, err := Compare3(a, b)
	if err != nil {
		return TriFailed, err
	}
	var ok bool
	switch op {
	case RelopEqual:
		ok = c == 0
	case RelopNotEqual:
		ok = c != 0
	case RelopLT:
		ok = c < 0
	case RelopGT:
		ok = c > 0
	case RelopLE:
		ok = c <= 0
	case RelopGE:
		ok = c >= 0
	}
	if ok {
		return TriTrue, nil
	}
	return TriFalse, nil
}
