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

// Package constraint describes a single column predicate, |column relop value|, as handed
// to a row scan.
package constraint

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/attrval/libraries/attr"
)

// Flags are the state bits of a Constraint.
type Flags uint8

const (
	// Solved marks a constraint already satisfied by the access path.
	Solved Flags = 1 << iota
	// AlwaysFalse marks a constraint no row can satisfy.
	AlwaysFalse
	// NeedsConversion marks a constraint whose column values are converted to the
	// constraint type before they are tested.
	NeedsConversion
	EstimatedCardinality
	// CopyOfOriginal marks a constraint that owns its type and value.
	CopyOfOriginal
)

// Constraint is a predicate on the column at attrIndex.
type Constraint struct {
	relop     attr.Relop
	attrIndex int
	typ       *attr.Type
	val       *attr.Value
	escape    rune
	vectorNo  int
	flags     Flags
	card      int64

	escapeVal *attr.Value
}

// New creates a constraint that borrows |t| and |v|. |v| may be nil for IS NULL and IS NOT
// NULL. |escape| is attr.NoEscape when a LIKE pattern has no escape character.
func New(relop attr.Relop, attrIndex int, t *attr.Type, v *attr.Value, escape rune) *Constraint {
	return &Constraint{
		relop:     relop,
		attrIndex: attrIndex,
		typ:       t,
		val:       v,
		escape:    escape,
	}
}

func (c *Constraint) Relop() attr.Relop  { return c.relop }
func (c *Constraint) AttrIndex() int     { return c.attrIndex }
func (c *Constraint) Type() *attr.Type   { return c.typ }
func (c *Constraint) Value() *attr.Value { return c.val }
func (c *Constraint) Escape() rune       { return c.escape }
func (c *Constraint) VectorNo() int      { return c.vectorNo }
func (c *Constraint) Flags() Flags       { return c.flags }

// SetVectorNo places the constraint in vector |n| of a batched predicate.
func (c *Constraint) SetVectorNo(n int) { c.vectorNo = n }

func (c *Constraint) IsSolved() bool        { return c.flags&Solved != 0 }
func (c *Constraint) SetSolved()            { c.flags |= Solved }
func (c *Constraint) IsAlwaysFalse() bool   { return c.flags&AlwaysFalse != 0 }
func (c *Constraint) SetAlwaysFalse()       { c.flags |= AlwaysFalse }
func (c *Constraint) NeedsConversion() bool { return c.flags&NeedsConversion != 0 }
func (c *Constraint) IsCopy() bool          { return c.flags&CopyOfOriginal != 0 }

// SetNeedsConversion sets whether column values are converted before they are tested.
func (c *Constraint) SetNeedsConversion(b bool) {
	if b {
		c.flags |= NeedsConversion
	} else {
		c.flags &^= NeedsConversion
	}
}

// SetEstimatedCardinality records the number of rows the constraint is expected to select.
func (c *Constraint) SetEstimatedCardinality(n int64) {
	c.card = n
	c.flags |= EstimatedCardinality
}

// EstimatedCardinality returns the estimate, if one was set.
func (c *Constraint) EstimatedCardinality() (int64, bool) {
	return c.card, c.flags&EstimatedCardinality != 0
}

// Copy returns a constraint owning deep copies of the type and the value.
func (c *Constraint) Copy() (*Constraint, error) {
	cp := *c
	cp.escapeVal = nil
	cp.flags |= CopyOfOriginal
	if c.typ != nil {
		t, err := c.typ.Copy()
		if err != nil {
			return nil, err
		}
		cp.typ = t
	}
	if c.val != nil {
		t := cp.typ
		if t == nil {
			t = c.val.Type()
		}
		v := attr.NewValue(c.val.Env(), t)
		if err := v.AssignFrom(c.val); err != nil {
			return nil, err
		}
		cp.val = v
	}
	return &cp, nil
}

// Release frees what the constraint owns. A borrowing constraint releases only its own
// scratch values.
func (c *Constraint) Release() error {
	if c.escapeVal != nil {
		if err := c.escapeVal.Release(); err != nil {
			return err
		}
		c.escapeVal = nil
	}
	if !c.IsCopy() {
		return nil
	}
	if c.val != nil {
		if err := c.val.Release(); err != nil {
			return err
		}
		c.val = nil
	}
	if c.typ != nil {
		if err := c.typ.ReleaseDefaults(); err != nil {
			return err
		}
		c.typ = nil
	}
	return nil
}

// Evaluate tests the column value |row| against the constraint. A NULL column satisfies
// only IS NULL.
func (c *Constraint) Evaluate(row *attr.Value) (bool, error) {
	if c.IsAlwaysFalse() {
		return false, nil
	}
	switch c.relop {
	case attr.RelopIsNull:
		return row.IsNull(), nil
	case attr.RelopIsNotNull:
		return !row.IsNull(), nil
	}
	if row.IsNull() || c.val == nil || c.val.IsNull() {
		return false, nil
	}

	operand := row
	if c.NeedsConversion() {
		conv := attr.NewValue(row.Env(), c.typ)
		defer conv.Release()
		if _, err := attr.Convert(conv, row); err != nil {
			c.logger(row).WithError(err).Debug("column value conversion failed")
			return false, err
		}
		operand = conv
	}

	switch c.relop {
	case attr.RelopLike, attr.RelopNotLike:
		esc, err := c.escapeValue()
		if err != nil {
			return false, err
		}
		ok, err := attr.Like(operand, c.val, esc)
		if err != nil {
			c.logger(row).WithError(err).Debug("LIKE evaluation failed")
			return false, err
		}
		return ok == (c.relop == attr.RelopLike), nil
	}

	tri, err := attr.CompareWithRelop(operand, c.val, c.relop)
	if err != nil {
		c.logger(row).WithError(err).Debug("comparison failed")
		return false, err
	}
	return tri == attr.TriTrue, nil
}

func (c *Constraint) escapeValue() (*attr.Value, error) {
	if c.escape == attr.NoEscape {
		return nil, nil
	}
	if c.escapeVal == nil {
		t, err := attr.NewType(attr.SQLVarchar, 4, 0, false)
		if err != nil {
			return nil, err
		}
		v := attr.NewValue(c.val.Env(), t)
		if _, err := v.SetRawChars(string(c.escape)); err != nil {
			return nil, err
		}
		c.escapeVal = v
	}
	return c.escapeVal, nil
}

func (c *Constraint) logger(row *attr.Value) *logrus.Entry {
	return row.Env().Log.WithFields(logrus.Fields{
		"attr":  c.attrIndex,
		"relop": c.relop.String(),
	})
}

func (c *Constraint) String() string {
	switch c.relop {
	case attr.RelopIsNull, attr.RelopIsNotNull:
		return fmt.Sprintf("$%d %s", c.attrIndex, c.relop)
	}
	s := fmt.Sprintf("$%d %s %s", c.attrIndex, c.relop, c.val)
	if c.escape != attr.NoEscape && (c.relop == attr.RelopLike || c.relop == attr.RelopNotLike) {
		s += fmt.Sprintf(" ESCAPE '%c'", c.escape)
	}
	return s
}
