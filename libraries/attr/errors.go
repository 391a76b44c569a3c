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
	"gopkg.in/src-d/go-errors.v1"
)

var (
	ErrIllegalType               = errors.NewKind("illegal type name `%s`")
	ErrIllegalTypeParameter      = errors.NewKind("illegal parameters `%s` for type %s")
	ErrIncompatibleTypes         = errors.NewKind("types %s and %s have no common type")
	ErrIllegalAssignment         = errors.NewKind("illegal assignment from %s to %s")
	ErrIllegalConversion         = errors.NewKind("`%s` cannot be converted to `%s`")
	ErrIllegalValue              = errors.NewKind("`%s` is not a valid %s value")
	ErrNumericOutOfRange         = errors.NewKind("value %s is out of range for %s")
	ErrNumericOverflow           = errors.NewKind("numeric overflow storing %s into %s")
	ErrValueTooLong              = errors.NewKind("value `%s` is too long for %s")
	ErrComparisonTypeClash       = errors.NewKind("cannot compare %s with %s")
	ErrComparisonFailedDueToBlob = errors.NewKind("cannot compare %s with %s, blob content is not available")
	ErrLikeFailedDueToBlob       = errors.NewKind("cannot evaluate LIKE on %s, blob content is not available")
	ErrIllegalLikeEscapeType     = errors.NewKind("illegal LIKE escape %s, escape must be a single character")
	ErrIllegalLiteral            = errors.NewKind("illegal literal `%s` for %s")
	ErrNoNullSentinel            = errors.NewKind("type %s cannot be part of a descending key")
	ErrDescendingUnsupported     = errors.NewKind("%s value cannot be converted to descending form")
	ErrAlreadyCollationKey       = errors.NewKind("value is already a collation key")
)

// Result is the outcome of an operation that stores a value into a type.
type Result int8

const (
	// Success means the value was stored exactly.
	Success Result = iota
	// Truncation means the value was stored with loss of precision or length.
	Truncation
	// Failure means nothing was stored; an error accompanies it.
	Failure
)

func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case Truncation:
		return "Truncation"
	case Failure:
		return "Failure"
	}
	return "Result(?)"
}

// worse returns the more severe of two results.
func worse(a, b Result) Result {
	if a > b {
		return a
	}
	return b
}
