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
	"strings"
	"unicode/utf8"

	"github.com/dolthub/attrval/libraries/collation"
)

const (
	likeAny = '%'
	likeOne = '_'
)

type likeToken struct {
	r rune
	// wild is likeAny or likeOne for an unescaped wildcard, zero for a literal rune.
	wild rune
}

// Like evaluates |v| LIKE |pattern| ESCAPE |escape|. |escape| may be nil. A NULL operand
// makes the predicate false.
func Like(v, pattern, escape *Value) (bool, error) {
	if !v.Datatype().IsText() || !pattern.Datatype().IsText() {
		return false, ErrComparisonTypeClash.New(v.typ, pattern.typ)
	}
	if v.IsNull() || pattern.IsNull() {
		return false, nil
	}

	esc := NoEscape
	if escape != nil && !escape.IsNull() {
		if !escape.Datatype().IsText() {
			return false, ErrIllegalLikeEscapeType.New(escape.typ)
		}
		s, err := srcText(escape)
		if err != nil || utf8.RuneCountInString(s) != 1 {
			return false, ErrIllegalLikeEscapeType.New(escape.typ)
		}
		esc, _ = utf8.DecodeRuneInString(s)
	}

	text, err := srcText(v)
	if err != nil {
		return false, ErrLikeFailedDueToBlob.Wrap(err, v.typ)
	}
	pat, err := srcText(pattern)
	if err != nil {
		return false, ErrLikeFailedDueToBlob.Wrap(err, pattern.typ)
	}
	if v.typ.isFixedChar() {
		text = strings.TrimRight(text, " ")
	}

	tokens, err := compileLike(pat, esc)
	if err != nil {
		return false, err
	}
	return matchLike([]rune(text), tokens, v.env.collationFor(v.typ)), nil
}

func compileLike(pat string, esc rune) ([]likeToken, error) {
	var tokens []likeToken
	runes := []rune(pat)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == esc:
			if i+1 >= len(runes) {
				return nil, ErrIllegalLiteral.New(pat, "LIKE pattern")
			}
			i++
			tokens = append(tokens, likeToken{r: runes[i]})
		case r == likeAny:
			// consecutive % match like one
			if len(tokens) > 0 && tokens[len(tokens)-1].wild == likeAny {
				continue
			}
			tokens = append(tokens, likeToken{wild: likeAny})
		case r == likeOne:
			tokens = append(tokens, likeToken{wild: likeOne})
		default:
			tokens = append(tokens, likeToken{r: r})
		}
	}
	return tokens, nil
}

// matchLike matches with single point backtracking to the last %.
func matchLike(text []rune, tokens []likeToken, coll collation.Collation) bool {
	eq := func(a, b rune) bool {
		if a == b {
			return true
		}
		return coll != nil && coll.Compare(string(a), string(b)) == 0
	}

	ti, pi := 0, 0
	star, mark := -1, 0
	for ti < len(text) {
		switch {
		case pi < len(tokens) && tokens[pi].wild == likeAny:
			star, mark = pi, ti
			pi++
		case pi < len(tokens) && (tokens[pi].wild == likeOne || (tokens[pi].wild == 0 && eq(tokens[pi].r, text[ti]))):
			ti++
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			ti = mark
		default:
			return false
		}
	}
	for pi < len(tokens) && tokens[pi].wild == likeAny {
		pi++
	}
	return pi == len(tokens)
}
