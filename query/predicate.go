/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package query

import (
	"strings"

	"github.com/uptrace/bun/schema"
)

const (
	alwaysTrue  = "1 = 1"
	alwaysFalse = "1 = 0"
)

// Predicate is an immutable boolean SQL fragment with bound arguments.
//
// The zero Predicate carries no constraint and matches every row. Predicates
// render through Bun's formatter, so they can be passed as "?" arguments to
// Where, JoinOn, or another Predicate.
type Predicate struct {
	expr string
	args []interface{}
}

var _ schema.QueryAppender = Predicate{}

// Expr builds a predicate from raw SQL using Bun placeholders.
func Expr(expr string, args ...interface{}) Predicate {
	return Predicate{expr: strings.TrimSpace(expr), args: args}
}

// True returns the zero predicate.
func True() Predicate { return Predicate{} }

// False returns a predicate that matches nothing.
func False() Predicate { return Predicate{expr: alwaysFalse} }

// IsZero reports whether p carries no constraint.
func (p Predicate) IsZero() bool { return p.expr == "" }

func (p Predicate) AppendQuery(fmter schema.Formatter, b []byte) ([]byte, error) {
	if p.IsZero() {
		return append(b, alwaysTrue...), nil
	}
	return fmter.AppendQuery(b, p.expr, p.args...), nil
}

// And returns the conjunction of the non-zero predicates. With no
// non-zero operand the result is the zero predicate.
func And(preds ...Predicate) Predicate {
	parts := make([]string, 0, len(preds))
	args := make([]interface{}, 0, len(preds))
	for _, pred := range preds {
		if pred.IsZero() {
			continue
		}
		parts = append(parts, "(?)")
		args = append(args, pred)
	}
	switch len(args) {
	case 0:
		return Predicate{}
	case 1:
		return args[0].(Predicate)
	}
	return Predicate{expr: strings.Join(parts, " AND "), args: args}
}

// Or returns the disjunction of preds. A zero operand matches everything,
// so it makes the whole disjunction zero.
func Or(preds ...Predicate) Predicate {
	if len(preds) == 0 {
		return Predicate{}
	}
	parts := make([]string, 0, len(preds))
	args := make([]interface{}, 0, len(preds))
	for _, pred := range preds {
		if pred.IsZero() {
			return Predicate{}
		}
		parts = append(parts, "(?)")
		args = append(args, pred)
	}
	if len(args) == 1 {
		return args[0].(Predicate)
	}
	return Predicate{expr: strings.Join(parts, " OR "), args: args}
}

func (p Predicate) And(other Predicate) Predicate { return And(p, other) }

func (p Predicate) Or(other Predicate) Predicate { return Or(p, other) }

// Not negates p; the negation of the zero predicate matches nothing.
func (p Predicate) Not() Predicate {
	if p.IsZero() {
		return False()
	}
	return Predicate{expr: "NOT (?)", args: []interface{}{p}}
}

// Wherer is satisfied by Bun select, update and delete queries.
type Wherer[Q any] interface {
	Where(query string, args ...interface{}) Q
}

// Where adds p to q's WHERE clause; a zero predicate leaves q untouched.
func Where[Q Wherer[Q]](q Q, p Predicate) Q {
	if p.IsZero() {
		return q
	}
	return q.Where("?", p)
}
