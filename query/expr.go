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

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

// Constant projects v as a bound literal.
func Constant(v interface{}) Expression { return Expression{expr: "?", args: []interface{}{v}} }

// Sub wraps a scalar subquery so it can sit in a projection.
func Sub(q *bun.SelectQuery) Expression { return Expression{expr: "(?)", args: []interface{}{q}} }

// Func renders the SQL function call name(args...). Paths and expressions
// in args render as SQL; anything else is bound as a value.
func Func(name string, args ...interface{}) Expression {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	return Expression{expr: name + "(" + marks + ")", args: args}
}

// Concat joins parts into one string, with || or CONCAT() depending on
// the dialect.
func Concat(parts ...interface{}) Expression {
	return Expression{expr: "?", args: []interface{}{concat(parts)}}
}

// StringValue casts e to the dialect's text type.
func StringValue(e schema.QueryAppender) Expression {
	return Expression{expr: "?", args: []interface{}{textCast{e}}}
}

type concat []interface{}

func (c concat) AppendQuery(fmter schema.Formatter, b []byte) ([]byte, error) {
	if isMySQL(fmter) {
		return fmter.AppendQuery(b, Func("CONCAT", c...).expr, c...), nil
	}
	marks := strings.TrimSuffix(strings.Repeat("? || ", len(c)), " || ")
	return fmter.AppendQuery(b, "("+marks+")", c...), nil
}

type textCast struct{ e schema.QueryAppender }

func (c textCast) AppendQuery(fmter schema.Formatter, b []byte) ([]byte, error) {
	if isMySQL(fmter) {
		return fmter.AppendQuery(b, "CAST(? AS CHAR)", c.e), nil
	}
	return fmter.AppendQuery(b, "CAST(? AS TEXT)", c.e), nil
}

func isMySQL(fmter schema.Formatter) bool {
	d := fmter.Dialect()
	return d != nil && d.Name() == dialect.MySQL
}

// Lower is lower(p).
func (p StringPath) Lower() Expression { return Func("lower", p.Path) }

// Upper is upper(p).
func (p StringPath) Upper() Expression { return Func("upper", p.Path) }

// Replace substitutes every from in p with to.
func (p StringPath) Replace(from, to string) Expression { return Func("replace", p.Path, from, to) }

// EqExpr compares p with an arbitrary expression.
func (p Path) EqExpr(e Expression) Predicate { return Expr("? = ?", p, e) }

// Eq compares e with v; Paths and Expressions render as SQL.
func (e Expression) Eq(v interface{}) Predicate { return Expr("? = ?", e, v) }

// StringValue casts p to text.
func (p NumberPath[N]) StringValue() Expression { return StringValue(p.Path) }

type caseBranch struct{ when, then interface{} }

// caseExpr renders CASE [subject] WHEN .. THEN .. [ELSE ..] END.
type caseExpr struct {
	subject   interface{}
	branches  []caseBranch
	otherwise interface{}
	hasElse   bool
}

func (c caseExpr) AppendQuery(fmter schema.Formatter, b []byte) ([]byte, error) {
	b = append(b, "CASE"...)
	if c.subject != nil {
		b = fmter.AppendQuery(b, " ?", c.subject)
	}
	for _, br := range c.branches {
		b = fmter.AppendQuery(b, " WHEN ? THEN ?", br.when, br.then)
	}
	if c.hasElse {
		b = fmter.AppendQuery(b, " ELSE ?", c.otherwise)
	}
	return append(b, " END"...), nil
}

func (c caseExpr) with(when, then interface{}) caseExpr {
	branches := make([]caseBranch, len(c.branches), len(c.branches)+1)
	copy(branches, c.branches)
	c.branches = append(branches, caseBranch{when: when, then: then})
	return c
}

func (c caseExpr) end() Expression { return Expression{expr: "?", args: []interface{}{c}} }

func (c caseExpr) otherwiseExpr(v interface{}) Expression {
	c.otherwise, c.hasElse = v, true
	return c.end()
}

// CaseBuilder builds a searched CASE whose branches are predicates.
type CaseBuilder struct{ c caseExpr }

// Case starts a searched CASE.
func Case() CaseBuilder { return CaseBuilder{} }

func (b CaseBuilder) When(p Predicate) CaseThen { return CaseThen{c: b.c, when: p} }

// Otherwise closes the CASE with an ELSE branch.
func (b CaseBuilder) Otherwise(v interface{}) Expression { return b.c.otherwiseExpr(v) }

// End closes the CASE; unmatched rows yield NULL.
func (b CaseBuilder) End() Expression { return b.c.end() }

// CaseThen is a searched CASE waiting for the result of its last WHEN.
type CaseThen struct {
	c    caseExpr
	when Predicate
}

func (t CaseThen) Then(v interface{}) CaseBuilder { return CaseBuilder{c: t.c.with(t.when, v)} }

// SimpleCase builds a CASE that compares one numeric path with values.
type SimpleCase[N Number] struct{ c caseExpr }

// When starts a simple CASE on p.
func (p NumberPath[N]) When(v N) SimpleCaseThen[N] {
	return SimpleCase[N]{c: caseExpr{subject: p.Path}}.When(v)
}

func (s SimpleCase[N]) When(v N) SimpleCaseThen[N] { return SimpleCaseThen[N]{c: s.c, when: v} }

func (s SimpleCase[N]) Otherwise(v interface{}) Expression { return s.c.otherwiseExpr(v) }

func (s SimpleCase[N]) End() Expression { return s.c.end() }

// SimpleCaseThen is a simple CASE waiting for the result of its last WHEN.
type SimpleCaseThen[N Number] struct {
	c    caseExpr
	when N
}

func (t SimpleCaseThen[N]) Then(v interface{}) SimpleCase[N] {
	return SimpleCase[N]{c: t.c.with(t.when, v)}
}
