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
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// Table names a relation and the alias it is queried under.
type Table struct {
	Name  string
	Alias string
}

var _ schema.QueryAppender = Table{}

// NewTable returns a table reference. With an empty alias, paths of the
// table render as bare column names, which UPDATE and DELETE statements need.
func NewTable(name, alias string) Table {
	return Table{Name: name, Alias: alias}
}

// AppendQuery renders "name AS alias", or just the name when unaliased.
func (t Table) AppendQuery(fmter schema.Formatter, b []byte) ([]byte, error) {
	if t.Alias == "" {
		return fmter.AppendQuery(b, "?", bun.Ident(t.Name)), nil
	}
	return fmter.AppendQuery(b, "? AS ?", bun.Ident(t.Name), bun.Ident(t.Alias)), nil
}

// Col returns an untyped path to a column of t.
func (t Table) Col(column string) Path {
	return Path{table: t, column: column}
}

// Path is an alias-qualified column reference.
type Path struct {
	table  Table
	column string
}

var _ schema.QueryAppender = Path{}

func (p Path) AppendQuery(fmter schema.Formatter, b []byte) ([]byte, error) {
	return fmter.AppendQuery(b, "?", bun.Ident(p.String())), nil
}

// String returns "alias.column", or the column alone for an unaliased table.
func (p Path) String() string {
	if p.table.Alias == "" {
		return p.column
	}
	return p.table.Alias + "." + p.column
}

// Column returns the bare column name.
func (p Path) Column() string { return p.column }

func (p Path) IsNull() Predicate { return Expr("? IS NULL", p) }

func (p Path) IsNotNull() Predicate { return Expr("? IS NOT NULL", p) }

// EqPath matches rows where p equals another column, as used by theta joins.
func (p Path) EqPath(other Path) Predicate { return Expr("? = ?", p, other) }

// As projects p under the given result column name.
func (p Path) As(name string) Expression { return Expression{expr: "? AS ?", args: []interface{}{p, bun.Ident(name)}} }

func (p Path) Asc() Order { return Order{path: p} }

func (p Path) Desc() Order { return Order{path: p, desc: true} }

// Count counts non-null values of p.
func (p Path) Count() Expression { return Expression{expr: "count(?)", args: []interface{}{p}} }

// StringPath is a path to a text column.
type StringPath struct{ Path }

// NewStringPath returns a typed path to a text column of t.
func NewStringPath(t Table, column string) StringPath { return StringPath{t.Col(column)} }

func (p StringPath) Eq(v string) Predicate { return Expr("? = ?", p.Path, v) }

func (p StringPath) Ne(v string) Predicate { return Expr("? <> ?", p.Path, v) }

func (p StringPath) Like(pattern string) Predicate { return Expr("? LIKE ?", p.Path, pattern) }

func (p StringPath) In(vs ...string) Predicate {
	if len(vs) == 0 {
		return False()
	}
	return Expr("? IN (?)", p.Path, bun.In(vs))
}

// Number is the set of Go types a NumberPath can compare against.
type Number interface {
	~int | ~int32 | ~int64 | ~float64
}

// NumberPath is a path to a numeric column holding values of type N.
type NumberPath[N Number] struct{ Path }

// NewNumberPath returns a typed path to a numeric column of t.
func NewNumberPath[N Number](t Table, column string) NumberPath[N] {
	return NumberPath[N]{t.Col(column)}
}

func (p NumberPath[N]) Eq(v N) Predicate { return Expr("? = ?", p.Path, v) }

func (p NumberPath[N]) Ne(v N) Predicate { return Expr("? <> ?", p.Path, v) }

func (p NumberPath[N]) Gt(v N) Predicate { return Expr("? > ?", p.Path, v) }

// Goe is greater-or-equal.
func (p NumberPath[N]) Goe(v N) Predicate { return Expr("? >= ?", p.Path, v) }

func (p NumberPath[N]) Lt(v N) Predicate { return Expr("? < ?", p.Path, v) }

// Loe is less-or-equal.
func (p NumberPath[N]) Loe(v N) Predicate { return Expr("? <= ?", p.Path, v) }

// Between is inclusive on both ends.
func (p NumberPath[N]) Between(lo, hi N) Predicate {
	return Expr("? BETWEEN ? AND ?", p.Path, lo, hi)
}

func (p NumberPath[N]) In(vs ...N) Predicate {
	if len(vs) == 0 {
		return False()
	}
	return Expr("? IN (?)", p.Path, bun.In(vs))
}

// EqSub compares p with a scalar subquery.
func (p NumberPath[N]) EqSub(sub *bun.SelectQuery) Predicate { return Expr("? = (?)", p.Path, sub) }

func (p NumberPath[N]) GoeSub(sub *bun.SelectQuery) Predicate { return Expr("? >= (?)", p.Path, sub) }

func (p NumberPath[N]) InSub(sub *bun.SelectQuery) Predicate { return Expr("? IN (?)", p.Path, sub) }

func (p NumberPath[N]) Sum() Expression { return Expression{expr: "sum(?)", args: []interface{}{p.Path}} }

func (p NumberPath[N]) Avg() Expression { return Expression{expr: "avg(?)", args: []interface{}{p.Path}} }

func (p NumberPath[N]) Max() Expression { return Expression{expr: "max(?)", args: []interface{}{p.Path}} }

func (p NumberPath[N]) Min() Expression { return Expression{expr: "min(?)", args: []interface{}{p.Path}} }

// Add returns the expression "p + delta", for bulk updates.
func (p NumberPath[N]) Add(delta N) Expression {
	return Expression{expr: "? + ?", args: []interface{}{bun.Ident(p.column), delta}}
}

// Multiply returns the expression "p * factor", for bulk updates.
func (p NumberPath[N]) Multiply(factor N) Expression {
	return Expression{expr: "? * ?", args: []interface{}{bun.Ident(p.column), factor}}
}

// Expression is a projection or value fragment such as an aggregate.
type Expression struct {
	expr string
	args []interface{}
}

var _ schema.QueryAppender = Expression{}

func (e Expression) AppendQuery(fmter schema.Formatter, b []byte) ([]byte, error) {
	return fmter.AppendQuery(b, e.expr, e.args...), nil
}

// As names the expression in the result set.
func (e Expression) As(name string) Expression {
	return Expression{expr: "? AS ?", args: []interface{}{e, bun.Ident(name)}}
}

// CountAll is count(*).
func CountAll() Expression { return Expression{expr: "count(*)"} }

// Select sets q's projection to exprs.
func Select(q *bun.SelectQuery, exprs ...Expression) *bun.SelectQuery {
	for _, e := range exprs {
		q = q.ColumnExpr("?", e)
	}
	return q
}
