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

import "github.com/uptrace/bun"

// Join describes a join against a table. The ON condition is a Predicate,
// so a join can carry extra restrictions beyond the key match.
type Join struct {
	kind  string
	table Table
	on    Predicate
}

// InnerJoin joins t, keeping only rows with a match.
func InnerJoin(t Table) Join { return Join{kind: "JOIN", table: t} }

// LeftJoin joins t, keeping unmatched rows of the left side.
func LeftJoin(t Table) Join { return Join{kind: "LEFT JOIN", table: t} }

// On returns a copy of j whose condition is the conjunction of the existing
// condition and p.
func (j Join) On(p Predicate) Join {
	j.on = And(j.on, p)
	return j
}

// Apply appends the join to q. A join without condition renders ON 1 = 1.
func (j Join) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Join(j.kind+" ?", j.table).JoinOn("?", j.on)
}

// From adds more tables to q's FROM list. Rows of the resulting cartesian
// product are matched with an ordinary WHERE predicate (theta join).
func From(q *bun.SelectQuery, tables ...Table) *bun.SelectQuery {
	for _, t := range tables {
		q = q.TableExpr("?", t)
	}
	return q
}
