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
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

type nullsOrder int

const (
	nullsDefault nullsOrder = iota
	nullsFirst
	nullsLast
)

// Order is a single ORDER BY item.
type Order struct {
	path  Path
	desc  bool
	nulls nullsOrder
}

var _ schema.QueryAppender = Order{}

func (o Order) NullsFirst() Order {
	o.nulls = nullsFirst
	return o
}

func (o Order) NullsLast() Order {
	o.nulls = nullsLast
	return o
}

func (o Order) AppendQuery(fmter schema.Formatter, b []byte) ([]byte, error) {
	dir := " ASC"
	if o.desc {
		dir = " DESC"
	}
	if o.nulls == nullsDefault {
		return append(fmter.AppendQuery(b, "?", o.path), dir...), nil
	}
	// MySQL has no NULLS FIRST/LAST; sort on the null flag first.
	if fmter.Dialect().Name() == dialect.MySQL {
		nullDir := " ASC"
		if o.nulls == nullsFirst {
			nullDir = " DESC"
		}
		b = fmter.AppendQuery(b, "? IS NULL", o.path)
		b = append(b, nullDir...)
		b = append(b, ", "...)
		return append(fmter.AppendQuery(b, "?", o.path), dir...), nil
	}
	b = append(fmter.AppendQuery(b, "?", o.path), dir...)
	if o.nulls == nullsFirst {
		return append(b, " NULLS FIRST"...), nil
	}
	return append(b, " NULLS LAST"...), nil
}

// OrderBy appends orders to q in sequence.
func OrderBy(q *bun.SelectQuery, orders ...Order) *bun.SelectQuery {
	for _, o := range orders {
		q = q.OrderExpr("?", o)
	}
	return q
}
