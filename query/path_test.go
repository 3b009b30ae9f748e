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

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/query"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/schema"
)

func TestTable_Render(t *testing.T) {
	assert.Equal(t, `"member" AS "m"`, render(t, members))
	assert.Equal(t, `"member"`, render(t, query.NewTable("member", "")))
}

func TestPath_Unaliased(t *testing.T) {
	bare := query.NewNumberPath[int](query.NewTable("member", ""), "age")
	assert.Equal(t, "age", bare.String())
	assert.Equal(t, `"age" + 1`, render(t, bare.Add(1)))
	assert.Equal(t, `"age" * 2`, render(t, bare.Multiply(2)))
	assert.Equal(t, "m.age", age.String())
	assert.Equal(t, "age", age.Column())
}

func TestExpression_Aggregates(t *testing.T) {
	assert.Equal(t, `count(*) AS "count"`, render(t, query.CountAll().As("count")))
	assert.Equal(t, `sum("m"."age")`, render(t, age.Sum()))
	assert.Equal(t, `avg("m"."age") AS "avg"`, render(t, age.Avg().As("avg")))
	assert.Equal(t, `max("m"."age")`, render(t, age.Max()))
	assert.Equal(t, `min("m"."age")`, render(t, age.Min()))
	assert.Equal(t, `count("m"."username")`, render(t, username.Count()))
	assert.Equal(t, `"t"."name" AS "team_name"`, render(t, teamName.As("team_name")))
}

func TestOrder_Render(t *testing.T) {
	assert.Equal(t, `"m"."age" DESC`, render(t, age.Desc()))
	assert.Equal(t, `"m"."username" ASC NULLS LAST`, render(t, username.Asc().NullsLast()))
	assert.Equal(t, `"m"."username" DESC NULLS FIRST`, render(t, username.Desc().NullsFirst()))
}

func TestOrder_MySQLEmulatesNulls(t *testing.T) {
	b, err := username.Asc().NullsLast().AppendQuery(schema.NewFormatter(mysqldialect.New()), nil)
	require.NoError(t, err)
	assert.Equal(t, "`m`.`username` IS NULL ASC, `m`.`username` ASC", string(b))

	b, err = username.Asc().NullsFirst().AppendQuery(schema.NewFormatter(mysqldialect.New()), nil)
	require.NoError(t, err)
	assert.Equal(t, "`m`.`username` IS NULL DESC, `m`.`username` ASC", string(b))
}
