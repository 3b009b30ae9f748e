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

package model

import "github.com/tomoncle/roster/query"

const (
	MemberTableName = "member"
	TeamTableName   = "team"
)

// MemberTable exposes typed column paths of the member table under an alias.
type MemberTable struct {
	query.Table
	ID       query.NumberPath[int64]
	Username query.StringPath
	Age      query.NumberPath[int]
	TeamID   query.NumberPath[int64]
}

// NewMemberTable describes the member table under alias; use a fresh alias
// for self-referencing subqueries and "" for UPDATE and DELETE statements.
func NewMemberTable(alias string) MemberTable {
	t := query.NewTable(MemberTableName, alias)
	return MemberTable{
		Table:    t,
		ID:       query.NewNumberPath[int64](t, "member_id"),
		Username: query.NewStringPath(t, "username"),
		Age:      query.NewNumberPath[int](t, "age"),
		TeamID:   query.NewNumberPath[int64](t, "team_id"),
	}
}

// TeamTable exposes typed column paths of the team table under an alias.
type TeamTable struct {
	query.Table
	ID   query.NumberPath[int64]
	Name query.StringPath
}

func NewTeamTable(alias string) TeamTable {
	t := query.NewTable(TeamTableName, alias)
	return TeamTable{
		Table: t,
		ID:    query.NewNumberPath[int64](t, "id"),
		Name:  query.NewStringPath(t, "name"),
	}
}

// Members and Teams use the aliases declared on the bun models.
var (
	Members = NewMemberTable("m")
	Teams   = NewTeamTable("t")
)
