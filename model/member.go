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

import (
	"fmt"

	"github.com/uptrace/bun"
)

// Member owns the many-to-one relation to Team through TeamID.
//
// Team is populated only when the association is fetched eagerly or loaded
// on demand; an empty Username is stored as NULL.
type Member struct {
	bun.BaseModel `bun:"table:member,alias:m"`

	ID       int64  `bun:"member_id,pk,autoincrement" json:"id"`
	Username string `bun:"username,nullzero" json:"username"`
	Age      int    `bun:"age,notnull" json:"age"`
	TeamID   int64  `bun:"team_id,nullzero" json:"team_id,omitempty"`
	Team     *Team  `bun:"rel:belongs-to,join:team_id=id" json:"team,omitempty"`
}

// NewMember creates a transient member, assigning team when given.
func NewMember(username string, age int, team *Team) *Member {
	m := &Member{Username: username, Age: age}
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// ChangeTeam points the member at team, keeping TeamID in step with it.
func (m *Member) ChangeTeam(team *Team) {
	m.Team = team
	m.TeamID = 0
	if team != nil {
		m.TeamID = team.ID
	}
}

// HasTeam reports whether the member references a team, loaded or not.
func (m *Member) HasTeam() bool {
	return m.TeamID != 0 || m.Team != nil
}

// BelongsTo reports whether the member references team, by identity while
// the team is transient and by ID once it is persisted.
func (m *Member) BelongsTo(team *Team) bool {
	if team == nil {
		return false
	}
	if m.Team == team {
		return true
	}
	return team.ID != 0 && m.TeamID == team.ID
}

func (m *Member) String() string {
	return fmt.Sprintf("Member(id=%d, username=%s, age=%d)", m.ID, m.Username, m.Age)
}
