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

// MemberTeamDto is the flattened member/team projection of a search.
// Team fields are zero for members without a team.
type MemberTeamDto struct {
	MemberID int64  `bun:"member_id" json:"member_id"`
	Username string `bun:"username" json:"username"`
	Age      int    `bun:"age" json:"age"`
	TeamID   int64  `bun:"team_id" json:"team_id"`
	TeamName string `bun:"team_name" json:"team_name"`
}

// MemberDto carries only the username and age of a member.
type MemberDto struct {
	Username string `bun:"username" json:"username"`
	Age      int    `bun:"age" json:"age"`
}

// MemberStats aggregates member ages.
type MemberStats struct {
	Count int     `bun:"count" json:"count"`
	Sum   int     `bun:"sum" json:"sum"`
	Avg   float64 `bun:"avg" json:"avg"`
	Max   int     `bun:"max" json:"max"`
	Min   int     `bun:"min" json:"min"`
}

// TeamAge is the average member age of one team.
type TeamAge struct {
	TeamName string  `bun:"team_name" json:"team_name"`
	AvgAge   float64 `bun:"avg_age" json:"avg_age"`
}

// MemberWithTeam pairs a member with the team row a join produced, if any.
type MemberWithTeam struct {
	MemberID int64  `bun:"member_id" json:"member_id"`
	Username string `bun:"username" json:"username"`
	Age      int    `bun:"age" json:"age"`
	TeamID   *int64 `bun:"team_id" json:"team_id"`
	TeamName string `bun:"team_name" json:"team_name"`
}

// MemberLabel pairs a username with a computed label.
type MemberLabel struct {
	Username string `bun:"username" json:"username"`
	Label    string `bun:"label" json:"label"`
}

// MemberAverageAge pairs a username with the average age of all members.
type MemberAverageAge struct {
	Username string  `bun:"username" json:"username"`
	AvgAge   float64 `bun:"avg_age" json:"avg_age"`
}
