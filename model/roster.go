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

import "strconv"

// Roster is an in-memory arena of teams and members. Teams hold no member
// lists; MembersOf derives membership from each member's team reference.
type Roster struct {
	teams   []*Team
	members []*Member
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{}
}

// AddTeam creates a team and adds it to the roster.
func (r *Roster) AddTeam(name string) *Team {
	t := NewTeam(name)
	r.teams = append(r.teams, t)
	return t
}

// AddMember creates a member of team (nil for none) and adds it to the roster.
func (r *Roster) AddMember(username string, age int, team *Team) *Member {
	m := NewMember(username, age, team)
	r.members = append(r.members, m)
	return m
}

// MembersOf returns the members referencing team, in insertion order.
func (r *Roster) MembersOf(team *Team) []*Member {
	out := make([]*Member, 0)
	for _, m := range r.members {
		if m.BelongsTo(team) {
			out = append(out, m)
		}
	}
	return out
}

func (r *Roster) Teams() []*Team { return r.teams }

func (r *Roster) Members() []*Member { return r.members }

// SeedRoster builds the sample data set: teams named teamA, teamB, ... and
// members named member0..member{n-1} with age equal to their index,
// assigned to the teams round-robin.
func SeedRoster(teams, members int) *Roster {
	r := NewRoster()
	for i := 0; i < teams; i++ {
		r.AddTeam("team" + string(rune('A'+i%26)))
	}
	for i := 0; i < members; i++ {
		var team *Team
		if teams > 0 {
			team = r.teams[i%teams]
		}
		r.AddMember(memberName(i), i, team)
	}
	return r
}

func memberName(i int) string {
	return "member" + strconv.Itoa(i)
}
