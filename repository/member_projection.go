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

package repository

import (
	"context"

	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/query"
	"github.com/uptrace/bun"
)

func (r *memberRepositoryImpl) selectMembers() *bun.SelectQuery {
	return r.db.NewSelect().TableExpr("?", model.Members.Table)
}

// AgeLabels names the ages 10 and 20 and labels every other age "other".
func (r *memberRepositoryImpl) AgeLabels(ctx context.Context) ([]*model.MemberLabel, error) {
	label := model.Members.Age.
		When(10).Then("ten").
		When(20).Then("twenty").
		Otherwise("other")
	return r.labels(ctx, label)
}

// AgeBands buckets members into age ranges.
func (r *memberRepositoryImpl) AgeBands(ctx context.Context) ([]*model.MemberLabel, error) {
	band := query.Case().
		When(model.Members.Age.Between(0, 20)).Then("0-20").
		When(model.Members.Age.Between(21, 30)).Then("21-30").
		Otherwise("other")
	return r.labels(ctx, band)
}

// LabelAll pairs every member with the same constant label.
func (r *memberRepositoryImpl) LabelAll(ctx context.Context, label string) ([]*model.MemberLabel, error) {
	return r.labels(ctx, query.Constant(label))
}

func (r *memberRepositoryImpl) labels(ctx context.Context, label query.Expression) ([]*model.MemberLabel, error) {
	q := query.Select(r.selectMembers(),
		model.Members.Username.As("username"),
		label.As("label"),
	)
	return query.Fetch[model.MemberLabel](ctx, query.OrderBy(q, model.Members.ID.Asc()))
}

// MembersWithAverageAge projects each member next to the overall average
// age, computed by a subquery in the select list.
func (r *memberRepositoryImpl) MembersWithAverageAge(ctx context.Context) ([]*model.MemberAverageAge, error) {
	avg := query.Select(r.db.NewSelect().TableExpr("?", subMembers.Table), subMembers.Age.Avg())
	q := query.Select(r.selectMembers(),
		model.Members.Username.As("username"),
		query.Sub(avg).As("avg_age"),
	)
	return query.Fetch[model.MemberAverageAge](ctx, query.OrderBy(q, model.Members.ID.Asc()))
}

// UsernameAges returns "username_age" for every member.
func (r *memberRepositoryImpl) UsernameAges(ctx context.Context) ([]string, error) {
	return r.scanStrings(ctx, query.Concat(model.Members.Username.Path, "_", model.Members.Age.StringValue()))
}

// ReplacedUsernames returns every username with from replaced by to.
func (r *memberRepositoryImpl) ReplacedUsernames(ctx context.Context, from, to string) ([]string, error) {
	return r.scanStrings(ctx, model.Members.Username.Replace(from, to))
}

func (r *memberRepositoryImpl) scanStrings(ctx context.Context, e query.Expression) ([]string, error) {
	q := query.OrderBy(query.Select(r.selectMembers(), e), model.Members.ID.Asc())
	var out []string
	if err := q.Scan(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByUsernameIgnoreCase matches username without regard to case.
func (r *memberRepositoryImpl) FindByUsernameIgnoreCase(ctx context.Context, username string) ([]*model.Member, error) {
	return r.List(ctx, model.Members.Username.Lower().Eq(query.Func("lower", username)))
}

// FindLowercaseNamed returns members whose username has no upper case letters.
func (r *memberRepositoryImpl) FindLowercaseNamed(ctx context.Context) ([]*model.Member, error) {
	return r.List(ctx, model.Members.Username.EqExpr(model.Members.Username.Lower()))
}

// FindWithTeamNamedAlike left joins teams on an unrelated column: a team is
// attached only to the member whose username equals the team name.
func (r *memberRepositoryImpl) FindWithTeamNamedAlike(ctx context.Context) ([]*model.MemberWithTeam, error) {
	q := query.LeftJoin(model.Teams.Table).
		On(model.Members.Username.EqPath(model.Teams.Name.Path)).
		Apply(r.selectMembers())
	q = query.Select(q,
		model.Members.ID.As("member_id"),
		model.Members.Username.As("username"),
		model.Members.Age.As("age"),
		model.Teams.ID.As("team_id"),
		model.Teams.Name.As("team_name"),
	)
	return query.Fetch[model.MemberWithTeam](ctx, query.OrderBy(q, model.Members.ID.Asc()))
}
