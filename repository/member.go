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
	"database/sql"

	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/query"
	"github.com/tomoncle/roster/types"
	"github.com/uptrace/bun"
)

// subMembers aliases the member table inside subqueries over the same table.
var subMembers = model.NewMemberTable("ms")

// bareMembers renders unqualified columns for UPDATE and DELETE.
var bareMembers = model.NewMemberTable("")

type memberRepositoryImpl struct {
	Repository[model.Member]
	db *bun.DB
}

// NewMemberRepository returns the member store backed by db.
func NewMemberRepository(db *bun.DB) MemberRepository {
	return &memberRepositoryImpl{
		Repository: NewRepository[model.Member](db),
		db:         db,
	}
}

// FindByUsername returns the single member named username, or nil. With
// FetchEager the team is joined into the same statement.
func (r *memberRepositoryImpl) FindByUsername(ctx context.Context, username string, mode types.FetchMode) (*model.Member, error) {
	rows := make([]*model.Member, 0)
	q := r.db.NewSelect().Model(&rows)
	if mode == types.FetchEager {
		q = q.Relation("Team")
	}
	q = q.Where("?", model.Members.Username.Eq(username)).Limit(2)
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return query.UniqueResult(rows)
}

// IsLoaded reports whether the member's team association is resolved.
func (r *memberRepositoryImpl) IsLoaded(member *model.Member) bool {
	return member != nil && member.Team != nil
}

// LoadTeam resolves the team of a lazily fetched member. Members without a
// team are left unchanged.
func (r *memberRepositoryImpl) LoadTeam(ctx context.Context, member *model.Member) error {
	if member == nil || member.TeamID == 0 || member.Team != nil {
		return nil
	}
	team, err := query.FetchOne[model.Team](ctx, r.db.NewSelect().
		Model((*model.Team)(nil)).
		Where("?", model.Teams.ID.Eq(member.TeamID)))
	if err != nil {
		return err
	}
	member.Team = team
	return nil
}

// MembersOf derives the members of a team from their team references.
func (r *memberRepositoryImpl) MembersOf(ctx context.Context, teamID int64) ([]*model.Member, error) {
	return r.List(ctx, model.Members.TeamID.Eq(teamID))
}

func (r *memberRepositoryImpl) FindByTeamName(ctx context.Context, teamName string) ([]*model.Member, error) {
	q := r.db.NewSelect().Model((*model.Member)(nil))
	q = query.InnerJoin(model.Teams.Table).
		On(model.Teams.ID.EqPath(model.Members.TeamID.Path)).
		Apply(q)
	q = q.Where("?", model.Teams.Name.Eq(teamName))
	return query.Fetch[model.Member](ctx, query.OrderBy(q, model.Members.ID.Asc()))
}

// FindThetaJoin returns members whose username equals some team name,
// matching unrelated tables in the WHERE clause.
func (r *memberRepositoryImpl) FindThetaJoin(ctx context.Context) ([]*model.Member, error) {
	q := query.From(r.db.NewSelect().Model((*model.Member)(nil)), model.Teams.Table)
	q = q.Where("?", model.Members.Username.EqPath(model.Teams.Name.Path))
	return query.Fetch[model.Member](ctx, query.OrderBy(q, model.Members.ID.Asc()))
}

// FindWithTeamOn left joins teams restricted to teamName in the ON clause,
// so every member is returned and only matching teams are attached.
func (r *memberRepositoryImpl) FindWithTeamOn(ctx context.Context, teamName string) ([]*model.MemberWithTeam, error) {
	q := r.db.NewSelect().TableExpr("?", model.Members.Table)
	q = query.LeftJoin(model.Teams.Table).
		On(model.Teams.ID.EqPath(model.Members.TeamID.Path)).
		On(model.Teams.Name.Eq(teamName)).
		Apply(q)
	q = query.Select(q,
		model.Members.ID.As("member_id"),
		model.Members.Username.As("username"),
		model.Members.Age.As("age"),
		model.Teams.ID.As("team_id"),
		model.Teams.Name.As("team_name"),
	)
	return query.Fetch[model.MemberWithTeam](ctx, query.OrderBy(q, model.Members.ID.Asc()))
}

func (r *memberRepositoryImpl) Stats(ctx context.Context) (*model.MemberStats, error) {
	q := query.Select(r.db.NewSelect().TableExpr("?", model.Members.Table),
		query.CountAll().As("count"),
		model.Members.Age.Sum().As("sum"),
		model.Members.Age.Avg().As("avg"),
		model.Members.Age.Max().As("max"),
		model.Members.Age.Min().As("min"),
	)
	stats := new(model.MemberStats)
	if err := q.Scan(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *memberRepositoryImpl) AverageAgeByTeam(ctx context.Context) ([]*model.TeamAge, error) {
	q := r.db.NewSelect().TableExpr("?", model.Members.Table)
	q = query.InnerJoin(model.Teams.Table).
		On(model.Teams.ID.EqPath(model.Members.TeamID.Path)).
		Apply(q)
	q = query.Select(q,
		model.Teams.Name.As("team_name"),
		model.Members.Age.Avg().As("avg_age"),
	).GroupExpr("?", model.Teams.Name.Path)
	return query.Fetch[model.TeamAge](ctx, query.OrderBy(q, model.Teams.Name.Asc()))
}

// FindOldest returns the members whose age equals the maximum age.
func (r *memberRepositoryImpl) FindOldest(ctx context.Context) ([]*model.Member, error) {
	sub := query.Select(r.db.NewSelect().TableExpr("?", subMembers.Table), subMembers.Age.Max())
	return r.List(ctx, model.Members.Age.EqSub(sub))
}

// FindAtLeastAverageAge returns the members at or above the average age.
func (r *memberRepositoryImpl) FindAtLeastAverageAge(ctx context.Context) ([]*model.Member, error) {
	sub := query.Select(r.db.NewSelect().TableExpr("?", subMembers.Table), subMembers.Age.Avg())
	return r.List(ctx, model.Members.Age.GoeSub(sub))
}

// FindAgeIn returns members whose age appears among ages above greaterThan,
// through an IN subquery.
func (r *memberRepositoryImpl) FindAgeIn(ctx context.Context, greaterThan int) ([]*model.Member, error) {
	sub := query.Select(r.db.NewSelect().TableExpr("?", subMembers.Table), subMembers.Age.As("age")).
		Where("?", subMembers.Age.Gt(greaterThan))
	return r.List(ctx, model.Members.Age.InSub(sub))
}

// FindAllSorted returns members of the given age, oldest first, then by
// username with unnamed members last.
func (r *memberRepositoryImpl) FindAllSorted(ctx context.Context, age int) ([]*model.Member, error) {
	q := r.db.NewSelect().Model((*model.Member)(nil)).Where("?", model.Members.Age.Eq(age))
	q = query.OrderBy(q,
		model.Members.Age.Desc(),
		model.Members.Username.Asc().NullsLast(),
	)
	return query.Fetch[model.Member](ctx, q)
}

func (r *memberRepositoryImpl) MemberDtos(ctx context.Context) ([]*model.MemberDto, error) {
	q := query.Select(r.db.NewSelect().TableExpr("?", model.Members.Table),
		model.Members.Username.As("username"),
		model.Members.Age.As("age"),
	)
	return query.Fetch[model.MemberDto](ctx, query.OrderBy(q, model.Members.ID.Asc()))
}

// BulkRenameYoungerThan sets username on every member younger than age.
func (r *memberRepositoryImpl) BulkRenameYoungerThan(ctx context.Context, age int, username string) (int64, error) {
	q := r.db.NewUpdate().TableExpr("?", bareMembers.Table).
		Set("? = ?", bareMembers.Username.Path, username).
		Where("?", bareMembers.Age.Lt(age))
	return rowsAffected(q.Exec(ctx))
}

func (r *memberRepositoryImpl) BulkAddAge(ctx context.Context, delta int) (int64, error) {
	q := r.db.NewUpdate().TableExpr("?", bareMembers.Table).
		Set("? = ?", bareMembers.Age.Path, bareMembers.Age.Add(delta)).
		Where("?", query.True())
	return rowsAffected(q.Exec(ctx))
}

func (r *memberRepositoryImpl) BulkMultiplyAge(ctx context.Context, factor int) (int64, error) {
	q := r.db.NewUpdate().TableExpr("?", bareMembers.Table).
		Set("? = ?", bareMembers.Age.Path, bareMembers.Age.Multiply(factor)).
		Where("?", query.True())
	return rowsAffected(q.Exec(ctx))
}

func (r *memberRepositoryImpl) BulkDeleteOlderThan(ctx context.Context, age int) (int64, error) {
	q := r.db.NewDelete().TableExpr("?", bareMembers.Table).
		Where("?", bareMembers.Age.Gt(age))
	return rowsAffected(q.Exec(ctx))
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
