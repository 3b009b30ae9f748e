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
	"fmt"
	"strings"

	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/query"
	"github.com/tomoncle/roster/types"
	"github.com/uptrace/bun"
)

// UsernameEq matches the exact username; blank input is unconstrained.
func UsernameEq(username string) query.Predicate {
	if !model.HasText(username) {
		return query.True()
	}
	return model.Members.Username.Eq(username)
}

// TeamNameEq matches the exact team name; blank input is unconstrained.
func TeamNameEq(teamName string) query.Predicate {
	if !model.HasText(teamName) {
		return query.True()
	}
	return model.Teams.Name.Eq(teamName)
}

// AgeGoe is age >= *ageGoe; nil is unconstrained.
func AgeGoe(ageGoe *int) query.Predicate {
	if ageGoe == nil {
		return query.True()
	}
	return model.Members.Age.Goe(*ageGoe)
}

// AgeLoe is age <= *ageLoe; nil is unconstrained.
func AgeLoe(ageLoe *int) query.Predicate {
	if ageLoe == nil {
		return query.True()
	}
	return model.Members.Age.Loe(*ageLoe)
}

// AgeBetween bounds age on both sides; either bound may be nil.
func AgeBetween(ageGoe, ageLoe *int) query.Predicate {
	return query.And(AgeGoe(ageGoe), AgeLoe(ageLoe))
}

// ConditionPredicate is the conjunction of every constraint cond carries.
// A nil or empty condition matches all rows.
func ConditionPredicate(cond *model.SearchCondition) query.Predicate {
	if cond == nil {
		return query.True()
	}
	return query.And(
		UsernameEq(cond.Username),
		TeamNameEq(cond.TeamName),
		AgeGoe(cond.AgeGoe),
		AgeLoe(cond.AgeLoe),
	)
}

var memberSortPaths = map[string]query.Path{
	"id":       model.Members.ID.Path,
	"memberId": model.Members.ID.Path,
	"username": model.Members.Username.Path,
	"age":      model.Members.Age.Path,
	"teamId":   model.Teams.ID.Path,
	"teamName": model.Teams.Name.Path,
}

// ParseMemberSort turns "property[,asc|desc]" into an ORDER BY item for
// PageRequest, e.g. "username,desc" becomes "m.username DESC".
func ParseMemberSort(sort string) (string, error) {
	property, direction, _ := strings.Cut(strings.TrimSpace(sort), ",")
	path, ok := memberSortPaths[strings.TrimSpace(property)]
	if !ok {
		return "", fmt.Errorf("unknown sort property: %q", property)
	}
	switch dir := strings.ToUpper(strings.TrimSpace(direction)); dir {
	case "", "ASC":
		return path.String() + " ASC", nil
	case "DESC":
		return path.String() + " DESC", nil
	default:
		return "", fmt.Errorf("unknown sort direction: %q", direction)
	}
}

// searchFrom is "member m LEFT JOIN team t ON t.id = m.team_id" filtered by cond.
func (r *memberRepositoryImpl) searchFrom(cond *model.SearchCondition) *bun.SelectQuery {
	q := r.db.NewSelect().TableExpr("?", model.Members.Table)
	q = query.LeftJoin(model.Teams.Table).
		On(model.Teams.ID.EqPath(model.Members.TeamID.Path)).
		Apply(q)
	return query.Where(q, ConditionPredicate(cond))
}

func (r *memberRepositoryImpl) searchContent(cond *model.SearchCondition) *bun.SelectQuery {
	return query.Select(r.searchFrom(cond),
		model.Members.ID.As("member_id"),
		model.Members.Username.As("username"),
		model.Members.Age.As("age"),
		model.Teams.ID.As("team_id"),
		model.Teams.Name.As("team_name"),
	)
}

func (r *memberRepositoryImpl) Search(ctx context.Context, cond *model.SearchCondition) ([]*model.MemberTeamDto, error) {
	q := query.OrderBy(r.searchContent(cond), model.Members.ID.Asc())
	return query.Fetch[model.MemberTeamDto](ctx, q)
}

func (r *memberRepositoryImpl) pageContent(ctx context.Context, cond *model.SearchCondition, page *types.PageRequest) ([]*model.MemberTeamDto, error) {
	q := r.searchContent(cond)
	if orders := page.GetOrders(); len(orders) > 0 {
		q = q.Order(orders...)
	} else {
		q = query.OrderBy(q, model.Members.ID.Asc())
	}
	return query.Fetch[model.MemberTeamDto](ctx, q.Offset(page.GetOffset()).Limit(page.GetLimit()))
}

func (r *memberRepositoryImpl) searchCount(ctx context.Context, cond *model.SearchCondition) (int, error) {
	return query.FetchCount(ctx, r.searchFrom(cond))
}

// SearchPageSimple runs the content query and then the count query.
func (r *memberRepositoryImpl) SearchPageSimple(ctx context.Context, cond *model.SearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error) {
	content, err := r.pageContent(ctx, cond, page)
	if err != nil {
		return nil, err
	}
	total, err := r.searchCount(ctx, cond)
	if err != nil {
		return nil, err
	}
	pagination := types.NewDefaultPagination[model.MemberTeamDto](page)
	pagination.Items = content
	pagination.Total = total
	return pagination, nil
}

// SearchPageOptimized runs the count query only when the content alone
// cannot decide the total.
func (r *memberRepositoryImpl) SearchPageOptimized(ctx context.Context, cond *model.SearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error) {
	content, err := r.pageContent(ctx, cond, page)
	if err != nil {
		return nil, err
	}
	return types.GetPage(content, page, func() (int, error) {
		return r.searchCount(ctx, cond)
	})
}
