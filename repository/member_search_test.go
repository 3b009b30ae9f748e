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

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/dbtest"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/types"
)

func usernames(dtos []*model.MemberTeamDto) []string {
	out := make([]string, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.Username)
	}
	return out
}

func TestConditionPredicate_AbsentFieldsAreUnconstrained(t *testing.T) {
	assert.True(t, repository.ConditionPredicate(nil).IsZero())
	assert.True(t, repository.ConditionPredicate(&model.SearchCondition{Username: " "}).IsZero())
	assert.True(t, repository.UsernameEq("").IsZero())
	assert.True(t, repository.TeamNameEq("").IsZero())
	assert.True(t, repository.AgeGoe(nil).IsZero())
	assert.True(t, repository.AgeLoe(nil).IsZero())
	assert.True(t, repository.AgeBetween(nil, nil).IsZero())
	assert.False(t, repository.AgeGoe(model.Int(0)).IsZero())
}

func TestSearch(t *testing.T) {
	f := dbtest.OpenSeeded(t)
	repo := repository.NewMemberRepository(f.DB)
	ctx := context.Background()

	tests := []struct {
		name string
		cond *model.SearchCondition
		want []string
	}{
		{"nil condition", nil, []string{"member1", "member2", "member3", "member4"}},
		{"empty condition", &model.SearchCondition{}, []string{"member1", "member2", "member3", "member4"}},
		{"team only", &model.SearchCondition{TeamName: "teamB"}, []string{"member3", "member4"}},
		{"username", &model.SearchCondition{Username: "member2"}, []string{"member2"}},
		{"age range inclusive", &model.SearchCondition{AgeGoe: model.Int(20), AgeLoe: model.Int(40)}, []string{"member2", "member3", "member4"}},
		{"upper bound only", &model.SearchCondition{AgeLoe: model.Int(20)}, []string{"member1", "member2"}},
		{"all fields", &model.SearchCondition{Username: "member4", TeamName: "teamB", AgeGoe: model.Int(35), AgeLoe: model.Int(40)}, []string{"member4"}},
		{"no match", &model.SearchCondition{TeamName: "teamA", AgeGoe: model.Int(35)}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, usernames(got))
		})
	}
}

func TestSearch_ProjectsTeamColumns(t *testing.T) {
	f := dbtest.OpenSeeded(t)
	f.AddMember(t, "loner", 50, nil)
	repo := repository.NewMemberRepository(f.DB)

	got, err := repo.Search(context.Background(), &model.SearchCondition{AgeGoe: model.Int(40)})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.MemberTeamDto{
		MemberID: f.Members[3].ID,
		Username: "member4",
		Age:      40,
		TeamID:   f.TeamB.ID,
		TeamName: "teamB",
	}, *got[0])
	assert.Equal(t, "loner", got[1].Username)
	assert.Zero(t, got[1].TeamID)
	assert.Empty(t, got[1].TeamName)
}

func TestSearchPage_DescendingWindow(t *testing.T) {
	f := dbtest.OpenSeeded(t)
	repo := repository.NewMemberRepository(f.DB)
	ctx := context.Background()

	order, err := repository.ParseMemberSort("username,desc")
	require.NoError(t, err)
	req := types.NewOffsetRequest(1, 2, order)

	for name, search := range map[string]func(context.Context, *model.SearchCondition, *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error){
		"simple":    repo.SearchPageSimple,
		"optimized": repo.SearchPageOptimized,
	} {
		t.Run(name, func(t *testing.T) {
			page, err := search(ctx, &model.SearchCondition{}, req)
			require.NoError(t, err)
			assert.Equal(t, []string{"member3", "member2"}, usernames(page.Items))
			assert.Equal(t, 4, page.Total)
			assert.Equal(t, 1, page.Offset)
		})
	}
}

func TestSearchPageSimple_AlwaysCounts(t *testing.T) {
	f := dbtest.OpenSeeded(t)
	repo := repository.NewMemberRepository(f.DB)

	page, err := repo.SearchPageSimple(context.Background(), nil, types.NewOffsetRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, f.Counter.Count(database.CountOperation))
}

func TestSearchPageOptimized_CountQuery(t *testing.T) {
	tests := []struct {
		name      string
		cond      *model.SearchCondition
		req       *types.PageRequest
		wantItems int
		wantTotal int
		wantCount int
	}{
		{"first page short", nil, types.NewOffsetRequest(0, 10), 4, 4, 0},
		{"filtered first page short", &model.SearchCondition{TeamName: "teamA"}, types.NewOffsetRequest(0, 5), 2, 2, 0},
		{"last page short", nil, types.NewOffsetRequest(3, 2), 1, 4, 0},
		{"full page", nil, types.NewOffsetRequest(0, 2), 2, 4, 1},
		{"empty later page", nil, types.NewOffsetRequest(8, 2), 0, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := dbtest.OpenSeeded(t)
			repo := repository.NewMemberRepository(f.DB)

			page, err := repo.SearchPageOptimized(context.Background(), tt.cond, tt.req)
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantCount, f.Counter.Count(database.CountOperation))
		})
	}
}

func TestSearchPage_PropagatesErrors(t *testing.T) {
	f := dbtest.OpenSeeded(t)
	repo := repository.NewMemberRepository(f.DB)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.SearchPageSimple(ctx, nil, types.NewOffsetRequest(0, 2))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.SearchPageOptimized(ctx, nil, types.NewOffsetRequest(0, 2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseMemberSort(t *testing.T) {
	order, err := repository.ParseMemberSort("age")
	require.NoError(t, err)
	assert.Equal(t, "m.age ASC", order)

	order, err = repository.ParseMemberSort("teamName,DESC")
	require.NoError(t, err)
	assert.Equal(t, "t.name DESC", order)

	_, err = repository.ParseMemberSort("password")
	assert.Error(t, err)
	_, err = repository.ParseMemberSort("age,sideways")
	assert.Error(t, err)
}
