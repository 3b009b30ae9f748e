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

package roster_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/dbtest"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/types"
)

func TestMemberService_Search(t *testing.T) {
	f := dbtest.OpenSeeded(t)
	svc := roster.NewMemberServiceWithDB(f.DB)

	got, err := svc.Search(context.Background(), &model.SearchCondition{
		TeamName: "teamB",
		AgeGoe:   model.Int(35),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "member4", got[0].Username)
	assert.Equal(t, "teamB", got[0].TeamName)
}

func TestMemberService_InvalidCondition(t *testing.T) {
	f := dbtest.OpenSeeded(t)
	svc := roster.NewMemberServiceWithDB(f.DB)
	ctx := context.Background()
	bad := &model.SearchCondition{AgeGoe: model.Int(-1)}

	_, err := svc.Search(ctx, bad)
	assert.ErrorIs(t, err, roster.ErrInvalidArgument)

	_, err = svc.SearchPage(ctx, bad, nil, types.PageSimple)
	assert.ErrorIs(t, err, roster.ErrInvalidArgument)

	_, err = svc.SearchPage(ctx, nil, nil, types.PageStrategy(99))
	assert.ErrorIs(t, err, roster.ErrInvalidArgument)

	_, err = svc.FindByUsername(ctx, "  ", types.FetchEager)
	assert.ErrorIs(t, err, roster.ErrInvalidArgument)

	_, err = svc.Seed(ctx, -1, 10)
	assert.ErrorIs(t, err, roster.ErrInvalidArgument)

	assert.Zero(t, f.Counter.Count("SELECT"))
}

func TestMemberService_SearchPage(t *testing.T) {
	tests := []struct {
		name       string
		strategy   types.PageStrategy
		wantCounts int
	}{
		{"simple counts every page", types.PageSimple, 1},
		{"optimized skips the count of a short first page", types.PageOptimized, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := dbtest.OpenSeeded(t)
			svc := roster.NewMemberServiceWithDB(f.DB)

			page, err := svc.SearchPage(context.Background(), &model.SearchCondition{TeamName: "teamA"},
				types.NewOffsetRequest(0, 10), tt.strategy)
			require.NoError(t, err)
			assert.Equal(t, 2, page.Total)
			assert.Len(t, page.Items, 2)
			assert.Equal(t, tt.wantCounts, f.Counter.Count("COUNT"))
		})
	}
}

func TestMemberService_SeedAndFind(t *testing.T) {
	db, _ := dbtest.Open(t)
	svc := roster.NewMemberServiceWithDB(db)
	ctx := context.Background()

	r, err := svc.Seed(ctx, 2, 100)
	require.NoError(t, err)
	assert.Len(t, r.MembersOf(r.Teams()[1]), 50)

	all, err := svc.Search(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 100)

	m, err := svc.FindByUsername(ctx, "member7", types.FetchEager)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 7, m.Age)
	require.NotNil(t, m.Team)
	assert.Equal(t, "teamB", m.Team.Name)
}

func TestMemberService_FollowsReconnect(t *testing.T) {
	ctx := context.Background()
	cfg := database.DefaultConnectionConfig()
	cfg.DBName = filepath.Join(t.TempDir(), "roster")
	cfg.HealthCheckInterval = 0
	cfg.SlowQueryTime = 0

	m := database.NewDatabaseManager(cfg)
	require.NoError(t, m.Connect(ctx))
	t.Cleanup(func() { _ = m.Disconnect() })
	require.NoError(t, m.RunMigrations(ctx))

	svc := roster.NewMemberServiceWithProvider(m.GetDB)
	_, err := svc.Seed(ctx, 2, 10)
	require.NoError(t, err)

	stale := m.GetDB()
	require.NoError(t, m.Reconnect(ctx))
	require.NotSame(t, stale, m.GetDB())

	got, err := svc.Search(ctx, &model.SearchCondition{TeamName: "teamB"})
	require.NoError(t, err)
	assert.Len(t, got, 5)

	pinned := roster.NewMemberServiceWithDB(stale)
	_, err = pinned.Search(ctx, nil)
	assert.Error(t, err)
}

func TestMemberService_BeforeInitDB(t *testing.T) {
	svc := roster.NewMemberService()
	ctx := context.Background()

	_, err := svc.Search(ctx, nil)
	assert.ErrorIs(t, err, roster.ErrNotInitialized)

	_, err = svc.SearchPage(ctx, nil, nil, types.PageOptimized)
	assert.ErrorIs(t, err, roster.ErrNotInitialized)

	_, err = svc.FindByUsername(ctx, "member1", types.FetchLazy)
	assert.ErrorIs(t, err, roster.ErrNotInitialized)

	_, err = svc.Seed(ctx, 1, 1)
	assert.ErrorIs(t, err, roster.ErrNotInitialized)
}
