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

// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

var seq atomic.Int64

// Fixture is a migrated database with the canonical data set:
// teamA{member1 10, member2 20}, teamB{member3 30, member4 40}.
type Fixture struct {
	DB      *bun.DB
	Counter *database.QueryCounter
	TeamA   *model.Team
	TeamB   *model.Team
	Members []*model.Member
}

// Open returns a migrated, empty database private to t.
func Open(t testing.TB) (*bun.DB, *database.QueryCounter) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	counter := database.NewQueryCounter()
	db.AddQueryHook(counter)

	err = database.NewMigrationManager(db, database.GetLogger()).
		WithConfig(database.DataMigrateConfig{EnableMigrateOnStartup: true}).
		RunMigrations(context.Background())
	require.NoError(t, err)
	db.RegisterModel(database.RegisteredModelInstances()...)

	counter.Reset()
	return db, counter
}

// OpenSeeded returns a database holding the canonical data set.
func OpenSeeded(t testing.TB) *Fixture {
	t.Helper()
	db, counter := Open(t)
	ctx := context.Background()

	f := &Fixture{
		DB:      db,
		Counter: counter,
		TeamA:   model.NewTeam("teamA"),
		TeamB:   model.NewTeam("teamB"),
	}
	_, err := db.NewInsert().Model(&[]*model.Team{f.TeamA, f.TeamB}).Exec(ctx)
	require.NoError(t, err)

	f.Members = []*model.Member{
		model.NewMember("member1", 10, f.TeamA),
		model.NewMember("member2", 20, f.TeamA),
		model.NewMember("member3", 30, f.TeamB),
		model.NewMember("member4", 40, f.TeamB),
	}
	_, err = db.NewInsert().Model(&f.Members).Exec(ctx)
	require.NoError(t, err)

	counter.Reset()
	return f
}

// AddMember inserts one more member into the fixture's database.
func (f *Fixture) AddMember(t testing.TB, username string, age int, team *model.Team) *model.Member {
	t.Helper()
	m := model.NewMember(username, age, team)
	_, err := f.DB.NewInsert().Model(m).Exec(context.Background())
	require.NoError(t, err)
	f.Counter.Reset()
	return m
}
