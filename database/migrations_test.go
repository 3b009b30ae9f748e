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

package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/dbtest"
	"github.com/tomoncle/roster/model"
)

func versions(ms []database.Migration) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Version)
	}
	return out
}

func TestMigrations_AppliedAndRollback(t *testing.T) {
	db, _ := dbtest.Open(t)
	ctx := context.Background()
	mm := database.NewMigrationManager(db, nil).
		WithConfig(database.DataMigrateConfig{EnableMigrateOnStartup: true, EnableForeignKey: true})

	assert.Len(t, mm.Migrations(), 2, "sqlite has no foreign key migration")

	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002"}, versions(applied))

	require.NoError(t, mm.RollbackMigration(ctx, "002"))
	applied, err = mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"001"}, versions(applied))
	assert.Error(t, mm.RollbackMigration(ctx, "002"))
	assert.Error(t, mm.RollbackMigration(ctx, "999"))

	require.NoError(t, mm.RunMigrations(ctx))
	applied, err = mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002"}, versions(applied))
}

func TestMigrations_Idempotent(t *testing.T) {
	db, counter := dbtest.Open(t)
	ctx := context.Background()

	mm := database.NewMigrationManager(db, nil).WithConfig(database.DataMigrateConfig{EnableMigrateOnStartup: true})
	require.NoError(t, mm.RunMigrations(ctx))
	assert.Zero(t, counter.Count("INSERT"))

	_, err := db.NewInsert().Model(model.NewTeam("teamA")).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.Count("INSERT"))
}

func TestMigrations_RollbackBaseTables(t *testing.T) {
	db, _ := dbtest.Open(t)
	ctx := context.Background()
	mm := database.NewMigrationManager(db, nil).WithConfig(database.DataMigrateConfig{})

	require.NoError(t, mm.RollbackMigration(ctx, "002"))
	require.NoError(t, mm.RollbackMigration(ctx, "001"))

	_, err := db.NewSelect().Model((*model.Member)(nil)).Count(ctx)
	is, kind := database.IsSqlError(err)
	assert.True(t, is)
	assert.Equal(t, database.NoTableErr, kind)
}
