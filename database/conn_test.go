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
	_ "github.com/tomoncle/roster/model"
)

func TestInitDB_SQLiteMemory(t *testing.T) {
	ctx := context.Background()
	assert.False(t, database.GetHealthStatus(ctx).Healthy)
	assert.Error(t, database.RunMigrations(ctx))

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DBName = ":memory:"
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.ConnectionConfig.SlowQueryTime = 0

	db, err := database.InitDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })

	assert.Same(t, db, database.GetDB())
	assert.Same(t, cfg, database.GetConfig())
	assert.True(t, database.GetHealthStatus(ctx).Healthy)
	require.NoError(t, database.RunMigrations(ctx))

	exists, err := db.NewSelect().Table("migrations").Where("version = ?", "002").Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	stats := database.GetDatabaseStats()
	assert.Equal(t, 1, stats.MaxOpenConns)
	assert.NotZero(t, stats.Queries["SELECT"])

	_, err = database.InitDB(ctx, nil)
	assert.Error(t, err)
}
