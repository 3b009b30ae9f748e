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

package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("DB_TYPE", TypePostgres)
	t.Setenv("DB_DRIVER", DriverPGX)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "roster_test")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_RECONNECT_INTERVAL", "9")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")
	t.Setenv("DB_CONN_MAX_LIFETIME", "not-a-number")

	cfg := DefaultConnectionConfig()
	OverrideFromEnv(cfg)

	assert.Equal(t, TypePostgres, cfg.Type)
	assert.Equal(t, DriverPGX, cfg.Driver)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "roster_test", cfg.DBName)
	assert.Equal(t, 7, cfg.MaxOpenConns)
	assert.Equal(t, 9*time.Second, cfg.ReconnectInterval)
	assert.True(t, cfg.EnableQueryLog)
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime)
}

func TestCreateFromConfig_Rejects(t *testing.T) {
	f := NewDatabaseFactory()

	_, err := f.CreateFromConfig(nil)
	assert.Error(t, err)

	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"
	_, err = f.CreateFromConfig(cfg)
	assert.ErrorContains(t, err, "unsupported database type")

	cfg = DefaultConnectionConfig()
	cfg.Driver = "odbc"
	_, err = f.CreateFromConfig(cfg)
	assert.ErrorContains(t, err, "invalid database configuration")

	cfg = DefaultConnectionConfig()
	m, err := f.CreateFromConfig(cfg)
	require.NoError(t, err)
	assert.Same(t, m, f.GetManager())
	assert.Nil(t, f.GetDB())
}
