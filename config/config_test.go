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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/database"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
profile: prod
server:
  addr: ":9000"
  read_timeout: 3s
log:
  level: debug
  format: json
database:
  connection:
    type: mysql
    host: db
    port: 3306
    dbname: roster
  init:
    auto_init_on_startup: true
    profiles: [local]
    teams: 2
    members: 10
`)
	t.Setenv("APP_ADDR", ":9100")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Profile)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, database.TypeMySQL, cfg.Database.ConnectionConfig.Type)
	assert.Equal(t, "db.internal", cfg.Database.ConnectionConfig.Host)
	assert.False(t, cfg.SeedOnStartup())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, cfg.Profile)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.True(t, cfg.SeedOnStartup())

	t.Setenv("APP_PROFILE", "staging")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.False(t, cfg.SeedOnStartup())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown log level", "log:\n  level: loud\n"},
		{"unsupported database", "database:\n  connection:\n    type: oracle\n    dbname: x\n"},
		{"too many teams", "database:\n  init:\n    teams: 27\n"},
		{"malformed yaml", "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
