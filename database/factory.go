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
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/bun"
)

var supportedTypes = []string{TypeMySQL, TypePostgres, "postgresql", TypeSQLite, "sqlite3"}

// Factory builds the database manager from configuration and fronts it
// for the package level accessors.
type Factory struct {
	manager  AbstractDatabaseManager
	logger   Logger
	validate *validator.Validate
}

func NewDatabaseFactory() *Factory {
	return &Factory{
		logger:   GetLogger(),
		validate: validator.New(),
	}
}

// CreateFromConfig applies the DB_* environment overrides to cfg, validates
// it and creates a manager for it. The manager is not connected yet.
func (f *Factory) CreateFromConfig(cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	if !slices.Contains(supportedTypes, cfg.Type) {
		return nil, fmt.Errorf("unsupported database type: %s, supported types: %v", cfg.Type, supportedTypes)
	}

	OverrideFromEnv(cfg)
	if err := f.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	f.manager = NewDatabaseManager(cfg)
	return f.manager, nil
}

// OverrideFromEnv overrides connection settings from DB_* environment
// variables. Durations are given in seconds; malformed numbers are ignored.
func OverrideFromEnv(cfg *ConnectionConfig) {
	envString("DB_TYPE", &cfg.Type)
	envString("DB_DRIVER", &cfg.Driver)
	envString("DB_HOST", &cfg.Host)
	envInt("DB_PORT", &cfg.Port)
	envString("DB_USERNAME", &cfg.Username)
	envString("DB_PASSWORD", &cfg.Password)
	envString("DB_NAME", &cfg.DBName)
	envString("DB_SSLMODE", &cfg.SSLMode)
	envInt("DB_MAX_IDLE_CONNS", &cfg.MaxIdleConns)
	envInt("DB_MAX_OPEN_CONNS", &cfg.MaxOpenConns)
	envSeconds("DB_CONN_MAX_LIFETIME", &cfg.ConnMaxLifetime)
	envBool("DB_ENABLE_RECONNECT", &cfg.EnableReconnect)
	envSeconds("DB_RECONNECT_INTERVAL", &cfg.ReconnectInterval)
	envBool("DB_ENABLE_QUERY_LOG", &cfg.EnableQueryLog)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = v
	}
}

func envSeconds(key string, dst *time.Duration) {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = time.Duration(v) * time.Second
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true"
	}
}

// InitializeDatabase connects and, when enabled, runs migrations with the
// given settings.
func (f *Factory) InitializeDatabase(ctx context.Context, migrate DataMigrateConfig) error {
	if f.manager == nil {
		return fmt.Errorf("database manager not created")
	}
	if err := f.manager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if migrate.EnableMigrateOnStartup {
		mm := NewMigrationManager(f.manager.GetDB(), f.logger).WithConfig(migrate)
		if err := mm.RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}
	return nil
}

func (f *Factory) GetManager() AbstractDatabaseManager {
	return f.manager
}

// GetDB returns the Bun database, or nil before the manager connects.
func (f *Factory) GetDB() *bun.DB {
	if f.manager == nil {
		return nil
	}
	return f.manager.GetDB()
}

func (f *Factory) Close() error {
	if f.manager == nil {
		return nil
	}
	return f.manager.Disconnect()
}

func (f *Factory) GetHealthStatus(ctx context.Context) *HealthStatus {
	if f.manager == nil {
		return &HealthStatus{
			LastError:     "Database manager not initialized",
			LastCheckTime: time.Now(),
		}
	}
	return f.manager.HealthCheck(ctx)
}

func (f *Factory) GetStats() *DBStats {
	if f.manager == nil {
		return &DBStats{}
	}
	return f.manager.GetStats()
}
