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
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"
)

// bunManager owns one *bun.DB. The health loop survives reconnects and
// stops only on Disconnect.
type bunManager struct {
	config  *ConnectionConfig
	counter *QueryCounter

	mu        sync.RWMutex
	logger    Logger
	db        *bun.DB
	sqlDB     *sql.DB
	lastError error

	loopMu   sync.Mutex
	stopLoop context.CancelFunc
	loopDone chan struct{}
}

// NewDatabaseManager returns an AbstractDatabaseManager backed by Bun.
// A nil config selects DefaultConnectionConfig.
func NewDatabaseManager(config *ConnectionConfig) AbstractDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &bunManager{
		config:  config,
		counter: NewQueryCounter(),
		logger:  GetLogger().With("type", config.Type, "dbname", config.DBName),
	}
}

func (m *bunManager) log() Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger
}

func (m *bunManager) Connect(ctx context.Context) error {
	if err := m.open(ctx); err != nil {
		return err
	}
	if m.config.HealthCheckInterval > 0 {
		m.startHealthLoop()
	}
	return nil
}

// open dials and pings a new connection unless one is already open.
func (m *bunManager) open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		return nil
	}

	driverName, dsn, dialect, err := m.dataSource()
	if err != nil {
		m.lastError = err
		return err
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		m.lastError = err
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	m.tunePool(sqlDB)

	timeout := m.config.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		m.lastError = err
		return fmt.Errorf("database connection test failed: %w", err)
	}

	m.sqlDB = sqlDB
	m.db = m.newBunDB(sqlDB, dialect)
	m.lastError = nil
	m.logger.Info("Database connected", "host", m.config.Host)
	return nil
}

func (m *bunManager) newBunDB(sqlDB *sql.DB, dialect schema.Dialect) *bun.DB {
	db := bun.NewDB(sqlDB, dialect)
	db.RegisterModel(RegisteredModelInstances()...)
	db.AddQueryHook(m.counter)
	if m.config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	} else {
		db.AddQueryHook(&QueryHook{EnvName: "ROSTER_SQL_LOG", Writer: logWriter{m.logger}})
	}
	if m.config.SlowQueryTime > 0 {
		db.AddQueryHook(&SlowQueryHook{SlowTime: m.config.SlowQueryTime, Logger: m.logger})
	}
	return db
}

// dataSource resolves the database/sql driver name, DSN and Bun dialect.
func (m *bunManager) dataSource() (string, string, schema.Dialect, error) {
	c := m.config
	switch c.Type {
	case TypeMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
			c.Username, c.Password, c.Host, c.Port, c.DBName, c.ConnectTimeout, c.ReadTimeout, c.WriteTimeout)
		return "mysql", dsn, mysqldialect.New(), nil
	case TypePostgres, "postgresql":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
			c.Username, c.Password, c.Host, c.Port, c.DBName, sslMode, int(c.ConnectTimeout.Seconds()))
		if c.Driver == DriverPGX {
			return "pgx", dsn, pgdialect.New(), nil
		}
		return "postgres", dsn, pgdialect.New(), nil
	case TypeSQLite, "sqlite3":
		dsn := fmt.Sprintf("file:%s.db?cache=shared", c.DBName)
		if c.IsMemory() {
			dsn = "file::memory:?cache=shared"
		}
		return sqliteshim.ShimName, dsn, sqlitedialect.New(), nil
	default:
		return "", "", nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}
}

func (m *bunManager) tunePool(sqlDB *sql.DB) {
	if m.config.Type == TypeSQLite || m.config.Type == "sqlite3" {
		// in-memory databases live as long as their only connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return
	}
	sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.config.ConnMaxIdleTime)
}

// close releases the connection and leaves the health loop running.
func (m *bunManager) close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db, m.sqlDB = nil, nil
	return err
}

func (m *bunManager) Disconnect() error {
	m.stopHealthLoop()
	err := m.close()
	if err != nil {
		m.log().Error("Failed to close database connection", "error", err)
	} else {
		m.log().Info("Database connection closed")
	}
	return err
}

// Reconnect replaces the connection and its *bun.DB, trying up to
// MaxReconnectTries times ReconnectInterval apart. Handles obtained from
// GetDB before the call are closed.
func (m *bunManager) Reconnect(ctx context.Context) error {
	if err := m.close(); err != nil {
		m.log().Warn("Error closing stale connection", "error", err)
	}
	tries := m.config.MaxReconnectTries
	if tries < 1 {
		tries = 1
	}
	var err error
	for try := 1; try <= tries; try++ {
		if err = m.open(ctx); err == nil {
			m.log().Info("Reconnect succeeded", "try", try)
			return nil
		}
		m.log().Warn("Reconnect failed", "try", try, "error", err)
		if try == tries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.config.ReconnectInterval):
		}
	}
	return fmt.Errorf("reconnect gave up after %d tries: %w", tries, err)
}

func (m *bunManager) Ping(ctx context.Context) error {
	db := m.GetDB()
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	return db.PingContext(ctx)
}

func (m *bunManager) GetDB() *bun.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

func (m *bunManager) GetSQLDB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sqlDB
}

func (m *bunManager) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{LastCheckTime: start}

	m.mu.RLock()
	sqlDB, lastErr := m.sqlDB, m.lastError
	m.mu.RUnlock()
	if sqlDB == nil {
		status.LastError = "Database not initialized"
		if lastErr != nil {
			status.LastError = lastErr.Error()
		}
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := sqlDB.PingContext(pingCtx)
	status.ResponseTime = time.Since(start)
	status.Connected = err == nil
	status.Healthy = err == nil
	if err != nil {
		status.LastError = err.Error()
	}

	stats := sqlDB.Stats()
	status.ActiveConns = stats.InUse
	status.IdleConns = stats.Idle
	status.MaxOpenConns = stats.MaxOpenConnections

	m.mu.Lock()
	m.lastError = err
	m.mu.Unlock()
	return status
}

func (m *bunManager) startHealthLoop() {
	m.loopMu.Lock()
	defer m.loopMu.Unlock()
	if m.stopLoop != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.stopLoop = cancel
	m.loopDone = make(chan struct{})
	go m.healthLoop(ctx, m.loopDone)
}

func (m *bunManager) stopHealthLoop() {
	m.loopMu.Lock()
	cancel, done := m.stopLoop, m.loopDone
	m.stopLoop, m.loopDone = nil, nil
	m.loopMu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (m *bunManager) healthLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.config.HealthCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		status := m.HealthCheck(checkCtx)
		cancel()
		if status.Healthy || !m.config.EnableReconnect {
			continue
		}
		m.log().Warn("Database unhealthy, reconnecting", "error", status.LastError)
		if err := m.Reconnect(ctx); err != nil {
			m.log().Error("Reconnect failed", "error", err)
		}
	}
}

func (m *bunManager) GetStats() *DBStats {
	sqlDB := m.GetSQLDB()
	if sqlDB == nil {
		return &DBStats{Queries: m.counter.Snapshot()}
	}
	stats := sqlDB.Stats()
	return &DBStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
		Queries:           m.counter.Snapshot(),
	}
}

func (m *bunManager) RunMigrations(ctx context.Context) error {
	db := m.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return NewMigrationManager(db, m.log()).RunMigrations(ctx)
}

func (m *bunManager) SetLogger(logger Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// logWriter sends QueryHook lines to a Logger at debug level.
type logWriter struct{ logger Logger }

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Debug(string(bytes.TrimRight(p, "\r\n")))
	return len(p), nil
}
