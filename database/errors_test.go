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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantIs bool
		want   SQLError
	}{
		{"nil", nil, false, UnknownErr},
		{"no rows", fmt.Errorf("find: %w", sql.ErrNoRows), true, NoRowsErr},
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr},
		{"mysql duplicate index", &mysql.MySQLError{Number: 1061}, true, ExistIndexErr},
		{"mysql unknown number", &mysql.MySQLError{Number: 1}, true, UnknownErr},
		{"pgx unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, true, DuplicateKeyErr},
		{"pgx wrapped fk violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}), true, ForeignKeyViolationErr},
		{"pq duplicate object", &pq.Error{Code: pq.ErrorCode(pgerrcode.DuplicateObject)}, true, ExistConstraintErr},
		{"pq undefined table", &pq.Error{Code: pq.ErrorCode(pgerrcode.UndefinedTable)}, true, NoTableErr},
		{"sqlite missing table", errors.New("SQL logic error: no such table: member (1)"), true, NoTableErr},
		{"sqlite existing index", errors.New("index idx_member_team_id already exists"), true, ExistIndexErr},
		{"sqlite unique", errors.New("UNIQUE constraint failed: team.id"), true, DuplicateKeyErr},
		{"not a database error", errors.New("boom"), false, UnknownErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, got := IsSqlError(tt.err)
			assert.Equal(t, tt.wantIs, is)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLError_String(t *testing.T) {
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	assert.Equal(t, "unknown", SQLError(-1).String())
}
