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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

func TestQueryCounter(t *testing.T) {
	c := NewQueryCounter()
	ctx := context.Background()
	for _, q := range []string{
		"SELECT * FROM member",
		"SELECT count(*) FROM member AS m",
		"SELECT COUNT(*) FROM team",
		"UPDATE member SET age = age + 1",
	} {
		c.AfterQuery(ctx, &bun.QueryEvent{Query: q})
	}

	assert.Equal(t, 1, c.Count("SELECT"))
	assert.Equal(t, 2, c.Count(CountOperation))
	assert.Equal(t, 1, c.Count("UPDATE"))
	assert.Equal(t, map[string]int{"SELECT": 1, CountOperation: 2, "UPDATE": 1}, c.Snapshot())

	c.Reset()
	assert.Empty(t, c.Snapshot())
}

func TestQueryHook_Env(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		err     error
		printed bool
	}{
		{"disabled", "0", errors.New("boom"), false},
		{"failures only skips success", "1", nil, false},
		{"failures only skips no rows", "1", sql.ErrNoRows, false},
		{"failures only prints errors", "1", errors.New("boom"), true},
		{"verbose prints success", "2", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ROSTER_TEST_SQL_LOG", tt.env)
			var buf bytes.Buffer
			h := &QueryHook{EnvName: "ROSTER_TEST_SQL_LOG", Writer: &buf}

			h.AfterQuery(context.Background(), &bun.QueryEvent{
				Query:     "SELECT 1",
				StartTime: time.Now(),
				Err:       tt.err,
			})
			assert.Equal(t, tt.printed, buf.Len() > 0)
		})
	}
}

func TestQueryHook_Silent(t *testing.T) {
	var buf bytes.Buffer
	h := &QueryHook{Enabled: true, Verbose: true, Writer: &buf}

	EnableBunSqlSilent(true)
	h.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	EnableBunSqlSilent(false)
	assert.Zero(t, buf.Len())

	h.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Contains(t, buf.String(), "SELECT 1")
}
