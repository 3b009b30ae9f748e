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
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogrusLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	log := NewLogrusLogger(l).With("dbname", "roster")
	log.Info("Migration applied", "version", "001")
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, `msg="Migration applied"`)
	assert.Contains(t, out, "dbname=roster")
	assert.Contains(t, out, "version=001")
	assert.NotContains(t, out, "hidden")
}

func TestSetLogger(t *testing.T) {
	custom := NewLogrusLogger(logrus.New())
	SetLogger(custom)
	t.Cleanup(func() { SetLogger(nil) })
	assert.Same(t, custom, GetLogger())

	SetLogger(nil)
	assert.NotSame(t, custom, GetLogger())
}
