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
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/roster/utils"
)

const loggerName = "DATABASE"

// Logger is the structured logger used by the database package. Fields are
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	// With returns a logger that adds fields to every entry.
	With(fields ...interface{}) Logger
}

var (
	pkgLogger   Logger
	pkgLoggerMu sync.RWMutex
)

// SetLogger replaces the package logger; nil restores the default.
func SetLogger(l Logger) {
	pkgLoggerMu.Lock()
	defer pkgLoggerMu.Unlock()
	pkgLogger = l
}

// GetLogger returns the package logger, creating the logrus-backed
// DATABASE logger on first use.
func GetLogger() Logger {
	pkgLoggerMu.RLock()
	l := pkgLogger
	pkgLoggerMu.RUnlock()
	if l != nil {
		return l
	}

	pkgLoggerMu.Lock()
	defer pkgLoggerMu.Unlock()
	if pkgLogger == nil {
		pkgLogger = NewLogrusLogger(utils.NewLogger(loggerName))
	}
	return pkgLogger
}

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger adapts l to Logger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(msg string, fields ...interface{}) {
	l.entry.WithFields(utils.Fields(fields...)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, fields ...interface{}) {
	l.entry.WithFields(utils.Fields(fields...)).Info(msg)
}

func (l *logrusLogger) Warn(msg string, fields ...interface{}) {
	l.entry.WithFields(utils.Fields(fields...)).Warn(msg)
}

func (l *logrusLogger) Error(msg string, fields ...interface{}) {
	l.entry.WithFields(utils.Fields(fields...)).Error(msg)
}

func (l *logrusLogger) With(fields ...interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithFields(utils.Fields(fields...))}
}
