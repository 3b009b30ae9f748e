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
	"strings"
	"sync"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"gopkg.in/yaml.v3"
)

var validReferentialActions = []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"}

// ForeignKeyConstraint describes a foreign key relationship between tables.
type ForeignKeyConstraint struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete"` // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string `yaml:"on_update"`
	ConstraintName  string `yaml:"constraint_name"`
}

// ForeignKeyConfig is the YAML document listing foreign key constraints.
type ForeignKeyConfig struct {
	ForeignKeys []ForeignKeyConstraint `yaml:"foreign_keys"`
}

// GenerateConstraintName returns the explicit name or fk_<table>_<column>.
func (fk *ForeignKeyConstraint) GenerateConstraintName() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// AddQuery returns the ALTER TABLE ... ADD CONSTRAINT statement and its
// identifier arguments, quoted by Bun for the target dialect.
func (fk *ForeignKeyConstraint) AddQuery() (string, []interface{}) {
	query := "ALTER TABLE ? ADD CONSTRAINT ? FOREIGN KEY (?) REFERENCES ? (?)"
	if fk.OnDelete != "" {
		query += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		query += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return query, []interface{}{
		bun.Ident(fk.Table), bun.Ident(fk.GenerateConstraintName()), bun.Ident(fk.Column),
		bun.Ident(fk.ReferenceTable), bun.Ident(fk.ReferenceColumn),
	}
}

var (
	codeConstraints   []ForeignKeyConstraint
	codeConstraintsMu sync.RWMutex
)

// RegisteredForeignKey adds a code-defined constraint used when no YAML
// configuration is available.
func RegisteredForeignKey(fk ForeignKeyConstraint) {
	codeConstraintsMu.Lock()
	defer codeConstraintsMu.Unlock()
	codeConstraints = append(codeConstraints, fk)
}

func getForeignKeyConstraints() []ForeignKeyConstraint {
	codeConstraintsMu.RLock()
	defer codeConstraintsMu.RUnlock()
	out := make([]ForeignKeyConstraint, len(codeConstraints))
	copy(out, codeConstraints)
	return out
}

// ForeignKeyManager adds, drops, and validates foreign key constraints.
type ForeignKeyManager struct {
	constraints []ForeignKeyConstraint
	logger      Logger
}

// NewForeignKeyManager creates a manager with the code-defined constraints.
func NewForeignKeyManager(logger Logger) *ForeignKeyManager {
	return &ForeignKeyManager{
		constraints: getForeignKeyConstraints(),
		logger:      logger,
	}
}

// LoadForeignKeyManager reads constraints from a YAML file. A blank path
// or a missing file yields the code-defined constraints.
func LoadForeignKeyManager(logger Logger, configPath string) (*ForeignKeyManager, error) {
	if configPath == "" {
		return NewForeignKeyManager(logger), nil
	}
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		if logger != nil {
			logger.Debug("Foreign key config not found, using code-defined constraints", "config_path", configPath)
		}
		return NewForeignKeyManager(logger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ForeignKeyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &ForeignKeyManager{constraints: config.ForeignKeys, logger: logger}, nil
}

// AddAllForeignKeys adds every constraint. Constraints that already exist
// are skipped; any other failure aborts.
func (fkm *ForeignKeyManager) AddAllForeignKeys(ctx context.Context, db bun.IDB) error {
	for _, constraint := range fkm.constraints {
		query, args := constraint.AddQuery()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			if is, kind := IsSqlError(err); is && kind == ExistConstraintErr {
				continue
			}
			return fmt.Errorf("add foreign key %s: %w", constraint.GenerateConstraintName(), err)
		}
		if fkm.logger != nil {
			fkm.logger.Debug("Successfully added foreign key constraint", "constraint", constraint.GenerateConstraintName())
		}
	}
	return nil
}

// DropAllForeignKeys removes every constraint in reverse order.
func (fkm *ForeignKeyManager) DropAllForeignKeys(ctx context.Context, db bun.IDB) error {
	for i := len(fkm.constraints) - 1; i >= 0; i-- {
		c := fkm.constraints[i]
		if err := fkm.RemoveForeignKey(ctx, db, c.Table, c.GenerateConstraintName()); err != nil {
			return err
		}
	}
	return nil
}

// RemoveForeignKey drops a named foreign key from a table.
func (fkm *ForeignKeyManager) RemoveForeignKey(ctx context.Context, db bun.IDB, tableName, constraintName string) error {
	query := "ALTER TABLE ? DROP CONSTRAINT ?"
	if db.Dialect().Name() == dialect.MySQL {
		query = "ALTER TABLE ? DROP FOREIGN KEY ?"
	}
	_, err := db.ExecContext(ctx, query, bun.Ident(tableName), bun.Ident(constraintName))
	return err
}

// GetConstraintsByTable returns the constraints declared on a table.
func (fkm *ForeignKeyManager) GetConstraintsByTable(tableName string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, constraint := range fkm.constraints {
		if strings.EqualFold(constraint.Table, tableName) {
			result = append(result, constraint)
		}
	}
	return result
}

func (fkm *ForeignKeyManager) ListAllConstraints() []ForeignKeyConstraint {
	return fkm.constraints
}

// ValidateConstraints reports missing names and unknown referential actions.
func (fkm *ForeignKeyManager) ValidateConstraints() []error {
	var errs []error
	for _, constraint := range fkm.constraints {
		if constraint.Table == "" {
			errs = append(errs, fmt.Errorf("table name cannot be empty"))
		}
		if constraint.Column == "" {
			errs = append(errs, fmt.Errorf("column name cannot be empty: %s", constraint.Table))
		}
		if constraint.ReferenceTable == "" {
			errs = append(errs, fmt.Errorf("reference table name cannot be empty: %s.%s", constraint.Table, constraint.Column))
		}
		if constraint.ReferenceColumn == "" {
			errs = append(errs, fmt.Errorf("reference column name cannot be empty: %s.%s -> %s", constraint.Table, constraint.Column, constraint.ReferenceTable))
		}
		for _, action := range []string{constraint.OnDelete, constraint.OnUpdate} {
			if action != "" && !isReferentialAction(action) {
				errs = append(errs, fmt.Errorf("invalid referential action: %s, constraint: %s", action, constraint.GenerateConstraintName()))
			}
		}
	}
	return errs
}

func isReferentialAction(action string) bool {
	for _, valid := range validReferentialActions {
		if strings.EqualFold(action, valid) {
			return true
		}
	}
	return false
}
