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

package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SearchCondition filters members. Blank strings and nil bounds leave the
// corresponding field unconstrained.
type SearchCondition struct {
	Username string `json:"username,omitempty" validate:"max=255"`
	TeamName string `json:"team_name,omitempty" validate:"max=255"`
	AgeGoe   *int   `json:"age_goe,omitempty" validate:"omitempty,gte=0"`
	AgeLoe   *int   `json:"age_loe,omitempty" validate:"omitempty,gte=0"`
}

// Validate checks field ranges.
func (c *SearchCondition) Validate() error {
	return validate.Struct(c)
}

// IsEmpty reports whether no field constrains the search.
func (c *SearchCondition) IsEmpty() bool {
	return c == nil || (!HasText(c.Username) && !HasText(c.TeamName) && c.AgeGoe == nil && c.AgeLoe == nil)
}

// HasText reports whether s contains a non-whitespace character.
func HasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Int returns a pointer to v, for optional bounds.
func Int(v int) *int {
	return &v
}
