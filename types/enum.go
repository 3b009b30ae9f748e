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

package types

import "strings"

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// FetchMode selects how a member's team association is resolved.
type FetchMode int

const (
	// FetchLazy leaves the team unresolved until it is loaded explicitly.
	FetchLazy FetchMode = iota
	// FetchEager joins the team into the same round trip.
	FetchEager
)

var _ BaseEnum = FetchLazy

var fetchModeNames = map[FetchMode][2]string{
	FetchLazy:  {"lazy", "resolve association on demand"},
	FetchEager: {"eager", "fetch association with a join"},
}

func (m FetchMode) IsValid() bool { _, ok := fetchModeNames[m]; return ok }

func (m FetchMode) Number() int {
	if !m.IsValid() {
		return IllegalValue
	}
	return int(m)
}

func (m FetchMode) Name() string {
	if v, ok := fetchModeNames[m]; ok {
		return v[0]
	}
	return IllegalName
}

func (m FetchMode) Desc() string {
	if v, ok := fetchModeNames[m]; ok {
		return v[1]
	}
	return IllegalDesc
}

func (m FetchMode) String() string { return m.Name() }

// PageStrategy selects how the total row count of a page is obtained.
type PageStrategy int

const (
	// PageSimple always issues a separate count query.
	PageSimple PageStrategy = iota
	// PageOptimized skips the count query when the content already decides the total.
	PageOptimized
)

var _ BaseEnum = PageSimple

var pageStrategyNames = map[PageStrategy][2]string{
	PageSimple:    {"simple", "content query plus count query"},
	PageOptimized: {"optimized", "count query only when the page cannot decide the total"},
}

func (s PageStrategy) IsValid() bool { _, ok := pageStrategyNames[s]; return ok }

func (s PageStrategy) Number() int {
	if !s.IsValid() {
		return IllegalValue
	}
	return int(s)
}

func (s PageStrategy) Name() string {
	if v, ok := pageStrategyNames[s]; ok {
		return v[0]
	}
	return IllegalName
}

func (s PageStrategy) Desc() string {
	if v, ok := pageStrategyNames[s]; ok {
		return v[1]
	}
	return IllegalDesc
}

func (s PageStrategy) String() string { return s.Name() }

// ParsePageStrategy maps a strategy name to its value; unknown names yield false.
func ParsePageStrategy(name string) (PageStrategy, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s, v := range pageStrategyNames {
		if v[0] == n {
			return s, true
		}
	}
	return PageStrategy(IllegalValue), false
}
