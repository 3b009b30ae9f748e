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

import "github.com/tomoncle/roster/database"

// Teams are created before members, which reference them.
const (
	TeamPriority   = 10
	MemberPriority = 20
)

func init() {
	database.RegisteredModel(database.NewModelAdapter((*Team)(nil), TeamPriority))
	database.RegisteredModel(database.NewModelAdapter((*Member)(nil), MemberPriority))

	database.RegisteredIndex(database.IndexSpec{
		Table:   MemberTableName,
		Name:    "idx_member_team_id",
		Columns: []string{"team_id"},
	})
	database.RegisteredForeignKey(database.ForeignKeyConstraint{
		Table:           MemberTableName,
		Column:          "team_id",
		ReferenceTable:  TeamTableName,
		ReferenceColumn: "id",
		OnDelete:        "SET NULL",
	})
}
