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

package repository

import (
	"context"

	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/query"
	"github.com/uptrace/bun"
)

type teamRepositoryImpl struct {
	Repository[model.Team]
	db      *bun.DB
	members Repository[model.Member]
}

// NewTeamRepository returns the team store backed by db.
func NewTeamRepository(db *bun.DB) TeamRepository {
	return &teamRepositoryImpl{
		Repository: NewRepository[model.Team](db),
		db:         db,
		members:    NewRepository[model.Member](db),
	}
}

// FindByName returns the team named name, or nil when there is none.
func (r *teamRepositoryImpl) FindByName(ctx context.Context, name string) (*model.Team, error) {
	q := r.db.NewSelect().Model((*model.Team)(nil)).Where("?", model.Teams.Name.Eq(name))
	return query.FetchOne[model.Team](ctx, q)
}

// SaveRoster inserts the teams first and then the members, whose TeamID is
// refreshed from the now persisted teams.
func (r *teamRepositoryImpl) SaveRoster(ctx context.Context, roster *model.Roster) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := r.CreateWithTx(ctx, &tx, roster.Teams()...); err != nil {
			return err
		}
		members := roster.Members()
		for _, m := range members {
			if m.Team != nil {
				m.ChangeTeam(m.Team)
			}
		}
		return r.members.CreateWithTx(ctx, &tx, members...)
	})
}
