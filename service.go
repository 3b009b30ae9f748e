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

package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/types"
	"github.com/tomoncle/roster/utils"
	"github.com/uptrace/bun"
)

// ErrInvalidArgument marks errors caused by caller input rather than the store.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotInitialized is returned when no database is available yet.
var ErrNotInitialized = errors.New("database not initialized")

var log = utils.NewLogger("ROSTER")

type MemberService interface {
	// Search returns every member matching cond with its team, by member id.
	Search(ctx context.Context, cond *model.SearchCondition) ([]*model.MemberTeamDto, error)

	// SearchPage returns one page of Search results. The strategy decides
	// whether the total always costs a count query.
	SearchPage(ctx context.Context, cond *model.SearchCondition, page *types.PageRequest, strategy types.PageStrategy) (*types.Pagination[model.MemberTeamDto], error)

	// FindByUsername returns the member named username, or nil.
	FindByUsername(ctx context.Context, username string, mode types.FetchMode) (*model.Member, error)

	// Seed stores the sample roster: members named member0..member<n-1>
	// with age equal to their index, spread round-robin over the teams.
	Seed(ctx context.Context, teams, members int) (*model.Roster, error)
}

// DBProvider returns the current database handle, or nil when none is open.
type DBProvider func() *bun.DB

type memberServiceImpl struct {
	db DBProvider
}

// NewMemberService returns a MemberService on the global database. The
// handle is looked up on every call, so it follows InitDB and reconnects.
func NewMemberService() MemberService {
	return NewMemberServiceWithProvider(database.GetDB)
}

// NewMemberServiceWithProvider returns a MemberService that asks provider
// for the database on every call, e.g. AbstractDatabaseManager.GetDB.
func NewMemberServiceWithProvider(provider DBProvider) MemberService {
	return &memberServiceImpl{db: provider}
}

// NewMemberServiceWithDB returns a MemberService pinned to db.
func NewMemberServiceWithDB(db *bun.DB) MemberService {
	return NewMemberServiceWithProvider(func() *bun.DB { return db })
}

func (s *memberServiceImpl) currentDB() (*bun.DB, error) {
	db := s.db()
	if db == nil {
		return nil, ErrNotInitialized
	}
	return db, nil
}

func (s *memberServiceImpl) memberRepo() (repository.MemberRepository, error) {
	db, err := s.currentDB()
	if err != nil {
		return nil, err
	}
	return repository.NewMemberRepository(db), nil
}

func (s *memberServiceImpl) teamRepo() (repository.TeamRepository, error) {
	db, err := s.currentDB()
	if err != nil {
		return nil, err
	}
	return repository.NewTeamRepository(db), nil
}

func validateCondition(cond *model.SearchCondition) error {
	if cond == nil {
		return nil
	}
	if err := cond.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

func (s *memberServiceImpl) Search(ctx context.Context, cond *model.SearchCondition) ([]*model.MemberTeamDto, error) {
	if err := validateCondition(cond); err != nil {
		return nil, err
	}
	repo, err := s.memberRepo()
	if err != nil {
		return nil, err
	}
	return repo.Search(ctx, cond)
}

func (s *memberServiceImpl) SearchPage(ctx context.Context, cond *model.SearchCondition, page *types.PageRequest, strategy types.PageStrategy) (*types.Pagination[model.MemberTeamDto], error) {
	if err := validateCondition(cond); err != nil {
		return nil, err
	}
	if page == nil {
		page = types.NewDefaultPageRequest(1, types.DefaultPageSize)
	}
	if !strategy.IsValid() {
		return nil, fmt.Errorf("%w: unknown page strategy %d", ErrInvalidArgument, strategy)
	}
	repo, err := s.memberRepo()
	if err != nil {
		return nil, err
	}
	if strategy == types.PageSimple {
		return repo.SearchPageSimple(ctx, cond, page)
	}
	return repo.SearchPageOptimized(ctx, cond, page)
}

func (s *memberServiceImpl) FindByUsername(ctx context.Context, username string, mode types.FetchMode) (*model.Member, error) {
	if !model.HasText(username) {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}
	repo, err := s.memberRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindByUsername(ctx, username, mode)
}

func (s *memberServiceImpl) Seed(ctx context.Context, teams, members int) (*model.Roster, error) {
	if teams < 0 || members < 0 {
		return nil, fmt.Errorf("%w: negative seed size", ErrInvalidArgument)
	}
	repo, err := s.teamRepo()
	if err != nil {
		return nil, err
	}
	r := model.SeedRoster(teams, members)
	if err := repo.SaveRoster(ctx, r); err != nil {
		return nil, err
	}
	log.WithFields(utils.Fields("teams", len(r.Teams()), "members", len(r.Members()))).Info("Sample roster stored")
	return r, nil
}
