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
	"github.com/tomoncle/roster/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	// FindByID returns (nil, nil) when no row has the primary key id.
	FindByID(ctx context.Context, id any) (*T, error)

	FindAll(ctx context.Context) ([]*T, error)

	List(ctx context.Context, filter query.Predicate) ([]*T, error)

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error
}

// TransactionRepository defines CRUD operations executed within a transaction.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error
	UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error
	UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest, filter query.Predicate) (*types.Pagination[T], error)
}

// Repository combines CRUD, pagination, and transactional operations and
// exposes Bun query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	TransactionRepository[T]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}

// MemberSearcher runs condition searches over members and their teams.
type MemberSearcher interface {
	Search(ctx context.Context, cond *model.SearchCondition) ([]*model.MemberTeamDto, error)
	SearchPageSimple(ctx context.Context, cond *model.SearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error)
	SearchPageOptimized(ctx context.Context, cond *model.SearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error)
}

// MemberRepository is the member store: generic CRUD, condition search,
// association loading, joins, aggregates, subqueries and bulk statements.
type MemberRepository interface {
	Repository[model.Member]
	MemberSearcher

	FindByUsername(ctx context.Context, username string, mode types.FetchMode) (*model.Member, error)
	IsLoaded(member *model.Member) bool
	LoadTeam(ctx context.Context, member *model.Member) error
	MembersOf(ctx context.Context, teamID int64) ([]*model.Member, error)

	FindByTeamName(ctx context.Context, teamName string) ([]*model.Member, error)
	FindThetaJoin(ctx context.Context) ([]*model.Member, error)
	FindWithTeamOn(ctx context.Context, teamName string) ([]*model.MemberWithTeam, error)

	Stats(ctx context.Context) (*model.MemberStats, error)
	AverageAgeByTeam(ctx context.Context) ([]*model.TeamAge, error)
	FindOldest(ctx context.Context) ([]*model.Member, error)
	FindAtLeastAverageAge(ctx context.Context) ([]*model.Member, error)
	FindAgeIn(ctx context.Context, greaterThan int) ([]*model.Member, error)
	FindAllSorted(ctx context.Context, age int) ([]*model.Member, error)
	MemberDtos(ctx context.Context) ([]*model.MemberDto, error)

	AgeLabels(ctx context.Context) ([]*model.MemberLabel, error)
	AgeBands(ctx context.Context) ([]*model.MemberLabel, error)
	LabelAll(ctx context.Context, label string) ([]*model.MemberLabel, error)
	MembersWithAverageAge(ctx context.Context) ([]*model.MemberAverageAge, error)
	UsernameAges(ctx context.Context) ([]string, error)
	ReplacedUsernames(ctx context.Context, from, to string) ([]string, error)
	FindByUsernameIgnoreCase(ctx context.Context, username string) ([]*model.Member, error)
	FindLowercaseNamed(ctx context.Context) ([]*model.Member, error)
	FindWithTeamNamedAlike(ctx context.Context) ([]*model.MemberWithTeam, error)

	BulkRenameYoungerThan(ctx context.Context, age int, username string) (int64, error)
	BulkAddAge(ctx context.Context, delta int) (int64, error)
	BulkMultiplyAge(ctx context.Context, factor int) (int64, error)
	BulkDeleteOlderThan(ctx context.Context, age int) (int64, error)
}

// TeamRepository is the team store.
type TeamRepository interface {
	Repository[model.Team]

	FindByName(ctx context.Context, name string) (*model.Team, error)
	// SaveRoster inserts every team and member of r in one transaction.
	SaveRoster(ctx context.Context, r *model.Roster) error
}
