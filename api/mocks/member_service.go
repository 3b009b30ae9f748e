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

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tomoncle/roster"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/types"
)

// MemberService is a testify mock of roster.MemberService.
type MemberService struct {
	mock.Mock
}

var _ roster.MemberService = (*MemberService)(nil)

func (m *MemberService) Search(ctx context.Context, cond *model.SearchCondition) ([]*model.MemberTeamDto, error) {
	args := m.Called(ctx, cond)
	items, _ := args.Get(0).([]*model.MemberTeamDto)
	return items, args.Error(1)
}

func (m *MemberService) SearchPage(ctx context.Context, cond *model.SearchCondition, page *types.PageRequest, strategy types.PageStrategy) (*types.Pagination[model.MemberTeamDto], error) {
	args := m.Called(ctx, cond, page, strategy)
	result, _ := args.Get(0).(*types.Pagination[model.MemberTeamDto])
	return result, args.Error(1)
}

func (m *MemberService) FindByUsername(ctx context.Context, username string, mode types.FetchMode) (*model.Member, error) {
	args := m.Called(ctx, username, mode)
	member, _ := args.Get(0).(*model.Member)
	return member, args.Error(1)
}

func (m *MemberService) Seed(ctx context.Context, teams, members int) (*model.Roster, error) {
	args := m.Called(ctx, teams, members)
	r, _ := args.Get(0).(*model.Roster)
	return r, args.Error(1)
}
