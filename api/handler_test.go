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

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster"
	"github.com/tomoncle/roster/api"
	"github.com/tomoncle/roster/api/mocks"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/types"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestHandler_Search(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		mockBehavior   func(svc *mocks.MemberService)
		expectedStatus int
	}{
		{
			name:   "Success",
			target: "/v1/members?teamName=teamA&ageGoe=10&ageLoe=20",
			mockBehavior: func(svc *mocks.MemberService) {
				cond := &model.SearchCondition{TeamName: "teamA", AgeGoe: model.Int(10), AgeLoe: model.Int(20)}
				svc.On("Search", mock.Anything, cond).
					Return([]*model.MemberTeamDto{{MemberID: 1, Username: "member1", Age: 10, TeamID: 1, TeamName: "teamA"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bad Request: non-numeric age",
			target:         "/v1/members?ageGoe=ten",
			mockBehavior:   func(svc *mocks.MemberService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Bad Request: rejected by service",
			target: "/v1/members?ageGoe=-1",
			mockBehavior: func(svc *mocks.MemberService) {
				svc.On("Search", mock.Anything, mock.Anything).
					Return(nil, errors.Join(roster.ErrInvalidArgument, errors.New("age")))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Internal Error",
			target: "/v1/members",
			mockBehavior: func(svc *mocks.MemberService) {
				svc.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:   "Unavailable: database not initialized",
			target: "/v1/members",
			mockBehavior: func(svc *mocks.MemberService) {
				svc.On("Search", mock.Anything, mock.Anything).Return(nil, roster.ErrNotInitialized)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MemberService)
			tt.mockBehavior(svc)
			h := api.NewHandler(svc, quietLogger())

			w := httptest.NewRecorder()
			h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_SearchPage(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		strategy       types.PageStrategy
		page           *types.PageRequest
		expectedStatus int
	}{
		{
			name:           "simple defaults",
			target:         "/v2/members",
			strategy:       types.PageSimple,
			page:           types.NewOffsetRequest(0, types.DefaultPageSize),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "optimized with sort",
			target:         "/v3/members?page=1&size=2&sort=username,desc",
			strategy:       types.PageOptimized,
			page:           types.NewOffsetRequest(2, 2, "m.username DESC"),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bad Request: unknown sort property",
			target:         "/v2/members?sort=password",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad Request: size out of range",
			target:         "/v3/members?size=0",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad Request: negative page",
			target:         "/v3/members?page=-1",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad Request: page offset overflows",
			target:         "/v2/members?size=2&page=" + strconv.Itoa(math.MaxInt/2+1),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Last addressable page",
			target:         "/v2/members?size=2&page=" + strconv.Itoa(math.MaxInt/2),
			strategy:       types.PageSimple,
			page:           types.NewOffsetRequest(math.MaxInt/2*2, 2),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MemberService)
			if tt.page != nil {
				result := types.NewDefaultPagination[model.MemberTeamDto](tt.page)
				svc.On("SearchPage", mock.Anything, &model.SearchCondition{}, tt.page, tt.strategy).
					Return(result, nil)
			}
			h := api.NewHandler(svc, quietLogger())

			w := httptest.NewRecorder()
			h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_ErrorBody(t *testing.T) {
	svc := new(mocks.MemberService)
	svc.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("secret detail"))
	h := api.NewHandler(svc, quietLogger())

	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/members", nil))

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "INTERNAL", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "secret")
}

func TestHandler_HelloAndHealth(t *testing.T) {
	h := api.NewHandler(new(mocks.MemberService), quietLogger())

	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	for _, healthy := range []bool{true, false} {
		h.Health = func(ctx context.Context) *database.HealthStatus {
			return &database.HealthStatus{Healthy: healthy, Connected: healthy}
		}
		w = httptest.NewRecorder()
		h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if healthy {
			assert.Equal(t, http.StatusOK, w.Code)
		} else {
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		}
	}
}

func TestHandler_CORS(t *testing.T) {
	h := api.NewHandler(new(mocks.MemberService), quietLogger(), "http://localhost:3000")

	req := httptest.NewRequest(http.MethodOptions, "/v1/members", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
