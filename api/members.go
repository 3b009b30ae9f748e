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

package api

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tomoncle/roster"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/types"
)

const maxPageSize = 1000

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	const handlerName = "member_search"

	cond, err := parseCondition(r.URL.Query())
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}
	items, err := h.Members.Search(r.Context(), cond)
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleSearchPageSimple(w http.ResponseWriter, r *http.Request) {
	h.searchPage(w, r, "member_page_simple", types.PageSimple)
}

func (h *Handler) handleSearchPageOptimized(w http.ResponseWriter, r *http.Request) {
	h.searchPage(w, r, "member_page_optimized", types.PageOptimized)
}

func (h *Handler) searchPage(w http.ResponseWriter, r *http.Request, handlerName string, strategy types.PageStrategy) {
	values := r.URL.Query()
	cond, err := parseCondition(values)
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}
	page, err := parsePageRequest(values)
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}
	result, err := h.Members.SearchPage(r.Context(), cond, page, strategy)
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// parseCondition reads username, teamName, ageGoe and ageLoe.
func parseCondition(values url.Values) (*model.SearchCondition, error) {
	cond := &model.SearchCondition{
		Username: values.Get("username"),
		TeamName: values.Get("teamName"),
	}
	var err error
	if cond.AgeGoe, err = optionalInt(values, "ageGoe"); err != nil {
		return nil, err
	}
	if cond.AgeLoe, err = optionalInt(values, "ageLoe"); err != nil {
		return nil, err
	}
	return cond, nil
}

// parsePageRequest reads the 0-based page, size and repeated sort
// parameters, e.g. page=1&size=2&sort=username,desc.
func parsePageRequest(values url.Values) (*types.PageRequest, error) {
	page, err := optionalInt(values, "page")
	if err != nil {
		return nil, err
	}
	size, err := optionalInt(values, "size")
	if err != nil {
		return nil, err
	}
	number, pageSize := 0, types.DefaultPageSize
	if page != nil {
		if *page < 0 {
			return nil, fmt.Errorf("%w: page must not be negative", roster.ErrInvalidArgument)
		}
		number = *page
	}
	if size != nil {
		if *size < 1 || *size > maxPageSize {
			return nil, fmt.Errorf("%w: size must be between 1 and %d", roster.ErrInvalidArgument, maxPageSize)
		}
		pageSize = *size
	}
	if number > math.MaxInt/pageSize {
		return nil, fmt.Errorf("%w: page %d is out of range", roster.ErrInvalidArgument, number)
	}

	var orders []string
	for _, s := range values["sort"] {
		order, err := repository.ParseMemberSort(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", roster.ErrInvalidArgument, err)
		}
		orders = append(orders, order)
	}
	return types.NewOffsetRequest(number*pageSize, pageSize, orders...), nil
}

func optionalInt(values url.Values, key string) (*int, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", roster.ErrInvalidArgument, key)
	}
	return &v, nil
}
