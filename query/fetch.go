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

package query

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

// ErrNonUniqueResult is returned by FetchOne when more than one row matches.
var ErrNonUniqueResult = errors.New("query: more than one row for a single result")

// Fetch runs q and scans every row into a new T. Relations joined with
// Relation are not scanned this way; run such queries on Model(&rows).
func Fetch[T any](ctx context.Context, q *bun.SelectQuery) ([]*T, error) {
	rows := make([]*T, 0)
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchOne expects at most one row. No row yields (nil, nil); more than one
// yields ErrNonUniqueResult.
func FetchOne[T any](ctx context.Context, q *bun.SelectQuery) (*T, error) {
	rows, err := Fetch[T](ctx, q.Limit(2))
	if err != nil {
		return nil, err
	}
	return UniqueResult(rows)
}

// UniqueResult applies the FetchOne rule to rows that were already loaded,
// for queries scanned into their own model such as relation joins.
func UniqueResult[T any](rows []*T) (*T, error) {
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	default:
		return nil, ErrNonUniqueResult
	}
}

// FetchFirst returns the first row of q, or nil when there is none.
func FetchFirst[T any](ctx context.Context, q *bun.SelectQuery) (*T, error) {
	rows, err := Fetch[T](ctx, q.Limit(1))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// FetchCount counts the rows q would return, ignoring ORDER, LIMIT and OFFSET.
func FetchCount(ctx context.Context, q *bun.SelectQuery) (int, error) {
	return q.Count(ctx)
}

// FetchResults runs the content query and then its count query.
func FetchResults[T any](ctx context.Context, q *bun.SelectQuery) ([]*T, int, error) {
	rows, err := Fetch[T](ctx, q)
	if err != nil {
		return nil, 0, err
	}
	total, err := FetchCount(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
