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

// DefaultPageSize is used when a request carries no positive page size.
const DefaultPageSize = 10

// PageRequest describes a result window and its ordering.
//
// A request is either page based (1-based page number and page size) or
// offset based (raw offset and limit); the offset form wins when set.
type PageRequest struct {
	page      int
	pageSize  int
	offset    int
	hasOffset bool
	orders    []string // "m.member_id ASC", "m.username DESC"
}

func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = DefaultPageSize
	}
	return p.pageSize
}

func (p *PageRequest) GetPage() int {
	if p.hasOffset {
		return p.offset/p.GetPageSize() + 1
	}
	if p.page < 1 {
		p.page = 1
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	if p.hasOffset {
		return p.offset
	}
	return (p.GetPage() - 1) * p.GetPageSize()
}

// GetLimit is an alias of GetPageSize for offset based callers.
func (p *PageRequest) GetLimit() int {
	return p.GetPageSize()
}

func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// NewPageRequest constructs a page based request with ordering.
func NewPageRequest(page int, pageSize int, orders ...string) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, orders: orders}
}

// NewOffsetRequest constructs an offset based request with ordering.
func NewOffsetRequest(offset int, limit int, orders ...string) *PageRequest {
	if offset < 0 {
		offset = 0
	}
	return &PageRequest{pageSize: limit, offset: offset, hasOffset: true, orders: orders}
}

// NewDefaultPageRequest constructs a PageRequest with no ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize)
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Offset   int  `json:"offset"`
	Total    int  `json:"total"`
	Items    []*T `json:"items"`
}

// NewDefaultPagination constructs an empty pagination container for the request.
func NewDefaultPagination[T any](req *PageRequest) *Pagination[T] {
	return &Pagination[T]{
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
		Offset:   req.GetOffset(),
		Items:    make([]*T, 0),
	}
}

// TotalPages returns the number of pages needed to hold Total items.
func (p *Pagination[T]) TotalPages() int {
	if p.PageSize < 1 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// HasNext reports whether rows exist beyond this page.
func (p *Pagination[T]) HasNext() bool {
	return p.Offset+len(p.Items) < p.Total
}

// CountFunc lazily runs the count query of a paged search.
type CountFunc func() (int, error)

// GetPage wraps content into a Pagination, calling count only when the
// content cannot decide the total by itself:
//
//   - first page shorter than the limit: total is len(content);
//   - later non-empty page shorter than the limit: total is offset+len(content);
//   - anything else (full page, empty later page): total comes from count.
//
// An empty later page always counts: past the end, offset+0 would report
// rows that do not exist.
func GetPage[T any](content []*T, req *PageRequest, count CountFunc) (*Pagination[T], error) {
	page := NewDefaultPagination[T](req)
	if content != nil {
		page.Items = content
	}
	offset, limit, n := req.GetOffset(), req.GetLimit(), len(content)

	if offset == 0 && n < limit {
		page.Total = n
		return page, nil
	}
	if offset > 0 && n != 0 && n < limit {
		page.Total = offset + n
		return page, nil
	}
	total, err := count()
	if err != nil {
		return nil, err
	}
	page.Total = total
	return page, nil
}
