// Package repository provides Bun-backed stores: a generic repository for
// CRUD, filtering, pagination, transactions and upserts, and the member and
// team repositories with condition search, joins and paging.
package repository
