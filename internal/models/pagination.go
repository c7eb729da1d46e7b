// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Pagination describes one page of a listing. Number is 1-based and is
// never clamped to the last page: a page past the end simply has no rows.
type Pagination struct {
	Number  int
	PerPage int
	Total   int
}

// NewPagination builds a Pagination, treating page numbers below 1 as 1
// and a non-positive perPage as 10.
func NewPagination(number, perPage, total int) Pagination {
	if number < 1 {
		number = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if total < 0 {
		total = 0
	}
	return Pagination{Number: number, PerPage: perPage, Total: total}
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// TotalPages returns the number of pages needed for Total rows (at least 1).
func (p Pagination) TotalPages() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool { return p.Number < p.TotalPages() }

// Prev returns the previous page number.
func (p Pagination) Prev() int { return p.Number - 1 }

// Next returns the next page number.
func (p Pagination) Next() int { return p.Number + 1 }
