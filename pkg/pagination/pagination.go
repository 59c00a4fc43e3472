// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses page-based list requests and builds the matching
// response metadata for the moderation listings.
package pagination

import (
	"net/http"

	"github.com/taibuivan/wevote/pkg/convert"
)

const (
	// DefaultLimit is the page size when none, or an out-of-range one, is given.
	DefaultLimit = 20

	// MaxLimit caps the page size.
	MaxLimit = 100

	// FirstPage is the 1-indexed first page.
	FirstPage = 1
)

// Params is a parsed "?page=&limit=" pair. Both are always in range.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows skipped before this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes this page once the total row count is known.
func (p Params) Meta(total int) Meta {
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// FromRequest reads "page" and "limit". A missing, malformed or out-of-range
// page falls back to [FirstPage]; a limit outside [1, MaxLimit] falls back to
// [DefaultLimit].
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()

	page := convert.ToInt(query.Get("page"))
	if page < FirstPage {
		page = FirstPage
	}

	limit := convert.ToInt(query.Get("limit"))
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}
