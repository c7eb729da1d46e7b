// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// BodyFormat indicates how a page body is stored.
type BodyFormat string

const (
	BodyFormatHTML     BodyFormat = "html"
	BodyFormatMarkdown BodyFormat = "markdown"
)

// PageStatus represents the publishing state of a static page.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
)

// Page is a static content page such as "About Us" or "Admissions".
type Page struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	BodyFormat      BodyFormat `json:"body_format"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	Status          PageStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsPublished returns true if the page is publicly visible.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsMarkdown returns true if the body must be converted before rendering.
func (p *Page) IsMarkdown() bool {
	return p.BodyFormat == BodyFormatMarkdown
}
