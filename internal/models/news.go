// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsStatus represents the publishing state of a news article.
type NewsStatus string

const (
	NewsStatusDraft     NewsStatus = "draft"
	NewsStatusPublished NewsStatus = "published"
	NewsStatusArchived  NewsStatus = "archived"
)

// NewsStatuses lists every valid news status.
var NewsStatuses = []string{string(NewsStatusDraft), string(NewsStatusPublished), string(NewsStatusArchived)}

// News is a school news article. Content is HTML produced by the admin
// rich-text editor. FeaturedImage holds a storage key, not a URL.
type News struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	Content       string     `json:"content"`
	Category      string     `json:"category"`
	FeaturedImage *string    `json:"featured_image,omitempty"`
	AuthorID      *uuid.UUID `json:"author_id,omitempty"`
	AuthorName    string     `json:"author_name,omitempty"` // joined from users
	Status        NewsStatus `json:"status"`
	IsFeatured    bool       `json:"is_featured"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Views         int        `json:"views"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsPublished returns true if the article is publicly visible.
func (n *News) IsPublished() bool {
	return n.Status == NewsStatusPublished
}

// DisplayDate is the date shown on public listings: the publish date when
// set, otherwise the creation date.
func (n *News) DisplayDate() time.Time {
	if n.PublishedDate != nil {
		return *n.PublishedDate
	}
	return n.CreatedAt
}
