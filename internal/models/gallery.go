// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// GalleryImage is one uploaded photo. ImagePath and ThumbnailPath are
// storage keys; ThumbnailPath is nil when thumbnail generation failed.
type GalleryImage struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	ImagePath     string     `json:"image_path"`
	ThumbnailPath *string    `json:"thumbnail_path,omitempty"`
	Category      string     `json:"category"`
	EventID       *uuid.UUID `json:"event_id,omitempty"`
	EventTitle    *string    `json:"event_title,omitempty"` // joined from events
	UploadedBy    *uuid.UUID `json:"uploaded_by,omitempty"`
	IsFeatured    bool       `json:"is_featured"`
	DisplayOrder  int        `json:"display_order"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PreviewPath returns the thumbnail key, falling back to the original
// when no thumbnail exists.
func (g *GalleryImage) PreviewPath() string {
	if g.ThumbnailPath != nil && *g.ThumbnailPath != "" {
		return *g.ThumbnailPath
	}
	return g.ImagePath
}

// StorageKeys returns every non-empty storage key owned by the row.
func (g *GalleryImage) StorageKeys() []string {
	var keys []string
	if g.ImagePath != "" {
		keys = append(keys, g.ImagePath)
	}
	if g.ThumbnailPath != nil && *g.ThumbnailPath != "" {
		keys = append(keys, *g.ThumbnailPath)
	}
	return keys
}
