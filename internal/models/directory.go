// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// The directory types below back read-only public pages. Rows are managed
// directly in the database.

// Achievement is an award or recognition earned by students or staff.
type Achievement struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Recipient       *string    `json:"recipient,omitempty"`
	AchievementDate *time.Time `json:"achievement_date,omitempty"`
	ImagePath       *string    `json:"image_path,omitempty"`
	IsFeatured      bool       `json:"is_featured"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Facility is a building or room on campus.
type Facility struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	ImagePath    *string   `json:"image_path,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Organization is a student club or body.
type Organization struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Adviser      *string   `json:"adviser,omitempty"`
	LogoPath     *string   `json:"logo_path,omitempty"`
	Status       string    `json:"status"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Program is an academic offering; Level is its category.
type Program struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Level        string    `json:"level"`
	Duration     *string   `json:"duration,omitempty"`
	ImagePath    *string   `json:"image_path,omitempty"`
	Status       string    `json:"status"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Administrator is a member of the school leadership; Department is its category.
type Administrator struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Position     string    `json:"position"`
	Department   string    `json:"department"`
	Bio          *string   `json:"bio,omitempty"`
	Email        *string   `json:"email,omitempty"`
	PhotoPath    *string   `json:"photo_path,omitempty"`
	Status       string    `json:"status"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}
