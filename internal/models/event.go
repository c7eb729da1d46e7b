// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus tracks where an event is in its lifecycle.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// EventStatuses lists every valid event status.
var EventStatuses = []string{
	string(EventStatusUpcoming), string(EventStatusOngoing),
	string(EventStatusCompleted), string(EventStatusCancelled),
}

// Event is a school calendar entry. StartTime/EndTime are free-form "HH:MM"
// strings as entered in the admin form.
type Event struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Location    *string     `json:"location,omitempty"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	StartTime   *string     `json:"start_time,omitempty"`
	EndTime     *string     `json:"end_time,omitempty"`
	ImagePath   *string     `json:"image_path,omitempty"`
	Status      EventStatus `json:"status"`
	IsFeatured  bool        `json:"is_featured"`
	CreatedBy   *uuid.UUID  `json:"created_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// LastDay returns the final calendar day of the event.
func (e *Event) LastDay() time.Time {
	if e.EndDate != nil {
		return *e.EndDate
	}
	return e.StartDate
}

// IsPast reports whether the event ended before the day containing now.
func (e *Event) IsPast(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	last := e.LastDay()
	last = time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	return last.Before(today)
}

// IsMultiDay reports whether the event spans more than one date.
func (e *Event) IsMultiDay() bool {
	return e.EndDate != nil && !e.EndDate.Equal(e.StartDate)
}
