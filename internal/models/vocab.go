// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"strings"
)

// Category and status vocabularies. Filters built from request parameters
// only accept values from these lists.
var (
	NewsCategories         = []string{"general", "academics", "sports", "events", "announcements", "achievements"}
	EventCategories        = []string{"academic", "sports", "cultural", "religious", "community", "other"}
	GalleryCategories      = []string{"campus", "events", "sports", "academics", "activities", "other"}
	AchievementCategories  = []string{"academic", "sports", "arts", "community", "other"}
	FacilityCategories     = []string{"academic", "sports", "spiritual", "services"}
	OrganizationCategories = []string{"government", "academic", "religious", "arts", "sports", "club"}
	ProgramLevels          = []string{"preschool", "elementary", "junior_high", "senior_high"}
	Departments            = []string{"administration", "academic", "student_affairs", "finance", "support"}
)

// ValidChoice reports whether v is one of the allowed values.
func ValidChoice(allowed []string, v string) bool {
	return v != "" && slices.Contains(allowed, v)
}

// Label turns a stored vocabulary value into display text,
// e.g. "junior_high" -> "Junior High".
func Label(v string) string {
	words := strings.Fields(strings.ReplaceAll(v, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
