// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage holds uploaded files. A Backend receives files that were
// first written to a local staging directory and exposes them under
// backend-relative keys such as "gallery/thumbnails/<name>".
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

// Backend is where promoted uploads live.
type Backend interface {
	// Promote moves the staged file at stagedPath into the backend under
	// key. On success the staged file no longer exists.
	Promote(ctx context.Context, stagedPath, key, contentType string) error
	// Delete removes key. Deleting an empty or missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL of key.
	URL(key string) string
}

// ErrInvalidKey is returned for keys that are absolute or escape the root.
var ErrInvalidKey = errors.New("invalid storage key")

// Key prefixes for each kind of upload.
const (
	PrefixGallery    = "gallery"
	PrefixThumbnails = "gallery/thumbnails"
	PrefixNews       = "news"
	PrefixEvents     = "events"
)

// Key joins a prefix and a generated file name.
func Key(prefix, name string) string {
	return path.Join(prefix, name)
}

// cleanKey validates a backend-relative key.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// DeleteAll removes every key, returning the first error encountered.
// Empty keys are skipped.
func DeleteAll(ctx context.Context, b Backend, keys ...string) error {
	var first error
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := b.Delete(ctx, k); err != nil && first == nil {
			first = err
		}
	}
	return first
}
