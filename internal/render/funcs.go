package render

import (
	"errors"
	"fmt"
	"html/template"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"marianconnect/internal/models"
	"marianconnect/internal/storage"
)

const (
	dateLayout      = "January 2, 2006"
	shortDateLayout = "Jan 2, 2006"
	inputDateLayout = "2006-01-02"
)

func funcMap(backend storage.Backend) template.FuncMap {
	return template.FuncMap{
		"activeClass": func(current, target string) string {
			if current == target {
				return "active"
			}
			return ""
		},
		// deref safely dereferences a string pointer.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// fileURL turns a storage key (string or *string) into a public URL.
		"fileURL": func(key any) string {
			switch k := key.(type) {
			case string:
				if k == "" {
					return ""
				}
				return backend.URL(k)
			case *string:
				if k == nil || *k == "" {
					return ""
				}
				return backend.URL(*k)
			}
			return ""
		},
		"label":     models.Label,
		"date":      func(t any) string { return formatTime(t, dateLayout) },
		"shortDate": func(t any) string { return formatTime(t, shortDateLayout) },
		"inputDate": func(t any) string { return formatTime(t, inputDateLayout) },
		"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
			return ptr != nil && *ptr == val
		},
		"contains": func(list []string, v string) bool {
			return slices.Contains(list, v)
		},
		"truncate": truncate,
		// trusted marks admin-authored HTML as safe.
		"trusted": func(s string) template.HTML {
			return template.HTML(s)
		},
		"add":  func(a, b int) int { return a + b },
		"dict": dict,
	}
}

// dict builds a map from alternating keys and values, for passing several
// values to a sub-template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func formatTime(v any, layout string) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(layout)
	}
	return ""
}

// truncate shortens s to at most n runes, adding an ellipsis when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
