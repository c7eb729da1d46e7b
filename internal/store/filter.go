package store

import (
	"strconv"
	"strings"
)

// filter accumulates WHERE clauses and their positional arguments. Clauses
// are written with "?" placeholders and renumbered to PostgreSQL's $n form
// as they are added, so callers never track argument positions by hand.
type filter struct {
	clauses []string
	args    []any
}

// add appends a clause, binding one argument per "?" in order.
func (f *filter) add(clause string, args ...any) {
	var b strings.Builder
	i := 0
	for _, r := range clause {
		if r == '?' && i < len(args) {
			f.args = append(f.args, args[i])
			b.WriteString("$" + strconv.Itoa(len(f.args)))
			i++
			continue
		}
		b.WriteRune(r)
	}
	f.clauses = append(f.clauses, b.String())
}

// where renders the accumulated clauses, or "" when there are none.
func (f *filter) where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

// page appends LIMIT/OFFSET arguments and returns the matching SQL suffix.
func (f *filter) page(limit, offset int) string {
	f.args = append(f.args, limit, offset)
	n := len(f.args)
	return " LIMIT $" + strconv.Itoa(n-1) + " OFFSET $" + strconv.Itoa(n)
}

// like wraps a search term for ILIKE, escaping the pattern metacharacters.
func like(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
