// Package search builds case-insensitive substring predicates for part
// queries. Matching runs against stored, pre-folded columns rather than
// LOWER(col): SQLite's LOWER only folds ASCII, so "MÜLLER" would never match
// "müller". Rows carry the folded text (see Document) and the query is folded
// the same way before it is bound:
//
//	search_text LIKE ? ESCAPE '\'
//
// User input never reaches the SQL text; LIKE wildcards in the query are
// escaped so "50%" matches the literal string "50%".
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Index is a stored search column and the part fields folded into it.
type Index struct {
	Column string
	Fields []string
}

// PartFields is the free-text part search over seven fields.
var PartFields = Index{
	Column: "search_text",
	Fields: []string{
		"part_name",
		"part_number",
		"code",
		"brand",
		"supplier",
		"location",
		"description",
	},
}

// NameOrNumber backs the out-of-stock search box.
var NameOrNumber = Index{
	Column: "search_name",
	Fields: []string{"part_name", "part_number"},
}

// separator joins fields inside a document. Queries never contain it, so a
// match cannot straddle two fields.
const separator = "\n"

// Predicate is a WHERE fragment plus its positional arguments.
type Predicate struct {
	SQL  string
	Args []any
}

// Option tweaks how a predicate is built.
type Option func(*config)

type config struct {
	escape byte
}

func defaultConfig() config {
	return config{escape: '\\'}
}

// WithEscape changes the LIKE escape character. Non-ASCII or wildcard
// characters are ignored.
func WithEscape(c byte) Option {
	return func(cfg *config) {
		if c != '%' && c != '_' && c != 0 && c < 0x80 {
			cfg.escape = c
		}
	}
}

// Normalize trims surrounding whitespace from a raw query.
func Normalize(q string) string {
	return strings.TrimSpace(q)
}

// Fold applies Unicode case folding. A Caser is stateful, so one is built
// per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Document folds fields into the text stored in an Index column.
func Document(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, Fold(strings.ReplaceAll(f, separator, " ")))
		}
	}
	return strings.Join(parts, separator)
}

// Substring returns a predicate matching q as a case-insensitive substring
// of any field folded into idx. ok is false when q is blank or idx has no
// column; callers then apply no filter at all.
func Substring(q string, idx Index, opts ...Option) (p Predicate, ok bool) {
	q = Normalize(q)
	if q == "" || idx.Column == "" {
		return Predicate{}, false
	}
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	folded := Fold(strings.ReplaceAll(q, separator, " "))
	pattern := "%" + EscapeLike(folded, cfg.escape) + "%"
	sql := idx.Column + " LIKE ? ESCAPE '" + escapeSQLChar(cfg.escape) + "'"
	return Predicate{SQL: sql, Args: []any{pattern}}, true
}

// EscapeLike escapes LIKE wildcards (and the escape character itself) in s.
func EscapeLike(s string, esc byte) string {
	if !strings.ContainsAny(s, "%_"+string(esc)) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' || c == '_' || c == esc {
			b.WriteByte(esc)
		}
		b.WriteByte(c)
	}
	return b.String()
}

func escapeSQLChar(c byte) string {
	if c == '\'' {
		return "''"
	}
	return string(c)
}
