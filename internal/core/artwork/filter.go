// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/taibuivan/gallery/pkg/slice"
)

// # Character Filtering

// likeEscaper makes LIKE metacharacters literal. Backslash is PostgreSQL's
// default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Predicate is a disjunction of case-insensitive substring conditions on a
// record's characters. A predicate without terms matches every record.
type Predicate struct {
	terms []string
}

// CompileCharacterFilter trims every name, drops the blank ones and ORs the
// rest together. Names are matched literally, so "%" or "_" in a name only
// match themselves.
//
// An input with no usable names yields the match-all predicate, not a
// match-nothing one: an empty character filter means "do not filter".
func CompileCharacterFilter(names []string) Predicate {
	trimmed := slice.Map(names, strings.TrimSpace)
	terms := slice.Filter(trimmed, func(name string) bool { return name != "" })
	return Predicate{terms: terms}
}

// MatchesAll reports whether the predicate places no restriction.
func (p Predicate) MatchesAll() bool {
	return len(p.terms) == 0
}

// Terms returns a copy of the trimmed name fragments.
func (p Predicate) Terms() []string {
	return slices.Clone(p.terms)
}

// Match evaluates the predicate against a character list in memory.
func (p Predicate) Match(characters []string) bool {
	if p.MatchesAll() {
		return true
	}

	for _, term := range p.terms {
		needle := strings.ToLower(term)
		for _, character := range characters {
			if strings.Contains(strings.ToLower(character), needle) {
				return true
			}
		}
	}
	return false
}

// Patterns returns one ILIKE pattern per term with metacharacters escaped.
func (p Predicate) Patterns() []string {
	return slice.Map(p.terms, func(term string) string {
		return "%" + likeEscaper.Replace(term) + "%"
	})
}

// SQL renders the predicate as a boolean expression over a text[] column.
// placeholder is the positional parameter index the patterns bind to.
// It returns "" and no argument for the match-all predicate.
func (p Predicate) SQL(column string, placeholder int) (string, []any) {
	if p.MatchesAll() {
		return "", nil
	}

	clause := fmt.Sprintf(
		"EXISTS (SELECT 1 FROM unnest(%s) AS character_name WHERE character_name ILIKE ANY($%d::text[]))",
		column, placeholder,
	)
	return clause, []any{p.Patterns()}
}

// Key is a stable digest of the predicate, insensitive to term order, case
// and duplicates, for use in cache keys.
func (p Predicate) Key() string {
	if p.MatchesAll() {
		return "all"
	}

	normalized := slice.Map(p.terms, strings.ToLower)
	slices.Sort(normalized)
	normalized = slices.Compact(normalized)

	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(normalized, "\x1f")))
}
