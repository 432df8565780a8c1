// Package listing filters, sorts and loads the small entity lists shown by
// the list views.
package listing

import (
	"cmp"
	"slices"
	"strings"

	"catalogdesk/internal/entity"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder maps user input to an Order, defaulting to Asc.
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Toggle returns the opposite direction.
func (o Order) Toggle() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Filters is the user-controlled state of a list view.
type Filters struct {
	SearchTerm string
	Facet      string
	SortBy     string
	SortOrder  Order
}

// Comparator orders two rows.
type Comparator[T any] func(a, b T) int

// Spec describes how one entity type is searched, faceted and sorted.
type Spec[T any] struct {
	// Search lists the text fields matched against the search term.
	Search []func(T) string
	// Facet extracts the exact-match facet value. Nil disables faceting.
	Facet func(T) string
	// Facets is used instead of Facet for rows carrying several values,
	// e.g. a magazine's authors. A row matches when any value matches.
	Facets func(T) []string
	// Sorts maps a sort key to its comparator. SortKeys gives display order.
	Sorts       map[string]Comparator[T]
	SortKeys    []string
	DefaultSort string
}

// Defaults returns the initial filter state: no search, no facet, default sort ascending.
func (s Spec[T]) Defaults() Filters {
	return Filters{SortBy: s.DefaultSort, SortOrder: Asc}
}

// Active reports whether f differs from the defaults.
func (s Spec[T]) Active(f Filters) bool {
	return f.SearchTerm != "" || f.Facet != "" || f.SortBy != s.DefaultSort || f.SortOrder != Asc
}

// NextSort returns the sort key following current in SortKeys.
func (s Spec[T]) NextSort(current string) string {
	if len(s.SortKeys) == 0 {
		return current
	}
	i := slices.Index(s.SortKeys, current)
	return s.SortKeys[(i+1)%len(s.SortKeys)]
}

// Apply returns the rows of all visible under f. all is never modified.
func (s Spec[T]) Apply(all []T, f Filters) []T {
	out := make([]T, 0, len(all))
	term := strings.ToLower(f.SearchTerm)
	for _, item := range all {
		if term != "" && !s.matches(item, term) {
			continue
		}
		if f.Facet != "" && !s.facetMatches(item, f.Facet) {
			continue
		}
		out = append(out, item)
	}

	compare, ok := s.Sorts[f.SortBy]
	if !ok {
		return out
	}
	if f.SortOrder == Desc {
		slices.SortStableFunc(out, func(a, b T) int { return -compare(a, b) })
	} else {
		slices.SortStableFunc(out, func(a, b T) int { return compare(a, b) })
	}
	return out
}

func (s Spec[T]) matches(item T, term string) bool {
	for _, field := range s.Search {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

func (s Spec[T]) facetValuesOf(item T) []string {
	switch {
	case s.Facets != nil:
		return s.Facets(item)
	case s.Facet != nil:
		return []string{s.Facet(item)}
	}
	return nil
}

// facetMatches passes every row when no facet accessor is set.
func (s Spec[T]) facetMatches(item T, want string) bool {
	if s.Facet == nil && s.Facets == nil {
		return true
	}
	return slices.Contains(s.facetValuesOf(item), want)
}

// FacetValues lists the distinct non-empty facet values of all, sorted.
func (s Spec[T]) FacetValues(all []T) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, item := range all {
		for _, v := range s.facetValuesOf(item) {
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	slices.Sort(values)
	return values
}

// ByText compares a text field case-insensitively.
func ByText[T any](field func(T) string) Comparator[T] {
	return func(a, b T) int {
		return strings.Compare(strings.ToLower(field(a)), strings.ToLower(field(b)))
	}
}

// ByString compares a string field byte-wise.
func ByString[T any](field func(T) string) Comparator[T] {
	return func(a, b T) int {
		return strings.Compare(field(a), field(b))
	}
}

// ByNumber compares an ordered numeric field.
func ByNumber[T any, N cmp.Ordered](field func(T) N) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(field(a), field(b))
	}
}

// ByDate compares a date field chronologically.
func ByDate[T any](field func(T) entity.Date) Comparator[T] {
	return func(a, b T) int {
		return field(a).Compare(field(b))
	}
}
