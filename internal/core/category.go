package core

import "strings"

// Category is a display category for expenses. The set is pinned on the
// client: the backend stores category values as free strings and exposes
// no category-list endpoint, so the six below are the whole taxonomy.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryOutros is the fallback bucket for anything that does not match
// a known category.
const CategoryOutros = "Outros"

var categories = []Category{
	{ID: "Comida", Name: "Comida", Color: "#ef4444"},
	{ID: "Transporte", Name: "Transporte", Color: "#3b82f6"},
	{ID: "Lazer", Name: "Lazer", Color: "#8b5cf6"},
	{ID: "Saúde", Name: "Saúde", Color: "#10b981"},
	{ID: "Educação", Name: "Educação", Color: "#eab308"},
	{ID: CategoryOutros, Name: CategoryOutros, Color: "#6b7280"},
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID looks up a category by its identifier.
func CategoryByID(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// IsValidCategory reports whether id names one of the pinned categories.
func IsValidCategory(id string) bool {
	_, ok := CategoryByID(id)
	return ok
}

// CanonicalCategory maps a free-form category string onto the pinned set
// using a case-insensitive exact match. Unmatched input, including the
// empty string, maps to Outros.
func CanonicalCategory(input string) string {
	trimmed := strings.TrimSpace(input)
	for _, c := range categories {
		if strings.EqualFold(c.ID, trimmed) {
			return c.ID
		}
	}
	return CategoryOutros
}
