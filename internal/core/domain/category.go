package domain

import "strings"

// PrimaryCategory is the main content category of the site.
// Records uploaded before typed records existed belong to it.
const PrimaryCategory = "story"

// Matches reports whether a record belongs to the requested category.
//
// For the primary category a record matches when its type or category says so,
// or when it carries neither field (legacy untyped record). A record with a
// category field but no type field is not legacy: {"category":"essays"} stays
// out of the primary category. Any other category requires an exact match on
// type or category.
func Matches(rec Record, category string) bool {
	category = strings.TrimSpace(category)
	if category == "" {
		return false
	}
	if rec.Type == category || rec.Category == category {
		return true
	}
	return category == PrimaryCategory && rec.classification() == ""
}

func (r Record) classification() string {
	if r.Type != "" {
		return r.Type
	}
	return r.Category
}
