// Package preference marks menu lines that mention liked or disliked foods.
package preference

import (
	"strings"

	"bandex/internal/model"
)

// Mark is the annotation attached to a menu line.
type Mark int

const (
	Neutral Mark = iota
	Liked
	Disliked
)

// Filter matches a food name, optionally only in some restaurants.
type Filter struct {
	Name        string               // lowercase substring
	Restaurants []model.RestaurantID // nil means every restaurant
}

// NewFilter creates a Filter; name is lowercased.
func NewFilter(name string, restaurants []model.RestaurantID) Filter {
	return Filter{Name: strings.ToLower(name), Restaurants: restaurants}
}

// Match reports whether line mentions the food and the restaurant is allowed.
func (f Filter) Match(line string, id model.RestaurantID) bool {
	if f.Restaurants != nil && !containsID(f.Restaurants, id) {
		return false
	}
	return strings.Contains(strings.ToLower(line), f.Name)
}

func containsID(ids []model.RestaurantID, id model.RestaurantID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Evaluator annotates lines against liked and disliked filters.
type Evaluator struct {
	Liked    []Filter
	Disliked []Filter
}

// Annotate returns the mark of a single line. Disliked wins over liked.
func (e Evaluator) Annotate(line string, id model.RestaurantID) Mark {
	for _, f := range e.Disliked {
		if f.Match(line, id) {
			return Disliked
		}
	}
	for _, f := range e.Liked {
		if f.Match(line, id) {
			return Liked
		}
	}
	return Neutral
}

// Line is a menu line with its mark.
type Line struct {
	Text string
	Mark Mark
}

// AnnotateContent splits content into lines and marks each of them.
func (e Evaluator) AnnotateContent(content string, id model.RestaurantID) []Line {
	parts := strings.Split(content, "\n")
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = Line{Text: p, Mark: e.Annotate(p, id)}
	}
	return lines
}
