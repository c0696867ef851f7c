package model

import "time"

// MealType is one of the two meal slots served per day.
type MealType string

const (
	Lunch  MealType = "LUNCH"
	Dinner MealType = "DINNER"
)

// MealTypes lists every meal type in display order.
var MealTypes = []MealType{Lunch, Dinner}

// String returns the label shown to users.
func (m MealType) String() string {
	switch m {
	case Lunch:
		return "Almoço"
	case Dinner:
		return "Jantar"
	default:
		return string(m)
	}
}

// ClosedContent is the exact menu content upstream uses for a closed slot.
const ClosedContent = "Fechado"

// Menu is a single decoded meal entry of a restaurant.
type Menu struct {
	Content     string
	MealType    MealType
	Weekday     time.Weekday
	Calories    *int // nil when upstream reports 0 (unknown)
	Observation string
}

// Closed reports whether the restaurant serves nothing in this slot.
func (m Menu) Closed() bool {
	return m.Content == ClosedContent
}

// CalorieCount returns the energy value in kcal, if known.
func (m Menu) CalorieCount() (int, bool) {
	if m.Calories == nil {
		return 0, false
	}
	return *m.Calories, true
}
