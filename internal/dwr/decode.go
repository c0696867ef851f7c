package dwr

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"bandex/internal/model"
)

// Record keys of CardapioControleDWR replies.
const (
	KeyRestaurantName = "nomrtn"    // restaurant name (obterRestauranteUsp)
	KeyMenu           = "cdpdia"    // menu text
	KeyWeekday        = "diasemana" // Sunday = 1 ... Saturday = 7
	KeyObservation    = "obscdpsmn" // weekly note
	KeyMealType       = "tiprfi"    // "A" lunch, "J" dinner
	KeyCalories       = "vlrclorfi" // kcal, 0 when unknown
)

// nullValue is how the serializer writes a missing text field.
const nullValue = "null"

var (
	// ErrNoObjects means the reply carries no record array.
	ErrNoObjects = errors.New("dwr: no objects in response")
	// ErrNoName means the restaurant record has no usable name.
	ErrNoName = errors.New("dwr: restaurant name not found")
)

// ParseMealType decodes the tiprfi code.
func ParseMealType(raw string) (model.MealType, bool) {
	switch strings.Trim(raw, `"`) {
	case "A":
		return model.Lunch, true
	case "J":
		return model.Dinner, true
	default:
		return "", false
	}
}

// ParseWeekday converts the upstream day code (Sunday = 1 ... Saturday = 7).
func ParseWeekday(raw string) (time.Weekday, bool) {
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil || n < 1 || n > 7 {
		return 0, false
	}
	return time.Weekday(n - 1), true
}

// parseCalories reads the kcal field; zero is upstream's "unknown".
func parseCalories(raw string) (*int, bool) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, false
	}
	if n == 0 {
		return nil, true
	}
	kcal := int(n)
	return &kcal, true
}

// DecodeMenu builds a Menu from a single record. Any missing or malformed
// field rejects the whole record.
func DecodeMenu(object string) (model.Menu, bool) {
	var menu model.Menu

	raw, ok := FieldValue(object, KeyMenu)
	if !ok || raw == nullValue {
		return menu, false
	}
	if menu.Content, ok = FormatText(raw); !ok {
		return menu, false
	}

	if raw, ok = FieldValue(object, KeyMealType); !ok {
		return menu, false
	}
	if menu.MealType, ok = ParseMealType(raw); !ok {
		return menu, false
	}

	if raw, ok = FieldValue(object, KeyWeekday); !ok {
		return menu, false
	}
	if menu.Weekday, ok = ParseWeekday(raw); !ok {
		return menu, false
	}

	if raw, ok = FieldValue(object, KeyCalories); !ok {
		return menu, false
	}
	if menu.Calories, ok = parseCalories(raw); !ok {
		return menu, false
	}

	if raw, ok = FieldValue(object, KeyObservation); !ok {
		return menu, false
	}
	if raw != nullValue {
		if menu.Observation, ok = FormatText(raw); !ok {
			return menu, false
		}
	}

	return menu, true
}

// DecodeMenus decodes every record of an obterCardapioRestUSP reply.
// Records that fail to decode are skipped and counted in dropped.
func DecodeMenus(body string) (menus []model.Menu, dropped int, err error) {
	objects, ok := SliceObjects(body)
	if !ok {
		return nil, 0, ErrNoObjects
	}
	for _, object := range SplitObjects(objects) {
		menu, ok := DecodeMenu(object)
		if !ok {
			dropped++
			continue
		}
		menus = append(menus, menu)
	}
	return menus, dropped, nil
}

// DecodeRestaurantName extracts the name from an obterRestauranteUsp reply.
func DecodeRestaurantName(body string) (string, error) {
	objects, ok := SliceObjects(body)
	if !ok {
		return "", ErrNoObjects
	}
	raw, ok := FieldValue(objects, KeyRestaurantName)
	if !ok || raw == nullValue {
		return "", ErrNoName
	}
	name, ok := FormatText(raw)
	if !ok {
		return "", ErrNoName
	}
	return name, nil
}
