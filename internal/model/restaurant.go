package model

import "time"

// RestaurantID is the upstream restaurant code (codrtn).
type RestaurantID int

// Restaurant pairs a restaurant code with its display name.
type Restaurant struct {
	ID   RestaurantID `json:"id"`
	Name string       `json:"name"`
}

// Workweek is the set of days shown when the whole week is requested.
var Workweek = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// WeekdayName returns the Portuguese name of the day.
func WeekdayName(d time.Weekday) string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return d.String()
}
