package contactbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/xrendezvous/ConnectiveApp/server/models"
)

type CalendarGrid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// Weeks are Monday first, days outside the month are 0
	Weeks          [][7]int         `json:"weeks"`
	Birthdays      []models.Contact `json:"birthdays"`
	BirthdayDays   map[int][]uint   `json:"birthday_days"`
	Today          int              `json:"today"`
	IsCurrentMonth bool             `json:"is_current_month"`
}

// Build lays out month of year and marks the birthdays of owner's contacts born
// no later than year.
func Build(owner uint, year int, month time.Month, today time.Time, contacts []models.Contact) CalendarGrid {
	grid := CalendarGrid{
		Year:           year,
		Month:          month,
		Weeks:          monthWeeks(year, month),
		Birthdays:      []models.Contact{},
		BirthdayDays:   map[int][]uint{},
		Today:          today.Day(),
		IsCurrentMonth: today.Year() == year && today.Month() == month,
	}

	for _, contact := range withBirthdates(owner, contacts) {
		birthdate := contact.Birthdate.Time
		birthMonth, day := observedBirthday(birthdate, year)
		if birthMonth != month || birthdate.Year() > year {
			continue
		}

		grid.Birthdays = append(grid.Birthdays, contact)
		grid.BirthdayDays[day] = append(grid.BirthdayDays[day], contact.ID)
	}

	return grid
}

// ResolveYearMonth parses the year & month request parameters. When either is
// missing or invalid the year & month of today are used.
func ResolveYearMonth(yearParam, monthParam string, today time.Time) (int, time.Month) {
	year, yearErr := strconv.Atoi(strings.TrimSpace(yearParam))
	month, monthErr := strconv.Atoi(strings.TrimSpace(monthParam))

	if yearErr != nil || monthErr != nil || year < 1 || year > 9999 || month < 1 || month > 12 {
		return today.Year(), today.Month()
	}

	return year, time.Month(month)
}

func monthWeeks(year int, month time.Month) [][7]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	column := (int(first.Weekday()) + 6) % 7

	weeks := [][7]int{}
	week := [7]int{}
	for day := 1; day <= daysInMonth; day++ {
		week[column] = day
		column++

		if column == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			column = 0
		}
	}

	if column > 0 {
		weeks = append(weeks, week)
	}

	return weeks
}
