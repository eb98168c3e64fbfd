package contactbook

import (
	"strings"
	"time"

	"github.com/xrendezvous/ConnectiveApp/server/models"
)

type Period string

const (
	PeriodNone  Period = ""
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// WindowResult holds the birthdays falling in a period. Month windows fill
// Passed/Today/Upcoming, today and week windows fill Flat.
type WindowResult struct {
	Period   Period           `json:"period"`
	Passed   []models.Contact `json:"passed"`
	Today    []models.Contact `json:"today"`
	Upcoming []models.Contact `json:"upcoming"`
	Flat     []models.Contact `json:"flat"`
}

// ParsePeriod maps a case-insensitive query value onto a Period, PeriodNone when unknown
func ParsePeriod(value string) Period {
	switch Period(strings.ToLower(strings.TrimSpace(value))) {
	case PeriodToday:
		return PeriodToday
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodNone
	}
}

// Compute selects the birthdays of owner's contacts that fall in period relative
// to today. Birth years are ignored and input order is preserved.
func Compute(owner uint, contacts []models.Contact, today time.Time, period Period) WindowResult {
	result := WindowResult{
		Period:   period,
		Passed:   []models.Contact{},
		Today:    []models.Contact{},
		Upcoming: []models.Contact{},
		Flat:     []models.Contact{},
	}

	candidates := withBirthdates(owner, contacts)

	switch period {
	case PeriodToday:
		for _, contact := range candidates {
			if celebratedOn(contact.Birthdate.Time, today) {
				result.Flat = append(result.Flat, contact)
			}
		}
	case PeriodWeek:
		week := weekOf(today)
		for _, contact := range candidates {
			for _, day := range week {
				if celebratedOn(contact.Birthdate.Time, day) {
					result.Flat = append(result.Flat, contact)
					break
				}
			}
		}
	case PeriodMonth:
		for _, contact := range candidates {
			month, day := observedBirthday(contact.Birthdate.Time, today.Year())
			if month != today.Month() {
				continue
			}

			switch {
			case day < today.Day():
				result.Passed = append(result.Passed, contact)
			case day == today.Day():
				result.Today = append(result.Today, contact)
			default:
				result.Upcoming = append(result.Upcoming, contact)
			}
		}
	}

	return result
}

func withBirthdates(owner uint, contacts []models.Contact) []models.Contact {
	owned := []models.Contact{}
	for _, contact := range contacts {
		if contact.UserID == owner && contact.Birthdate != nil && !contact.Birthdate.IsZero() {
			owned = append(owned, contact)
		}
	}
	return owned
}

// weekOf returns the seven days, Monday first, of the week containing day
func weekOf(day time.Time) [7]time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	start := time.Date(day.Year(), day.Month(), day.Day()-offset, 0, 0, 0, 0, day.Location())

	week := [7]time.Time{}
	for i := range week {
		week[i] = start.AddDate(0, 0, i)
	}
	return week
}

func celebratedOn(birthdate, day time.Time) bool {
	month, dayOfMonth := observedBirthday(birthdate, day.Year())
	return month == day.Month() && dayOfMonth == day.Day()
}

// observedBirthday is the month & day a birthday falls on in year. 29 February
// moves to the 28th outside leap years.
func observedBirthday(birthdate time.Time, year int) (time.Month, int) {
	if birthdate.Month() == time.February && birthdate.Day() == 29 && !isLeapYear(year) {
		return time.February, 28
	}
	return birthdate.Month(), birthdate.Day()
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
