package contactbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xrendezvous/ConnectiveApp/server/models"
)

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, PeriodToday, ParsePeriod("today"))
	assert.Equal(t, PeriodWeek, ParsePeriod(" WEEK "))
	assert.Equal(t, PeriodMonth, ParsePeriod("Month"))
	assert.Equal(t, PeriodNone, ParsePeriod(""))
	assert.Equal(t, PeriodNone, ParsePeriod("year"))
}

func TestCompute(t *testing.T) {
	contacts := []models.Contact{
		newContact(1, 1, "Earlier", "1990-06-03"),
		newContact(2, 1, "Today", "1980-06-15"),
		newContact(3, 1, "ThisWeek", "2000-06-12"),
		newContact(4, 1, "Later", "1975-06-28"),
		newContact(5, 1, "July", "1991-07-15"),
		newContact(6, 1, "NoBirthdate", ""),
		newContact(7, 2, "Stranger", "1990-06-15"),
		newContact(8, 1, "AlsoToday", "2001-06-15"),
	}
	// Saturday, week runs from Monday 10th to Sunday 16th
	today := day("2024-06-15")

	t.Run("Should return today's birthdays", func(t *testing.T) {
		result := Compute(1, contacts, today, PeriodToday)
		assert.Equal(t, []uint{2, 8}, contactIDs(result.Flat))
		assert.Empty(t, result.Passed)
	})

	t.Run("Should return this week's birthdays", func(t *testing.T) {
		result := Compute(1, contacts, today, PeriodWeek)
		assert.Equal(t, []uint{2, 3, 8}, contactIDs(result.Flat))
	})

	t.Run("Should partition the month around today", func(t *testing.T) {
		result := Compute(1, contacts, today, PeriodMonth)
		assert.Equal(t, []uint{1, 3}, contactIDs(result.Passed))
		assert.Equal(t, []uint{2, 8}, contactIDs(result.Today))
		assert.Equal(t, []uint{4}, contactIDs(result.Upcoming))
		assert.Empty(t, result.Flat)

		var covered []uint
		covered = append(covered, contactIDs(result.Passed)...)
		covered = append(covered, contactIDs(result.Today)...)
		covered = append(covered, contactIDs(result.Upcoming)...)
		assert.ElementsMatch(t, []uint{1, 2, 3, 4, 8}, covered, "Every June birthday should land in exactly one group")
	})

	t.Run("Should return nothing for an unknown period", func(t *testing.T) {
		result := Compute(1, contacts, today, ParsePeriod("decade"))
		assert.Equal(t, PeriodNone, result.Period)
		assert.NotNil(t, result.Flat)
		assert.Empty(t, result.Flat)
		assert.Empty(t, result.Passed)
		assert.Empty(t, result.Today)
		assert.Empty(t, result.Upcoming)
	})

	t.Run("Should never include other users' contacts", func(t *testing.T) {
		result := Compute(2, contacts, today, PeriodToday)
		assert.Equal(t, []uint{7}, contactIDs(result.Flat))
	})
}

func TestComputeWeekAcrossBoundaries(t *testing.T) {
	contacts := []models.Contact{
		newContact(1, 1, "Monday", "1990-05-27"),
		newContact(2, 1, "June", "1990-06-01"),
		newContact(3, 1, "Sunday", "1990-06-02"),
		newContact(4, 1, "NextWeek", "1990-06-03"),
		newContact(5, 1, "Eve", "1990-12-31"),
		newContact(6, 1, "NewYear", "1990-01-05"),
		newContact(7, 1, "PreviousWeek", "1990-12-29"),
	}

	t.Run("Should cross a month boundary", func(t *testing.T) {
		// Friday, week runs from 27 May to 2 June
		result := Compute(1, contacts, day("2024-05-31"), PeriodWeek)
		assert.Equal(t, []uint{1, 2, 3}, contactIDs(result.Flat))
	})

	t.Run("Should cross a year boundary", func(t *testing.T) {
		// Wednesday, week runs from 30 December to 5 January
		result := Compute(1, contacts, day("2025-01-01"), PeriodWeek)
		assert.Equal(t, []uint{5, 6}, contactIDs(result.Flat))
	})
}

func TestComputeLeapDayBirthday(t *testing.T) {
	contacts := []models.Contact{
		newContact(1, 1, "Leapling", "2000-02-29"),
		newContact(2, 1, "Tomorrow", "1990-03-01"),
	}

	t.Run("Should celebrate on 28 February outside leap years", func(t *testing.T) {
		result := Compute(1, contacts, day("2023-02-28"), PeriodToday)
		assert.Equal(t, []uint{1}, contactIDs(result.Flat))

		// Monday, week runs from 27 February to 5 March
		result = Compute(1, contacts, day("2023-02-27"), PeriodWeek)
		assert.Equal(t, []uint{1, 2}, contactIDs(result.Flat))

		result = Compute(1, contacts, day("2023-02-28"), PeriodMonth)
		assert.Equal(t, []uint{1}, contactIDs(result.Today))
	})

	t.Run("Should keep 29 February in leap years", func(t *testing.T) {
		result := Compute(1, contacts, day("2024-02-28"), PeriodToday)
		assert.Empty(t, result.Flat)

		result = Compute(1, contacts, day("2024-02-29"), PeriodToday)
		assert.Equal(t, []uint{1}, contactIDs(result.Flat))

		result = Compute(1, contacts, day("2024-02-28"), PeriodMonth)
		assert.Equal(t, []uint{1}, contactIDs(result.Upcoming))
	})
}
