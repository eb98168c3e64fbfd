package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xrendezvous/ConnectiveApp/server/contactbook"
	"github.com/xrendezvous/ConnectiveApp/server/models"
)

func contactBody(name, birthdate string) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"mobile_phone": "+380501234567",
		"birthdate":    birthdate,
	}
}

func (ts *testServer) createContact(t *testing.T, uid uint, token string, body map[string]interface{}) models.Contact {
	t.Helper()

	status, payload := ts.request(t, http.MethodPost, userPath(uid, "/contacts"), token, body)
	assert.Equal(t, http.StatusCreated, status, payload.Errors)

	contact := models.Contact{}
	decodeData(t, payload, &contact)
	return contact
}

func TestContactsCRUD(t *testing.T) {
	ts := newTestServer(t)
	uid, token := ts.registerAndLogin(t, "jane", "")
	otherID, otherToken := ts.registerAndLogin(t, "john", "")

	t.Run("rejects invalid contact", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodPost, userPath(uid, "/contacts"), token, map[string]interface{}{
			"name":         "Al",
			"mobile_phone": "call me",
			"facebook":     "https://twitter.com/al",
		})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, payload.Errors, "name must be at least 3 characters long")
		assert.Contains(t, payload.Errors, "facebook must be a valid facebook profile link")
		assert.Len(t, payload.Errors, 3)
	})

	t.Run("rejects malformed birthdate", func(t *testing.T) {
		status, _ := ts.request(t, http.MethodPost, userPath(uid, "/contacts"), token, contactBody("Alice", "last tuesday"))
		assert.Equal(t, http.StatusBadRequest, status)
	})

	contact := ts.createContact(t, uid, token, map[string]interface{}{
		"name":      "Alice",
		"surname":   "Smith",
		"birthdate": "1990-06-15",
		"address":   map[string]string{"country": "Ukraine", "city": "Lviv", "address": "Rynok sq. 1"},
	})

	t.Run("creates contact with address", func(t *testing.T) {
		assert.NotZero(t, contact.ID)
		assert.Equal(t, uid, contact.UserID)
		assert.Equal(t, "1990-06-15", contact.Birthdate.String())
		assert.Equal(t, "Lviv", contact.Address.City)
	})

	t.Run("finds contact", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, fmt.Sprintf("/contacts/%v", contact.ID)), token, nil)
		assert.Equal(t, http.StatusOK, status)

		found := models.Contact{}
		decodeData(t, payload, &found)
		assert.Equal(t, "Alice Smith", found.FullName())
		assert.Equal(t, "Rynok sq. 1", found.Address.Line)
	})

	t.Run("another owner's contact isn't found", func(t *testing.T) {
		path := userPath(otherID, fmt.Sprintf("/contacts/%v", contact.ID))

		status, _ := ts.request(t, http.MethodGet, path, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = ts.request(t, http.MethodPut, path, otherToken, contactBody("Mallory", ""))
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = ts.request(t, http.MethodDelete, path, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("updates contact", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodPut, userPath(uid, fmt.Sprintf("/contacts/%v", contact.ID)), token,
			map[string]interface{}{
				"name":        "Alicia",
				"is_favorite": true,
				"address":     map[string]string{"city": "Odesa"},
			})
		assert.Equal(t, http.StatusOK, status, payload.Errors)

		updated := models.Contact{}
		decodeData(t, payload, &updated)
		assert.Equal(t, "Alicia", updated.Name)
		assert.Empty(t, updated.Surname)
		assert.True(t, updated.IsFavorite)
		assert.Nil(t, updated.Birthdate)
		assert.Equal(t, "Odesa", updated.Address.City)
	})

	t.Run("deletes contact", func(t *testing.T) {
		status, _ := ts.request(t, http.MethodDelete, userPath(uid, fmt.Sprintf("/contacts/%v", contact.ID)), token, nil)
		assert.Equal(t, http.StatusOK, status)

		_, err := models.FindContact(uid, contact.ID)
		assert.NotNil(t, err)
	})
}

func TestFetchContacts(t *testing.T) {
	ts := newTestServer(t)
	uid, token := ts.registerAndLogin(t, "jane", "")

	t.Run("empty book", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/contacts?q=alice"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		page := contactsPage{}
		decodeData(t, payload, &page)
		assert.Empty(t, page.Contacts)
		assert.Equal(t, contactbook.OutcomeEmptyBook, page.Outcome)
		assert.Equal(t, "you have no contacts", page.Message)
	})

	for i := 0; i < 12; i++ {
		ts.createContact(t, uid, token, contactBody(fmt.Sprintf("Contact %02d", i), ""))
	}
	ts.createContact(t, uid, token, map[string]interface{}{
		"name":    "Bohdan",
		"address": map[string]string{"city": "Kharkiv"},
	})

	t.Run("pages through all contacts", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/contacts"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		page := contactsPage{}
		decodeData(t, payload, &page)
		assert.Len(t, page.Contacts, models.CONTACTS_PAGE_SIZE)
		assert.Equal(t, contactbook.OutcomeAll, page.Outcome)
		assert.Empty(t, page.Message)
		assert.Equal(t, models.Paging{Total: 13, Page: 1, Pages: 2}, *page.Paging)

		status, payload = ts.request(t, http.MethodGet, userPath(uid, "/contacts?page=2"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		page = contactsPage{}
		decodeData(t, payload, &page)
		assert.Len(t, page.Contacts, 3)
		assert.Equal(t, int64(2), page.Paging.Page)
	})

	t.Run("matches address fields", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/contacts?q=kharkiv"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		page := contactsPage{}
		decodeData(t, payload, &page)
		assert.Len(t, page.Contacts, 1)
		assert.Equal(t, "Bohdan", page.Contacts[0].Name)
		assert.Equal(t, contactbook.OutcomeMatched, page.Outcome)
		assert.Equal(t, "kharkiv", page.Query)
	})

	t.Run("no matches", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/contacts?q=zelda"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		page := contactsPage{}
		decodeData(t, payload, &page)
		assert.Empty(t, page.Contacts)
		assert.Equal(t, contactbook.OutcomeNoMatches, page.Outcome)
		assert.Equal(t, "no contacts found", page.Message)
	})
}

func TestBirthdaysAndCalendar(t *testing.T) {
	ts := newTestServer(t)
	uid, token := ts.registerAndLogin(t, "jane", "")

	// today is Saturday 2024-06-15, its week runs from the 10th to the 16th
	ts.createContact(t, uid, token, contactBody("Passed", "1990-06-10"))
	ts.createContact(t, uid, token, contactBody("Today", "1985-06-15"))
	ts.createContact(t, uid, token, contactBody("Upcoming", "2000-06-28"))
	ts.createContact(t, uid, token, contactBody("July", "1995-07-01"))
	ts.createContact(t, uid, token, contactBody("Nobirthday", ""))

	fetchBirthdays := func(t *testing.T, period string) contactbook.WindowResult {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/birthdays?period="+period), token, nil)
		assert.Equal(t, http.StatusOK, status, payload.Errors)

		result := contactbook.WindowResult{}
		decodeData(t, payload, &result)
		return result
	}

	names := func(contacts []models.Contact) []string {
		result := []string{}
		for _, contact := range contacts {
			result = append(result, contact.Name)
		}
		return result
	}

	t.Run("today", func(t *testing.T) {
		result := fetchBirthdays(t, "today")
		assert.Equal(t, contactbook.PeriodToday, result.Period)
		assert.Equal(t, []string{"Today"}, names(result.Flat))
	})

	t.Run("week", func(t *testing.T) {
		result := fetchBirthdays(t, "week")
		assert.Equal(t, []string{"Passed", "Today"}, names(result.Flat))
		assert.Empty(t, result.Passed)
	})

	t.Run("month", func(t *testing.T) {
		result := fetchBirthdays(t, "month")
		assert.Equal(t, []string{"Passed"}, names(result.Passed))
		assert.Equal(t, []string{"Today"}, names(result.Today))
		assert.Equal(t, []string{"Upcoming"}, names(result.Upcoming))
	})

	t.Run("unknown period", func(t *testing.T) {
		result := fetchBirthdays(t, "decade")
		assert.Equal(t, contactbook.PeriodNone, result.Period)
		assert.Empty(t, result.Flat)
		assert.Empty(t, result.Today)
	})

	t.Run("current month calendar", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/calendar"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		grid := contactbook.CalendarGrid{}
		decodeData(t, payload, &grid)
		assert.Equal(t, 2024, grid.Year)
		assert.Equal(t, time.June, grid.Month)
		assert.True(t, grid.IsCurrentMonth)
		assert.Equal(t, 15, grid.Today)
		assert.Len(t, grid.Weeks, 5)
		assert.Equal(t, []string{"Passed", "Today", "Upcoming"}, names(grid.Birthdays))
		assert.Len(t, grid.BirthdayDays[28], 1)
	})

	t.Run("other month calendar", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/calendar?year=2025&month=7"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		grid := contactbook.CalendarGrid{}
		decodeData(t, payload, &grid)
		assert.Equal(t, 2025, grid.Year)
		assert.Equal(t, time.July, grid.Month)
		assert.False(t, grid.IsCurrentMonth)
		assert.Equal(t, []string{"July"}, names(grid.Birthdays))
	})

	t.Run("invalid params fall back to today", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/calendar?year=abc&month=13"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		grid := contactbook.CalendarGrid{}
		decodeData(t, payload, &grid)
		assert.Equal(t, 2024, grid.Year)
		assert.Equal(t, time.June, grid.Month)
	})
}

func TestSyncCalendar(t *testing.T) {
	ts := newTestServer(t)
	uid, token := ts.registerAndLogin(t, "jane", "")

	withBirthdate := ts.createContact(t, uid, token, contactBody("Alice", "1990-06-15"))
	withoutBirthdate := ts.createContact(t, uid, token, contactBody("Bob", ""))

	status, payload := ts.request(t, http.MethodPost, userPath(uid, "/calendar/sync"), token, nil)
	assert.Equal(t, http.StatusOK, status, payload.Errors)
	assert.JSONEq(t, `{"events": 1}`, string(payload.Data))

	synced, err := models.FindContact(uid, withBirthdate.ID)
	assert.Nil(t, err)
	assert.Equal(t, fmt.Sprintf("event-%v-1", withBirthdate.ID), synced.CalendarEventID)

	unsynced, err := models.FindContact(uid, withoutBirthdate.ID)
	assert.Nil(t, err)
	assert.Empty(t, unsynced.CalendarEventID)

	t.Run("resync replaces previous events", func(t *testing.T) {
		status, _ := ts.request(t, http.MethodPost, userPath(uid, "/calendar/sync"), token, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, []string{fmt.Sprintf("event-%v-1", withBirthdate.ID)}, ts.calendarStub.ClearedEventIDs)
	})

	t.Run("deleting a contact clears its event", func(t *testing.T) {
		status, _ := ts.request(t, http.MethodDelete, userPath(uid, fmt.Sprintf("/contacts/%v", withBirthdate.ID)), token, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, ts.calendarStub.ClearedEventIDs, fmt.Sprintf("event-%v-2", withBirthdate.ID))
	})

	t.Run("google failure", func(t *testing.T) {
		ts.calendarStub.CreateBirthdayEventsError = errors.New("quota exceeded")
		defer func() { ts.calendarStub.CreateBirthdayEventsError = nil }()

		status, _ := ts.request(t, http.MethodPost, userPath(uid, "/calendar/sync"), token, nil)
		assert.Equal(t, http.StatusBadGateway, status)
	})

	t.Run("disabled export", func(t *testing.T) {
		ts.calendarAPI = nil

		status, _ := ts.request(t, http.MethodPost, userPath(uid, "/calendar/sync"), token, nil)
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})
}
