package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xrendezvous/ConnectiveApp/server/models"
)

func noteTitles(notes []models.Note) []string {
	titles := []string{}
	for _, note := range notes {
		titles = append(titles, note.Title)
	}
	return titles
}

func TestTagsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	uid, token := ts.registerAndLogin(t, "jane", "")
	otherID, otherToken := ts.registerAndLogin(t, "john", "")

	status, payload := ts.request(t, http.MethodPost, userPath(uid, "/tags"), token, map[string]string{"name": " work "})
	assert.Equal(t, http.StatusCreated, status, payload.Errors)

	tag := models.Tag{}
	decodeData(t, payload, &tag)
	assert.Equal(t, "work", tag.Name)
	assert.Equal(t, uid, tag.UserID)

	t.Run("rejects duplicate", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodPost, userPath(uid, "/tags"), token, map[string]string{"name": "work"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{models.ErrDuplicateTag.Error()}, payload.Errors)
	})

	t.Run("rejects short names", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodPost, userPath(uid, "/tags"), token, map[string]string{"name": "ab"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"name must be at least 3 characters long"}, payload.Errors)
	})

	t.Run("same name for another owner", func(t *testing.T) {
		status, _ := ts.request(t, http.MethodPost, userPath(otherID, "/tags"), otherToken, map[string]string{"name": "work"})
		assert.Equal(t, http.StatusCreated, status)
	})

	t.Run("lists own tags by name", func(t *testing.T) {
		status, _ := ts.request(t, http.MethodPost, userPath(uid, "/tags"), token, map[string]string{"name": "family"})
		assert.Equal(t, http.StatusCreated, status)

		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/tags"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		tags := []models.Tag{}
		decodeData(t, payload, &tags)
		assert.Len(t, tags, 2)
		assert.Equal(t, "family", tags[0].Name)
		assert.Equal(t, "work", tags[1].Name)
	})
}

func TestNotesEndpoints(t *testing.T) {
	ts := newTestServer(t)
	uid, token := ts.registerAndLogin(t, "jane", "")
	otherID, otherToken := ts.registerAndLogin(t, "john", "")

	for _, name := range []string{"work", "family", "travel"} {
		status, _ := ts.request(t, http.MethodPost, userPath(uid, "/tags"), token, map[string]string{"name": name})
		assert.Equal(t, http.StatusCreated, status)
	}

	createNote := func(t *testing.T, title, body string, tags ...string) models.Note {
		status, payload := ts.request(t, http.MethodPost, userPath(uid, "/notes"), token, map[string]interface{}{
			"title": title,
			"body":  body,
			"tags":  tags,
		})
		assert.Equal(t, http.StatusCreated, status, payload.Errors)

		note := models.Note{}
		decodeData(t, payload, &note)
		return note
	}

	t.Run("rejects invalid note", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodPost, userPath(uid, "/notes"), token, map[string]string{
			"title": "Hi",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, payload.Errors, "title must be at least 5 characters long")
		assert.Contains(t, payload.Errors, "body is required")
	})

	report := createNote(t, "Quarterly report", "Send the numbers to finance", "work", "unknown")
	trip := createNote(t, "Summer trip", "Book the train tickets for the family", "family", "travel")
	groceries := createNote(t, "Groceries", "Milk, bread and some apples")

	t.Run("only known tags are attached", func(t *testing.T) {
		assert.Len(t, report.Tags, 1)
		assert.Equal(t, "work", report.Tags[0].Name)
		assert.Len(t, trip.Tags, 2)
		assert.Empty(t, groceries.Tags)
	})

	t.Run("lists notes", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/notes"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		notes := []models.Note{}
		decodeData(t, payload, &notes)
		assert.Equal(t, []string{"Quarterly report", "Summer trip", "Groceries"}, noteTitles(notes))
	})

	t.Run("searches title and body", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/notes/search?query=TRAIN"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		notes := []models.Note{}
		decodeData(t, payload, &notes)
		assert.Equal(t, []string{"Summer trip"}, noteTitles(notes))

		status, payload = ts.request(t, http.MethodGet, userPath(uid, "/notes/search?query="), token, nil)
		assert.Equal(t, http.StatusOK, status)

		notes = []models.Note{}
		decodeData(t, payload, &notes)
		assert.Len(t, notes, 3)
	})

	t.Run("sorts by any of the tags", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodGet, userPath(uid, "/notes/sort?tags=work&tags=travel&tags=family"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		notes := []models.Note{}
		decodeData(t, payload, &notes)
		assert.Equal(t, []string{"Quarterly report", "Summer trip"}, noteTitles(notes))

		status, payload = ts.request(t, http.MethodGet, userPath(uid, "/notes/sort"), token, nil)
		assert.Equal(t, http.StatusOK, status)

		notes = []models.Note{}
		decodeData(t, payload, &notes)
		assert.Empty(t, notes)
	})

	t.Run("updates note and its tags", func(t *testing.T) {
		status, payload := ts.request(t, http.MethodPut, userPath(uid, fmt.Sprintf("/notes/%v", groceries.ID)), token,
			map[string]interface{}{
				"title": "Groceries for the trip",
				"body":  "Sandwiches, water and apples",
				"tags":  []string{"travel"},
			})
		assert.Equal(t, http.StatusOK, status, payload.Errors)

		note := models.Note{}
		decodeData(t, payload, &note)
		assert.Equal(t, "Groceries for the trip", note.Title)
		assert.Len(t, note.Tags, 1)
		assert.Equal(t, "travel", note.Tags[0].Name)
	})

	t.Run("marks note as done", func(t *testing.T) {
		status, _ := ts.request(t, http.MethodPut, userPath(uid, fmt.Sprintf("/notes/%v/done", report.ID)), token, nil)
		assert.Equal(t, http.StatusOK, status)

		status, payload := ts.request(t, http.MethodGet, userPath(uid, fmt.Sprintf("/notes/%v", report.ID)), token, nil)
		assert.Equal(t, http.StatusOK, status)

		note := models.Note{}
		decodeData(t, payload, &note)
		assert.True(t, note.IsDone)
	})

	t.Run("notes of other owners are unreachable", func(t *testing.T) {
		path := userPath(otherID, fmt.Sprintf("/notes/%v", report.ID))

		status, _ := ts.request(t, http.MethodGet, path, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = ts.request(t, http.MethodPut, path+"/done", otherToken, nil)
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = ts.request(t, http.MethodDelete, path, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("deletes note", func(t *testing.T) {
		status, _ := ts.request(t, http.MethodDelete, userPath(uid, fmt.Sprintf("/notes/%v", trip.ID)), token, nil)
		assert.Equal(t, http.StatusOK, status)

		_, err := models.FindNote(uid, trip.ID)
		assert.NotNil(t, err)

		tags, err := models.FetchTags(uid)
		assert.Nil(t, err)
		assert.Len(t, tags, 3, "Should keep the tags of deleted notes")
	})
}
