package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/xrendezvous/ConnectiveApp/server/models"
)

type noteRequest struct {
	Title string   `json:"title" validate:"required,min=5,max=50"`
	Body  string   `json:"body" validate:"required,min=10,max=150"`
	Tags  []string `json:"tags"`
}

func (s *Server) fetchNotes(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	notes, err := models.FetchNotes(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: notes}, http.StatusOK)
}

func (s *Server) createNote(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	data, ok := s.decodeNoteRequest(rw, r)
	if !ok {
		return
	}

	note := models.Note{Title: data.Title, Body: data.Body}
	err = user.AddNote(&note, data.Tags)
	if err != nil {
		writeError(rw, err)
		return
	}

	created, err := models.FindNote(user.ID, note.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: created}, http.StatusCreated)
}

func (s *Server) searchNotes(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))

	var notes []models.Note
	if query == "" {
		notes, err = models.FetchNotes(user.ID)
	} else {
		notes, err = models.SearchNotes(user.ID, query)
	}
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: notes}, http.StatusOK)
}

// sortNotesByTags returns the notes carrying any of the selected tags
func (s *Server) sortNotesByTags(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	notes, err := models.NotesWithAnyTag(user.ID, r.URL.Query()["tags"])
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: notes}, http.StatusOK)
}

func (s *Server) findNote(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	noteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	note, err := models.FindNote(user.ID, noteID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: note}, http.StatusOK)
}

func (s *Server) updateNote(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	noteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	data, ok := s.decodeNoteRequest(rw, r)
	if !ok {
		return
	}

	note, err := user.UpdateNote(noteID, &models.Note{Title: data.Title, Body: data.Body}, data.Tags)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: note}, http.StatusOK)
}

func (s *Server) deleteNote(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	noteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	err = user.DeleteNote(noteID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{}, http.StatusOK)
}

func (s *Server) markNoteDone(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	noteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	updated, err := user.MarkNoteDone(noteID)
	if err != nil {
		writeError(rw, err)
		return
	}

	if !updated {
		writeResponse(rw, ResponsePayload{Errors: []string{"record not found"}}, http.StatusNotFound)
		return
	}

	writeResponse(rw, ResponsePayload{}, http.StatusOK)
}

func (s *Server) fetchTags(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	tags, err := models.FetchTags(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: tags}, http.StatusOK)
}

func (s *Server) createTag(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	tag := models.Tag{}
	err = decodeJSON(r, &tag)
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	tag.ID = 0
	tag.Name = strings.TrimSpace(tag.Name)
	err = s.validate.Struct(tag)
	if err != nil {
		writeValidationErrors(rw, err)
		return
	}

	err = user.AddTag(&tag)
	if errors.Is(err, models.ErrDuplicateTag) {
		writeBadRequest(rw, err.Error())
		return
	}
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: tag}, http.StatusCreated)
}

func (s *Server) decodeNoteRequest(rw http.ResponseWriter, r *http.Request) (*noteRequest, bool) {
	data := noteRequest{}
	err := decodeJSON(r, &data)
	if err != nil {
		writeBadRequest(rw, err.Error())
		return nil, false
	}

	err = s.validate.Struct(data)
	if err != nil {
		writeValidationErrors(rw, err)
		return nil, false
	}

	return &data, true
}
