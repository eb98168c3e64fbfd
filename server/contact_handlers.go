package server

import (
	"net/http"

	"github.com/xrendezvous/ConnectiveApp/server/contactbook"
	"github.com/xrendezvous/ConnectiveApp/server/models"
	"github.com/xrendezvous/ConnectiveApp/utils"
)

var searchOutcomeMessages = map[contactbook.SearchOutcome]string{
	contactbook.OutcomeNoMatches: "no contacts found",
	contactbook.OutcomeEmptyBook: "you have no contacts",
}

type contactsPage struct {
	Contacts []models.Contact          `json:"contacts"`
	Query    string                    `json:"query"`
	Outcome  contactbook.SearchOutcome `json:"outcome"`
	Message  string                    `json:"message,omitempty"`
	Paging   *models.Paging            `json:"paging"`
}

func (s *Server) fetchContacts(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contacts, err := models.FetchContacts(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	addresses, err := models.FetchAddresses(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	result := contactbook.Search(contacts, addresses, r.URL.Query().Get("q"))

	page := utils.AtoiOrDefault(r.URL.Query().Get("page"), 1)
	start, end, paging := models.PageBounds(len(result.Contacts), page, models.CONTACTS_PAGE_SIZE)

	writeResponse(rw, ResponsePayload{Data: contactsPage{
		Contacts: result.Contacts[start:end],
		Query:    result.Query,
		Outcome:  result.Outcome,
		Message:  searchOutcomeMessages[result.Outcome],
		Paging:   paging,
	}}, http.StatusOK)
}

func (s *Server) createContact(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contact := models.Contact{}
	err = decodeJSON(r, &contact)
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	err = s.validate.Struct(contact)
	if err != nil {
		writeValidationErrors(rw, err)
		return
	}

	contact.ID = 0
	contact.CalendarEventID = ""
	if contact.Address != nil {
		contact.Address.ID = 0
	}

	err = user.AddContact(&contact)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: contact}, http.StatusCreated)
}

func (s *Server) findContact(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contactID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	contact, err := models.FindContact(user.ID, contactID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: contact}, http.StatusOK)
}

func (s *Server) updateContact(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contactID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	data := models.Contact{}
	err = decodeJSON(r, &data)
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	err = s.validate.Struct(data)
	if err != nil {
		writeValidationErrors(rw, err)
		return
	}

	err = user.UpdateContact(contactID, &data)
	if err != nil {
		writeError(rw, err)
		return
	}

	contact, err := models.FindContact(user.ID, contactID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: contact}, http.StatusOK)
}

func (s *Server) deleteContact(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contactID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	contact, err := user.DeleteContact(contactID)
	if err != nil {
		writeError(rw, err)
		return
	}

	if contact.CalendarEventID != "" && s.calendarAPI != nil {
		err = s.calendarAPI.ClearEvents(r.Context(), []string{contact.CalendarEventID})
		if err != nil {
			logg.Error(err)
		}
	}

	writeResponse(rw, ResponsePayload{}, http.StatusOK)
}

func (s *Server) fetchBirthdays(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contacts, err := models.FetchContacts(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	period := contactbook.ParsePeriod(r.URL.Query().Get("period"))
	result := contactbook.Compute(user.ID, contacts, s.today(), period)

	writeResponse(rw, ResponsePayload{Data: result}, http.StatusOK)
}

func (s *Server) fetchCalendar(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contacts, err := models.FetchContacts(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	today := s.today()
	year, month := contactbook.ResolveYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"), today)
	grid := contactbook.Build(user.ID, year, month, today, contacts)

	writeResponse(rw, ResponsePayload{Data: grid}, http.StatusOK)
}

// syncCalendar exports the user's birthdays to google calendar
func (s *Server) syncCalendar(rw http.ResponseWriter, r *http.Request) {
	if s.calendarAPI == nil {
		writeResponse(rw,
			ResponsePayload{Errors: []string{"google calendar export is disabled"}},
			http.StatusServiceUnavailable)
		return
	}

	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contacts, err := models.FetchContacts(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	eventIDs, err := s.calendarAPI.CreateBirthdayEvents(r.Context(), contacts)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadGateway)
		return
	}

	for contactID, eventID := range eventIDs {
		err = models.SetCalendarEventID(contactID, eventID)
		if err != nil {
			writeError(rw, err)
			return
		}
	}

	writeResponse(rw, ResponsePayload{Data: map[string]int{"events": len(eventIDs)}}, http.StatusOK)
}
