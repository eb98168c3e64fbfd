package contactbook

import (
	"time"

	"github.com/xrendezvous/ConnectiveApp/server/models"
)

func newContact(id, owner uint, name, birthdate string) models.Contact {
	contact := models.Contact{Name: name}
	contact.ID = id
	contact.UserID = owner

	if birthdate != "" {
		date, err := models.ParseDate(birthdate)
		if err != nil {
			panic(err)
		}
		contact.Birthdate = &date
	}

	return contact
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func contactIDs(contacts []models.Contact) []uint {
	ids := []uint{}
	for _, contact := range contacts {
		ids = append(ids, contact.ID)
	}
	return ids
}
