package contactbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xrendezvous/ConnectiveApp/server/models"
)

func TestSearch(t *testing.T) {
	olena := newContact(1, 1, "Olena", "1990-06-15")
	olena.Surname = "Petrenko"
	olena.Email = "olena@example.com"
	olena.MobilePhone = "+380(50)1234567"

	taras := newContact(2, 1, "Taras", "1985-01-09")
	taras.WorkPhone = "+380(44)7654321"

	iryna := newContact(3, 1, "Iryna", "")
	iryna.Address = &models.Address{ContactID: 3, Country: "Poland", City: "Krakow"}

	contacts := []models.Contact{olena, taras, iryna}
	addresses := []models.Address{
		{ContactID: 1, Country: "Ukraine", City: "Lviv", Line: "Svobody 12"},
		{ContactID: 2, Country: "Ukraine", City: "Kyiv", Line: "Khreshchatyk 1"},
	}

	testCases := []struct {
		name    string
		query   string
		ids     []uint
		outcome SearchOutcome
	}{
		{"Should return everything for an empty query", "", []uint{1, 2, 3}, OutcomeAll},
		{"Should return everything for a whitespace query", "   ", []uint{1, 2, 3}, OutcomeAll},
		{"Should match name ignoring case", "OLENA", []uint{1}, OutcomeMatched},
		{"Should match surname", "petr", []uint{1}, OutcomeMatched},
		{"Should match email", "example.com", []uint{1}, OutcomeMatched},
		{"Should match phone numbers", "7654321", []uint{2}, OutcomeMatched},
		{"Should match birth year", "1990", []uint{1}, OutcomeMatched},
		{"Should match birth month", "-01-", []uint{2}, OutcomeMatched},
		{"Should match address country once per contact", "ukraine", []uint{1, 2}, OutcomeMatched},
		{"Should match address line", "khreshchatyk", []uint{2}, OutcomeMatched},
		{"Should fall back to the preloaded address", "krakow", []uint{3}, OutcomeMatched},
		{"Should trim the query", "  lviv ", []uint{1}, OutcomeMatched},
		{"Should report no matches", "zzz", []uint{}, OutcomeNoMatches},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Search(contacts, addresses, tc.query)
			assert.Equal(t, tc.ids, contactIDs(result.Contacts))
			assert.Equal(t, tc.outcome, result.Outcome)
		})
	}
}

func TestSearchDeduplicatesContacts(t *testing.T) {
	anna := newContact(7, 1, "Anna", "")
	contacts := []models.Contact{anna, anna}
	addresses := []models.Address{
		{ContactID: 7, City: "Anapa"},
		{ContactID: 7, City: "Annecy"},
	}

	result := Search(contacts, addresses, "an")
	assert.Equal(t, []uint{7}, contactIDs(result.Contacts))
}

func TestSearchEmptyBook(t *testing.T) {
	result := Search([]models.Contact{}, nil, "anything")
	assert.Equal(t, OutcomeEmptyBook, result.Outcome)
	assert.NotNil(t, result.Contacts)
	assert.Empty(t, result.Contacts)

	result = Search(nil, nil, "")
	assert.Equal(t, OutcomeEmptyBook, result.Outcome)
}
