package contactbook

import (
	"strings"

	"github.com/xrendezvous/ConnectiveApp/server/models"
)

// SearchOutcome tells the client which message to show above the results
type SearchOutcome string

const (
	OutcomeAll       SearchOutcome = "all"
	OutcomeMatched   SearchOutcome = "matched"
	OutcomeNoMatches SearchOutcome = "no_matches"
	OutcomeEmptyBook SearchOutcome = "empty_book"
)

type SearchResult struct {
	Contacts []models.Contact `json:"contacts"`
	Query    string           `json:"query"`
	Outcome  SearchOutcome    `json:"outcome"`
}

// Search returns the contacts matching query, in their original order. A contact
// matches when query is a case-insensitive substring of one of its text fields,
// its birthdate (YYYY-MM-DD) or one of the fields of its address. An empty query
// returns contacts unchanged.
func Search(contacts []models.Contact, addresses []models.Address, query string) SearchResult {
	query = strings.TrimSpace(query)
	result := SearchResult{Contacts: []models.Contact{}, Query: query}

	if len(contacts) == 0 {
		result.Outcome = OutcomeEmptyBook
		return result
	}

	if query == "" {
		result.Contacts = append(result.Contacts, contacts...)
		result.Outcome = OutcomeAll
		return result
	}

	needle := strings.ToLower(query)
	addressesByContact := map[uint][]models.Address{}
	for _, address := range addresses {
		addressesByContact[address.ContactID] = append(addressesByContact[address.ContactID], address)
	}

	seen := map[uint]bool{}
	for _, contact := range contacts {
		if seen[contact.ID] {
			continue
		}

		linked := addressesByContact[contact.ID]
		if len(linked) == 0 && contact.Address != nil {
			linked = []models.Address{*contact.Address}
		}

		if contactMatches(contact, needle) || anyAddressMatches(linked, needle) {
			seen[contact.ID] = true
			result.Contacts = append(result.Contacts, contact)
		}
	}

	result.Outcome = OutcomeMatched
	if len(result.Contacts) == 0 {
		result.Outcome = OutcomeNoMatches
	}

	return result
}

func contactMatches(contact models.Contact, needle string) bool {
	fields := []string{
		contact.Name,
		contact.Surname,
		contact.Email,
		contact.MobilePhone,
		contact.HomePhone,
		contact.WorkPhone,
	}
	if contact.Birthdate != nil {
		fields = append(fields, contact.Birthdate.String())
	}

	return containsFold(fields, needle)
}

func anyAddressMatches(addresses []models.Address, needle string) bool {
	for _, address := range addresses {
		if containsFold([]string{address.Country, address.City, address.Line}, needle) {
			return true
		}
	}
	return false
}

func containsFold(fields []string, needle string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
