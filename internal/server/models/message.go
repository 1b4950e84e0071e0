// Package models defines the server-side records persisted in the database.
package models

import (
	"encoding/json"
	"time"
)

// CreationDateLayout renders creation dates the way clients expect them:
// UTC, millisecond precision, lexicographically sortable.
const CreationDateLayout = "2006-01-02T15:04:05.000Z"

// Message is a contact-form submission.
type Message struct {
	ID           int64
	Name         string
	Message      string
	Gender       string
	Country      string
	CreationDate time.Time
	Read         bool
}

type messageJSON struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Message      string `json:"message"`
	Gender       string `json:"gender"`
	Country      string `json:"country"`
	CreationDate string `json:"creationDate"`
	Read         bool   `json:"read"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{
		ID:           m.ID,
		Name:         m.Name,
		Message:      m.Message,
		Gender:       m.Gender,
		Country:      m.Country,
		CreationDate: m.CreationDate.UTC().Format(CreationDateLayout),
		Read:         m.Read,
	})
}

// SortKey returns the text value of the named field, used by the
// pagination engine. Unknown fields yield "".
func (m *Message) SortKey(field string) string {
	switch field {
	case "name":
		return m.Name
	case "gender":
		return m.Gender
	case "country":
		return m.Country
	case "creationDate":
		return m.CreationDate.UTC().Format(CreationDateLayout)
	}
	return ""
}
