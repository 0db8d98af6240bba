package models

import (
	"github.com/google/uuid"
)

// Base provides the document identifier shared by store-generated documents.
// User IDs come from the identity provider and SavedListing IDs are composite
// keys; everything else gets a random uuid string.
type Base struct {
	ID string `bson:"_id,omitempty" json:"id,omitempty"`
}

func (m *Base) GenIDIfEmpty() {
	if m.ID == "" {
		m.GenID()
	}
}

func (m *Base) GenID() {
	m.ID = uuid.NewString()
}

func NewBase() Base {
	return Base{
		ID: uuid.NewString(),
	}
}
