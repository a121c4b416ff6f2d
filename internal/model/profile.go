package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ProfileType string

const (
	ProfileTypeClient     ProfileType = "client"
	ProfileTypeContractor ProfileType = "contractor"
)

// Profile is a party in the marketplace. Balance is kept in major
// currency units (NUMERIC(12,2) in the store) and must never go
// negative after a committed operation.
type Profile struct {
	ID         uuid.UUID   `json:"id"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Profession string      `json:"profession"`
	Balance    float64     `json:"balance"`
	Type       ProfileType `json:"type"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Principal identifies the authenticated caller for the duration of a
// request.
type Principal struct {
	ProfileID uuid.UUID
	Type      ProfileType
}

func (p Principal) IsClient() bool {
	return p.Type == ProfileTypeClient
}

func (p Principal) IsContractor() bool {
	return p.Type == ProfileTypeContractor
}
