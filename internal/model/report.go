package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfessionEarnings is one row of the best-profession aggregation:
// total paid job prices earned by contractors of one profession.
type ProfessionEarnings struct {
	Profession  string  `json:"profession"`
	TotalEarned float64 `json:"total-earned"`
}

// ClientPayment is one row of the best-clients report. Rows are
// individual settled jobs, not per-client aggregates, so the same
// client can appear more than once.
type ClientPayment struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Paid     float64   `json:"paid"`
}

// EarningsReport backs the exported Excel/PDF documents.
type EarningsReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Professions []ProfessionEarnings
	TopClients  []ClientPayment
}

func (r EarningsReport) BestProfession() *ProfessionEarnings {
	if len(r.Professions) == 0 {
		return nil
	}
	return &r.Professions[0]
}

func (r EarningsReport) TotalEarned() float64 {
	total := 0.0
	for _, row := range r.Professions {
		total += row.TotalEarned
	}
	return total
}
