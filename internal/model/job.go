package model

import (
	"time"

	"github.com/google/uuid"
)

// Job is a billable unit of work under a contract. Paid is tri-state:
// NULL means the job was never settled, false means an explicit unpaid
// marker, true means settled. PaymentDate is set exactly once, when
// Paid flips to true, and is never reverted.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	ContractID  uuid.UUID  `json:"contractId"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Paid        *bool      `json:"paid"`
	PaymentDate *time.Time `json:"paymentDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (j Job) IsPaid() bool {
	return j.Paid != nil && *j.Paid
}

// JobForPayment carries the contract parties alongside the job row so
// ownership can be checked before the settlement transaction starts.
type JobForPayment struct {
	Job
	ClientID     uuid.UUID
	ContractorID uuid.UUID
}
