package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// ListUnpaidJobsForProfile returns never-settled jobs (paid IS NULL)
// under the profile's non-terminated contracts, on either side of the
// contract.
func (r *JobRepository) ListUnpaidJobsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	if err := r.db.WithContext(ctx).Raw(`
		SELECT j.id, j.contract_id, j.description, j.price, j.paid, j.payment_date, j.created_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid IS NULL
			AND c.status <> 'terminated'
			AND (c.client_id = ? OR c.contractor_id = ?)
		ORDER BY j.created_at ASC
	`, profileID, profileID).Scan(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepository) GetJobForPayment(ctx context.Context, jobID uuid.UUID) (*model.JobForPayment, error) {
	var row struct {
		ID           uuid.UUID
		ContractID   uuid.UUID
		Description  string
		Price        float64
		Paid         *bool
		PaymentDate  *time.Time
		CreatedAt    time.Time
		ClientID     uuid.UUID
		ContractorID uuid.UUID
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.contract_id,
			j.description,
			j.price,
			j.paid,
			j.payment_date,
			j.created_at,
			c.client_id,
			c.contractor_id
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.id = ?
		LIMIT 1
	`, jobID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.JobForPayment{
		Job: model.Job{
			ID:          row.ID,
			ContractID:  row.ContractID,
			Description: row.Description,
			Price:       row.Price,
			Paid:        row.Paid,
			PaymentDate: row.PaymentDate,
			CreatedAt:   row.CreatedAt,
		},
		ClientID:     row.ClientID,
		ContractorID: row.ContractorID,
	}, nil
}

// SettleJob performs the balance transfer as one transaction: debit the
// client, flip the job to paid, credit the contractor. Both mutating
// guards (balance >= price, job still unpaid) are part of the UPDATE
// statements, so a concurrent settlement makes one of them miss and the
// whole transaction rolls back.
func (r *JobRepository) SettleJob(
	ctx context.Context,
	jobID, clientID, contractorID uuid.UUID,
	price float64,
	paidAt time.Time,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debit := tx.Exec(`
			UPDATE profiles
			SET balance = balance - ?
			WHERE id = ? AND balance >= ?
		`, price, clientID, price)
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		mark := tx.Exec(`
			UPDATE jobs
			SET paid = TRUE, payment_date = ?
			WHERE id = ? AND (paid IS NULL OR paid = FALSE)
		`, paidAt, jobID)
		if mark.Error != nil {
			return mark.Error
		}
		if mark.RowsAffected == 0 {
			return ErrAlreadySettled
		}

		credit := tx.Exec(`
			UPDATE profiles
			SET balance = balance + ?
			WHERE id = ?
		`, price, contractorID)
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
