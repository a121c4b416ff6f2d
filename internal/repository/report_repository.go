package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ProfessionEarnings sums settled job prices per contractor profession
// for payments strictly inside (start, end). Equal sums tie-break on
// profession name so the ordering is stable.
func (r *ReportRepository) ProfessionEarnings(ctx context.Context, start, end time.Time) ([]model.ProfessionEarnings, error) {
	var rows []model.ProfessionEarnings
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.profession,
			SUM(j.price) AS total_earned
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = TRUE
			AND j.payment_date > ?
			AND j.payment_date < ?
		GROUP BY p.profession
		ORDER BY total_earned DESC, p.profession ASC
	`, start, end).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopClientPayments returns individual settled jobs in the range,
// priciest first, joined to the paying client. Rows are jobs, not
// per-client aggregates; the same client can appear more than once.
func (r *ReportRepository) TopClientPayments(ctx context.Context, start, end time.Time, limit int) ([]model.ClientPayment, error) {
	var rows []model.ClientPayment
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			p.first_name || ' ' || p.last_name AS full_name,
			j.price AS paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = TRUE
			AND j.payment_date > ?
			AND j.payment_date < ?
		ORDER BY j.price DESC, j.id ASC
		LIMIT ?
	`, start, end, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
