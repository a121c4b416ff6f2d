package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, first_name, last_name, profession, balance, type, created_at
		FROM profiles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&profile).Error; err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

// Deposit credits the profile balance. The cap rule (amount must not
// exceed capRatio of the client's unpaid job total) is re-evaluated in
// the WHERE clause of the crediting statement itself, so the check and
// the increment are a single atomic statement and concurrent deposits
// cannot both pass against a stale unpaid total.
func (r *ProfileRepository) Deposit(ctx context.Context, id uuid.UUID, amount, capRatio float64) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE profiles
		SET balance = balance + ?
		WHERE id = ?
			AND ? <= ? * (
				SELECT COALESCE(SUM(j.price), 0)
				FROM jobs j
				JOIN contracts c ON c.id = j.contract_id
				WHERE c.client_id = profiles.id
					AND (j.paid IS NULL OR j.paid = FALSE)
			)
	`, amount, id, amount, capRatio)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDepositNotAllowed
	}
	return nil
}
