package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/config"
	"github.com/nurpe/gigpay/internal/repository"
)

type BalanceService struct {
	profiles *repository.ProfileRepository
	capRatio float64
}

func NewBalanceService(profiles *repository.ProfileRepository, cfg *config.Config) *BalanceService {
	return &BalanceService{
		profiles: profiles,
		capRatio: cfg.Billing.DepositCapRatio,
	}
}

// Deposit credits the target profile, capped at capRatio of the sum of
// the profile's unpaid job prices as a client. A zero unpaid total
// rejects any deposit. The cap is enforced inside the crediting
// statement, so there is no window between check and increment.
func (s *BalanceService) Deposit(ctx context.Context, profileID uuid.UUID, amount float64) error {
	if profileID == uuid.Nil {
		return ErrInvalidInput
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	if _, err := s.profiles.GetProfile(ctx, profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	err := s.profiles.Deposit(ctx, profileID, amount, s.capRatio)
	if errors.Is(err, repository.ErrDepositNotAllowed) {
		return ErrDepositRejected
	}
	return err
}
