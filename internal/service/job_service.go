package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/repository"
)

type JobService struct {
	jobs     *repository.JobRepository
	profiles *repository.ProfileRepository
	now      func() time.Time
}

func NewJobService(jobs *repository.JobRepository, profiles *repository.ProfileRepository) *JobService {
	return &JobService{
		jobs:     jobs,
		profiles: profiles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *JobService) ListUnpaidJobs(ctx context.Context, principal model.Principal) ([]model.Job, error) {
	jobs, err := s.jobs.ListUnpaidJobsForProfile(ctx, principal.ProfileID)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	return jobs, nil
}

// PayJob settles a job on behalf of the acting client. A missing job
// and a job under somebody else's contract are both ownership
// violations; an already-paid job is rejected rather than treated as an
// idempotent success. All preconditions are re-checked by the guards of
// the settlement transaction, so a concurrent payment cannot overdraw
// the client or settle the job twice.
func (s *JobService) PayJob(ctx context.Context, principal model.Principal, jobID uuid.UUID) error {
	if jobID == uuid.Nil {
		return ErrInvalidInput
	}

	job, err := s.jobs.GetJobForPayment(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobNotOwned
		}
		return err
	}
	if job.ClientID != principal.ProfileID {
		return ErrJobNotOwned
	}
	if job.IsPaid() {
		return ErrJobAlreadyPaid
	}

	client, err := s.profiles.GetProfile(ctx, principal.ProfileID)
	if err != nil {
		return err
	}
	if client.Balance < job.Price {
		return ErrInsufficientFunds
	}

	err = s.jobs.SettleJob(ctx, job.ID, job.ClientID, job.ContractorID, job.Price, s.now())
	switch {
	case errors.Is(err, repository.ErrInsufficientBalance):
		return ErrInsufficientFunds
	case errors.Is(err, repository.ErrAlreadySettled):
		return ErrJobAlreadyPaid
	default:
		return err
	}
}
