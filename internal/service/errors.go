package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrJobNotOwned       = errors.New("job is not owned by the acting client")
	ErrJobAlreadyPaid    = errors.New("job is already paid")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrDepositRejected   = errors.New("deposit exceeds the allowed share of unpaid jobs")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrNoData            = errors.New("no data for selected period")
)
