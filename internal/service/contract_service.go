package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/repository"
)

type ContractService struct {
	contracts *repository.ContractRepository
}

func NewContractService(contracts *repository.ContractRepository) *ContractService {
	return &ContractService{contracts: contracts}
}

// GetContract returns the contract only to one of its parties. A
// contract the caller is not party to reads as not found.
func (s *ContractService) GetContract(ctx context.Context, principal model.Principal, contractID uuid.UUID) (*model.Contract, error) {
	if contractID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	contract, err := s.contracts.GetContractForProfile(ctx, contractID, principal.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) ListContracts(ctx context.Context, principal model.Principal) ([]model.Contract, error) {
	contracts, err := s.contracts.ListContractsForProfile(ctx, principal.ProfileID)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []model.Contract{}
	}
	return contracts, nil
}
