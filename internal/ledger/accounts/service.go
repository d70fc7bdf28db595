package accounts

import (
	"context"
	"errors"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

// Service owns chart of accounts mutations.
type Service struct {
	repo Repository
}

// NewService constructs the registry service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new account. The code is normalised first; when it
// implies a parent the parent must already exist in the same company,
// ancestors are never auto-created.
func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	if in.CompanyID == 0 {
		return Account{}, errors.New("ledger: company required")
	}
	if in.Name == "" {
		return Account{}, errors.New("ledger: account name required")
	}
	if !in.Type.Valid() {
		return Account{}, errors.New("ledger: invalid account type")
	}
	code, err := FormatCode(in.Code)
	if err != nil {
		return Account{}, err
	}
	var created Account
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		account := Account{
			CompanyID: in.CompanyID,
			Code:      code,
			Name:      in.Name,
			Type:      in.Type,
		}
		if parentCode := ParentCode(code); parentCode != "" {
			parent, err := tx.GetByCode(ctx, in.CompanyID, parentCode)
			if err != nil {
				if errors.Is(err, shared.ErrAccountNotFound) {
					return shared.ErrParentNotFound
				}
				return err
			}
			account.ParentID = &parent.ID
		}
		inserted, err := tx.Insert(ctx, account)
		if err != nil {
			return err
		}
		created = inserted
		return nil
	})
	if err != nil {
		return Account{}, err
	}
	return created, nil
}

// Delete removes an account, refusing while it has postings or children.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.Get(ctx, id); err != nil {
			return err
		}
		movements, err := tx.CountMovements(ctx, id)
		if err != nil {
			return err
		}
		if movements > 0 {
			return shared.ErrHasMovements
		}
		children, err := tx.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return shared.ErrHasChildren
		}
		return tx.Delete(ctx, id)
	})
}

// IsPostable reports whether the account is a leaf and may receive lines.
func (s *Service) IsPostable(ctx context.Context, id int64) (bool, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return false, err
	}
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return false, err
	}
	return children == 0, nil
}

// Get fetches one account by id.
func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	return s.repo.Get(ctx, id)
}

// GetByCode fetches one account by company and canonical code.
func (s *Service) GetByCode(ctx context.Context, companyID int64, code string) (Account, error) {
	normalized, err := FormatCode(code)
	if err != nil {
		return Account{}, err
	}
	return s.repo.GetByCode(ctx, companyID, normalized)
}

// List returns the company's chart of accounts ordered by code.
func (s *Service) List(ctx context.Context, companyID int64) ([]Account, error) {
	return s.repo.List(ctx, companyID)
}
