package taxes

import (
	"context"
	"errors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (Tax, error) {
	if id <= 0 {
		return Tax{}, errors.New("invalid tax ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) GetActive(ctx context.Context, companyID int64) (Tax, error) {
	if companyID <= 0 {
		return Tax{}, errors.New("invalid company ID")
	}
	return s.repo.GetActive(ctx, companyID)
}

func (s *Service) List(ctx context.Context, companyID int64) ([]Tax, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) RetentionConfig(ctx context.Context, companyID int64) (RetentionConfig, error) {
	if companyID <= 0 {
		return RetentionConfig{}, errors.New("invalid company ID")
	}
	return s.repo.GetRetentionConfig(ctx, companyID)
}
