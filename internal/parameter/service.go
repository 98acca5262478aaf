package parameter

import "context"

type Repository interface {
	GetParameter(ctx context.Context, key string) (*Parameter, error)
	ListParameters(ctx context.Context, category string) ([]*Parameter, error)
	UpdateParameter(ctx context.Context, key, value string) (*Parameter, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, key string) (*Parameter, error) {
	return s.repo.GetParameter(ctx, key)
}

func (s *Service) List(ctx context.Context, category string) ([]*Parameter, error) {
	return s.repo.ListParameters(ctx, category)
}

func (s *Service) Update(ctx context.Context, key, value string) (*Parameter, error) {
	return s.repo.UpdateParameter(ctx, key, value)
}
