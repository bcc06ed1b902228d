package application

import (
	"context"

	"github.com/freshbasket/storefront/internal/apperr"
	"github.com/freshbasket/storefront/internal/catalog/domain"
)

type Service struct {
	repo ProductRepository
}

func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, apperr.New(apperr.KindInvalidArgument, "product id is required")
	}
	return s.repo.Get(ctx, id)
}
