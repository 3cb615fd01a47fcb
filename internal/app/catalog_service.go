package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/mhmall/mall-api/internal/clock"
	"github.com/mhmall/mall-api/internal/domain"
)

// CatalogRepository is the admin-facing side of the option catalog.
type CatalogRepository interface {
	CreateOption(ctx context.Context, option domain.Option) error
	ListOptions(ctx context.Context) ([]domain.Option, error)
	AddStock(ctx context.Context, optionID string, quantity int) error
}

// CatalogService manages the purchasable options the order flows sell from.
type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

type CreateOptionInput struct {
	Name      string
	UnitPrice int64
	Stock     int
}

func (s *CatalogService) CreateOption(ctx context.Context, in CreateOptionInput) (domain.Option, error) {
	if in.Name == "" {
		return domain.Option{}, domain.ErrOptionNameRequired
	}
	if in.UnitPrice <= 0 {
		return domain.Option{}, domain.ErrInvalidPrice
	}
	if in.Stock < 0 {
		return domain.Option{}, domain.ErrInvalidStock
	}

	option := domain.Option{
		ID:        uuid.NewString(),
		Name:      in.Name,
		UnitPrice: in.UnitPrice,
		Available: in.Stock,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.CreateOption(ctx, option); err != nil {
		return domain.Option{}, err
	}
	return option, nil
}

func (s *CatalogService) ListOptions(ctx context.Context) ([]domain.Option, error) {
	return s.repo.ListOptions(ctx)
}

func (s *CatalogService) AddStock(ctx context.Context, optionID string, quantity int) error {
	if optionID == "" {
		return domain.ErrInvalidID
	}
	if quantity <= 0 {
		return domain.ErrInvalidStock
	}
	return s.repo.AddStock(ctx, optionID, quantity)
}
