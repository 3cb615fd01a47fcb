package app

import (
	"context"
	"testing"
	"time"

	"github.com/mhmall/mall-api/internal/clock"
	"github.com/mhmall/mall-api/internal/domain"
)

type fakeCatalogRepo struct {
	options map[string]domain.Option
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{options: make(map[string]domain.Option)}
}

func (f *fakeCatalogRepo) CreateOption(_ context.Context, option domain.Option) error {
	if _, exists := f.options[option.ID]; exists {
		return domain.ErrOptionAlreadyExists
	}
	f.options[option.ID] = option
	return nil
}

func (f *fakeCatalogRepo) ListOptions(_ context.Context) ([]domain.Option, error) {
	var out []domain.Option
	for _, opt := range f.options {
		out = append(out, opt)
	}
	return out, nil
}

func (f *fakeCatalogRepo) AddStock(_ context.Context, optionID string, quantity int) error {
	opt, ok := f.options[optionID]
	if !ok {
		return domain.ErrUnknownOption
	}
	opt.Available += quantity
	f.options[optionID] = opt
	return nil
}

func TestCatalogService_CreateOption(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	t.Run("creates an option with a generated id", func(t *testing.T) {
		repo := newFakeCatalogRepo()
		svc := NewCatalogService(repo, clock.NewFixed(now))

		option, err := svc.CreateOption(context.Background(), CreateOptionInput{
			Name: "Blue hoodie / L", UnitPrice: 39000, Stock: 20,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if option.ID == "" {
			t.Fatalf("expected a generated id")
		}
		if !option.CreatedAt.Equal(now) {
			t.Fatalf("expected creation time %v, got %v", now, option.CreatedAt)
		}
		stored, ok := repo.options[option.ID]
		if !ok || stored.Available != 20 {
			t.Fatalf("expected stored option with stock 20, got %+v (ok=%v)", stored, ok)
		}
	})

	t.Run("validation", func(t *testing.T) {
		repo := newFakeCatalogRepo()
		svc := NewCatalogService(repo, clock.NewFixed(now))

		cases := []struct {
			name    string
			input   CreateOptionInput
			wantErr error
		}{
			{"empty name", CreateOptionInput{UnitPrice: 1000, Stock: 1}, domain.ErrOptionNameRequired},
			{"zero price", CreateOptionInput{Name: "x", Stock: 1}, domain.ErrInvalidPrice},
			{"negative price", CreateOptionInput{Name: "x", UnitPrice: -1, Stock: 1}, domain.ErrInvalidPrice},
			{"negative stock", CreateOptionInput{Name: "x", UnitPrice: 1000, Stock: -1}, domain.ErrInvalidStock},
		}
		for _, tc := range cases {
			if _, err := svc.CreateOption(context.Background(), tc.input); err != tc.wantErr {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
			}
		}
		if len(repo.options) != 0 {
			t.Fatalf("expected no options created, got %d", len(repo.options))
		}
	})

	t.Run("zero stock is allowed", func(t *testing.T) {
		repo := newFakeCatalogRepo()
		svc := NewCatalogService(repo, clock.NewFixed(now))

		if _, err := svc.CreateOption(context.Background(), CreateOptionInput{
			Name: "Preorder item", UnitPrice: 5000, Stock: 0,
		}); err != nil {
			t.Fatalf("expected zero stock to be accepted, got %v", err)
		}
	})
}

func TestCatalogService_AddStock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeCatalogRepo()
	svc := NewCatalogService(repo, clock.NewFixed(now))

	option, err := svc.CreateOption(context.Background(), CreateOptionInput{
		Name: "Blue hoodie / L", UnitPrice: 39000, Stock: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.AddStock(context.Background(), option.ID, 7); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := repo.options[option.ID].Available; got != 12 {
		t.Fatalf("expected stock 12, got %d", got)
	}

	if err := svc.AddStock(context.Background(), "", 1); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if err := svc.AddStock(context.Background(), option.ID, 0); err != domain.ErrInvalidStock {
		t.Fatalf("expected ErrInvalidStock for zero quantity, got %v", err)
	}
	if err := svc.AddStock(context.Background(), "missing", 1); err != domain.ErrUnknownOption {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}
