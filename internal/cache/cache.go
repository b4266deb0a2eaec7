package cache

import (
	"context"
	"time"

	"salonpos/backend/internal/domain"
)

// CatalogCache fronts the product and staff list reads that every dashboard
// screen issues on load. A miss or cache error is never fatal; callers fall
// through to the repository.
type CatalogCache interface {
	GetProducts(ctx context.Context) ([]domain.Product, bool, error)
	SetProducts(ctx context.Context, products []domain.Product, ttl time.Duration) error
	InvalidateProducts(ctx context.Context) error

	GetStaff(ctx context.Context) ([]domain.Staff, bool, error)
	SetStaff(ctx context.Context, staff []domain.Staff, ttl time.Duration) error
	InvalidateStaff(ctx context.Context) error
}

type NoopCatalogCache struct{}

func (NoopCatalogCache) GetProducts(_ context.Context) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (NoopCatalogCache) SetProducts(_ context.Context, _ []domain.Product, _ time.Duration) error {
	return nil
}

func (NoopCatalogCache) InvalidateProducts(_ context.Context) error { return nil }

func (NoopCatalogCache) GetStaff(_ context.Context) ([]domain.Staff, bool, error) {
	return nil, false, nil
}

func (NoopCatalogCache) SetStaff(_ context.Context, _ []domain.Staff, _ time.Duration) error {
	return nil
}

func (NoopCatalogCache) InvalidateStaff(_ context.Context) error { return nil }
