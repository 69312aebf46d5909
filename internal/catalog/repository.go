package catalog

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
)

// Repository reads the catalog. Every product it returns is ACTIVE and carries
// its colors with images and ACTIVE variants already loaded.
type Repository interface {
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindFeatured(ctx context.Context, popularLimit, previewLimit int) (popular, preview []model.Product, err error)
	FindFacets(ctx context.Context) (*dto.Filters, error)
	FindAllActive(ctx context.Context) ([]model.Product, error)
}
