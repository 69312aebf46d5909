package catalog

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront/internal/pkg/search"
)

var ErrNotFound = errors.New("product not found")

type UseCase interface {
	ListProducts(ctx context.Context, filters *dto.ProductFilters) (*dto.ProductPage, error)
	GetFilters(ctx context.Context) (*dto.Filters, error)
	GetProduct(ctx context.Context, slug string) (*dto.ProductDetail, error)
	GetFeatured(ctx context.Context) (*dto.Featured, error)

	// ReindexProducts rebuilds the search index, prunes documents of products
	// that are no longer active and drops cached listings.
	ReindexProducts(ctx context.Context) (int, error)
}

// SearchEngine is the subset of the Elasticsearch client the catalog uses.
type SearchEngine interface {
	CreateIndex(ctx context.Context, name, mapping string) error
	Index(ctx context.Context, index, id string, doc any) error
	Search(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error)
	Delete(ctx context.Context, index, id string) error
}
