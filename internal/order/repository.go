package order

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

type Repository interface {
	// FindPurchasableVariants returns the ACTIVE variants of ACTIVE products
	// among ids. Unknown or hidden ids are simply absent from the result.
	FindPurchasableVariants(ctx context.Context, ids []string) ([]model.PurchasableVariant, error)

	// Create persists the order with its items in one transaction, decrementing
	// stock per item. A line the stock can no longer cover aborts the write
	// with *OutOfStockError.
	Create(ctx context.Context, order *model.Order) error
}
