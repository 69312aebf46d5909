package order

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
)

type UseCase interface {
	PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error)
}

// Notifier tells the operator about a committed order.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *model.Order) error
}
