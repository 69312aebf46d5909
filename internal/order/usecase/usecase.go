package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/delivery"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo     order.Repository
	notifier order.Notifier
	logger   logger.ZapLogger
	now      func() time.Time
}

// NewOrderUseCase wires the order flow. notifier may be nil.
func NewOrderUseCase(repo order.Repository, notifier order.Notifier, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:     repo,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
}

func (uc *orderUseCase) PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	method := delivery.Method(input.DeliveryMethod)
	if method.RequiresAddress() && input.DeliveryAddress == nil {
		return nil, order.ErrAddressRequired
	}

	requested := make(map[string]int, len(input.Items))
	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		if _, ok := requested[item.VariantID]; !ok {
			ids = append(ids, item.VariantID)
		}
		requested[item.VariantID] += item.Qty
	}

	variants, err := uc.repo.FindPurchasableVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(variants) != len(ids) {
		return nil, order.ErrVariantNotFound
	}

	byID := make(map[string]model.PurchasableVariant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	for _, id := range ids {
		if requested[id] > byID[id].Stock {
			return nil, &order.OutOfStockError{VariantID: id}
		}
	}

	o := &model.Order{
		ID:             uuid.New().String(),
		Status:         model.OrderStatusNew,
		FullName:       input.FullName,
		Phone:          input.Phone,
		DeliveryMethod: string(method),
		Comment:        input.Comment,
		CreatedAt:      uc.now(),
		Items:          make([]model.OrderItem, 0, len(input.Items)),
	}
	if method.RequiresAddress() {
		o.DeliveryAddress = input.DeliveryAddress
	}

	for i, item := range input.Items {
		v := byID[item.VariantID]
		line := v.Price * int64(item.Qty)
		o.Items = append(o.Items, model.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			Position:  i,
			ProductID: v.ProductID,
			VariantID: v.ID,
			Title:     v.ProductTitle,
			Slug:      v.ProductSlug,
			Color:     v.ColorName,
			Size:      v.Size,
			UnitPrice: v.Price,
			Qty:       item.Qty,
			LinePrice: line,
		})
		o.Subtotal += line
	}
	o.DeliveryPrice = delivery.Fee(o.Subtotal, method)
	o.Total = o.Subtotal + o.DeliveryPrice

	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	uc.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.Int64("total", o.Total),
	)

	if uc.notifier != nil {
		go uc.notify(context.WithoutCancel(ctx), o)
	}

	return o, nil
}

func (uc *orderUseCase) notify(ctx context.Context, o *model.Order) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := uc.notifier.OrderPlaced(ctx, o); err != nil {
		uc.logger.Error("failed to notify about order", zap.String("order_id", o.ID), zap.Error(err))
	}
}
