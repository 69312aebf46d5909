package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/order"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	ErrInvalidBody     = "INVALID_BODY"
	ErrAddressRequired = "ADDRESS_REQUIRED"
	ErrVariantNotFound = "VARIANT_NOT_FOUND"
	ErrOutOfStock      = "OUT_OF_STOCK"
	ErrInternal        = "INTERNAL_ERROR"
)

type OrderHandler struct {
	uc           order.UseCase
	validate     *validator.Validate
	maxBodyBytes int64
	logger       logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, maxBodyBytes int64, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:           uc,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		maxBodyBytes: maxBodyBytes,
		logger:       log,
	}
}

// PlaceOrder serves POST /api/orders.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var input dto.PlaceOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	input.Normalize()

	if err := h.validate.StructCtx(r.Context(), &input); err != nil {
		h.logger.Debug("invalid order body", zap.Error(err))
		httpx.WriteError(w, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	o, err := h.uc.PlaceOrder(r.Context(), &input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.PlaceOrderResponse{OrderID: o.ID})
}

func (h *OrderHandler) writeError(w http.ResponseWriter, err error) {
	var oos *order.OutOfStockError
	switch {
	case errors.As(err, &oos):
		httpx.WriteJSON(w, http.StatusConflict, httpx.ErrorResponse{Error: ErrOutOfStock, VariantID: oos.VariantID})
	case errors.Is(err, order.ErrAddressRequired):
		httpx.WriteError(w, http.StatusBadRequest, ErrAddressRequired)
	case errors.Is(err, order.ErrVariantNotFound):
		httpx.WriteError(w, http.StatusBadRequest, ErrVariantNotFound)
	default:
		h.logger.Error("failed to place order", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, ErrInternal)
	}
}
