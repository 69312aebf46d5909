package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUseCase struct {
	input *dto.PlaceOrderInput
	err   error
}

func (f *fakeUseCase) PlaceOrder(_ context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &model.Order{ID: "order-1"}, nil
}

const validBody = `{
	"fullName": "  Анна Иванова ",
	"phone": "+79000000000",
	"comment": "   ",
	"deliveryMethod": "CDEK",
	"deliveryAddress": " Казань, ул. Баумана 1 ",
	"items": [{"variantId": "v-1", "qty": 2}]
}`

func post(t *testing.T, h *OrderHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.PlaceOrder(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpx.ErrorResponse {
	t.Helper()
	var resp httpx.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestPlaceOrder_Success(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewOrderHandler(uc, 1<<20, logger.NewNop())

	rec := post(t, h, validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.PlaceOrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "order-1", resp.OrderID)

	require.NotNil(t, uc.input)
	assert.Equal(t, "Анна Иванова", uc.input.FullName)
	assert.Nil(t, uc.input.Comment)
	require.NotNil(t, uc.input.DeliveryAddress)
	assert.Equal(t, "Казань, ул. Баумана 1", *uc.input.DeliveryAddress)
}

func TestPlaceOrder_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"fullName":`},
		{"empty name", `{"fullName":"  ","phone":"+79000000000","deliveryMethod":"PICKUP","items":[{"variantId":"v-1","qty":1}]}`},
		{"long name", `{"fullName":"` + strings.Repeat("я", 121) + `","phone":"+79000000000","deliveryMethod":"PICKUP","items":[{"variantId":"v-1","qty":1}]}`},
		{"short phone", `{"fullName":"Анна","phone":"123","deliveryMethod":"PICKUP","items":[{"variantId":"v-1","qty":1}]}`},
		{"unknown method", `{"fullName":"Анна","phone":"+79000000000","deliveryMethod":"POST","items":[{"variantId":"v-1","qty":1}]}`},
		{"no items", `{"fullName":"Анна","phone":"+79000000000","deliveryMethod":"PICKUP","items":[]}`},
		{"zero qty", `{"fullName":"Анна","phone":"+79000000000","deliveryMethod":"PICKUP","items":[{"variantId":"v-1","qty":0}]}`},
		{"qty over limit", `{"fullName":"Анна","phone":"+79000000000","deliveryMethod":"PICKUP","items":[{"variantId":"v-1","qty":100}]}`},
		{"fractional qty", `{"fullName":"Анна","phone":"+79000000000","deliveryMethod":"PICKUP","items":[{"variantId":"v-1","qty":1.5}]}`},
		{"missing variant id", `{"fullName":"Анна","phone":"+79000000000","deliveryMethod":"PICKUP","items":[{"qty":1}]}`},
		{"long comment", `{"fullName":"Анна","phone":"+79000000000","comment":"` + strings.Repeat("a", 501) + `","deliveryMethod":"PICKUP","items":[{"variantId":"v-1","qty":1}]}`},
		{"long address", `{"fullName":"Анна","phone":"+79000000000","deliveryMethod":"CDEK","deliveryAddress":"` + strings.Repeat("a", 201) + `","items":[{"variantId":"v-1","qty":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			h := NewOrderHandler(uc, 1<<20, logger.NewNop())

			rec := post(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, ErrInvalidBody, decodeError(t, rec).Error)
			assert.Nil(t, uc.input)
		})
	}
}

func TestPlaceOrder_BodyTooLarge(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewOrderHandler(uc, 64, logger.NewNop())

	rec := post(t, h, validBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.input)
}

func TestPlaceOrder_DomainErrors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantCode      int
		wantKind      string
		wantVariantID string
	}{
		{"address required", order.ErrAddressRequired, http.StatusBadRequest, ErrAddressRequired, ""},
		{"variant not found", order.ErrVariantNotFound, http.StatusBadRequest, ErrVariantNotFound, ""},
		{"out of stock", &order.OutOfStockError{VariantID: "v-1"}, http.StatusConflict, ErrOutOfStock, "v-1"},
		{"database failure", errors.New("connection reset"), http.StatusInternalServerError, ErrInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOrderHandler(&fakeUseCase{err: tt.err}, 1<<20, logger.NewNop())

			rec := post(t, h, validBody)
			assert.Equal(t, tt.wantCode, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantKind, resp.Error)
			assert.Equal(t, tt.wantVariantID, resp.VariantID)
		})
	}
}
