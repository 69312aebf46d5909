package dto

import "strings"

type OrderItemInput struct {
	VariantID string `json:"variantId" validate:"required,max=64"`
	Qty       int    `json:"qty" validate:"min=1,max=99"`
}

type PlaceOrderInput struct {
	FullName        string           `json:"fullName" validate:"min=1,max=120"`
	Phone           string           `json:"phone" validate:"min=5,max=30"`
	Comment         *string          `json:"comment" validate:"omitempty,max=500"`
	DeliveryMethod  string           `json:"deliveryMethod" validate:"required,oneof=CDEK YANDEX PICKUP"`
	DeliveryAddress *string          `json:"deliveryAddress" validate:"omitempty,max=200"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// Normalize trims the free-text fields in place.
func (in *PlaceOrderInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Comment = trimmedOrNil(in.Comment)
	in.DeliveryAddress = trimmedOrNil(in.DeliveryAddress)
	for i := range in.Items {
		in.Items[i].VariantID = strings.TrimSpace(in.Items[i].VariantID)
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

type PlaceOrderResponse struct {
	OrderID string `json:"orderId"`
}
