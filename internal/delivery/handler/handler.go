package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/delivery"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpx"
)

type OptionsResponse struct {
	FreeDeliveryFrom int64             `json:"freeDeliveryFrom"`
	Methods          []delivery.Option `json:"methods"`
}

// GetOptions serves GET /api/delivery.
func GetOptions(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, OptionsResponse{
		FreeDeliveryFrom: delivery.FreeDeliveryFrom,
		Methods:          delivery.Options(),
	})
}
