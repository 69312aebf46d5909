package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFee(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		method   Method
		expected int64
	}{
		{"cdek below threshold", 2000, MethodCDEK, 399},
		{"yandex below threshold", 2000, MethodYandex, 499},
		{"pickup below threshold", 2000, MethodPickup, 0},
		{"cdek at threshold", 5000, MethodCDEK, 0},
		{"yandex above threshold", 6000, MethodYandex, 0},
		{"pickup above threshold", 6000, MethodPickup, 0},
		{"cdek just below threshold", 4999, MethodCDEK, 399},
		{"empty cart cdek", 0, MethodCDEK, 399},
		{"unknown method", 100, Method("POST"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fee(tt.subtotal, tt.method))
		})
	}
}

func TestFee_FreeWheneverThresholdOrPickup(t *testing.T) {
	for _, m := range Methods() {
		for _, subtotal := range []int64{FreeDeliveryFrom, FreeDeliveryFrom + 1, 1_000_000} {
			assert.Zero(t, Fee(subtotal, m), "method %s subtotal %d", m, subtotal)
		}
		if m == MethodPickup {
			for _, subtotal := range []int64{0, 1, FreeDeliveryFrom - 1} {
				assert.Zero(t, Fee(subtotal, m))
			}
		}
	}
}

func TestMethod(t *testing.T) {
	assert.True(t, MethodCDEK.Valid())
	assert.False(t, Method("cdek").Valid())
	assert.True(t, MethodYandex.RequiresAddress())
	assert.False(t, MethodPickup.RequiresAddress())
	assert.Equal(t, "Самовывоз (Казань)", MethodPickup.Label())
}

func TestOptions(t *testing.T) {
	opts := Options()

	assert.Equal(t, []Option{
		{Method: MethodCDEK, Label: "СДЭК", Price: 399},
		{Method: MethodYandex, Label: "Яндекс Доставка", Price: 499},
		{Method: MethodPickup, Label: "Самовывоз (Казань)", Price: 0},
	}, opts)
}
