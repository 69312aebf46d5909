// Package delivery holds the delivery methods and the pricing policy.
package delivery

type Method string

const (
	MethodCDEK   Method = "CDEK"
	MethodYandex Method = "YANDEX"
	MethodPickup Method = "PICKUP"
)

// FreeDeliveryFrom is the subtotal at which delivery becomes free for every method.
const FreeDeliveryFrom int64 = 5000

var flatFees = map[Method]int64{
	MethodCDEK:   399,
	MethodYandex: 499,
}

var labels = map[Method]string{
	MethodCDEK:   "СДЭК",
	MethodYandex: "Яндекс Доставка",
	MethodPickup: "Самовывоз (Казань)",
}

// Methods lists the accepted methods in display order.
func Methods() []Method {
	return []Method{MethodCDEK, MethodYandex, MethodPickup}
}

func (m Method) Valid() bool {
	_, ok := labels[m]
	return ok
}

func (m Method) RequiresAddress() bool {
	return m != MethodPickup
}

func (m Method) Label() string {
	if l, ok := labels[m]; ok {
		return l
	}
	return string(m)
}

// Fee returns the delivery price for a subtotal. Unknown methods cost nothing;
// callers validate the method before pricing.
func Fee(subtotal int64, m Method) int64 {
	if m == MethodPickup {
		return 0
	}
	if IsFree(subtotal) {
		return 0
	}
	return flatFees[m]
}

func IsFree(subtotal int64) bool {
	return subtotal >= FreeDeliveryFrom
}

type Option struct {
	Method Method `json:"method"`
	Label  string `json:"label"`
	Price  int64  `json:"price"`
}

// Options describes every method with its undiscounted fee.
func Options() []Option {
	out := make([]Option, 0, len(labels))
	for _, m := range Methods() {
		out = append(out, Option{Method: m, Label: m.Label(), Price: flatFees[m]})
	}
	return out
}
