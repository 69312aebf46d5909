package notification

import (
	"fmt"
	"html"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/delivery"
	"github.com/fekuna/omnipos-storefront/internal/model"
)

// FormatOrderMessage renders the operator summary as Telegram HTML.
func FormatOrderMessage(o *model.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>Новый заказ</b> #%s\n\n", html.EscapeString(o.ID))

	fmt.Fprintf(&b, "<b>Контакты</b>\n%s\n%s\n\n", html.EscapeString(o.FullName), html.EscapeString(o.Phone))

	method := delivery.Method(o.DeliveryMethod)
	fmt.Fprintf(&b, "<b>Доставка</b>\n%s\n", html.EscapeString(method.Label()))
	if o.DeliveryAddress != nil {
		fmt.Fprintf(&b, "%s\n", html.EscapeString(*o.DeliveryAddress))
	}
	b.WriteString("\n")

	b.WriteString("<b>Состав</b>\n")
	for i, it := range o.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("• %s (Цвет: %s • Размер: %s) × %d — %d ₽", it.Title, it.Color, it.Size, it.Qty, it.LinePrice)
		b.WriteString(html.EscapeString(line))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "<b>Суммы</b>\nТовары: %d ₽\nДоставка: %d ₽\nИтого: %d ₽\n", o.Subtotal, o.DeliveryPrice, o.Total)
	if delivery.IsFree(o.Subtotal) {
		b.WriteString("(Бесплатная доставка применена)")
	}

	if o.Comment != nil && *o.Comment != "" {
		fmt.Fprintf(&b, "\n\n<b>Комментарий</b>\n%s", html.EscapeString(*o.Comment))
	}

	return b.String()
}
