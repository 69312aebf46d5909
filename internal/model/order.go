package model

import "time"

const OrderStatusNew = "NEW"

type Order struct {
	ID              string      `db:"id" json:"id"`
	Status          string      `db:"status" json:"status"`
	FullName        string      `db:"full_name" json:"full_name"`
	Phone           string      `db:"phone" json:"phone"`
	DeliveryMethod  string      `db:"delivery_method" json:"delivery_method"`
	DeliveryAddress *string     `db:"delivery_address" json:"delivery_address"` // Null for pickup
	Comment         *string     `db:"comment" json:"comment"`
	Subtotal        int64       `db:"subtotal" json:"subtotal"`
	DeliveryPrice   int64       `db:"delivery_price" json:"delivery_price"`
	Total           int64       `db:"total" json:"total"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	Items           []OrderItem `db:"-" json:"items"`
}

// OrderItem is a snapshot of the catalog at order time.
type OrderItem struct {
	ID        string `db:"id" json:"id"`
	OrderID   string `db:"order_id" json:"order_id"`
	Position  int    `db:"position" json:"position"`
	ProductID string `db:"product_id" json:"product_id"`
	VariantID string `db:"variant_id" json:"variant_id"`
	Title     string `db:"title" json:"title"`
	Slug      string `db:"slug" json:"slug"`
	Color     string `db:"color" json:"color"`
	Size      string `db:"size" json:"size"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"`
	Qty       int    `db:"qty" json:"qty"`
	LinePrice int64  `db:"line_price" json:"line_price"`
}
