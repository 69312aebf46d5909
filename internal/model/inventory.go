package model

import "time"

const MovementTypeSale = "sale"

// StockMovement journals every change applied to a variant's stock.
type StockMovement struct {
	ID             string    `db:"id"`
	VariantID      string    `db:"variant_id"`
	MovementType   string    `db:"movement_type"`
	QuantityChange int       `db:"quantity_change"`
	QuantityBefore int       `db:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after"`
	ReferenceType  *string   `db:"reference_type"`
	ReferenceID    *string   `db:"reference_id"`
	CreatedAt      time.Time `db:"created_at"`
}
