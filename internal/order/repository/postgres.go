package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const referenceTypeOrder = "order"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindPurchasableVariants(ctx context.Context, ids []string) ([]model.PurchasableVariant, error) {
	if len(ids) == 0 {
		return []model.PurchasableVariant{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT v.id, v.size, v.price, v.stock,
			c.name AS color_name,
			p.id AS product_id, p.title AS product_title, p.slug AS product_slug
		FROM variants v
		JOIN colors c ON c.id = v.color_id
		JOIN products p ON p.id = c.product_id
		WHERE v.id IN (?) AND v.status = ? AND p.status = ?
	`, ids, model.StatusActive, model.StatusActive)
	if err != nil {
		return nil, err
	}

	var variants []model.PurchasableVariant
	if err := r.DB.SelectContext(ctx, &variants, r.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find purchasable variants: %w", err)
	}
	return variants, nil
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertOrderQuery := `
		INSERT INTO orders (
			id, status, full_name, phone, delivery_method, delivery_address,
			comment, subtotal, delivery_price, total, created_at
		)
		VALUES (
			:id, :status, :full_name, :phone, :delivery_method, :delivery_address,
			:comment, :subtotal, :delivery_price, :total, :created_at
		)
	`
	if _, err := tx.NamedExecContext(ctx, insertOrderQuery, o); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]

		after, err := decrementStock(ctx, tx, item.VariantID, item.Qty)
		if err != nil {
			return err
		}

		movement := &model.StockMovement{
			ID:             uuid.New().String(),
			VariantID:      item.VariantID,
			MovementType:   model.MovementTypeSale,
			QuantityChange: -item.Qty,
			QuantityBefore: after + item.Qty,
			QuantityAfter:  after,
			ReferenceType:  strPtr(referenceTypeOrder),
			ReferenceID:    strPtr(o.ID),
			CreatedAt:      o.CreatedAt,
		}
		if err := logMovement(ctx, tx, movement); err != nil {
			return err
		}

		insertItemQuery := `
			INSERT INTO order_items (
				id, order_id, position, product_id, variant_id, title, slug,
				color, size, unit_price, qty, line_price
			)
			VALUES (
				:id, :order_id, :position, :product_id, :variant_id, :title, :slug,
				:color, :size, :unit_price, :qty, :line_price
			)
		`
		if _, err := tx.NamedExecContext(ctx, insertItemQuery, item); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// decrementStock takes qty units from an ACTIVE variant in a single
// conditional update and returns the remaining stock.
func decrementStock(ctx context.Context, tx *sqlx.Tx, variantID string, qty int) (int, error) {
	var after int
	err := tx.GetContext(ctx, &after, `
		UPDATE variants
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND status = 'ACTIVE' AND stock >= $1
		RETURNING stock
	`, qty, variantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &order.OutOfStockError{VariantID: variantID}
		}
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}
	return after, nil
}

func logMovement(ctx context.Context, tx *sqlx.Tx, m *model.StockMovement) error {
	query := `
		INSERT INTO stock_movements (
			id, variant_id, movement_type, quantity_change, quantity_before,
			quantity_after, reference_type, reference_id, created_at
		)
		VALUES (
			:id, :variant_id, :movement_type, :quantity_change, :quantity_before,
			:quantity_after, :reference_type, :reference_id, :created_at
		)
	`
	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
