package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order"
	"github.com/fekuna/omnipos-storefront/internal/pkg/database/postgres/pgtest"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVariants(t *testing.T) *sqlx.DB {
	db := pgtest.NewDB(t)
	fx := pgtest.Fixture{DB: db, T: t}
	now := time.Now()

	fx.Product("p-body", "bodysuit", "Боди", "Бодики", model.StatusActive, now)
	fx.Color("c-milk", "p-body", "Молочный", "milk", 0)
	fx.Variant("v-86", "c-milk", "86", 86, 1000, 3, model.StatusActive)
	fx.Variant("v-92", "c-milk", "92", 92, 1200, 1, model.StatusActive)
	fx.Variant("v-hidden", "c-milk", "98", 98, 1300, 5, model.StatusHidden)

	fx.Product("p-secret", "secret", "Секрет", "", model.StatusHidden, now)
	fx.Color("c-secret", "p-secret", "Графит", "graphite", 0)
	fx.Variant("v-secret", "c-secret", "86", 86, 900, 5, model.StatusActive)

	return db
}

func newOrder(items ...model.OrderItem) *model.Order {
	o := &model.Order{
		ID:             uuid.New().String(),
		Status:         model.OrderStatusNew,
		FullName:       "Анна",
		Phone:          "+79000000000",
		DeliveryMethod: "PICKUP",
		CreatedAt:      time.Now(),
	}
	for i, it := range items {
		it.ID = uuid.New().String()
		it.OrderID = o.ID
		it.Position = i
		it.ProductID = "p-body"
		it.Title = "Боди"
		it.Slug = "bodysuit"
		it.Color = "Молочный"
		it.LinePrice = it.UnitPrice * int64(it.Qty)
		o.Subtotal += it.LinePrice
		o.Items = append(o.Items, it)
	}
	o.Total = o.Subtotal
	return o
}

func stockOf(t *testing.T, db *sqlx.DB, variantID string) int {
	t.Helper()
	var stock int
	require.NoError(t, db.Get(&stock, `SELECT stock FROM variants WHERE id = $1`, variantID))
	return stock
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT count(*) FROM `+table))
	return n
}

func TestFindPurchasableVariants(t *testing.T) {
	db := seedVariants(t)
	repo := NewPGRepository(db)

	variants, err := repo.FindPurchasableVariants(context.Background(), []string{"v-86", "v-hidden", "v-secret", "v-missing"})
	require.NoError(t, err)
	require.Len(t, variants, 1)

	v := variants[0]
	assert.Equal(t, "v-86", v.ID)
	assert.Equal(t, "86", v.Size)
	assert.EqualValues(t, 1000, v.Price)
	assert.Equal(t, 3, v.Stock)
	assert.Equal(t, "Молочный", v.ColorName)
	assert.Equal(t, "p-body", v.ProductID)
	assert.Equal(t, "Боди", v.ProductTitle)
	assert.Equal(t, "bodysuit", v.ProductSlug)
}

func TestCreate_PersistsOrderAndDecrementsStock(t *testing.T) {
	db := seedVariants(t)
	repo := NewPGRepository(db)
	ctx := context.Background()

	o := newOrder(
		model.OrderItem{VariantID: "v-86", Size: "86", UnitPrice: 1000, Qty: 2},
		model.OrderItem{VariantID: "v-92", Size: "92", UnitPrice: 1200, Qty: 1},
	)
	require.NoError(t, repo.Create(ctx, o))

	assert.Equal(t, 1, stockOf(t, db, "v-86"))
	assert.Equal(t, 0, stockOf(t, db, "v-92"))

	var stored model.Order
	require.NoError(t, db.Get(&stored, `SELECT * FROM orders WHERE id = $1`, o.ID))
	assert.EqualValues(t, 3200, stored.Total)
	assert.Equal(t, model.OrderStatusNew, stored.Status)
	assert.Nil(t, stored.DeliveryAddress)

	var items []model.OrderItem
	require.NoError(t, db.Select(&items, `SELECT * FROM order_items WHERE order_id = $1 ORDER BY position`, o.ID))
	require.Len(t, items, 2)
	assert.Equal(t, "v-86", items[0].VariantID)
	assert.EqualValues(t, 2000, items[0].LinePrice)

	var movements []model.StockMovement
	require.NoError(t, db.Select(&movements, `SELECT * FROM stock_movements WHERE reference_id = $1 ORDER BY variant_id`, o.ID))
	require.Len(t, movements, 2)
	assert.Equal(t, "v-86", movements[0].VariantID)
	assert.Equal(t, model.MovementTypeSale, movements[0].MovementType)
	assert.Equal(t, -2, movements[0].QuantityChange)
	assert.Equal(t, 3, movements[0].QuantityBefore)
	assert.Equal(t, 1, movements[0].QuantityAfter)
	require.NotNil(t, movements[0].ReferenceType)
	assert.Equal(t, "order", *movements[0].ReferenceType)
}

func TestCreate_OutOfStockRollsBack(t *testing.T) {
	db := seedVariants(t)
	repo := NewPGRepository(db)

	o := newOrder(
		model.OrderItem{VariantID: "v-86", Size: "86", UnitPrice: 1000, Qty: 1},
		model.OrderItem{VariantID: "v-92", Size: "92", UnitPrice: 1200, Qty: 2},
	)
	err := repo.Create(context.Background(), o)

	var oos *order.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "v-92", oos.VariantID)

	assert.Equal(t, 3, stockOf(t, db, "v-86"), "earlier lines are rolled back")
	assert.Equal(t, 0, countRows(t, db, "orders"))
	assert.Equal(t, 0, countRows(t, db, "order_items"))
	assert.Equal(t, 0, countRows(t, db, "stock_movements"))
}

func TestCreate_HiddenVariantIsNotSold(t *testing.T) {
	db := seedVariants(t)
	repo := NewPGRepository(db)

	err := repo.Create(context.Background(), newOrder(model.OrderItem{VariantID: "v-hidden", Size: "98", UnitPrice: 1300, Qty: 1}))

	var oos *order.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, 5, stockOf(t, db, "v-hidden"))
}

func TestCreate_ConcurrentOrdersForLastStock(t *testing.T) {
	db := seedVariants(t)
	repo := NewPGRepository(db)

	const attempts = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := repo.Create(context.Background(), newOrder(model.OrderItem{VariantID: "v-86", Size: "86", UnitPrice: 1000, Qty: 3}))

			mu.Lock()
			defer mu.Unlock()
			var oos *order.OutOfStockError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &oos):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
	assert.Equal(t, 0, stockOf(t, db, "v-86"))
	assert.Equal(t, 1, countRows(t, db, "orders"))
}
