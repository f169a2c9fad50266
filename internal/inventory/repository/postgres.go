package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/inventory"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/jmoiron/sqlx"
)

const selectItems = `
	SELECT id, sku, product_name, total_qty, reserved_qty,
	       GREATEST(total_qty - reserved_qty, 0) AS available_qty,
	       reorder_threshold
	FROM inventory_items
`

// PGRepository reads stock levels from the inventory database.
type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.InventoryItem, error) {
	items := []model.InventoryItem{}
	err := r.DB.SelectContext(ctx, &items, selectItems+` ORDER BY sku`)
	return items, err
}

func (r *PGRepository) Availability(ctx context.Context, skus []string) (map[string]int, error) {
	out := make(map[string]int, len(skus))
	if len(skus) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(selectItems+` WHERE sku IN (?)`, skus)
	if err != nil {
		return nil, err
	}
	// Rebind for Postgres ($1, $2...)
	query = r.DB.Rebind(query)

	var items []model.InventoryItem
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	for _, sku := range skus {
		out[sku] = 0
	}
	for _, item := range items {
		out[item.SKU] = item.AvailableQty
	}
	return out, nil
}

func (r *PGRepository) LowStock(ctx context.Context) ([]model.LowStockItem, error) {
	items := []model.LowStockItem{}
	query := `
        SELECT sku, product_name,
               GREATEST(total_qty - reserved_qty, 0) AS available_qty,
               reorder_threshold AS threshold_qty
        FROM inventory_items
        WHERE total_qty - reserved_qty <= reorder_threshold
        ORDER BY sku
    `
	err := r.DB.SelectContext(ctx, &items, query)
	return items, err
}

// Adjust changes the on-hand quantity and records the movement in one
// transaction.
func (r *PGRepository) Adjust(ctx context.Context, adj *model.InventoryAdjustment) (*model.InventoryItem, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var item model.InventoryItem
	err = tx.GetContext(ctx, &item, selectItems+` WHERE sku = $1 FOR UPDATE`, adj.SKU)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrItemNotFound
		}
		return nil, err
	}

	total := item.TotalQty + adj.QuantityDelta
	if total < item.ReservedQty {
		return nil, inventory.ErrInsufficientStock
	}
	threshold := item.ReorderThreshold
	if adj.ReorderThreshold != nil {
		threshold = *adj.ReorderThreshold
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inventory_items SET total_qty = $1, reorder_threshold = $2, updated_at = NOW() WHERE id = $3`,
		total, threshold, item.ID)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO inventory_movements (sku, quantity_delta, reason, created_at) VALUES ($1, $2, $3, NOW())`,
		adj.SKU, adj.QuantityDelta, adj.Reason)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	item.TotalQty = total
	item.AvailableQty = total - item.ReservedQty
	item.ReorderThreshold = threshold
	return &item, nil
}
