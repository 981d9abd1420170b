package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ftsampaio/sales-import/internal/domain/sale"
)

const upsertSaleSQL = `
INSERT INTO sales (external_id, buyer_ref, gross_value, platform_fee, shipping_total, approved_at, observation, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
ON CONFLICT (external_id) DO UPDATE
  SET gross_value = EXCLUDED.gross_value,
      platform_fee = EXCLUDED.platform_fee,
      shipping_total = EXCLUDED.shipping_total,
      observation = EXCLUDED.observation,
      updated_at = NOW()
RETURNING id`

const upsertItemSQL = `
INSERT INTO sale_items (sale_id, position, product_ref, category_code, category_name, quantity, unit_price, expected_fee, actual_fee, discount, has_shipping, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
ON CONFLICT (sale_id, position) DO UPDATE
  SET product_ref = EXCLUDED.product_ref,
      category_code = EXCLUDED.category_code,
      category_name = EXCLUDED.category_name,
      quantity = EXCLUDED.quantity,
      unit_price = EXCLUDED.unit_price,
      expected_fee = EXCLUDED.expected_fee,
      actual_fee = EXCLUDED.actual_fee,
      discount = EXCLUDED.discount,
      has_shipping = EXCLUDED.has_shipping,
      updated_at = NOW()`

// SaleUpsertRepository persists a sale and its items in one transaction,
// keyed by the marketplace's external identifier. On conflict only the
// reconciled fields are overwritten: buyer reference, approval timestamp and
// created_at belong to the first write.
type SaleUpsertRepository struct {
	pool *pgxpool.Pool
}

func NewSaleUpsertRepository(pool *pgxpool.Pool) *SaleUpsertRepository {
	return &SaleUpsertRepository{pool: pool}
}

func (r *SaleUpsertRepository) Upsert(ctx context.Context, record sale.SaleRecord, items []sale.SaleItem) error {
	if record.ExternalID == "" {
		return sale.ErrEmptyExternalID
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var saleID int64
	if err := tx.QueryRow(ctx, upsertSaleSQL,
		record.ExternalID,
		record.BuyerRef,
		record.GrossValue,
		record.PlatformFee,
		record.ShippingTotal,
		nullableTime(record.ApprovedAt),
		record.Observation,
	).Scan(&saleID); err != nil {
		return fmt.Errorf("upsert sale %s: %w", record.ExternalID, err)
	}

	for _, item := range items {
		if _, err := tx.Exec(ctx, upsertItemSQL,
			saleID,
			item.Position,
			item.ProductRef,
			item.CategoryCode,
			item.CategoryName,
			item.Quantity,
			item.UnitPrice,
			item.Financials.ExpectedFee,
			item.Financials.ActualFee,
			item.Financials.Discount,
			item.Financials.HasShipping,
		); err != nil {
			return fmt.Errorf("upsert item %d of sale %s: %w", item.Position, record.ExternalID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert of sale %s: %w", record.ExternalID, err)
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
