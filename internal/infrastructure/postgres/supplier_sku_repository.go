package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SupplierSkuRepository = (*SupplierSkuRepo)(nil)

// SupplierSkuRepo implementación del puerto SupplierSkuRepository sobre PostgreSQL.
type SupplierSkuRepo struct {
	q Querier
}

func NewSupplierSkuRepository(q Querier) *SupplierSkuRepo {
	return &SupplierSkuRepo{q: q}
}

// Upsert escribe el SKU del proveedor para el artículo, reemplazando el
// existente si lo hay.
func (r *SupplierSkuRepo) Upsert(sku *entity.SupplierSku) error {
	if sku.UpdatedAt.IsZero() {
		sku.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO supplier_skus (item_id, supplier_id, code, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, supplier_id)
		DO UPDATE SET code = EXCLUDED.code, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		sku.ItemID, sku.SupplierID, sku.Code, sku.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert supplier sku: %w", err)
	}
	return nil
}

// Get obtiene el SKU del par (artículo, proveedor); (nil, nil) si no existe.
func (r *SupplierSkuRepo) Get(itemID, supplierID string) (*entity.SupplierSku, error) {
	var s entity.SupplierSku
	err := r.q.QueryRow(context.Background(), `
		SELECT item_id, supplier_id, code, updated_at
		FROM supplier_skus
		WHERE item_id = $1 AND supplier_id = $2`, itemID, supplierID,
	).Scan(&s.ItemID, &s.SupplierID, &s.Code, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier sku: %w", err)
	}
	return &s, nil
}
