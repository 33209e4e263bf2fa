package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/supplier"
	"github.com/jhoicas/inventario-ledger/internal/application/variant"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ ledger.TxRunner   = (*TxRunner)(nil)
	_ variant.TxRunner  = (*TxRunner)(nil)
	_ supplier.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta unidades de trabajo transaccionales sobre el pool,
// entregando a la función repositorios ligados a la transacción.
// Implementa los puertos de transacción de los casos de uso de libro mayor,
// variantes y proveedores.
type TxRunner struct {
	pool    *pgxpool.Pool
	userKey string
}

// NewTxRunner construye el runner. userKey es el nombre de la columna de
// actor para movimientos e historias (vacío usa created_by).
func NewTxRunner(pool *pgxpool.Pool, userKey string) *TxRunner {
	return &TxRunner{pool: pool, userKey: userKey}
}

// Run ejecuta fn dentro de una transacción con los repositorios del libro mayor.
func (t *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	histRepo repository.TransactionHistoryRepository,
) error) error {
	return t.inTx(ctx, func(q Querier) error {
		return fn(
			NewStockRepository(q),
			NewMovementRepository(q, t.userKey),
			NewTransactionHistoryRepository(q, t.userKey),
		)
	})
}

// RunItems ejecuta fn dentro de una transacción con el repositorio de artículos.
func (t *TxRunner) RunItems(ctx context.Context, fn func(itemRepo repository.ItemRepository) error) error {
	return t.inTx(ctx, func(q Querier) error {
		return fn(NewItemRepository(q))
	})
}

// RunSuppliers ejecuta fn dentro de una transacción con los repositorios de proveedores.
func (t *TxRunner) RunSuppliers(ctx context.Context, fn func(
	supplierRepo repository.SupplierRepository,
	skuRepo repository.SupplierSkuRepository,
) error) error {
	return t.inTx(ctx, func(q Querier) error {
		return fn(NewSupplierRepository(q), NewSupplierSkuRepository(q))
	})
}

func (t *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
