package memory

import (
	"context"

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

// TxRunner da semántica todo-o-nada sobre el Store: toma un snapshot antes de
// ejecutar la función y lo restaura si esta devuelve error. No soporta
// unidades de trabajo concurrentes.
type TxRunner struct {
	s *Store
}

func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (t *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	histRepo repository.TransactionHistoryRepository,
) error) error {
	return t.atomic(func() error {
		return fn(
			NewStockRepository(t.s),
			NewMovementRepository(t.s),
			NewTransactionHistoryRepository(t.s),
		)
	})
}

func (t *TxRunner) RunItems(ctx context.Context, fn func(itemRepo repository.ItemRepository) error) error {
	return t.atomic(func() error {
		return fn(NewItemRepository(t.s))
	})
}

func (t *TxRunner) RunSuppliers(ctx context.Context, fn func(
	supplierRepo repository.SupplierRepository,
	skuRepo repository.SupplierSkuRepository,
) error) error {
	return t.atomic(func() error {
		return fn(NewSupplierRepository(t.s), NewSupplierSkuRepository(t.s))
	})
}

func (t *TxRunner) atomic(fn func() error) error {
	t.s.mu.Lock()
	snap := t.s.snapshot()
	t.s.mu.Unlock()

	if err := fn(); err != nil {
		t.s.mu.Lock()
		t.s.restore(snap)
		t.s.mu.Unlock()
		return err
	}
	return nil
}
