package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para el libro de movimientos.
// Los movimientos son append-only: la única actualización permitida es el enlace
// related_movement_id de un traslado, dentro de la misma transacción.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// GetRollbackOf devuelve el movimiento que revierte a movementID, o (nil, nil).
	GetRollbackOf(movementID string) (*entity.Movement, error)
	// LastCostForStock devuelve el costo del movimiento más reciente con costo
	// positivo del stock (cero si no hay ninguno).
	LastCostForStock(stockID string) (decimal.Decimal, error)
	SetRelated(movementID, relatedID string) error
	// ListByStock devuelve los movimientos del stock, el más reciente primero.
	// limit <= 0 significa sin límite.
	ListByStock(stockID string, limit, offset int) ([]*entity.Movement, error)
}
