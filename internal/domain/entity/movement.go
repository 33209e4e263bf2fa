package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un movimiento de stock.
const (
	MovementStateCreated   = "created"    // stock creado con cantidad cero
	MovementStateNoChange  = "no_change"  // ajuste sin cambio de cantidad
	MovementStateAdded     = "added"      // entrada
	MovementStateRemoved   = "removed"    // salida
	MovementStateMovedFrom = "moved_from" // origen de un traslado
	MovementStateMovedTo   = "moved_to"   // destino de un traslado
)

// Movement representa un cambio atómico de cantidad sobre un StockRecord.
// Inmutable una vez escrito: After = Before + delta según la operación.
// RelatedMovementID enlaza los dos movimientos de un traslado;
// RollbackOfID referencia el movimiento revertido por este.
type Movement struct {
	ID                string
	StockID           string
	UserID            *string
	Before            decimal.Decimal
	After             decimal.Decimal
	Cost              decimal.Decimal
	Reason            string
	State             string
	RelatedMovementID *string
	RollbackOfID      *string
	CreatedAt         time.Time
}

// Delta devuelve el cambio de cantidad con signo (After - Before).
func (m *Movement) Delta() decimal.Decimal {
	return m.After.Sub(m.Before)
}
