package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionHistory es una entrada secundaria de auditoría creada junto a cada
// movimiento: guarda estado y cantidad antes/después para reconstrucción.
type TransactionHistory struct {
	ID             string
	MovementID     string
	UserID         *string
	StateBefore    string
	StateAfter     string
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	CreatedAt      time.Time
}
