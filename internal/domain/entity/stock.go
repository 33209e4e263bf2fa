package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa la cantidad de un artículo en una ubicación.
// Identidad compuesta (item, ubicación): a lo sumo un registro por par.
// La cantidad solo cambia a través de movimientos.
type StockRecord struct {
	ID         string
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	Aisle      *string
	Row        *string
	Bin        *string
	CreatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
