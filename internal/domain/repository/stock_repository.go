package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar registros de stock
// por artículo+ubicación. Usado dentro de transacciones para consistencia.
// Get y GetForUpdate devuelven (nil, nil) cuando el par no tiene registro;
// la ausencia se traduce a ErrStockNotFound en la capa de aplicación.
type StockRepository interface {
	Create(stock *entity.StockRecord) error
	Get(itemID, locationID string) (*entity.StockRecord, error)
	GetByID(id string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE) cuando el
	// backend lo soporta.
	GetForUpdate(itemID, locationID string) (*entity.StockRecord, error)
	Update(stock *entity.StockRecord) error
	ListByItem(itemID string) ([]*entity.StockRecord, error)
	// SumByItem devuelve la suma de cantidades del artículo en todas sus ubicaciones.
	SumByItem(itemID string) (decimal.Decimal, error)
}
