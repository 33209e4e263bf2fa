package repository

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// ItemRepository define el puerto de persistencia para artículos (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el registro no existe.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySku(sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	ListByParent(parentID string) ([]*entity.Item, error)
	// NextSkuNumber devuelve el siguiente número de la secuencia para generación de SKU.
	NextSkuNumber() (int64, error)
}
