package repository

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para proveedores y su
// asociación muchos-a-muchos con artículos.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	GetByCode(code string) (*entity.Supplier, error)
	// Attach asocia el proveedor al artículo registrando quién lo hizo.
	Attach(itemID, supplierID string, createdBy *string) error
	Detach(itemID, supplierID string) error
	ListByItem(itemID string) ([]*entity.Supplier, error)
}
