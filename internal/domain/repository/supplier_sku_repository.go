package repository

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// SupplierSkuRepository define el puerto del registro de SKUs por proveedor.
// Upsert por clave (item, proveedor): a lo sumo una fila por par.
type SupplierSkuRepository interface {
	Upsert(sku *entity.SupplierSku) error
	// Get devuelve (nil, nil) si el par no tiene SKU registrado todavía.
	Get(itemID, supplierID string) (*entity.SupplierSku, error)
}
