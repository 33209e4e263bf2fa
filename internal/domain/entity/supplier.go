package entity

import "time"

// Supplier representa un proveedor asociable a artículos (muchos a muchos).
type Supplier struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
}

// SupplierSku es el código SKU específico de un proveedor para un artículo.
// A lo sumo una fila por par (item, proveedor); escritura con semántica upsert.
type SupplierSku struct {
	ItemID     string
	SupplierID string
	Code       string
	UpdatedAt  time.Time
}

// ItemSupplier es la fila pivote de la asociación item-proveedor,
// con auditoría de quién realizó el attach.
type ItemSupplier struct {
	ItemID     string
	SupplierID string
	CreatedBy  *string
	CreatedAt  time.Time
}
