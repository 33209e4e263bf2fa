package entity

import "time"

// Item representa un artículo o SKU rastreable del inventario.
// ParentID apunta al artículo padre cuando el item es una variante.
// IsParent es derivado: true si el artículo posee al menos una variante;
// un padre nunca puede tener stock ni proveedores directos.
type Item struct {
	ID          string
	SKU         string
	Name        string
	Description string
	CategoryID  *string
	MetricID    *string
	ParentID    *string
	IsParent    bool
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsVariant indica si el artículo es variante de otro (parent_id no nulo).
func (i *Item) IsVariant() bool {
	return i.ParentID != nil
}
