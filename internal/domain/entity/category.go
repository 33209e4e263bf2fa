package entity

import "time"

// Category agrupa artículos; su nombre aporta el prefijo del SKU generado.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
