package entity

import "time"

// Metric es la unidad de medida de un artículo (kg, L, unidad, etc.).
type Metric struct {
	ID        string
	Name      string
	Symbol    string
	CreatedAt time.Time
}
