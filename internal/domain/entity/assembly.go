package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssemblyPart es una arista del grafo de ensamblajes (lista de materiales):
// el artículo AssemblyID se compone de Quantity unidades del artículo PartID.
// Relación independiente de la jerarquía padre/variante. No se detectan ciclos:
// es responsabilidad del caller no referenciar un ensamblaje ancestro.
type AssemblyPart struct {
	AssemblyID string
	PartID     string
	Quantity   decimal.Decimal
	CreatedAt  time.Time
}
