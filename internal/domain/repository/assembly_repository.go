package repository

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// AssemblyRepository define el puerto de la relación de ensamblajes
// (lista de materiales) sobre artículos.
type AssemblyRepository interface {
	Attach(part *entity.AssemblyPart) error
	Detach(assemblyID, partID string) error
	// ListParts devuelve las partes del ensamblaje en orden de inserción.
	ListParts(assemblyID string) ([]*entity.AssemblyPart, error)
}
