package assembly

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// UseCase mantiene el grafo de ensamblajes (lista de materiales): un artículo
// compuesto de otros artículos con cantidades. La composición es metadato
// estructural: no se impone ningún invariante entre el stock del ensamblaje y
// el de sus partes, y no se detectan ciclos (responsabilidad del caller).
type UseCase struct {
	itemRepo     repository.ItemRepository
	assemblyRepo repository.AssemblyRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(itemRepo repository.ItemRepository, assemblyRepo repository.AssemblyRepository) *UseCase {
	return &UseCase{itemRepo: itemRepo, assemblyRepo: assemblyRepo}
}

// AttachPart registra la arista pivote (ensamblaje, parte, cantidad).
func (uc *UseCase) AttachPart(ctx context.Context, assemblyID, partID string, quantity decimal.Decimal) error {
	if !quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if err := uc.checkItem(assemblyID); err != nil {
		return err
	}
	if err := uc.checkItem(partID); err != nil {
		return err
	}
	return uc.assemblyRepo.Attach(&entity.AssemblyPart{
		AssemblyID: assemblyID,
		PartID:     partID,
		Quantity:   quantity,
		CreatedAt:  time.Now(),
	})
}

// DetachPart elimina la arista (ensamblaje, parte).
func (uc *UseCase) DetachPart(ctx context.Context, assemblyID, partID string) error {
	return uc.assemblyRepo.Detach(assemblyID, partID)
}

// ListParts devuelve la secuencia ordenada de pares (parte, cantidad) del
// ensamblaje.
func (uc *UseCase) ListParts(ctx context.Context, assemblyID string) ([]*entity.AssemblyPart, error) {
	return uc.assemblyRepo.ListParts(assemblyID)
}

func (uc *UseCase) checkItem(id string) error {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return nil
}
