package variant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// TxRunner ejecuta una función con el repositorio de artículos atado a una
// transacción: el enlace de variante y la marca is_parent del padre se
// confirman o descartan juntos.
type TxRunner interface {
	RunItems(ctx context.Context, fn func(itemRepo repository.ItemRepository) error) error
}

// UseCase mantiene la jerarquía padre/variante: exactamente dos niveles
// (artículos raíz y sus variantes directas) y exclusividad mutua entre
// "es padre" y "tiene stock/proveedores directos".
type UseCase struct {
	txRunner  TxRunner
	itemRepo  repository.ItemRepository
	stockRepo repository.StockRepository
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, stockRepo repository.StockRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, stockRepo: stockRepo, log: log}
}

// MakeVariantOf convierte el artículo en variante del candidato a padre.
// Falla con ErrInvalidVariant si el candidato ya es variante (una variante de
// variante está prohibida) o si el artículo se referencia a sí mismo, y con
// ErrIsParentViolation si el artículo ya posee variantes propias.
// Como efecto, is_parent del padre pasa a true.
func (uc *UseCase) MakeVariantOf(ctx context.Context, itemID, parentID string) error {
	if itemID == parentID {
		return domain.ErrInvalidVariant
	}
	item, err := uc.getItem(itemID)
	if err != nil {
		return err
	}
	parent, err := uc.getItem(parentID)
	if err != nil {
		return err
	}
	if parent.IsVariant() {
		return domain.ErrInvalidVariant
	}
	if item.IsParent {
		return domain.ErrIsParentViolation
	}

	now := time.Now()
	err = uc.txRunner.RunItems(ctx, func(itemRepo repository.ItemRepository) error {
		item.ParentID = &parent.ID
		item.UpdatedAt = now
		if err := itemRepo.Update(item); err != nil {
			return err
		}
		if !parent.IsParent {
			parent.IsParent = true
			parent.UpdatedAt = now
			return itemRepo.Update(parent)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Debug().
		Str("item_id", item.ID).
		Str("parent_id", parent.ID).
		Msg("variante enlazada")
	return nil
}

// CreateVariant crea un artículo nuevo con el sku/nombre/descripción indicados,
// copiando categoría y unidad del artículo base, y lo enlaza como variante.
func (uc *UseCase) CreateVariant(ctx context.Context, baseItemID, skuCode, name, description string) (*entity.Item, error) {
	base, err := uc.getItem(baseItemID)
	if err != nil {
		return nil, err
	}
	if base.IsVariant() {
		return nil, domain.ErrInvalidVariant
	}

	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		SKU:         skuCode,
		Name:        name,
		Description: description,
		CategoryID:  base.CategoryID,
		MetricID:    base.MetricID,
		ParentID:    &base.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.RunItems(ctx, func(itemRepo repository.ItemRepository) error {
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		if !base.IsParent {
			base.IsParent = true
			base.UpdatedAt = now
			return itemRepo.Update(base)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveParent desenlaza la variante de su padre y recalcula is_parent del
// padre (false si ya no le quedan variantes).
func (uc *UseCase) RemoveParent(ctx context.Context, itemID string) error {
	item, err := uc.getItem(itemID)
	if err != nil {
		return err
	}
	if item.ParentID == nil {
		return nil
	}
	parentID := *item.ParentID

	now := time.Now()
	return uc.txRunner.RunItems(ctx, func(itemRepo repository.ItemRepository) error {
		item.ParentID = nil
		item.UpdatedAt = now
		if err := itemRepo.Update(item); err != nil {
			return err
		}
		remaining, err := itemRepo.ListByParent(parentID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			parent, err := itemRepo.GetByID(parentID)
			if err != nil {
				return err
			}
			if parent != nil && parent.IsParent {
				parent.IsParent = false
				parent.UpdatedAt = now
				return itemRepo.Update(parent)
			}
		}
		return nil
	})
}

// IsVariant indica si el artículo tiene parent_id no nulo.
func (uc *UseCase) IsVariant(ctx context.Context, itemID string) (bool, error) {
	item, err := uc.getItem(itemID)
	if err != nil {
		return false, err
	}
	return item.IsVariant(), nil
}

// GetParent devuelve el padre del artículo, o nil si no es variante.
func (uc *UseCase) GetParent(ctx context.Context, itemID string) (*entity.Item, error) {
	item, err := uc.getItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.ParentID == nil {
		return nil, nil
	}
	return uc.getItem(*item.ParentID)
}

// GetVariants devuelve todas las variantes directas del artículo
// (colección vacía si no tiene).
func (uc *UseCase) GetVariants(ctx context.Context, itemID string) ([]*entity.Item, error) {
	return uc.itemRepo.ListByParent(itemID)
}

// GetTotalVariantStock suma el stock total de todas las variantes del artículo.
// El stock directo de un padre siempre es cero, así que el stock organizacional
// de una familia de productos se obtiene solo con esta agregación.
func (uc *UseCase) GetTotalVariantStock(ctx context.Context, itemID string) (decimal.Decimal, error) {
	variants, err := uc.itemRepo.ListByParent(itemID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, v := range variants {
		sum, err := uc.stockRepo.SumByItem(v.ID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(sum)
	}
	return total, nil
}

func (uc *UseCase) getItem(id string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}
