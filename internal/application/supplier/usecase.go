package supplier

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/identity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// TxRunner ejecuta una función con los repositorios de proveedores atados a una
// transacción.
type TxRunner interface {
	RunSuppliers(ctx context.Context, fn func(
		supplierRepo repository.SupplierRepository,
		skuRepo repository.SupplierSkuRepository,
	) error) error
}

// UseCase gestiona la asociación artículo-proveedor y el registro de SKUs por
// proveedor. Un padre no puede tener proveedores directos; el detach siempre
// está permitido.
type UseCase struct {
	cfg          config.InventoryConfig
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
	skuRepo      repository.SupplierSkuRepository
	identity     identity.Resolver
	events       ports.EventBus
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	cfg config.InventoryConfig,
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
	skuRepo repository.SupplierSkuRepository,
	resolver identity.Resolver,
	events ports.EventBus,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		cfg:          cfg,
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		skuRepo:      skuRepo,
		identity:     resolver,
		events:       events,
		log:          log,
	}
}

// Resolve acepta un id, un código de proveedor o una referencia a la entidad y
// devuelve el proveedor. Falla con ErrInvalidSupplier si nada resuelve.
func (uc *UseCase) Resolve(ctx context.Context, token any) (*entity.Supplier, error) {
	switch t := token.(type) {
	case *entity.Supplier:
		if t != nil {
			return t, nil
		}
	case string:
		// Solo un uuid puede ser id: contra una columna UUID, consultar por id
		// con un código como "DNORTE" falla el cast en vez de devolver (nil, nil).
		if _, err := uuid.Parse(t); err == nil {
			if sup, err := uc.supplierRepo.GetByID(t); err != nil {
				return nil, err
			} else if sup != nil {
				return sup, nil
			}
		}
		if sup, err := uc.supplierRepo.GetByCode(t); err != nil {
			return nil, err
		} else if sup != nil {
			return sup, nil
		}
	case int:
		return uc.Resolve(ctx, strconv.Itoa(t))
	case int64:
		return uc.Resolve(ctx, strconv.FormatInt(t, 10))
	}
	return nil, domain.ErrInvalidSupplier
}

// AddSupplier asocia el proveedor al artículo, registrando qué actor lo hizo, y
// emite el evento "attached". Falla con ErrIsParentViolation si el artículo es padre.
func (uc *UseCase) AddSupplier(ctx context.Context, itemID string, token any) error {
	item, err := uc.getItem(itemID)
	if err != nil {
		return err
	}
	if item.IsParent {
		return domain.ErrIsParentViolation
	}
	sup, err := uc.Resolve(ctx, token)
	if err != nil {
		return err
	}
	actor, err := uc.resolveActor(ctx)
	if err != nil {
		return err
	}

	err = uc.txRunner.RunSuppliers(ctx, func(
		supplierRepo repository.SupplierRepository,
		_ repository.SupplierSkuRepository,
	) error {
		return supplierRepo.Attach(item.ID, sup.ID, actor)
	})
	if err != nil {
		return err
	}

	uc.publish("inventory.supplier.attached", item.ID, sup.ID)
	return nil
}

// AddSuppliers asocia todos los proveedores indicados al artículo.
func (uc *UseCase) AddSuppliers(ctx context.Context, itemID string, tokens []any) error {
	item, err := uc.getItem(itemID)
	if err != nil {
		return err
	}
	if item.IsParent {
		return domain.ErrIsParentViolation
	}
	for _, token := range tokens {
		if err := uc.AddSupplier(ctx, itemID, token); err != nil {
			return err
		}
	}
	return nil
}

// RemoveSupplier desasocia el proveedor del artículo y emite el evento
// "detached". El detach no tiene chequeo de padre: siempre está permitido.
func (uc *UseCase) RemoveSupplier(ctx context.Context, itemID string, token any) error {
	sup, err := uc.Resolve(ctx, token)
	if err != nil {
		return err
	}
	err = uc.txRunner.RunSuppliers(ctx, func(
		supplierRepo repository.SupplierRepository,
		_ repository.SupplierSkuRepository,
	) error {
		return supplierRepo.Detach(itemID, sup.ID)
	})
	if err != nil {
		return err
	}

	uc.publish("inventory.supplier.detached", itemID, sup.ID)
	return nil
}

// RemoveSuppliers desasocia todos los proveedores indicados del artículo.
func (uc *UseCase) RemoveSuppliers(ctx context.Context, itemID string, tokens []any) error {
	for _, token := range tokens {
		if err := uc.RemoveSupplier(ctx, itemID, token); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAllSuppliers desasocia todos los proveedores actuales del artículo.
func (uc *UseCase) RemoveAllSuppliers(ctx context.Context, itemID string) error {
	suppliers, err := uc.supplierRepo.ListByItem(itemID)
	if err != nil {
		return err
	}
	for _, sup := range suppliers {
		if err := uc.RemoveSupplier(ctx, itemID, sup); err != nil {
			return err
		}
	}
	return nil
}

// ListSuppliers devuelve los proveedores asociados al artículo.
func (uc *UseCase) ListSuppliers(ctx context.Context, itemID string) ([]*entity.Supplier, error) {
	return uc.supplierRepo.ListByItem(itemID)
}

// SetSupplierSku registra (upsert por clave item+proveedor) el código SKU que el
// proveedor usa para el artículo.
func (uc *UseCase) SetSupplierSku(ctx context.Context, itemID string, token any, code string) error {
	if _, err := uc.getItem(itemID); err != nil {
		return err
	}
	sup, err := uc.Resolve(ctx, token)
	if err != nil {
		return err
	}
	return uc.txRunner.RunSuppliers(ctx, func(
		_ repository.SupplierRepository,
		skuRepo repository.SupplierSkuRepository,
	) error {
		return skuRepo.Upsert(&entity.SupplierSku{
			ItemID:     itemID,
			SupplierID: sup.ID,
			Code:       code,
			UpdatedAt:  time.Now(),
		})
	})
}

// GetSupplierSku devuelve el código registrado para el par (artículo, proveedor)
// o ErrNotFound si todavía no existe.
func (uc *UseCase) GetSupplierSku(ctx context.Context, itemID string, token any) (string, error) {
	sup, err := uc.Resolve(ctx, token)
	if err != nil {
		return "", err
	}
	sku, err := uc.skuRepo.Get(itemID, sup.ID)
	if err != nil {
		return "", err
	}
	if sku == nil {
		return "", domain.ErrNotFound
	}
	return sku.Code, nil
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

func (uc *UseCase) resolveActor(ctx context.Context) (*string, error) {
	if uc.identity == nil {
		if uc.cfg.AllowNoUser {
			return nil, nil
		}
		return nil, domain.ErrNoActorResolved
	}
	id, ok := uc.identity.Resolve(ctx)
	if !ok {
		if uc.cfg.AllowNoUser {
			return nil, nil
		}
		return nil, domain.ErrNoActorResolved
	}
	return &id, nil
}

func (uc *UseCase) publish(name, itemID, supplierID string) {
	if uc.events == nil {
		return
	}
	uc.events.Publish(ports.Event{
		Name: name,
		At:   time.Now(),
		Payload: map[string]string{
			"item_id":     itemID,
			"supplier_id": supplierID,
		},
	})
}
