package item

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/sku"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/identity"
	"github.com/jhoicas/inventario-ledger/pkg/validator"
)

// UseCase gestiona el ciclo de vida de artículos: creación con generación
// automática de SKU (si skus_enabled) y búsqueda por SKU.
type UseCase struct {
	cfg          config.InventoryConfig
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	identity     identity.Resolver
}

// NewUseCase construye el caso de uso.
func NewUseCase(cfg config.InventoryConfig, itemRepo repository.ItemRepository, categoryRepo repository.CategoryRepository, resolver identity.Resolver) *UseCase {
	return &UseCase{cfg: cfg, itemRepo: itemRepo, categoryRepo: categoryRepo, identity: resolver}
}

// CreateItemInput entrada para crear un artículo.
type CreateItemInput struct {
	SKU         string
	Name        string `validate:"required"`
	Description string
	CategoryID  *string
	MetricID    *string
}

// Create persiste un artículo nuevo. Si skus_enabled está activo y no se indicó
// SKU, se genera uno con el prefijo de la categoría y el siguiente número de la
// secuencia.
func (uc *UseCase) Create(ctx context.Context, input CreateItemInput) (*entity.Item, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, domain.ErrInvalidInput
	}

	code := input.SKU
	if code == "" && uc.cfg.SkusEnabled {
		generated, err := uc.generateSku(input.CategoryID)
		if err != nil {
			return nil, err
		}
		code = generated
	}

	var createdBy *string
	if uc.identity != nil {
		if id, ok := uc.identity.Resolve(ctx); ok {
			createdBy = &id
		} else if !uc.cfg.AllowNoUser {
			return nil, domain.ErrNoActorResolved
		}
	}

	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		SKU:         code,
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		MetricID:    input.MetricID,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// FindBySku devuelve el artículo con el SKU indicado o ErrNotFound.
func (uc *UseCase) FindBySku(ctx context.Context, code string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetBySku(code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// GetByID devuelve el artículo o ErrNotFound.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (uc *UseCase) generateSku(categoryID *string) (string, error) {
	categoryName := ""
	if categoryID != nil {
		category, err := uc.categoryRepo.GetByID(*categoryID)
		if err != nil {
			return "", err
		}
		if category != nil {
			categoryName = category.Name
		}
	}
	number, err := uc.itemRepo.NextSkuNumber()
	if err != nil {
		return "", err
	}
	opts := sku.Options{
		PrefixLength: uc.cfg.SkuPrefixLength,
		CodeLength:   uc.cfg.SkuCodeLength,
		Separator:    uc.cfg.SkuSeparator,
	}
	return sku.Generate(opts, categoryName, number), nil
}
