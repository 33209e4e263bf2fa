package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/identity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/jhoicas/inventario-ledger/pkg/validator"
)

// StockUseCase opera el libro de movimientos de stock de forma transaccional:
// cada operación (crear stock, put, take, set, traslado, rollback) es una unidad
// de trabajo todo-o-nada; junto a cada cambio de cantidad se escriben un
// movimiento inmutable y una entrada de historial.
type StockUseCase struct {
	cfg          config.InventoryConfig
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	stockRepo    repository.StockRepository
	identity     identity.Resolver
	events       ports.EventBus
	log          *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	cfg config.InventoryConfig,
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	stockRepo repository.StockRepository,
	resolver identity.Resolver,
	events ports.EventBus,
	log *logger.Logger,
) *StockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{
		cfg:          cfg,
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		stockRepo:    stockRepo,
		identity:     resolver,
		events:       events,
		log:          log,
	}
}

// CreateStockInput entrada para crear stock de un artículo en una ubicación.
type CreateStockInput struct {
	ItemID     string          `validate:"required,uuid_str"`
	LocationID string          `validate:"required,uuid_str"`
	Quantity   decimal.Decimal `validate:"dec_gte0"`
	Reason     string
	Cost       decimal.Decimal
	Aisle      *string
	Row        *string
	Bin        *string
}

// CreateStockOnLocation crea un registro de stock con cantidad cero y aplica de
// inmediato un put de la cantidad inicial, produciendo un único movimiento
// (estado "created" si la cantidad es 0, "added" en otro caso).
// Falla con ErrStockAlreadyExists si el par (artículo, ubicación) ya tiene stock
// y con ErrIsParentViolation si el artículo es padre.
func (uc *StockUseCase) CreateStockOnLocation(ctx context.Context, input CreateStockInput) (*entity.StockRecord, *entity.Movement, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, nil, domain.ErrInvalidInput
	}

	item, err := uc.getItem(input.ItemID)
	if err != nil {
		return nil, nil, err
	}
	// El chequeo de padre va antes que cualquier otro
	if item.IsParent {
		return nil, nil, domain.ErrIsParentViolation
	}
	location, err := uc.getLocation(input.LocationID)
	if err != nil {
		return nil, nil, err
	}
	actor, err := uc.resolveActor(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	var stock *entity.StockRecord
	var mov *entity.Movement

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		histRepo repository.TransactionHistoryRepository,
	) error {
		// Sondear ausencia: un registro existente es ErrStockAlreadyExists.
		// Bajo escritores concurrentes la clave única (item, ubicación) del
		// almacén convierte la carrera en el mismo error.
		existing, err := stockRepo.Get(item.ID, location.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrStockAlreadyExists
		}

		stock = &entity.StockRecord{
			ID:         uuid.New().String(),
			ItemID:     item.ID,
			LocationID: location.ID,
			Quantity:   decimal.Zero,
			Aisle:      input.Aisle,
			Row:        input.Row,
			Bin:        input.Bin,
			CreatedBy:  actor,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := stockRepo.Create(stock); err != nil {
			return err
		}

		state := entity.MovementStateAdded
		if input.Quantity.IsZero() {
			state = entity.MovementStateCreated
		}
		mov, err = uc.writeMovement(movRepo, histRepo, stock, writeMovementInput{
			before: decimal.Zero,
			after:  input.Quantity,
			cost:   input.Cost,
			reason: input.Reason,
			state:  state,
			actor:  actor,
			now:    now,
		})
		if err != nil {
			return err
		}
		return stockRepo.Update(stock)
	})
	if err != nil {
		return nil, nil, err
	}

	uc.log.Debug().
		Str("item_id", item.ID).
		Str("location_id", location.ID).
		Str("quantity", input.Quantity.String()).
		Msg("stock creado en ubicación")
	uc.publish("inventory.stock.created", map[string]string{
		"item_id":     item.ID,
		"location_id": location.ID,
		"stock_id":    stock.ID,
	})
	return stock, mov, nil
}

// NewStockOnLocation sondea el par (artículo, ubicación) y devuelve un registro
// de stock preparado (sin persistir) cuando no existe. Falla con
// ErrStockAlreadyExists si ya hay stock y con ErrIsParentViolation si el
// artículo es padre.
func (uc *StockUseCase) NewStockOnLocation(ctx context.Context, itemID, locationID string) (*entity.StockRecord, error) {
	item, err := uc.getItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.IsParent {
		return nil, domain.ErrIsParentViolation
	}
	location, err := uc.getLocation(locationID)
	if err != nil {
		return nil, err
	}
	existing, err := uc.stockRepo.Get(item.ID, location.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrStockAlreadyExists
	}
	return &entity.StockRecord{
		ID:         uuid.New().String(),
		ItemID:     item.ID,
		LocationID: location.ID,
		Quantity:   decimal.Zero,
	}, nil
}

// Put suma quantity (> 0) al registro de stock y escribe un movimiento "added"
// con el costo indicado.
func (uc *StockUseCase) Put(ctx context.Context, stockID string, quantity decimal.Decimal, reason string, cost decimal.Decimal) (*entity.Movement, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	actor, err := uc.resolveActor(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var mov *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		histRepo repository.TransactionHistoryRepository,
	) error {
		stock, err := uc.getStockForWrite(stockRepo, stockID)
		if err != nil {
			return err
		}
		mov, err = uc.writeMovement(movRepo, histRepo, stock, writeMovementInput{
			before: stock.Quantity,
			after:  stock.Quantity.Add(quantity),
			cost:   cost,
			reason: reason,
			state:  entity.MovementStateAdded,
			actor:  actor,
			now:    now,
		})
		if err != nil {
			return err
		}
		return stockRepo.Update(stock)
	})
	if err != nil {
		return nil, err
	}

	uc.publish("inventory.stock.added", map[string]string{"stock_id": stockID, "quantity": quantity.String()})
	return mov, nil
}

// Take resta quantity (> 0 y <= cantidad actual) del registro de stock y escribe
// un movimiento "removed". El costo del movimiento es el negativo del último
// costo positivo registrado para el stock cuando rollback_cost está activo.
func (uc *StockUseCase) Take(ctx context.Context, stockID string, quantity decimal.Decimal, reason string) (*entity.Movement, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	actor, err := uc.resolveActor(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var mov *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		histRepo repository.TransactionHistoryRepository,
	) error {
		stock, err := uc.getStockForWrite(stockRepo, stockID)
		if err != nil {
			return err
		}
		if stock.Quantity.LessThan(quantity) {
			return domain.ErrInsufficientStock
		}

		cost := decimal.Zero
		if uc.cfg.RollbackCost {
			lastCost, err := movRepo.LastCostForStock(stock.ID)
			if err != nil {
				return err
			}
			cost = lastCost.Neg()
		}
		mov, err = uc.writeMovement(movRepo, histRepo, stock, writeMovementInput{
			before: stock.Quantity,
			after:  stock.Quantity.Sub(quantity),
			cost:   cost,
			reason: reason,
			state:  entity.MovementStateRemoved,
			actor:  actor,
			now:    now,
		})
		if err != nil {
			return err
		}
		return stockRepo.Update(stock)
	})
	if err != nil {
		return nil, err
	}

	uc.publish("inventory.stock.removed", map[string]string{"stock_id": stockID, "quantity": quantity.String()})
	return mov, nil
}

// Set ajusta el stock a una cantidad absoluta (>= 0). Produce un movimiento
// "added", "removed" o "no_change" según el signo del delta; el caso sin cambio
// solo se permite con allow_duplicate_movements activo.
func (uc *StockUseCase) Set(ctx context.Context, stockID string, quantity decimal.Decimal, reason string, cost decimal.Decimal) (*entity.Movement, error) {
	if quantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	actor, err := uc.resolveActor(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var mov *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		histRepo repository.TransactionHistoryRepository,
	) error {
		stock, err := uc.getStockForWrite(stockRepo, stockID)
		if err != nil {
			return err
		}

		state := entity.MovementStateAdded
		switch {
		case quantity.Equal(stock.Quantity):
			if !uc.cfg.AllowDuplicateMovements {
				return domain.ErrDuplicateMovement
			}
			state = entity.MovementStateNoChange
		case quantity.LessThan(stock.Quantity):
			state = entity.MovementStateRemoved
		}
		mov, err = uc.writeMovement(movRepo, histRepo, stock, writeMovementInput{
			before: stock.Quantity,
			after:  quantity,
			cost:   cost,
			reason: reason,
			state:  state,
			actor:  actor,
			now:    now,
		})
		if err != nil {
			return err
		}
		return stockRepo.Update(stock)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// MoveTo traslada la cantidad completa del stock a otra ubicación: take implícito
// en el origen ("moved_from") y put de la misma cantidad en el destino
// ("moved_to"), creando el registro destino si no existe. Ambos movimientos se
// referencian entre sí para enlace de auditoría.
func (uc *StockUseCase) MoveTo(ctx context.Context, stockID, destLocationID string) (*entity.Movement, *entity.Movement, error) {
	destLocation, err := uc.getLocation(destLocationID)
	if err != nil {
		return nil, nil, err
	}
	actor, err := uc.resolveActor(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	var fromMov, toMov *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		histRepo repository.TransactionHistoryRepository,
	) error {
		source, err := uc.getStockForWrite(stockRepo, stockID)
		if err != nil {
			return err
		}
		quantity := source.Quantity
		if quantity.IsZero() && !uc.cfg.AllowDuplicateMovements {
			return domain.ErrDuplicateMovement
		}
		sourceLocation, err := uc.getLocation(source.LocationID)
		if err != nil {
			return err
		}

		dest, err := stockRepo.GetForUpdate(source.ItemID, destLocation.ID)
		if err != nil {
			return err
		}
		if dest == nil {
			dest = &entity.StockRecord{
				ID:         uuid.New().String(),
				ItemID:     source.ItemID,
				LocationID: destLocation.ID,
				Quantity:   decimal.Zero,
				CreatedBy:  actor,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := stockRepo.Create(dest); err != nil {
				return err
			}
		}

		fromMov, err = uc.writeMovement(movRepo, histRepo, source, writeMovementInput{
			before: quantity,
			after:  decimal.Zero,
			reason: "Moved to location " + destLocation.Name,
			state:  entity.MovementStateMovedFrom,
			actor:  actor,
			now:    now,
		})
		if err != nil {
			return err
		}
		toMov, err = uc.writeMovement(movRepo, histRepo, dest, writeMovementInput{
			before:  dest.Quantity,
			after:   dest.Quantity.Add(quantity),
			reason:  "Moved from location " + sourceLocation.Name,
			state:   entity.MovementStateMovedTo,
			actor:   actor,
			now:     now,
			related: &fromMov.ID,
		})
		if err != nil {
			return err
		}
		// Enlace inverso: el id del movimiento destino no existe al insertar el
		// de origen, se completa dentro de la misma transacción.
		if err := movRepo.SetRelated(fromMov.ID, toMov.ID); err != nil {
			return err
		}
		fromMov.RelatedMovementID = &toMov.ID

		if err := stockRepo.Update(source); err != nil {
			return err
		}
		return stockRepo.Update(dest)
	})
	if err != nil {
		return nil, nil, err
	}

	uc.publish("inventory.stock.moved", map[string]string{
		"stock_id":    stockID,
		"location_id": destLocation.ID,
	})
	return fromMov, toMov, nil
}

// Rollback crea un movimiento compensatorio que revierte el delta de cantidad
// del movimiento referenciado y, con rollback_cost activo, niega su costo.
// Falla con ErrAlreadyRolledBack si ya fue revertido y con ErrNotFound si el
// movimiento no existe.
func (uc *StockUseCase) Rollback(ctx context.Context, movementID string) (*entity.Movement, error) {
	actor, err := uc.resolveActor(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var mov *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		histRepo repository.TransactionHistoryRepository,
	) error {
		original, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrNotFound
		}
		rolled, err := movRepo.GetRollbackOf(original.ID)
		if err != nil {
			return err
		}
		if rolled != nil {
			return domain.ErrAlreadyRolledBack
		}

		stock, err := uc.getStockForWrite(stockRepo, original.StockID)
		if err != nil {
			return err
		}
		delta := original.Delta()
		after := stock.Quantity.Sub(delta)
		if after.LessThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}

		state := entity.MovementStateNoChange
		switch {
		case delta.GreaterThan(decimal.Zero):
			state = entity.MovementStateRemoved
		case delta.LessThan(decimal.Zero):
			state = entity.MovementStateAdded
		}
		cost := decimal.Zero
		if uc.cfg.RollbackCost {
			cost = original.Cost.Neg()
		}
		mov, err = uc.writeMovement(movRepo, histRepo, stock, writeMovementInput{
			before:     stock.Quantity,
			after:      after,
			cost:       cost,
			reason:     "Rolled back movement " + original.ID,
			state:      state,
			actor:      actor,
			now:        now,
			rollbackOf: &original.ID,
		})
		if err != nil {
			return err
		}
		return stockRepo.Update(stock)
	})
	if err != nil {
		return nil, err
	}

	uc.publish("inventory.stock.rolled_back", map[string]string{"movement_id": movementID})
	return mov, nil
}

// GetStockFromLocation resuelve el registro de stock del artículo en la
// ubicación. Falla con ErrStockNotFound cuando no existe: los callers que
// necesitan semántica de creación condicional sondean primero con este error.
func (uc *StockUseCase) GetStockFromLocation(ctx context.Context, itemID, locationID string) (*entity.StockRecord, error) {
	location, err := uc.getLocation(locationID)
	if err != nil {
		return nil, err
	}
	stock, err := uc.stockRepo.Get(itemID, location.ID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrStockNotFound
	}
	return stock, nil
}

// GetTotalStock devuelve la suma de cantidades del artículo en todas sus
// ubicaciones. Para un padre siempre es cero: el stock solo vive en las hojas.
func (uc *StockUseCase) GetTotalStock(ctx context.Context, itemID string) (decimal.Decimal, error) {
	return uc.stockRepo.SumByItem(itemID)
}

// PutToLocation suma cantidad al stock del artículo en la ubicación indicada.
func (uc *StockUseCase) PutToLocation(ctx context.Context, itemID, locationID string, quantity decimal.Decimal, reason string, cost decimal.Decimal) (*entity.Movement, error) {
	stock, err := uc.GetStockFromLocation(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}
	return uc.Put(ctx, stock.ID, quantity, reason, cost)
}

// PutToLocations aplica PutToLocation sobre varias ubicaciones.
func (uc *StockUseCase) PutToLocations(ctx context.Context, itemID string, locationIDs []string, quantity decimal.Decimal, reason string, cost decimal.Decimal) ([]*entity.Movement, error) {
	movs := make([]*entity.Movement, 0, len(locationIDs))
	for _, locationID := range locationIDs {
		mov, err := uc.PutToLocation(ctx, itemID, locationID, quantity, reason, cost)
		if err != nil {
			return movs, err
		}
		movs = append(movs, mov)
	}
	return movs, nil
}

// TakeFromLocation resta cantidad del stock del artículo en la ubicación indicada.
func (uc *StockUseCase) TakeFromLocation(ctx context.Context, itemID, locationID string, quantity decimal.Decimal, reason string) (*entity.Movement, error) {
	stock, err := uc.GetStockFromLocation(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}
	return uc.Take(ctx, stock.ID, quantity, reason)
}

// TakeFromLocations aplica TakeFromLocation sobre varias ubicaciones.
func (uc *StockUseCase) TakeFromLocations(ctx context.Context, itemID string, locationIDs []string, quantity decimal.Decimal, reason string) ([]*entity.Movement, error) {
	movs := make([]*entity.Movement, 0, len(locationIDs))
	for _, locationID := range locationIDs {
		mov, err := uc.TakeFromLocation(ctx, itemID, locationID, quantity, reason)
		if err != nil {
			return movs, err
		}
		movs = append(movs, mov)
	}
	return movs, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type writeMovementInput struct {
	before     decimal.Decimal
	after      decimal.Decimal
	cost       decimal.Decimal
	reason     string
	state      string
	actor      *string
	now        time.Time
	related    *string
	rollbackOf *string
}

// writeMovement escribe el movimiento y su entrada de historial, y actualiza la
// cantidad del stock en memoria (el caller persiste el stock).
func (uc *StockUseCase) writeMovement(
	movRepo repository.MovementRepository,
	histRepo repository.TransactionHistoryRepository,
	stock *entity.StockRecord,
	in writeMovementInput,
) (*entity.Movement, error) {
	stateBefore := ""
	last, err := movRepo.ListByStock(stock.ID, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(last) > 0 {
		stateBefore = last[0].State
	}

	mov := &entity.Movement{
		ID:                uuid.New().String(),
		StockID:           stock.ID,
		UserID:            in.actor,
		Before:            in.before,
		After:             in.after,
		Cost:              in.cost,
		Reason:            in.reason,
		State:             in.state,
		RelatedMovementID: in.related,
		RollbackOfID:      in.rollbackOf,
		CreatedAt:         in.now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}

	hist := &entity.TransactionHistory{
		ID:             uuid.New().String(),
		MovementID:     mov.ID,
		UserID:         in.actor,
		StateBefore:    stateBefore,
		StateAfter:     in.state,
		QuantityBefore: in.before,
		QuantityAfter:  in.after,
		CreatedAt:      in.now,
	}
	if err := histRepo.Create(hist); err != nil {
		return nil, err
	}

	stock.Quantity = in.after
	stock.UpdatedAt = in.now
	return mov, nil
}

// getStockForWrite carga y bloquea el stock por id, verificando que el artículo
// no sea padre antes de cualquier otra comprobación.
func (uc *StockUseCase) getStockForWrite(stockRepo repository.StockRepository, stockID string) (*entity.StockRecord, error) {
	stock, err := stockRepo.GetByID(stockID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrStockNotFound
	}
	item, err := uc.itemRepo.GetByID(stock.ItemID)
	if err != nil {
		return nil, err
	}
	if item != nil && item.IsParent {
		return nil, domain.ErrIsParentViolation
	}
	// Re-leer con bloqueo de fila para el resto de la transacción
	locked, err := stockRepo.GetForUpdate(stock.ItemID, stock.LocationID)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, domain.ErrStockNotFound
	}
	return locked, nil
}

func (uc *StockUseCase) getItem(id string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (uc *StockUseCase) getLocation(id string) (*entity.Location, error) {
	location, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrInvalidLocation
	}
	return location, nil
}

// resolveActor obtiene el usuario responsable; sin usuario y con allow_no_user
// desactivado la operación falla con ErrNoActorResolved.
func (uc *StockUseCase) resolveActor(ctx context.Context) (*string, error) {
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

func (uc *StockUseCase) publish(name string, payload map[string]string) {
	if uc.events == nil {
		return
	}
	uc.events.Publish(ports.Event{Name: name, At: time.Now(), Payload: payload})
}
