package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/identity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store     *memory.Store
	uc        *ledger.StockUseCase
	bus       *events.Bus
	itemRepo  *memory.ItemRepo
	locRepo   *memory.LocationRepo
	stockRepo *memory.StockRepo
	movRepo   *memory.MovementRepo
	histRepo  *memory.TransactionHistoryRepo
}

// newFixture arma el caso de uso completo sobre los adaptadores en memoria.
func newFixture(t *testing.T, cfg config.InventoryConfig) *fixture {
	t.Helper()
	store := memory.NewStore()
	bus := events.NewBus(nil)
	itemRepo := memory.NewItemRepository(store)
	locRepo := memory.NewLocationRepository(store)
	stockRepo := memory.NewStockRepository(store)
	uc := ledger.NewStockUseCase(
		cfg,
		memory.NewTxRunner(store),
		itemRepo,
		locRepo,
		stockRepo,
		identity.ContextResolver{},
		bus,
		logger.Nop(),
	)
	return &fixture{
		store:     store,
		uc:        uc,
		bus:       bus,
		itemRepo:  itemRepo,
		locRepo:   locRepo,
		stockRepo: stockRepo,
		movRepo:   memory.NewMovementRepository(store),
		histRepo:  memory.NewTransactionHistoryRepository(store),
	}
}

func (f *fixture) newItem(t *testing.T, name string) *entity.Item {
	t.Helper()
	item := &entity.Item{Name: name}
	require.NoError(t, f.itemRepo.Create(item), "debe crearse el artículo")
	return item
}

func (f *fixture) newLocation(t *testing.T, name string) *entity.Location {
	t.Helper()
	loc := &entity.Location{Name: name}
	require.NoError(t, f.locRepo.Create(loc), "debe crearse la ubicación")
	return loc
}

func (f *fixture) newStock(t *testing.T, item *entity.Item, loc *entity.Location, qty int64) *entity.StockRecord {
	t.Helper()
	stock, _, err := f.uc.CreateStockOnLocation(context.Background(), ledger.CreateStockInput{
		ItemID:     item.ID,
		LocationID: loc.ID,
		Quantity:   decimal.NewFromInt(qty),
	})
	require.NoError(t, err, "debe crearse el stock")
	return stock
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Creación de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateStockOnLocation_CantidadInicialGeneraMovimientoAdded(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")

	stock, mov, err := f.uc.CreateStockOnLocation(context.Background(), ledger.CreateStockInput{
		ItemID:     cola.ID,
		LocationID: bodega.ID,
		Quantity:   qty(10),
		Reason:     "carga inicial",
	})
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(qty(10)), "el stock debe quedar en 10")
	assert.Equal(t, entity.MovementStateAdded, mov.State)
	assert.True(t, mov.Before.IsZero(), "before debe ser 0")
	assert.True(t, mov.After.Equal(qty(10)), "after debe ser 10")
}

func TestCreateStockOnLocation_CantidadCeroGeneraMovimientoCreated(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")

	stock, mov, err := f.uc.CreateStockOnLocation(context.Background(), ledger.CreateStockInput{
		ItemID:     cola.ID,
		LocationID: bodega.ID,
		Quantity:   decimal.Zero,
	})
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero())
	assert.Equal(t, entity.MovementStateCreated, mov.State)
}

func TestCreateStockOnLocation_ParYaExistenteFalla(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	f.newStock(t, cola, bodega, 5)

	_, _, err := f.uc.CreateStockOnLocation(context.Background(), ledger.CreateStockInput{
		ItemID:     cola.ID,
		LocationID: bodega.ID,
		Quantity:   qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrStockAlreadyExists)
}

func TestCreateStockOnLocation_ArticuloPadreFalla(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	padre := &entity.Item{Name: "Coca Cola", IsParent: true}
	require.NoError(t, f.itemRepo.Create(padre))
	bodega := f.newLocation(t, "Bodega")

	_, _, err := f.uc.CreateStockOnLocation(context.Background(), ledger.CreateStockInput{
		ItemID:     padre.ID,
		LocationID: bodega.ID,
		Quantity:   qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrIsParentViolation, "un padre no puede tener stock directo")
}

func TestNewStockOnLocation_DevuelveRegistroSinPersistir(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")

	prepared, err := f.uc.NewStockOnLocation(context.Background(), cola.ID, bodega.ID)
	require.NoError(t, err)
	assert.True(t, prepared.Quantity.IsZero())

	persisted, err := f.stockRepo.Get(cola.ID, bodega.ID)
	require.NoError(t, err)
	assert.Nil(t, persisted, "el registro preparado no debe persistirse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Put / Take / Set
// ──────────────────────────────────────────────────────────────────────────────

func TestPutYTake_DeltasOpuestosRestauranLaCantidad(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	put, err := f.uc.Put(ctx, stock.ID, qty(5), "reposición", qty(2))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateAdded, put.State)
	assert.True(t, put.Delta().Equal(qty(5)))

	take, err := f.uc.Take(ctx, stock.ID, qty(5), "pedido")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateRemoved, take.State)
	assert.True(t, take.Delta().Equal(qty(-5)), "los deltas deben ser opuestos")

	current, err := f.stockRepo.GetByID(stock.ID)
	require.NoError(t, err)
	assert.True(t, current.Quantity.Equal(qty(10)), "la cantidad debe volver a 10")
}

func TestTake_CantidadInsuficienteNoModificaElStock(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)

	_, err := f.uc.Take(context.Background(), stock.ID, qty(15), "pedido")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	current, err := f.stockRepo.GetByID(stock.ID)
	require.NoError(t, err)
	assert.True(t, current.Quantity.Equal(qty(10)), "un take fallido no debe tocar la cantidad")
}

func TestTake_ConRollbackCostNiegaElUltimoCostoPositivo(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	_, err := f.uc.Put(ctx, stock.ID, qty(5), "reposición", decimal.NewFromFloat(5.50))
	require.NoError(t, err)

	take, err := f.uc.Take(ctx, stock.ID, qty(3), "pedido")
	require.NoError(t, err)
	assert.True(t, take.Cost.Equal(decimal.NewFromFloat(-5.50)), "el costo debe ser el último positivo negado")
}

func TestPut_CantidadNoPositivaFalla(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)

	_, err := f.uc.Put(context.Background(), stock.ID, decimal.Zero, "", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Take(context.Background(), stock.ID, qty(-1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSet_ProduceElEstadoSegunElDelta(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	up, err := f.uc.Set(ctx, stock.ID, qty(15), "conteo", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateAdded, up.State)

	down, err := f.uc.Set(ctx, stock.ID, qty(4), "conteo", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateRemoved, down.State)

	same, err := f.uc.Set(ctx, stock.ID, qty(4), "conteo", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateNoChange, same.State)
	assert.True(t, same.Delta().IsZero())
}

func TestSet_SinCambioFallaSiLosDuplicadosEstanProhibidos(t *testing.T) {
	cfg := config.DefaultInventory()
	cfg.AllowDuplicateMovements = false
	f := newFixture(t, cfg)
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)

	_, err := f.uc.Set(context.Background(), stock.ID, qty(10), "conteo", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrDuplicateMovement)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestMoveTo_ConservaLaCantidadYEnlazaLosMovimientos(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	estante := f.newLocation(t, "Estante 3")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	fromMov, toMov, err := f.uc.MoveTo(ctx, stock.ID, estante.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.MovementStateMovedFrom, fromMov.State)
	assert.Equal(t, entity.MovementStateMovedTo, toMov.State)
	require.NotNil(t, fromMov.RelatedMovementID)
	require.NotNil(t, toMov.RelatedMovementID)
	assert.Equal(t, toMov.ID, *fromMov.RelatedMovementID, "los movimientos deben referenciarse entre sí")
	assert.Equal(t, fromMov.ID, *toMov.RelatedMovementID)

	source, err := f.stockRepo.GetByID(stock.ID)
	require.NoError(t, err)
	assert.True(t, source.Quantity.IsZero(), "el origen debe quedar en cero")

	dest, err := f.stockRepo.Get(cola.ID, estante.ID)
	require.NoError(t, err)
	require.NotNil(t, dest, "el destino debe crearse si no existía")
	assert.True(t, dest.Quantity.Equal(qty(10)), "la cantidad se conserva")

	total, err := f.uc.GetTotalStock(ctx, cola.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(qty(10)), "el total del artículo no cambia con un traslado")
}

func TestMoveTo_LasRazonesUsanNombresDeUbicacion(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	estante := f.newLocation(t, "Estante 3")
	stock := f.newStock(t, cola, bodega, 10)

	fromMov, toMov, err := f.uc.MoveTo(context.Background(), stock.ID, estante.ID)
	require.NoError(t, err)
	assert.Equal(t, "Moved to location Estante 3", fromMov.Reason)
	assert.Equal(t, "Moved from location Bodega", toMov.Reason, "ambas razones usan el nombre, no el id")
}

func TestMoveTo_DestinoExistenteAcumula(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	estante := f.newLocation(t, "Estante 3")
	source := f.newStock(t, cola, bodega, 10)
	f.newStock(t, cola, estante, 4)

	_, toMov, err := f.uc.MoveTo(context.Background(), source.ID, estante.ID)
	require.NoError(t, err)
	assert.True(t, toMov.Before.Equal(qty(4)))
	assert.True(t, toMov.After.Equal(qty(14)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Rollback
// ──────────────────────────────────────────────────────────────────────────────

func TestRollback_RevierteElDeltaYNiegaElCosto(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	put, err := f.uc.Put(ctx, stock.ID, qty(5), "reposición", decimal.NewFromFloat(2.25))
	require.NoError(t, err)

	rb, err := f.uc.Rollback(ctx, put.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateRemoved, rb.State, "revertir un added produce un removed")
	assert.True(t, rb.Delta().Equal(qty(-5)))
	assert.True(t, rb.Cost.Equal(decimal.NewFromFloat(-2.25)), "el costo del original debe negarse")
	require.NotNil(t, rb.RollbackOfID)
	assert.Equal(t, put.ID, *rb.RollbackOfID)

	current, err := f.stockRepo.GetByID(stock.ID)
	require.NoError(t, err)
	assert.True(t, current.Quantity.Equal(qty(10)))
}

func TestRollback_DobleRollbackFalla(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	put, err := f.uc.Put(ctx, stock.ID, qty(5), "", decimal.Zero)
	require.NoError(t, err)

	_, err = f.uc.Rollback(ctx, put.ID)
	require.NoError(t, err)
	_, err = f.uc.Rollback(ctx, put.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyRolledBack)
}

func TestRollback_MovimientoInexistenteFalla(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	_, err := f.uc.Rollback(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRollback_QueDejariaCantidadNegativaFalla(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	put, err := f.uc.Put(ctx, stock.ID, qty(5), "", decimal.Zero)
	require.NoError(t, err)
	_, err = f.uc.Take(ctx, stock.ID, qty(14), "")
	require.NoError(t, err)

	// Revertir el put de 5 dejaría 1 - 5 < 0
	_, err = f.uc.Rollback(ctx, put.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial y auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestWriteMovement_RegistraHistorialConEstadoAnterior(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	put, err := f.uc.Put(ctx, stock.ID, qty(5), "reposición", decimal.Zero)
	require.NoError(t, err)

	hists, err := f.histRepo.ListByMovement(put.ID)
	require.NoError(t, err)
	require.Len(t, hists, 1)
	h := hists[0]
	assert.Equal(t, entity.MovementStateAdded, h.StateBefore, "el estado anterior es el del último movimiento")
	assert.Equal(t, entity.MovementStateAdded, h.StateAfter)
	assert.True(t, h.QuantityBefore.Equal(qty(10)))
	assert.True(t, h.QuantityAfter.Equal(qty(15)))
}

func TestListByStock_DevuelveElMasRecientePrimero(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	_, err := f.uc.Put(ctx, stock.ID, qty(1), "a", decimal.Zero)
	require.NoError(t, err)
	take, err := f.uc.Take(ctx, stock.ID, qty(2), "b")
	require.NoError(t, err)

	movs, err := f.movRepo.ListByStock(stock.ID, 1, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, take.ID, movs[0].ID)
}

func TestListByStock_LimiteCeroDevuelveTodo(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	_, err := f.uc.Put(ctx, stock.ID, qty(1), "a", decimal.Zero)
	require.NoError(t, err)
	_, err = f.uc.Take(ctx, stock.ID, qty(2), "b")
	require.NoError(t, err)

	// limit <= 0 significa sin límite
	movs, err := f.movRepo.ListByStock(stock.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 3, "creación, put y take")
}

// ──────────────────────────────────────────────────────────────────────────────
// Actor y eventos
// ──────────────────────────────────────────────────────────────────────────────

func TestResolucionDeActor_SinUsuarioFallaSiNoEstaPermitido(t *testing.T) {
	cfg := config.DefaultInventory()
	cfg.AllowNoUser = false
	f := newFixture(t, cfg)
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")

	_, _, err := f.uc.CreateStockOnLocation(context.Background(), ledger.CreateStockInput{
		ItemID:     cola.ID,
		LocationID: bodega.ID,
		Quantity:   qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrNoActorResolved)
}

func TestResolucionDeActor_ConActorEnContextoSeAtribuye(t *testing.T) {
	cfg := config.DefaultInventory()
	cfg.AllowNoUser = false
	f := newFixture(t, cfg)
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	ctx := identity.WithActor(context.Background(), "00000000-0000-0000-0000-000000000001")

	_, mov, err := f.uc.CreateStockOnLocation(ctx, ledger.CreateStockInput{
		ItemID:     cola.ID,
		LocationID: bodega.ID,
		Quantity:   qty(1),
	})
	require.NoError(t, err)
	require.NotNil(t, mov.UserID)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", *mov.UserID)
}

func TestEventos_SePublicanTrasCadaOperacion(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	estante := f.newLocation(t, "Estante 3")
	stock := f.newStock(t, cola, bodega, 10)
	ctx := context.Background()

	_, err := f.uc.Put(ctx, stock.ID, qty(1), "", decimal.Zero)
	require.NoError(t, err)
	_, _, err = f.uc.MoveTo(ctx, stock.ID, estante.ID)
	require.NoError(t, err)

	var names []string
	for _, ev := range f.bus.Published() {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{
		"inventory.stock.created",
		"inventory.stock.added",
		"inventory.stock.moved",
	}, names)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas por ubicación
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStockFromLocation_SinRegistroFalla(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")

	_, err := f.uc.GetStockFromLocation(context.Background(), cola.ID, bodega.ID)
	assert.ErrorIs(t, err, domain.ErrStockNotFound)
}

func TestPutToLocations_AplicaSobreVariasUbicaciones(t *testing.T) {
	f := newFixture(t, config.DefaultInventory())
	cola := f.newItem(t, "Coca Cola")
	bodega := f.newLocation(t, "Bodega")
	estante := f.newLocation(t, "Estante 3")
	f.newStock(t, cola, bodega, 10)
	f.newStock(t, cola, estante, 0)
	ctx := context.Background()

	movs, err := f.uc.PutToLocations(ctx, cola.ID, []string{bodega.ID, estante.ID}, qty(2), "", decimal.Zero)
	require.NoError(t, err)
	assert.Len(t, movs, 2)

	total, err := f.uc.GetTotalStock(ctx, cola.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(qty(14)))

	movs, err = f.uc.TakeFromLocations(ctx, cola.ID, []string{bodega.ID, estante.ID}, qty(2), "")
	require.NoError(t, err)
	assert.Len(t, movs, 2)

	total, err = f.uc.GetTotalStock(ctx, cola.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(qty(10)))
}
