package supplier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/supplier"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/identity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type fixture struct {
	uc      *supplier.UseCase
	bus     *events.Bus
	items   *memory.ItemRepo
	provRep *memory.SupplierRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	provRep := memory.NewSupplierRepository(store)
	bus := events.NewBus(nil)
	uc := supplier.NewUseCase(
		config.DefaultInventory(),
		memory.NewTxRunner(store),
		items,
		provRep,
		memory.NewSupplierSkuRepository(store),
		identity.ContextResolver{},
		bus,
		logger.Nop(),
	)
	return &fixture{uc: uc, bus: bus, items: items, provRep: provRep}
}

func (f *fixture) newItem(t *testing.T, name string) *entity.Item {
	t.Helper()
	item := &entity.Item{Name: name}
	require.NoError(t, f.items.Create(item))
	return item
}

func (f *fixture) newSupplier(t *testing.T, name, code string) *entity.Supplier {
	t.Helper()
	sup := &entity.Supplier{Name: name, Code: code}
	require.NoError(t, f.provRep.Create(sup))
	return sup
}

func TestResolve_AceptaIdCodigoYEntidad(t *testing.T) {
	f := newFixture(t)
	sup := f.newSupplier(t, "Distribuidora Norte", "DNORTE")
	ctx := context.Background()

	byID, err := f.uc.Resolve(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, sup.ID, byID.ID, "debe resolver por id")

	byCode, err := f.uc.Resolve(ctx, "DNORTE")
	require.NoError(t, err)
	assert.Equal(t, sup.ID, byCode.ID, "debe resolver por código")

	byEntity, err := f.uc.Resolve(ctx, sup)
	require.NoError(t, err)
	assert.Equal(t, sup.ID, byEntity.ID, "debe resolver por entidad")

	_, err = f.uc.Resolve(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrInvalidSupplier)
}

// uuidColumnSupplierRepo imita un almacén con columna id de tipo UUID: consultar
// por id con un valor que no es uuid falla el cast en lugar de devolver (nil, nil).
type uuidColumnSupplierRepo struct {
	*memory.SupplierRepo
}

func (r *uuidColumnSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New("get supplier: ERROR: invalid input syntax for type uuid (SQLSTATE 22P02)")
	}
	return r.SupplierRepo.GetByID(id)
}

func TestResolve_CodigoNoUuidResuelveSobreColumnaUuid(t *testing.T) {
	store := memory.NewStore()
	base := memory.NewSupplierRepository(store)
	sup := &entity.Supplier{Name: "Distribuidora Norte", Code: "DNORTE"}
	require.NoError(t, base.Create(sup))

	uc := supplier.NewUseCase(
		config.DefaultInventory(),
		memory.NewTxRunner(store),
		memory.NewItemRepository(store),
		&uuidColumnSupplierRepo{SupplierRepo: base},
		memory.NewSupplierSkuRepository(store),
		identity.ContextResolver{},
		events.NewBus(nil),
		logger.Nop(),
	)
	ctx := context.Background()

	// El código no debe pasar por la consulta por id
	byCode, err := uc.Resolve(ctx, "DNORTE")
	require.NoError(t, err)
	assert.Equal(t, sup.ID, byCode.ID)

	byID, err := uc.Resolve(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, sup.ID, byID.ID)

	_, err = uc.Resolve(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrInvalidSupplier)
}

func TestAddSupplier_AsociaYEmiteEvento(t *testing.T) {
	f := newFixture(t)
	cola := f.newItem(t, "Coca Cola")
	sup := f.newSupplier(t, "Distribuidora Norte", "DNORTE")
	ctx := context.Background()

	require.NoError(t, f.uc.AddSupplier(ctx, cola.ID, sup.ID))

	list, err := f.uc.ListSuppliers(ctx, cola.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sup.ID, list[0].ID)

	published := f.bus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "inventory.supplier.attached", published[0].Name)
}

func TestAddSupplier_SobreUnPadreFalla(t *testing.T) {
	f := newFixture(t)
	padre := &entity.Item{Name: "Coca Cola", IsParent: true}
	require.NoError(t, f.items.Create(padre))
	sup := f.newSupplier(t, "Distribuidora Norte", "DNORTE")

	err := f.uc.AddSupplier(context.Background(), padre.ID, sup.ID)
	assert.ErrorIs(t, err, domain.ErrIsParentViolation)
}

func TestRemoveSupplier_SobreUnPadreEstaPermitido(t *testing.T) {
	f := newFixture(t)
	cola := f.newItem(t, "Coca Cola")
	sup := f.newSupplier(t, "Distribuidora Norte", "DNORTE")
	ctx := context.Background()

	require.NoError(t, f.uc.AddSupplier(ctx, cola.ID, sup.ID))

	// El artículo se convierte en padre después del attach
	cola.IsParent = true
	require.NoError(t, f.items.Update(cola))

	require.NoError(t, f.uc.RemoveSupplier(ctx, cola.ID, sup.ID))
	list, err := f.uc.ListSuppliers(ctx, cola.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	published := f.bus.Published()
	require.Len(t, published, 2)
	assert.Equal(t, "inventory.supplier.detached", published[1].Name)
}

func TestAddSuppliers_AsociaVariosYRemoveAllLosQuita(t *testing.T) {
	f := newFixture(t)
	cola := f.newItem(t, "Coca Cola")
	norte := f.newSupplier(t, "Distribuidora Norte", "DNORTE")
	f.newSupplier(t, "Distribuidora Sur", "DSUR")
	ctx := context.Background()

	require.NoError(t, f.uc.AddSuppliers(ctx, cola.ID, []any{norte.ID, "DSUR"}))
	list, err := f.uc.ListSuppliers(ctx, cola.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, f.uc.RemoveAllSuppliers(ctx, cola.ID))
	list, err = f.uc.ListSuppliers(ctx, cola.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSupplierSku_UpsertYConsulta(t *testing.T) {
	f := newFixture(t)
	cola := f.newItem(t, "Coca Cola")
	sup := f.newSupplier(t, "Distribuidora Norte", "DNORTE")
	ctx := context.Background()

	_, err := f.uc.GetSupplierSku(ctx, cola.ID, sup.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sin SKU registrado debe fallar")

	require.NoError(t, f.uc.SetSupplierSku(ctx, cola.ID, sup.ID, "DN-COLA-12"))
	code, err := f.uc.GetSupplierSku(ctx, cola.ID, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, "DN-COLA-12", code)

	// Upsert por clave (item, proveedor): el segundo set reemplaza
	require.NoError(t, f.uc.SetSupplierSku(ctx, cola.ID, "DNORTE", "DN-COLA-24"))
	code, err = f.uc.GetSupplierSku(ctx, cola.ID, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, "DN-COLA-24", code)
}

func TestAddSupplier_ConActorEnContextoLoAtribuye(t *testing.T) {
	f := newFixture(t)
	cola := f.newItem(t, "Coca Cola")
	sup := f.newSupplier(t, "Distribuidora Norte", "DNORTE")
	ctx := identity.WithActor(context.Background(), "00000000-0000-0000-0000-000000000001")

	require.NoError(t, f.uc.AddSupplier(ctx, cola.ID, sup.ID))
	list, err := f.uc.ListSuppliers(ctx, cola.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
