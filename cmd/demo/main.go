package main

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/assembly"
	"github.com/jhoicas/inventario-ledger/internal/application/item"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/supplier"
	"github.com/jhoicas/inventario-ledger/internal/application/variant"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/identity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Demo de extremo a extremo contra PostgreSQL: crea catálogo, stock,
// movimientos, un traslado y un rollback, registrando cada paso.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "debug",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando demo del libro mayor")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	skuRepo := postgres.NewSupplierSkuRepository(pool)
	assemblyRepo := postgres.NewAssemblyRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Inventory.ForeignUserKey)

	bus := events.NewBus(log)
	resolver := identity.Anonymous{}

	itemUC := item.NewUseCase(cfg.Inventory, itemRepo, categoryRepo, resolver)
	stockUC := ledger.NewStockUseCase(cfg.Inventory, txRunner, itemRepo, locationRepo, stockRepo, resolver, bus, log)
	variantUC := variant.NewUseCase(txRunner, itemRepo, stockRepo, log)
	supplierUC := supplier.NewUseCase(cfg.Inventory, txRunner, itemRepo, supplierRepo, skuRepo, resolver, bus, log)
	assemblyUC := assembly.NewUseCase(itemRepo, assemblyRepo)

	// Catálogo mínimo
	category := &entity.Category{Name: "Bebidas"}
	if err := categoryRepo.Create(category); err != nil {
		log.Fatal().Err(err).Msg("crear categoría")
	}
	warehouse := &entity.Location{Name: "Bodega Central"}
	if err := locationRepo.Create(warehouse); err != nil {
		log.Fatal().Err(err).Msg("crear ubicación")
	}
	shelf := &entity.Location{Name: "Estante 3"}
	if err := locationRepo.Create(shelf); err != nil {
		log.Fatal().Err(err).Msg("crear ubicación")
	}

	cola, err := itemUC.Create(ctx, item.CreateItemInput{
		Name:       "Coca Cola",
		CategoryID: &category.ID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear artículo")
	}
	log.Info().Str("sku", cola.SKU).Msg("artículo creado")

	// Variante con SKU propio
	cherry, err := variantUC.CreateVariant(ctx, cola.ID, "BEB-CHERRY", "Cherry Coca Cola", "")
	if err != nil {
		log.Fatal().Err(err).Msg("crear variante")
	}

	// Stock y movimientos sobre la variante
	stock, _, err := stockUC.CreateStockOnLocation(ctx, ledger.CreateStockInput{
		ItemID:     cherry.ID,
		LocationID: warehouse.ID,
		Quantity:   decimal.NewFromInt(20),
		Reason:     "carga inicial",
		Cost:       decimal.NewFromFloat(5.20),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear stock")
	}

	if _, err := stockUC.Put(ctx, stock.ID, decimal.NewFromInt(10), "reposición", decimal.NewFromFloat(5.50)); err != nil {
		log.Fatal().Err(err).Msg("put")
	}
	takeMov, err := stockUC.Take(ctx, stock.ID, decimal.NewFromInt(15), "pedido 1001")
	if err != nil {
		log.Fatal().Err(err).Msg("take")
	}
	if _, err := stockUC.Rollback(ctx, takeMov.ID); err != nil {
		log.Fatal().Err(err).Msg("rollback")
	}
	if _, _, err := stockUC.MoveTo(ctx, stock.ID, shelf.ID); err != nil {
		log.Fatal().Err(err).Msg("traslado")
	}

	total, err := stockUC.GetTotalStock(ctx, cherry.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("total")
	}
	log.Info().Str("total", total.String()).Msg("stock total de la variante")

	// Proveedor con SKU propio del artículo
	prov := &entity.Supplier{Name: "Distribuidora Norte", Code: "DNORTE"}
	if err := supplierRepo.Create(prov); err != nil {
		log.Fatal().Err(err).Msg("crear proveedor")
	}
	if err := supplierUC.AddSupplier(ctx, cherry.ID, prov.ID); err != nil {
		log.Fatal().Err(err).Msg("asociar proveedor")
	}
	if err := supplierUC.SetSupplierSku(ctx, cherry.ID, "DNORTE", "DN-CHERRY-12"); err != nil {
		log.Fatal().Err(err).Msg("sku de proveedor")
	}

	// Ensamblaje: un pack de 6 variantes
	pack, err := itemUC.Create(ctx, item.CreateItemInput{
		Name:       "Six Pack Cherry",
		CategoryID: &category.ID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear ensamblaje")
	}
	if err := assemblyUC.AttachPart(ctx, pack.ID, cherry.ID, decimal.NewFromInt(6)); err != nil {
		log.Fatal().Err(err).Msg("asociar parte")
	}

	for _, ev := range bus.Published() {
		log.Info().Str("event", ev.Name).Msg("evento de dominio")
	}
	log.Info().Msg("demo completada")
}
