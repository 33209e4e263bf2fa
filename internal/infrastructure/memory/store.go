// Package memory ofrece adaptadores en memoria de todos los puertos de
// repositorio, pensados para tests y demos sin base de datos. Las escrituras
// dentro de una unidad de trabajo son atómicas: el TxRunner toma un snapshot
// del estado y lo restaura si la función falla.
package memory

import (
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Store es el estado compartido de los adaptadores en memoria.
// Los registros se guardan por valor; los repos devuelven copias.
type Store struct {
	mu sync.Mutex

	items      map[string]entity.Item
	locations  map[string]entity.Location
	categories map[string]entity.Category
	metrics    map[string]entity.Metric
	stocks     map[string]entity.StockRecord
	movements  []entity.Movement
	histories  []entity.TransactionHistory
	suppliers  map[string]entity.Supplier
	pivots     []entity.ItemSupplier
	skus       map[string]entity.SupplierSku
	assemblies []entity.AssemblyPart

	skuSeq int64
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		items:      make(map[string]entity.Item),
		locations:  make(map[string]entity.Location),
		categories: make(map[string]entity.Category),
		metrics:    make(map[string]entity.Metric),
		stocks:     make(map[string]entity.StockRecord),
		suppliers:  make(map[string]entity.Supplier),
		skus:       make(map[string]entity.SupplierSku),
	}
}

func skuKey(itemID, supplierID string) string {
	return itemID + "|" + supplierID
}

// snapshot copia el estado completo para poder restaurarlo.
func (s *Store) snapshot() *Store {
	c := NewStore()
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.metrics {
		c.metrics[k] = v
	}
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.skus {
		c.skus[k] = v
	}
	c.movements = append([]entity.Movement(nil), s.movements...)
	c.histories = append([]entity.TransactionHistory(nil), s.histories...)
	c.pivots = append([]entity.ItemSupplier(nil), s.pivots...)
	c.assemblies = append([]entity.AssemblyPart(nil), s.assemblies...)
	c.skuSeq = s.skuSeq
	return c
}

// restore reemplaza el estado por el del snapshot.
func (s *Store) restore(snap *Store) {
	s.items = snap.items
	s.locations = snap.locations
	s.categories = snap.categories
	s.metrics = snap.metrics
	s.stocks = snap.stocks
	s.suppliers = snap.suppliers
	s.skus = snap.skus
	s.movements = snap.movements
	s.histories = snap.histories
	s.pivots = snap.pivots
	s.assemblies = snap.assemblies
	s.skuSeq = snap.skuSeq
}
