package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
	_ repository.SupplierSkuRepository = (*SupplierSkuRepo)(nil)
)

// SupplierRepo adaptador en memoria del puerto SupplierRepository.
type SupplierRepo struct {
	s *Store
}

func NewSupplierRepository(s *Store) *SupplierRepo {
	return &SupplierRepo{s: s}
}

func (r *SupplierRepo) Create(sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	for _, other := range r.s.suppliers {
		if other.Code == sup.Code {
			return domain.ErrDuplicate
		}
	}
	if sup.CreatedAt.IsZero() {
		sup.CreatedAt = time.Now()
	}
	r.s.suppliers[sup.ID] = *sup
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	s, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SupplierRepo) GetByCode(code string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, s := range r.s.suppliers {
		if s.Code == code {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (r *SupplierRepo) Attach(itemID, supplierID string, createdBy *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.pivots {
		if p.ItemID == itemID && p.SupplierID == supplierID {
			return nil
		}
	}
	r.s.pivots = append(r.s.pivots, entity.ItemSupplier{
		ItemID:     itemID,
		SupplierID: supplierID,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (r *SupplierRepo) Detach(itemID, supplierID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.pivots {
		if p.ItemID == itemID && p.SupplierID == supplierID {
			r.s.pivots = append(r.s.pivots[:i], r.s.pivots[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *SupplierRepo) ListByItem(itemID string) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []*entity.Supplier
	for _, p := range r.s.pivots {
		if p.ItemID != itemID {
			continue
		}
		if s, ok := r.s.suppliers[p.SupplierID]; ok {
			out := s
			list = append(list, &out)
		}
	}
	return list, nil
}

// SupplierSkuRepo adaptador en memoria del puerto SupplierSkuRepository.
type SupplierSkuRepo struct {
	s *Store
}

func NewSupplierSkuRepository(s *Store) *SupplierSkuRepo {
	return &SupplierSkuRepo{s: s}
}

func (r *SupplierSkuRepo) Upsert(sku *entity.SupplierSku) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if sku.UpdatedAt.IsZero() {
		sku.UpdatedAt = time.Now()
	}
	r.s.skus[skuKey(sku.ItemID, sku.SupplierID)] = *sku
	return nil
}

func (r *SupplierSkuRepo) Get(itemID, supplierID string) (*entity.SupplierSku, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	s, ok := r.s.skus[skuKey(itemID, supplierID)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}
