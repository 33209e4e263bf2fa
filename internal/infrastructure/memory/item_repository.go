package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo adaptador en memoria del puerto ItemRepository.
type ItemRepo struct {
	s *Store
}

func NewItemRepository(s *Store) *ItemRepo {
	return &ItemRepo{s: s}
}

func (r *ItemRepo) Create(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	if item.SKU != "" {
		for _, other := range r.s.items {
			if other.SKU == item.SKU {
				return domain.ErrDuplicate
			}
		}
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *ItemRepo) GetBySku(code string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, i := range r.s.items {
		if i.SKU == code {
			out := i
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) Update(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r *ItemRepo) ListByParent(parentID string) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []*entity.Item
	for _, i := range r.s.items {
		if i.ParentID != nil && *i.ParentID == parentID {
			out := i
			list = append(list, &out)
		}
	}
	return list, nil
}

func (r *ItemRepo) NextSkuNumber() (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.skuSeq++
	return r.s.skuSeq, nil
}
