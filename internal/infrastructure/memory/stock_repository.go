package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.StockRepository    = (*StockRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
)

// StockRepo adaptador en memoria del puerto StockRepository.
type StockRepo struct {
	s *Store
}

func NewStockRepository(s *Store) *StockRepo {
	return &StockRepo{s: s}
}

func (r *StockRepo) Create(stock *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if stock.ID == "" {
		stock.ID = uuid.New().String()
	}
	for _, other := range r.s.stocks {
		if other.ItemID == stock.ItemID && other.LocationID == stock.LocationID {
			return domain.ErrStockAlreadyExists
		}
	}
	if stock.CreatedAt.IsZero() {
		stock.CreatedAt = time.Now()
	}
	r.s.stocks[stock.ID] = *stock
	return nil
}

func (r *StockRepo) Get(itemID, locationID string) (*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(itemID, locationID), nil
}

func (r *StockRepo) GetByID(id string) (*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	s, ok := r.s.stocks[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// GetForUpdate no bloquea nada en memoria; el mutex del Store serializa.
func (r *StockRepo) GetForUpdate(itemID, locationID string) (*entity.StockRecord, error) {
	return r.Get(itemID, locationID)
}

func (r *StockRepo) Update(stock *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.stocks[stock.ID]; !ok {
		return domain.ErrStockNotFound
	}
	r.s.stocks[stock.ID] = *stock
	return nil
}

func (r *StockRepo) ListByItem(itemID string) ([]*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []*entity.StockRecord
	for _, s := range r.s.stocks {
		if s.ItemID == itemID {
			out := s
			list = append(list, &out)
		}
	}
	return list, nil
}

func (r *StockRepo) SumByItem(itemID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	total := decimal.Zero
	for _, s := range r.s.stocks {
		if s.ItemID == itemID {
			total = total.Add(s.Quantity)
		}
	}
	return total, nil
}

func (r *StockRepo) find(itemID, locationID string) *entity.StockRecord {
	for _, s := range r.s.stocks {
		if s.ItemID == itemID && s.LocationID == locationID {
			out := s
			return &out
		}
	}
	return nil
}

// LocationRepo adaptador en memoria del puerto LocationRepository.
type LocationRepo struct {
	s *Store
}

func NewLocationRepository(s *Store) *LocationRepo {
	return &LocationRepo{s: s}
}

func (r *LocationRepo) Create(loc *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	for _, other := range r.s.locations {
		if other.Name == loc.Name {
			return domain.ErrDuplicate
		}
	}
	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = time.Now()
	}
	r.s.locations[loc.ID] = *loc
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *LocationRepo) GetByName(name string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range r.s.locations {
		if l.Name == name {
			out := l
			return &out, nil
		}
	}
	return nil, nil
}
