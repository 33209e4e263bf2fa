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
	_ repository.MovementRepository           = (*MovementRepo)(nil)
	_ repository.TransactionHistoryRepository = (*TransactionHistoryRepo)(nil)
)

// MovementRepo adaptador en memoria del puerto MovementRepository.
// Los movimientos se guardan en orden de inserción; "más reciente" es el
// último insertado, no el de mayor timestamp.
type MovementRepo struct {
	s *Store
}

func NewMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{s: s}
}

func (r *MovementRepo) Create(m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.movements {
		if r.s.movements[i].ID == id {
			out := r.s.movements[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) GetRollbackOf(movementID string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.RollbackOfID != nil && *m.RollbackOfID == movementID {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) LastCostForStock(stockID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.StockID == stockID && m.Cost.IsPositive() {
			return m.Cost, nil
		}
	}
	return decimal.Zero, nil
}

func (r *MovementRepo) SetRelated(movementID, relatedID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.movements {
		if r.s.movements[i].ID == movementID {
			r.s.movements[i].RelatedMovementID = &relatedID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MovementRepo) ListByStock(stockID string, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []*entity.Movement
	skipped := 0
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].StockID != stockID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(list) == limit {
			break
		}
		out := r.s.movements[i]
		list = append(list, &out)
	}
	return list, nil
}

// TransactionHistoryRepo adaptador en memoria del puerto TransactionHistoryRepository.
type TransactionHistoryRepo struct {
	s *Store
}

func NewTransactionHistoryRepository(s *Store) *TransactionHistoryRepo {
	return &TransactionHistoryRepo{s: s}
}

func (r *TransactionHistoryRepo) Create(h *entity.TransactionHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	r.s.histories = append(r.s.histories, *h)
	return nil
}

func (r *TransactionHistoryRepo) ListByMovement(movementID string) ([]*entity.TransactionHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []*entity.TransactionHistory
	for i := range r.s.histories {
		if r.s.histories[i].MovementID == movementID {
			out := r.s.histories[i]
			list = append(list, &out)
		}
	}
	return list, nil
}
