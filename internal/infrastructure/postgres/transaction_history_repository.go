package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionHistoryRepository = (*TransactionHistoryRepo)(nil)

// TransactionHistoryRepo implementación del puerto TransactionHistoryRepository
// sobre PostgreSQL. Comparte la columna de actor configurable con los movimientos.
type TransactionHistoryRepo struct {
	q       Querier
	userCol string
}

func NewTransactionHistoryRepository(q Querier, userKey string) *TransactionHistoryRepo {
	return &TransactionHistoryRepo{q: q, userCol: userKeyColumn(userKey)}
}

// Create persiste una entrada de auditoría.
func (r *TransactionHistoryRepo) Create(h *entity.TransactionHistory) error {
	query := fmt.Sprintf(`
		INSERT INTO transaction_histories
			(id, movement_id, %s, state_before, state_after, quantity_before, quantity_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, r.userCol)
	_, err := r.q.Exec(context.Background(), query,
		h.ID, h.MovementID, h.UserID, h.StateBefore, h.StateAfter,
		h.QuantityBefore, h.QuantityAfter, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// ListByMovement devuelve las entradas de auditoría de un movimiento.
func (r *TransactionHistoryRepo) ListByMovement(movementID string) ([]*entity.TransactionHistory, error) {
	query := fmt.Sprintf(`
		SELECT id, movement_id, %s, state_before, state_after, quantity_before, quantity_after, created_at
		FROM transaction_histories
		WHERE movement_id = $1
		ORDER BY created_at`, r.userCol)
	rows, err := r.q.Query(context.Background(), query, movementID)
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransactionHistory
	for rows.Next() {
		var h entity.TransactionHistory
		if err := rows.Scan(&h.ID, &h.MovementID, &h.UserID, &h.StateBefore, &h.StateAfter,
			&h.QuantityBefore, &h.QuantityAfter, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
