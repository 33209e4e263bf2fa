package repository

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// TransactionHistoryRepository define el puerto del registro secundario de auditoría.
type TransactionHistoryRepository interface {
	Create(history *entity.TransactionHistory) error
	ListByMovement(movementID string) ([]*entity.TransactionHistory, error)
}
