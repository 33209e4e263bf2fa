package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL.
// La columna de atribución de actor es configurable (foreign user key);
// el nombre se sanea en userKeyColumn antes de interpolarlo en el SQL.
type MovementRepo struct {
	q       Querier
	userCol string
}

// NewMovementRepository construye el adaptador de movimientos. userKey es el
// nombre de la columna de actor (vacío usa created_by).
func NewMovementRepository(q Querier, userKey string) *MovementRepo {
	return &MovementRepo{q: q, userCol: userKeyColumn(userKey)}
}

func (r *MovementRepo) columns() string {
	return fmt.Sprintf(`id, stock_id, %s, before_qty, after_qty, cost, reason, state, related_movement_id, rollback_of_id, created_at`, r.userCol)
}

// Create persiste un movimiento. Los movimientos son inmutables: solo
// SetRelated puede completar el enlace de un traslado después del insert.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := fmt.Sprintf(`
		INSERT INTO stock_movements (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, r.columns())
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.StockID, m.UserID, m.Before, m.After, m.Cost, m.Reason, m.State,
		m.RelatedMovementID, m.RollbackOfID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_movements WHERE id = $1`, r.columns())
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetRollbackOf devuelve el movimiento que revierte a movementID; (nil, nil)
// si el movimiento no ha sido revertido.
func (r *MovementRepo) GetRollbackOf(movementID string) (*entity.Movement, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_movements WHERE rollback_of_id = $1 LIMIT 1`, r.columns())
	return r.scanOne(r.q.QueryRow(context.Background(), query, movementID))
}

// LastCostForStock devuelve el coste del último movimiento con coste positivo
// del stock, o cero si no hay ninguno.
func (r *MovementRepo) LastCostForStock(stockID string) (decimal.Decimal, error) {
	var cost decimal.Decimal
	err := r.q.QueryRow(context.Background(), `
		SELECT cost FROM stock_movements
		WHERE stock_id = $1 AND cost > 0
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, stockID,
	).Scan(&cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("last cost: %w", err)
	}
	return cost, nil
}

// SetRelated completa el enlace moved_from -> moved_to de un traslado.
func (r *MovementRepo) SetRelated(movementID, relatedID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_movements SET related_movement_id = $2 WHERE id = $1`,
		movementID, relatedID)
	if err != nil {
		return fmt.Errorf("set related movement: %w", err)
	}
	return nil
}

// ListByStock devuelve los movimientos del stock, el más reciente primero.
// limit <= 0 significa sin límite.
func (r *MovementRepo) ListByStock(stockID string, limit, offset int) ([]*entity.Movement, error) {
	var limitArg any // NULL = LIMIT ALL
	if limit > 0 {
		limitArg = limit
	}
	query := fmt.Sprintf(`
		SELECT %s FROM stock_movements
		WHERE stock_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, r.columns())
	rows, err := r.q.Query(context.Background(), query, stockID, limitArg, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.StockID, &m.UserID, &m.Before, &m.After, &m.Cost,
			&m.Reason, &m.State, &m.RelatedMovementID, &m.RollbackOfID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *MovementRepo) scanOne(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(&m.ID, &m.StockID, &m.UserID, &m.Before, &m.After, &m.Cost,
		&m.Reason, &m.State, &m.RelatedMovementID, &m.RollbackOfID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}
