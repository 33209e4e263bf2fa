package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del puerto StockRepository sobre PostgreSQL.
// La columna "row" va entre comillas por ser palabra reservada.
type StockRepo struct {
	q Querier
}

func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, item_id, location_id, quantity, aisle, "row", bin, created_by, created_at, updated_at`

// Create persiste un registro de stock nuevo. La restricción única sobre
// (item_id, location_id) garantiza a lo sumo un registro por par.
func (r *StockRepo) Create(stock *entity.StockRecord) error {
	query := `
		INSERT INTO stocks (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.ItemID, stock.LocationID, stock.Quantity,
		stock.Aisle, stock.Row, stock.Bin, stock.CreatedBy, stock.CreatedAt, stock.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStockAlreadyExists
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// Get obtiene el registro del par (artículo, ubicación); (nil, nil) si no existe.
func (r *StockRepo) Get(itemID, locationID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE item_id = $1 AND location_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID, locationID))
}

// GetByID obtiene un registro de stock por ID; (nil, nil) si no existe.
func (r *StockRepo) GetByID(id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea y devuelve la fila del par dentro de la transacción actual.
func (r *StockRepo) GetForUpdate(itemID, locationID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE item_id = $1 AND location_id = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID, locationID))
}

// Update persiste cantidad y posición física del registro.
func (r *StockRepo) Update(stock *entity.StockRecord) error {
	query := `
		UPDATE stocks
		SET quantity = $2, aisle = $3, "row" = $4, bin = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.Quantity, stock.Aisle, stock.Row, stock.Bin, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// ListByItem devuelve todos los registros de stock de un artículo.
func (r *StockRepo) ListByItem(itemID string) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE item_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ID, &s.ItemID, &s.LocationID, &s.Quantity,
			&s.Aisle, &s.Row, &s.Bin, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// SumByItem devuelve la cantidad total del artículo en todas sus ubicaciones.
func (r *StockRepo) SumByItem(itemID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM stocks WHERE item_id = $1`, itemID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock: %w", err)
	}
	return total, nil
}

func (r *StockRepo) scanOne(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ID, &s.ItemID, &s.LocationID, &s.Quantity,
		&s.Aisle, &s.Row, &s.Bin, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}
