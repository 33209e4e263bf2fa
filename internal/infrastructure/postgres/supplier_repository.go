package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor; asigna ID si viene vacío.
func (r *SupplierRepo) Create(s *entity.Supplier) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	query := `INSERT INTO suppliers (id, name, code, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, s.ID, s.Name, s.Code, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID; (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.scanOne(r.q.QueryRow(context.Background(),
		`SELECT id, name, code, created_at FROM suppliers WHERE id = $1`, id))
}

// GetByCode obtiene un proveedor por código; (nil, nil) si no existe.
func (r *SupplierRepo) GetByCode(code string) (*entity.Supplier, error) {
	return r.scanOne(r.q.QueryRow(context.Background(),
		`SELECT id, name, code, created_at FROM suppliers WHERE code = $1`, code))
}

// Attach crea la fila pivote item-proveedor. Idempotente: un par ya asociado
// no produce error ni fila duplicada.
func (r *SupplierRepo) Attach(itemID, supplierID string, createdBy *string) error {
	query := `
		INSERT INTO item_suppliers (item_id, supplier_id, created_by, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, supplier_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, itemID, supplierID, createdBy, time.Now())
	if err != nil {
		return fmt.Errorf("attach supplier: %w", err)
	}
	return nil
}

// Detach elimina la fila pivote item-proveedor.
func (r *SupplierRepo) Detach(itemID, supplierID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM item_suppliers WHERE item_id = $1 AND supplier_id = $2`,
		itemID, supplierID)
	if err != nil {
		return fmt.Errorf("detach supplier: %w", err)
	}
	return nil
}

// ListByItem devuelve los proveedores asociados al artículo.
func (r *SupplierRepo) ListByItem(itemID string) ([]*entity.Supplier, error) {
	query := `
		SELECT s.id, s.name, s.code, s.created_at
		FROM suppliers s
		JOIN item_suppliers isup ON isup.supplier_id = s.id
		WHERE isup.item_id = $1
		ORDER BY isup.created_at`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *SupplierRepo) scanOne(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}
