package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AssemblyRepository = (*AssemblyRepo)(nil)

// AssemblyRepo implementación del puerto AssemblyRepository sobre PostgreSQL.
type AssemblyRepo struct {
	q Querier
}

func NewAssemblyRepository(q Querier) *AssemblyRepo {
	return &AssemblyRepo{q: q}
}

// Attach registra (o reemplaza) la cantidad de una parte en el ensamblaje.
func (r *AssemblyRepo) Attach(part *entity.AssemblyPart) error {
	if part.CreatedAt.IsZero() {
		part.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO assemblies (assembly_id, part_id, quantity, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (assembly_id, part_id)
		DO UPDATE SET quantity = EXCLUDED.quantity`
	_, err := r.q.Exec(context.Background(), query,
		part.AssemblyID, part.PartID, part.Quantity, part.CreatedAt)
	if err != nil {
		return fmt.Errorf("attach part: %w", err)
	}
	return nil
}

// Detach elimina la parte del ensamblaje.
func (r *AssemblyRepo) Detach(assemblyID, partID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM assemblies WHERE assembly_id = $1 AND part_id = $2`,
		assemblyID, partID)
	if err != nil {
		return fmt.Errorf("detach part: %w", err)
	}
	return nil
}

// ListParts devuelve las partes directas del ensamblaje.
func (r *AssemblyRepo) ListParts(assemblyID string) ([]*entity.AssemblyPart, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT assembly_id, part_id, quantity, created_at
		FROM assemblies
		WHERE assembly_id = $1
		ORDER BY created_at`, assemblyID)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var list []*entity.AssemblyPart
	for rows.Next() {
		var p entity.AssemblyPart
		if err := rows.Scan(&p.AssemblyID, &p.PartID, &p.Quantity, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
