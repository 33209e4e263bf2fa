package repository

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para categorías.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
}

// MetricRepository define el puerto de persistencia para unidades de medida.
type MetricRepository interface {
	Create(metric *entity.Metric) error
	GetByID(id string) (*entity.Metric, error)
}
