package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.MetricRepository   = (*MetricRepo)(nil)
	_ repository.AssemblyRepository = (*AssemblyRepo)(nil)
)

// CategoryRepo adaptador en memoria del puerto CategoryRepository.
type CategoryRepo struct {
	s *Store
}

func NewCategoryRepository(s *Store) *CategoryRepo {
	return &CategoryRepo{s: s}
}

func (r *CategoryRepo) Create(c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if _, ok := r.s.categories[c.ID]; ok {
		return domain.ErrDuplicate
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// MetricRepo adaptador en memoria del puerto MetricRepository.
type MetricRepo struct {
	s *Store
}

func NewMetricRepository(s *Store) *MetricRepo {
	return &MetricRepo{s: s}
}

func (r *MetricRepo) Create(m *entity.Metric) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if _, ok := r.s.metrics[m.ID]; ok {
		return domain.ErrDuplicate
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.s.metrics[m.ID] = *m
	return nil
}

func (r *MetricRepo) GetByID(id string) (*entity.Metric, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.metrics[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// AssemblyRepo adaptador en memoria del puerto AssemblyRepository.
type AssemblyRepo struct {
	s *Store
}

func NewAssemblyRepository(s *Store) *AssemblyRepo {
	return &AssemblyRepo{s: s}
}

func (r *AssemblyRepo) Attach(part *entity.AssemblyPart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if part.CreatedAt.IsZero() {
		part.CreatedAt = time.Now()
	}
	for i := range r.s.assemblies {
		p := &r.s.assemblies[i]
		if p.AssemblyID == part.AssemblyID && p.PartID == part.PartID {
			p.Quantity = part.Quantity
			return nil
		}
	}
	r.s.assemblies = append(r.s.assemblies, *part)
	return nil
}

func (r *AssemblyRepo) Detach(assemblyID, partID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.assemblies {
		if p.AssemblyID == assemblyID && p.PartID == partID {
			r.s.assemblies = append(r.s.assemblies[:i], r.s.assemblies[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *AssemblyRepo) ListParts(assemblyID string) ([]*entity.AssemblyPart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []*entity.AssemblyPart
	for i := range r.s.assemblies {
		if r.s.assemblies[i].AssemblyID == assemblyID {
			out := r.s.assemblies[i]
			list = append(list, &out)
		}
	}
	return list, nil
}
