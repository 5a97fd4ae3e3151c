package repository

import (
	"context"

	"crm-service/internal/model"
)

// DriverRepository is the read-only driver directory. It is filled once at
// construction and never mutated afterwards, so it needs no locking.
type DriverRepository struct {
	drivers []model.Driver
	byID    map[string]int
}

func NewDriverRepository(drivers []model.Driver) *DriverRepository {
	r := &DriverRepository{
		drivers: make([]model.Driver, 0, len(drivers)),
		byID:    make(map[string]int, len(drivers)),
	}
	for _, d := range drivers {
		if _, ok := r.byID[d.ID]; ok {
			continue
		}
		r.byID[d.ID] = len(r.drivers)
		r.drivers = append(r.drivers, d)
	}
	return r
}

func (r *DriverRepository) List(ctx context.Context) []model.Driver {
	out := make([]model.Driver, len(r.drivers))
	copy(out, r.drivers)
	return out
}

func (r *DriverRepository) ListByStatus(ctx context.Context, status model.DriverStatus) []model.Driver {
	var out []model.Driver
	for _, d := range r.drivers {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out
}

func (r *DriverRepository) GetByID(ctx context.Context, id string) (*model.Driver, error) {
	idx, ok := r.byID[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	driver := r.drivers[idx]
	return &driver, nil
}
