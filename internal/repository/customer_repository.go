package repository

import (
	"context"
	"sync"

	"crm-service/internal/model"
)

// CustomerRepository keeps customer records in memory, newest first.
// Records are only ever appended.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers []model.Customer
	ids       map[string]struct{}
}

func NewCustomerRepository(seed []model.Customer) (*CustomerRepository, error) {
	r := &CustomerRepository{
		ids: make(map[string]struct{}, len(seed)),
	}
	for _, c := range seed {
		if _, ok := r.ids[c.ID]; ok {
			return nil, &DuplicateKeyError{ID: c.ID}
		}
		r.ids[c.ID] = struct{}{}
		r.customers = append(r.customers, c.Clone())
	}
	return r, nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[customer.ID]; ok {
		return &DuplicateKeyError{ID: customer.ID}
	}

	next := make([]model.Customer, 0, len(r.customers)+1)
	next = append(next, customer.Clone())
	next = append(next, r.customers...)

	r.ids[customer.ID] = struct{}{}
	r.customers = next
	return nil
}

// CreateBatch prepends customers as one contiguous block in the given order.
// Either every record is stored or none is.
func (r *CustomerRepository) CreateBatch(ctx context.Context, customers []*model.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		if _, ok := r.ids[c.ID]; ok {
			return &DuplicateKeyError{ID: c.ID}
		}
		if _, ok := seen[c.ID]; ok {
			return &DuplicateKeyError{ID: c.ID}
		}
		seen[c.ID] = struct{}{}
	}

	next := make([]model.Customer, 0, len(r.customers)+len(customers))
	for _, c := range customers {
		next = append(next, c.Clone())
	}
	next = append(next, r.customers...)

	for id := range seen {
		r.ids[id] = struct{}{}
	}
	r.customers = next
	return nil
}

type CustomerListFilter struct {
	Status   *model.CustomerStatus
	AddedVia *model.AddedVia
	DriverID *string
}

func (f CustomerListFilter) match(c model.Customer) bool {
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	if f.AddedVia != nil && c.AddedVia != *f.AddedVia {
		return false
	}
	if f.DriverID != nil && !c.IsAssignedTo(*f.DriverID) {
		return false
	}
	return true
}

func (r *CustomerRepository) List(ctx context.Context, filter CustomerListFilter) []model.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		if filter.match(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func (r *CustomerRepository) All(ctx context.Context) []model.Customer {
	return r.List(ctx, CustomerListFilter{})
}

func (r *CustomerRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers)
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.ID == id {
			found := c.Clone()
			return &found, nil
		}
	}
	return nil, ErrRecordNotFound
}

// FindByDriver returns the newest record assigned to driverID, or nil if the
// driver has no customers.
func (r *CustomerRepository) FindByDriver(ctx context.Context, driverID string) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.IsAssignedTo(driverID) {
			found := c.Clone()
			return &found, nil
		}
	}
	return nil, nil
}
