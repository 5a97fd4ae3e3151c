package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"crm-service/internal/model"
)

func newSeededRepo(t *testing.T) *CustomerRepository {
	t.Helper()
	repo, err := NewCustomerRepository(SeedCustomers(time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return repo
}

func customer(id string) *model.Customer {
	return &model.Customer{
		ID:          id,
		Name:        "Name " + id,
		Company:     "Company " + id,
		AddressName: "Address " + id,
		Location:    model.Coordinate{X: 10, Y: 10},
		Status:      model.CustomerStatusPending,
		AddedVia:    model.AddedViaManual,
	}
}

func TestCustomerRepositoryCreatePrepends(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)
	before := repo.Count(ctx)

	if err := repo.Create(ctx, customer("c3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := repo.All(ctx)
	if len(all) != before+1 {
		t.Fatalf("len(all) = %d, want %d", len(all), before+1)
	}
	if all[0].ID != "c3" {
		t.Fatalf("head = %q, want c3", all[0].ID)
	}

	count := 0
	for _, c := range all {
		if c.ID == "c3" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("c3 appears %d times, want 1", count)
	}
}

func TestCustomerRepositoryCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)
	before := repo.All(ctx)

	err := repo.Create(ctx, customer("c1"))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}

	after := repo.All(ctx)
	if len(after) != len(before) {
		t.Fatalf("len = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].ID != before[i].ID {
			t.Fatalf("order changed at %d: %q != %q", i, after[i].ID, before[i].ID)
		}
	}
}

func TestCustomerRepositoryCreateBatchOrder(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	batch := []*model.Customer{customer("b1"), customer("b2"), customer("b3")}
	if err := repo.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := repo.All(ctx)
	want := []string{"b1", "b2", "b3", "c1", "c2"}
	if len(all) != len(want) {
		t.Fatalf("len(all) = %d, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("all[%d] = %q, want %q", i, all[i].ID, id)
		}
	}
}

func TestCustomerRepositoryCreateBatchRejectsDuplicates(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		batch  []*model.Customer
		wantID string
	}{
		{name: "collides with store", batch: []*model.Customer{customer("b1"), customer("c2")}, wantID: "c2"},
		{name: "collides within batch", batch: []*model.Customer{customer("b1"), customer("b1")}, wantID: "b1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newSeededRepo(t)
			err := repo.CreateBatch(ctx, tt.batch)
			if !errors.Is(err, ErrDuplicateID) {
				t.Fatalf("err = %v, want ErrDuplicateID", err)
			}
			var dupErr *DuplicateKeyError
			if !errors.As(err, &dupErr) || dupErr.ID != tt.wantID {
				t.Fatalf("err = %v, want collision on %q", err, tt.wantID)
			}
			if n := repo.Count(ctx); n != 2 {
				t.Fatalf("count = %d, want 2", n)
			}
			if _, err := repo.GetByID(ctx, "b1"); !errors.Is(err, ErrRecordNotFound) {
				t.Fatalf("b1 should not be stored, err = %v", err)
			}
		})
	}
}

func TestCustomerRepositoryBatchIsAtomicForReaders(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)
	before := repo.Count(ctx)

	const batchSize = 200
	batch := make([]*model.Customer, batchSize)
	for i := range batch {
		batch[i] = customer(fmt.Sprintf("b%d", i))
	}

	stop := make(chan struct{})
	var partial []int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			n := len(repo.All(ctx))
			if n != before && n != before+batchSize {
				partial = append(partial, n)
			}
		}
	}()

	if err := repo.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(stop)
	wg.Wait()

	if len(partial) > 0 {
		t.Fatalf("reader observed partial batch sizes %v", partial)
	}
	if n := repo.Count(ctx); n != before+batchSize {
		t.Fatalf("count = %d, want %d", n, before+batchSize)
	}
}

func TestCustomerRepositorySnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	all := repo.All(ctx)
	all[0].Name = "mutated"
	*all[0].AssignedDriverID = "d9"

	fresh, err := repo.GetByID(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Name == "mutated" || *fresh.AssignedDriverID == "d9" {
		t.Fatalf("store was mutated through a snapshot: %+v", fresh)
	}
}

func TestCustomerRepositoryFindByDriver(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	found, err := repo.FindByDriver(ctx, "d2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil || found.ID != "c2" {
		t.Fatalf("found = %+v, want c2", found)
	}

	newer := customer("c3")
	d2 := "d2"
	newer.AssignedDriverID = &d2
	if err := repo.Create(ctx, newer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found, _ = repo.FindByDriver(ctx, "d2")
	if found == nil || found.ID != "c3" {
		t.Fatalf("found = %+v, want newest c3", found)
	}

	found, err = repo.FindByDriver(ctx, "d3")
	if err != nil || found != nil {
		t.Fatalf("FindByDriver(d3) = %+v, %v; want nil, nil", found, err)
	}
}

func TestCustomerRepositoryListFilter(t *testing.T) {
	ctx := context.Background()
	repo := newSeededRepo(t)

	completed := model.CustomerStatusCompleted
	got := repo.List(ctx, CustomerListFilter{Status: &completed})
	if len(got) != 1 || got[0].ID != "c2" {
		t.Fatalf("completed = %+v, want [c2]", got)
	}

	rpa := model.AddedViaRPA
	if got := repo.List(ctx, CustomerListFilter{AddedVia: &rpa}); len(got) != 0 {
		t.Fatalf("rpa = %+v, want none", got)
	}
}

func TestDriverRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDriverRepository(SeedDrivers())

	if n := len(repo.List(ctx)); n != 5 {
		t.Fatalf("len(List) = %d, want 5", n)
	}

	d, err := repo.GetByID(ctx, "d3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "Mike Ross" {
		t.Fatalf("name = %q, want Mike Ross", d.Name)
	}

	if _, err := repo.GetByID(ctx, "d42"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}

	available := repo.ListByStatus(ctx, model.DriverStatusAvailable)
	if len(available) != 3 {
		t.Fatalf("available = %d, want 3", len(available))
	}
}
