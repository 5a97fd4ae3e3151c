package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"crm-service/internal/model"
	"crm-service/internal/repository"
)

type CustomerService struct {
	customerRepo *repository.CustomerRepository
	driverRepo   *repository.DriverRepository
	geocoder     Geocoder
	now          func() time.Time
	log          zerolog.Logger
}

type CustomerServiceOption func(*CustomerService)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) CustomerServiceOption {
	return func(s *CustomerService) { s.now = now }
}

func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	driverRepo *repository.DriverRepository,
	geocoder Geocoder,
	log zerolog.Logger,
	opts ...CustomerServiceOption,
) *CustomerService {
	s := &CustomerService{
		customerRepo: customerRepo,
		driverRepo:   driverRepo,
		geocoder:     geocoder,
		now:          time.Now,
		log:          log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateCustomerInput struct {
	Name             string
	Company          string
	AddressName      string
	Location         *model.Coordinate
	AssignedDriverID *string
}

func (s *CustomerService) CreateManual(ctx context.Context, input CreateCustomerInput) (*model.Customer, error) {
	name := strings.TrimSpace(input.Name)
	company := strings.TrimSpace(input.Company)
	address := strings.TrimSpace(input.AddressName)

	switch {
	case name == "":
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	case company == "":
		return nil, &ValidationError{Field: "company", Reason: "is required"}
	case address == "":
		return nil, &ValidationError{Field: "address_name", Reason: "is required"}
	case input.Location == nil:
		return nil, &ValidationError{Field: "location", Reason: "pinpoint the location on the map before saving"}
	case !input.Location.Valid():
		return nil, &ValidationError{Field: "location", Reason: "coordinates must be within [0, 100]"}
	}

	driverID := normalizeDriverID(input.AssignedDriverID)
	if driverID != nil {
		if _, err := s.GetDriver(ctx, *driverID); err != nil {
			return nil, err
		}
	}

	customer := &model.Customer{
		ID:               "c-" + uuid.NewString(),
		Name:             name,
		Company:          company,
		AddressName:      address,
		Location:         *input.Location,
		AssignedDriverID: driverID,
		Status:           DeriveStatus(driverID),
		AddedVia:         model.AddedViaManual,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		var dupErr *repository.DuplicateKeyError
		if errors.As(err, &dupErr) {
			return nil, &DuplicateIDError{ID: dupErr.ID}
		}
		return nil, err
	}

	s.log.Info().
		Str("customer_id", customer.ID).
		Str("status", string(customer.Status)).
		Msg("customer created")

	return customer, nil
}

func (s *CustomerService) GetAll(ctx context.Context) []model.Customer {
	return s.customerRepo.All(ctx)
}

func (s *CustomerService) List(ctx context.Context, filter repository.CustomerListFilter) []model.Customer {
	return s.customerRepo.List(ctx, filter)
}

func (s *CustomerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: "customer", ID: id}
		}
		return nil, err
	}
	return customer, nil
}

// FindByDriver returns the newest customer assigned to the driver, or nil.
func (s *CustomerService) FindByDriver(ctx context.Context, driverID string) (*model.Customer, error) {
	if _, err := s.GetDriver(ctx, driverID); err != nil {
		return nil, err
	}
	return s.customerRepo.FindByDriver(ctx, driverID)
}

func (s *CustomerService) GetDashboardCounts(ctx context.Context) DashboardCounts {
	return Aggregate(s.customerRepo.All(ctx))
}

func (s *CustomerService) ListDrivers(ctx context.Context, status *model.DriverStatus) []model.Driver {
	if status != nil {
		return s.driverRepo.ListByStatus(ctx, *status)
	}
	return s.driverRepo.List(ctx)
}

func (s *CustomerService) GetDriver(ctx context.Context, id string) (*model.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: "driver", ID: id}
		}
		return nil, err
	}
	return driver, nil
}

func (s *CustomerService) Geocode(ctx context.Context, address string) (model.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return model.Coordinate{}, &ValidationError{Field: "address", Reason: "is required"}
	}
	if s.geocoder == nil {
		return model.Coordinate{}, errors.New("geocoder is not configured")
	}
	return s.geocoder.Geocode(ctx, address)
}
