package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"crm-service/internal/model"
	"crm-service/internal/repository"
)

// ImportRow is one raw row of an external batch, as produced by the RPA agent
// or decoded from a spreadsheet export.
type ImportRow struct {
	Name     string   `json:"name"`
	Company  string   `json:"company"`
	Address  string   `json:"address"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	DriverID string   `json:"driver_id"`
}

type ImportStage string

const (
	ImportStageValidate       ImportStage = "validate"
	ImportStageResolveDrivers ImportStage = "resolve_drivers"
	ImportStageBuild          ImportStage = "build"
	ImportStageCommit         ImportStage = "commit"
)

type ImportProgress struct {
	BatchID string      `json:"batch_id"`
	Stage   ImportStage `json:"stage"`
	Step    int         `json:"step"`
	Steps   int         `json:"steps"`
	Percent int         `json:"percent"`
	Valid   int         `json:"valid"`
	Failed  int         `json:"failed"`
}

type ProgressFunc func(ImportProgress)

type ImportResult struct {
	BatchID     string               `json:"batch_id"`
	Imported    []model.Customer     `json:"imported"`
	Errors      []*MalformedRowError `json:"errors"`
	CommittedAt time.Time            `json:"committed_at"`
}

type ImportOption func(*importRun)

// WithProgress registers a callback invoked after every completed stage.
func WithProgress(fn ProgressFunc) ImportOption {
	return func(r *importRun) { r.progress = fn }
}

type ImportService struct {
	customerRepo *repository.CustomerRepository
	driverRepo   *repository.DriverRepository
	maxRows      int
	now          func() time.Time
	newBatchID   func() string
	log          zerolog.Logger
}

type ImportServiceOption func(*ImportService)

func WithImportClock(now func() time.Time) ImportServiceOption {
	return func(s *ImportService) { s.now = now }
}

func WithBatchIDGenerator(gen func() string) ImportServiceOption {
	return func(s *ImportService) { s.newBatchID = gen }
}

func NewImportService(
	customerRepo *repository.CustomerRepository,
	driverRepo *repository.DriverRepository,
	maxRows int,
	log zerolog.Logger,
	opts ...ImportServiceOption,
) *ImportService {
	s := &ImportService{
		customerRepo: customerRepo,
		driverRepo:   driverRepo,
		maxRows:      maxRows,
		now:          time.Now,
		newBatchID:   uuid.NewString,
		log:          log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type importCandidate struct {
	row      int
	input    ImportRow
	location model.Coordinate
	driverID *string
}

type importRun struct {
	batchID     string
	rows        []ImportRow
	candidates  []importCandidate
	customers   []*model.Customer
	errors      []*MalformedRowError
	committedAt time.Time
	progress    ProgressFunc
}

type importStage struct {
	name ImportStage
	run  func(ctx context.Context, r *importRun) error
}

// Import turns rows into customers and commits the valid ones as a single
// batch. Malformed rows are reported in the result instead of failing the
// whole import. If ctx is cancelled before the commit stage the store is
// left untouched.
func (s *ImportService) Import(ctx context.Context, rows []ImportRow, opts ...ImportOption) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, &ValidationError{Field: "rows", Reason: "batch is empty"}
	}
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return nil, &ValidationError{Field: "rows", Reason: fmt.Sprintf("batch has %d rows, limit is %d", len(rows), s.maxRows)}
	}

	run := &importRun{
		batchID: s.newBatchID(),
		rows:    rows,
	}
	for _, opt := range opts {
		opt(run)
	}

	log := s.log.With().Str("batch_id", run.batchID).Logger()

	stages := []importStage{
		{name: ImportStageValidate, run: s.validateRows},
		{name: ImportStageResolveDrivers, run: s.resolveDrivers},
		{name: ImportStageBuild, run: s.buildCustomers},
		{name: ImportStageCommit, run: s.commit},
	}

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			log.Warn().Str("stage", string(stage.name)).Err(err).Msg("import cancelled")
			return nil, err
		}

		if err := stage.run(ctx, run); err != nil {
			log.Error().Str("stage", string(stage.name)).Err(err).Msg("import stage failed")
			return nil, err
		}

		p := ImportProgress{
			BatchID: run.batchID,
			Stage:   stage.name,
			Step:    i + 1,
			Steps:   len(stages),
			Percent: int(math.Round(float64(i+1) / float64(len(stages)) * 100)),
			Valid:   len(run.candidates),
			Failed:  len(run.errors),
		}
		log.Debug().
			Str("stage", string(stage.name)).
			Int("percent", p.Percent).
			Int("valid", p.Valid).
			Int("failed", p.Failed).
			Msg("import stage done")
		if run.progress != nil {
			run.progress(p)
		}
	}

	// Driver failures are found a stage later than field failures; report
	// everything in row order.
	sort.SliceStable(run.errors, func(i, j int) bool { return run.errors[i].Row < run.errors[j].Row })

	rowErrors := make([]*MalformedRowError, 0, len(run.errors))
	rowErrors = append(rowErrors, run.errors...)

	imported := make([]model.Customer, 0, len(run.customers))
	for _, c := range run.customers {
		imported = append(imported, c.Clone())
	}

	log.Info().
		Int("rows", len(rows)).
		Int("imported", len(imported)).
		Int("rejected", len(run.errors)).
		Msg("import finished")

	return &ImportResult{
		BatchID:     run.batchID,
		Imported:    imported,
		Errors:      rowErrors,
		CommittedAt: run.committedAt,
	}, nil
}

func (s *ImportService) validateRows(ctx context.Context, r *importRun) error {
	for i, row := range r.rows {
		rowNum := i + 1
		if rowErr := validateImportRow(rowNum, row); rowErr != nil {
			r.errors = append(r.errors, rowErr)
			continue
		}
		r.candidates = append(r.candidates, importCandidate{
			row:      rowNum,
			input:    row,
			location: model.Coordinate{X: *row.X, Y: *row.Y},
		})
	}
	return nil
}

func validateImportRow(rowNum int, row ImportRow) *MalformedRowError {
	switch {
	case strings.TrimSpace(row.Name) == "":
		return &MalformedRowError{Row: rowNum, Field: "name", Reason: "is required"}
	case strings.TrimSpace(row.Company) == "":
		return &MalformedRowError{Row: rowNum, Field: "company", Reason: "is required"}
	case strings.TrimSpace(row.Address) == "":
		return &MalformedRowError{Row: rowNum, Field: "address", Reason: "is required"}
	case row.X == nil:
		return &MalformedRowError{Row: rowNum, Field: "x", Reason: "is required"}
	case row.Y == nil:
		return &MalformedRowError{Row: rowNum, Field: "y", Reason: "is required"}
	}
	if _, err := model.NewCoordinate(*row.X, *row.Y); err != nil {
		return &MalformedRowError{Row: rowNum, Field: "location", Reason: "coordinates must be within [0, 100]", Err: err}
	}
	return nil
}

func (s *ImportService) resolveDrivers(ctx context.Context, r *importRun) error {
	kept := r.candidates[:0]
	for _, c := range r.candidates {
		driverID := normalizeDriverID(&c.input.DriverID)
		if driverID != nil {
			_, err := s.driverRepo.GetByID(ctx, *driverID)
			if errors.Is(err, repository.ErrRecordNotFound) {
				r.errors = append(r.errors, &MalformedRowError{
					Row:    c.row,
					Field:  "driver_id",
					Reason: fmt.Sprintf("driver %q not found", *driverID),
					Err:    &NotFoundError{Kind: "driver", ID: *driverID},
				})
				continue
			}
			if err != nil {
				return err
			}
		}
		c.driverID = driverID
		kept = append(kept, c)
	}
	r.candidates = kept
	return nil
}

func (s *ImportService) buildCustomers(ctx context.Context, r *importRun) error {
	// Every row of a batch shares one timestamp.
	r.committedAt = s.now().UTC()

	r.customers = make([]*model.Customer, 0, len(r.candidates))
	for i, c := range r.candidates {
		r.customers = append(r.customers, &model.Customer{
			ID:               fmt.Sprintf("rpa-%s-%d", r.batchID, i),
			Name:             strings.TrimSpace(c.input.Name),
			Company:          strings.TrimSpace(c.input.Company),
			AddressName:      strings.TrimSpace(c.input.Address),
			Location:         c.location,
			AssignedDriverID: c.driverID,
			Status:           DeriveStatus(c.driverID),
			AddedVia:         model.AddedViaRPA,
			CreatedAt:        r.committedAt,
		})
	}
	return nil
}

func (s *ImportService) commit(ctx context.Context, r *importRun) error {
	if len(r.customers) == 0 {
		return nil
	}
	if err := s.customerRepo.CreateBatch(ctx, r.customers); err != nil {
		var dupErr *repository.DuplicateKeyError
		if errors.As(err, &dupErr) {
			return &DuplicateIDError{ID: dupErr.ID}
		}
		return err
	}
	return nil
}

// SampleImportRows is the batch the simulated RPA agent extracts from its
// demo spreadsheet.
func SampleImportRows() []ImportRow {
	row := func(name, company, address string, x, y float64, driver string) ImportRow {
		return ImportRow{Name: name, Company: company, Address: address, X: &x, Y: &y, DriverID: driver}
	}
	return []ImportRow{
		row("Global Corp HQ", "Global Corp", "100 Financial Dist", 55, 20, "d3"),
		row("Fresh Market", "Eat Fresh Ltd", "22 Market St", 80, 60, "d1"),
		row("Construct Site A", "BuildIt Now", "Plot 404, West End", 20, 45, "d5"),
		row("City Hospital", "HealthPlus", "Emergency Entrance", 35, 75, "d1"),
		row("University Campus", "State Uni", "Main Gate", 90, 10, "d3"),
		row("Tech Startups", "Incubator X", "Suite 500", 60, 60, "d5"),
	}
}
