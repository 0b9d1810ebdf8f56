// Package service owns the calculators and the batch pool and implements
// the operations exposed by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/garage/internal/adapters/batch"
	"github.com/okian/garage/internal/adapters/importer"
	"github.com/okian/garage/internal/adapters/report"
	"github.com/okian/garage/internal/domain/compat"
	"github.com/okian/garage/internal/domain/gearing"
	"github.com/okian/garage/internal/domain/model"
	"github.com/okian/garage/internal/domain/suspension"
	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/okian/garage/internal/domain/types"
	"github.com/okian/garage/pkg/logger"
	"github.com/okian/garage/pkg/metrics"
)

// Engine names used in metrics and stats.
const (
	EngineTire       = "tire_pressure"
	EngineSuspension = "suspension"
	EngineGearing    = "gearing"
	EngineCompat     = "compat"
)

// Service runs setup calculations for the API and the CLI.
type Service struct {
	mu sync.RWMutex

	tires      *tirepressure.Calculator
	suspension *suspension.Calculator
	pool       *batch.Pool

	// Configuration
	workerCount int
	maxItems    int
	cadence     float64

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	calculations sync.Map // engine -> *atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTireCalculator replaces the default tire pressure calculator.
func WithTireCalculator(c *tirepressure.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.tires = c
		}
	}
}

// WithSuspensionCalculator replaces the default suspension calculator.
func WithSuspensionCalculator(c *suspension.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.suspension = c
		}
	}
}

// WithWorkerCount sets the number of batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithMaxBatchItems caps the size of one batch or import.
func WithMaxBatchItems(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// WithDefaultCadence sets the cadence used when a gearing request has none.
func WithDefaultCadence(rpm float64) Option {
	return func(s *Service) {
		if rpm > 0 {
			s.cadence = rpm
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. The single-item operations work right away;
// batch and import operations need Start.
func New(opts ...Option) *Service {
	s := &Service{
		tires:       tirepressure.NewCalculator(),
		suspension:  suspension.NewCalculator(),
		workerCount: 4,
		maxItems:    500,
		cadence:     gearing.DefaultCadence,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s
}

// Start launches the batch pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting setup service...")

	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.pool = batch.NewPool(
		batch.WithName("batch"),
		batch.WithWorkers(s.workerCount),
		batch.WithMaxItems(s.maxItems),
		batch.WithLogger(s.logger.Named("batch")),
	)
	s.pool.Start(poolCtx)

	s.cancel = cancel
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "setup service started",
		logger.Int("workers", s.workerCount),
		logger.Int("maxItems", s.maxItems),
		logger.Float64("defaultCadence", s.cadence),
	)

	return nil
}

// Stop drains the batch pool and shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping setup service...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.pool.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "batch pool did not drain", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "setup service stopped")
}

// TirePressure validates in and returns its pressure recommendation.
func (s *Service) TirePressure(ctx context.Context, in tirepressure.Input) (tirepressure.Result, error) {
	start := time.Now()
	if err := in.Validate(); err != nil {
		s.record(ctx, EngineTire, "invalid", start)
		return tirepressure.Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	res := s.tires.Calculate(in)
	for _, c := range res.Clamps {
		metrics.RecordClamp(EngineTire, string(c))
	}
	s.record(ctx, EngineTire, "ok", start,
		logger.Int("front_psi", res.FrontPSI),
		logger.Int("rear_psi", res.RearPSI),
		logger.String("class", string(res.Class)),
	)
	return res, nil
}

// TirePressureBatch runs TirePressure for every input on the batch pool.
// Results keep the input order.
func (s *Service) TirePressureBatch(ctx context.Context, ins []tirepressure.Input) ([]tirepressure.Result, error) {
	pool, err := s.batchPool()
	if err != nil {
		return nil, err
	}
	return batch.Map(ctx, pool, ins, s.TirePressure)
}

// ImportResult pairs the rows read from a workbook with their results.
type ImportResult struct {
	Sheet   *importer.Sheet       `json:"sheet"`
	Results []tirepressure.Result `json:"results"`
}

// ImportTirePressures reads tire setups from an .xlsx workbook and
// calculates every valid row. Rows that fail to parse are reported in
// Sheet.Skipped and do not fail the import.
func (s *Service) ImportTirePressures(ctx context.Context, src io.Reader) (*ImportResult, error) {
	pool, err := s.batchPool()
	if err != nil {
		return nil, err
	}

	sheet, err := importer.ReadTireSetups(src, importer.WithMaxRows(pool.MaxItems()))
	if err != nil {
		metrics.RecordImportRows("rejected", 1)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	metrics.RecordImportRows("accepted", len(sheet.Rows))
	metrics.RecordImportRows("skipped", len(sheet.Skipped))

	inputs := make([]tirepressure.Input, len(sheet.Rows))
	for i, row := range sheet.Rows {
		inputs[i] = row.Input
	}
	results, err := batch.Map(ctx, pool, inputs, s.TirePressure)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "tire setups imported",
		logger.String("sheet", sheet.Name),
		logger.Int("rows", len(sheet.Rows)),
		logger.Int("skipped", len(sheet.Skipped)),
	)
	return &ImportResult{Sheet: sheet, Results: results}, nil
}

// WriteImport writes an import's results as an .xlsx workbook.
func (s *Service) WriteImport(w io.Writer, res *ImportResult) error {
	if res == nil || res.Sheet == nil {
		return fmt.Errorf("%w: nothing imported", ErrInvalidInput)
	}
	return importer.WriteTireResults(w, res.Sheet.Rows, res.Results)
}

// Suspension returns a baseline for the fork and shock in in. A unit given
// only by brand and model is looked up in the catalog. Missing data yields
// an insufficient_input recommendation, not an error; an unknown weight
// unit is an error.
func (s *Service) Suspension(ctx context.Context, in suspension.Input) (suspension.Recommendation, error) {
	start := time.Now()
	if in.Unit != "" && in.Unit != types.Pounds && in.Unit != types.Kilograms {
		s.record(ctx, EngineSuspension, "invalid", start)
		return suspension.Recommendation{}, fmt.Errorf("%w: unit %q", ErrInvalidInput, in.Unit)
	}
	if in.RiderWeight < 0 || in.GearWeight < 0 {
		s.record(ctx, EngineSuspension, "invalid", start)
		return suspension.Recommendation{}, fmt.Errorf("%w: weights cannot be negative", ErrInvalidInput)
	}
	if !finite(in.RiderWeight) || !finite(in.GearWeight) {
		s.record(ctx, EngineSuspension, "invalid", start)
		return suspension.Recommendation{}, fmt.Errorf("%w: weights must be finite numbers", ErrInvalidInput)
	}

	in.Fork = resolveSpec(in.Fork)
	in.Shock = resolveSpec(in.Shock)

	rec := s.suspension.Calculate(in)
	if !rec.OK() {
		s.record(ctx, EngineSuspension, string(rec.Status), start, logger.String("reason", rec.Reason))
		return rec, nil
	}
	for _, setup := range []*suspension.Setup{rec.Fork, rec.Shock} {
		if setup == nil {
			continue
		}
		for _, c := range setup.Clamps {
			metrics.RecordClamp(EngineSuspension, string(c))
		}
	}
	s.record(ctx, EngineSuspension, string(rec.Status), start,
		logger.String("accuracy", string(rec.Accuracy)),
	)
	return rec, nil
}

// Catalog lists the forks and shocks with published specs.
func (s *Service) Catalog() []model.SuspensionSpec {
	return model.Catalog()
}

// resolveSpec fills a unit given only by brand and model from the catalog.
// Units with their own dimensions are used as given.
func resolveSpec(spec *model.SuspensionSpec) *model.SuspensionSpec {
	if spec == nil || (spec.StanchionMM > 0 && spec.TravelMM > 0) {
		return spec
	}
	known, ok := model.LookupSuspension(spec.Brand, spec.Model)
	if !ok {
		return spec
	}
	return &known
}

// GearRatios lists every chainring/cog combination of setup, easiest
// first. A non-positive cadence uses the configured default.
func (s *Service) GearRatios(ctx context.Context, setup gearing.Setup, cadence float64) ([]gearing.GearRatio, error) {
	start := time.Now()
	if cadence <= 0 {
		cadence = s.cadence
	}
	gears := gearing.Calculate(setup, cadence)
	if len(gears) == 0 {
		s.record(ctx, EngineGearing, "invalid", start)
		return nil, fmt.Errorf("%w: need at least one chainring and one cog", ErrInvalidInput)
	}
	s.record(ctx, EngineGearing, "ok", start, logger.Int("gears", len(gears)))
	return gears, nil
}

// CompareGearing compares the range of two setups.
func (s *Service) CompareGearing(ctx context.Context, current, proposed gearing.Setup) (gearing.Comparison, error) {
	start := time.Now()
	if len(gearing.Calculate(current, s.cadence)) == 0 || len(gearing.Calculate(proposed, s.cadence)) == 0 {
		s.record(ctx, EngineGearing, "invalid", start)
		return gearing.Comparison{}, fmt.Errorf("%w: both setups need at least one chainring and one cog", ErrInvalidInput)
	}
	cmp := gearing.Compare(current, proposed)
	s.record(ctx, EngineGearing, "ok", start,
		logger.Float64("range_change", cmp.RangeChange),
	)
	return cmp, nil
}

// Compatibility checks that the drivetrain parts work together.
func (s *Service) Compatibility(ctx context.Context, d model.Drivetrain) compat.Report {
	start := time.Now()
	rep := compat.Check(d)
	outcome := "ok"
	if !rep.Compatible {
		outcome = "incompatible"
	}
	s.record(ctx, EngineCompat, outcome, start, logger.Int("issues", len(rep.Issues)))
	return rep
}

// SheetRequest describes a setup sheet. Sections with nil input are left
// off the sheet.
type SheetRequest struct {
	Title      string              `json:"title"`
	Rider      string              `json:"rider"`
	Bike       string              `json:"bike"`
	Tire       *tirepressure.Input `json:"tire,omitempty"`
	Suspension *suspension.Input   `json:"suspension,omitempty"`
	Gearing    *gearing.Setup      `json:"gearing,omitempty"`
	Cadence    float64             `json:"cadence,omitempty"`
	Drivetrain *model.Drivetrain   `json:"drivetrain,omitempty"`
}

// BuildSetupSheet runs every requested calculation and collects the results.
func (s *Service) BuildSetupSheet(ctx context.Context, req SheetRequest) (report.SetupSheet, error) {
	sheet := report.SetupSheet{
		Title: req.Title,
		Rider: req.Rider,
		Bike:  req.Bike,
		Date:  time.Now(),
	}

	if req.Tire != nil {
		res, err := s.TirePressure(ctx, *req.Tire)
		if err != nil {
			return report.SetupSheet{}, fmt.Errorf("tire: %w", err)
		}
		sheet.Tire = &res
	}
	if req.Suspension != nil {
		rec, err := s.Suspension(ctx, *req.Suspension)
		if err != nil {
			return report.SetupSheet{}, fmt.Errorf("suspension: %w", err)
		}
		sheet.Suspension = &rec
	}
	if req.Gearing != nil {
		gears, err := s.GearRatios(ctx, *req.Gearing, req.Cadence)
		if err != nil {
			return report.SetupSheet{}, fmt.Errorf("gearing: %w", err)
		}
		sheet.Gears = gears
	}
	if req.Drivetrain != nil {
		rep := s.Compatibility(ctx, *req.Drivetrain)
		sheet.Compat = &rep
	}
	return sheet, nil
}

// SetupSheet renders sheet as a PDF to w.
func (s *Service) SetupSheet(ctx context.Context, sheet report.SetupSheet, w io.Writer) error {
	if err := report.Render(w, sheet); err != nil {
		metrics.RecordReportRendered("error")
		s.logger.Warn(ctx, "setup sheet failed", logger.Error(err))
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	metrics.RecordReportRendered("ok")
	s.logger.Debug(ctx, "setup sheet rendered", logger.String("title", sheet.Title))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	calcs := map[string]int64{}
	s.calculations.Range(func(k, v any) bool {
		calcs[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})

	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"maxBatchItems":  s.maxItems,
		"defaultCadence": s.cadence,
		"calculations":   calcs,
	}

	if s.started {
		stats["queueLength"] = s.pool.Len()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}

	return stats
}

func (s *Service) batchPool() (*batch.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.pool, nil
}

func (s *Service) record(ctx context.Context, engine, outcome string, start time.Time, fields ...logger.Field) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordCalculation(engine, outcome)
	metrics.RecordCalculationLatency(engine, ms)

	v, _ := s.calculations.LoadOrStore(engine, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)

	fields = append(fields,
		logger.String("engine", engine),
		logger.String("outcome", outcome),
		logger.Float64("latency_ms", ms),
	)
	s.logger.Debug(ctx, "calculation", fields...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
