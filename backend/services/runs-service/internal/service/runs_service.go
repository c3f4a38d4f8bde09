package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"hotfire/backend/services/runs-service/internal/catalog"
	"hotfire/backend/services/runs-service/internal/metrics"
	"hotfire/backend/services/runs-service/internal/models"
	"hotfire/backend/services/runs-service/internal/normalize"
	"hotfire/backend/services/runs-service/internal/source"
)

// ErrAccessLogDisabled is returned by RecentAccess when no access log is configured.
var ErrAccessLogDisabled = errors.New("service: access log disabled")

// AccessLog persists served requests.
type AccessLog interface {
	Save(ctx context.Context, event models.AccessEvent) error
	Recent(ctx context.Context, limit int) ([]models.AccessEvent, error)
}

// Caller identifies who issued a request.
type Caller struct {
	Subject    string
	RemoteAddr string
}

type callerKey struct{}

// WithCaller attaches the caller to ctx for access logging.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func callerFrom(ctx context.Context) Caller {
	caller, _ := ctx.Value(callerKey{}).(Caller)
	return caller
}

// RunsService serves runs and their normalized charts.
type RunsService struct {
	source    source.Source
	catalog   *catalog.Catalog
	sentinel  string
	accessLog AccessLog
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// Options configures optional collaborators.
type Options struct {
	Sentinel  string
	AccessLog AccessLog
	Metrics   *metrics.Metrics
}

// NewRunsService returns service instance.
func NewRunsService(src source.Source, c *catalog.Catalog, opts Options, logger *zap.Logger) *RunsService {
	if opts.Sentinel == "" {
		opts.Sentinel = normalize.DefaultSentinel
	}
	return &RunsService{
		source:    src,
		catalog:   c,
		sentinel:  opts.Sentinel,
		accessLog: opts.AccessLog,
		metrics:   opts.Metrics,
		logger:    logger,
	}
}

// Catalog returns the chart layout in use.
func (s *RunsService) Catalog() *catalog.Catalog {
	return s.catalog
}

// ListRuns returns the available run names.
func (s *RunsService) ListRuns(ctx context.Context) ([]string, error) {
	runs, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}
	s.record(ctx, models.ActionList, "")
	return runs, nil
}

// Records returns the raw rows of a run.
func (s *RunsService) Records(ctx context.Context, name string) ([]models.Record, error) {
	records, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	run, _ := source.RunName(name)
	s.record(ctx, models.ActionView, run)
	return records, nil
}

// Charts returns the normalized chart groups and total thrust of a run.
func (s *RunsService) Charts(ctx context.Context, name string) (normalize.RunCharts, error) {
	records, err := s.load(ctx, name)
	if err != nil {
		return normalize.RunCharts{}, err
	}
	run, _ := source.RunName(name)
	charts := normalize.BuildRunCharts(run, records, s.catalog, s.sentinel)
	s.logger.Debug("run normalized",
		zap.String("run", run),
		zap.Int("rows", len(records)),
		zap.Int("kept", charts.Rows),
	)
	s.record(ctx, models.ActionChart, run)
	return charts, nil
}

// Open returns the raw run file for download. The caller closes the reader.
func (s *RunsService) Open(ctx context.Context, name string) (io.ReadCloser, models.RunInfo, error) {
	rc, info, err := s.source.Open(ctx, name)
	if err != nil {
		return nil, models.RunInfo{}, err
	}
	s.record(ctx, models.ActionDownload, info.Name)
	return rc, info, nil
}

// RecentAccess returns the latest access log entries.
func (s *RunsService) RecentAccess(ctx context.Context, limit int) ([]models.AccessEvent, error) {
	if s.accessLog == nil {
		return nil, ErrAccessLogDisabled
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.accessLog.Recent(ctx, limit)
}

func (s *RunsService) load(ctx context.Context, name string) ([]models.Record, error) {
	records, err := s.source.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRows(len(records))
	return records, nil
}

func (s *RunsService) record(ctx context.Context, action, run string) {
	if s.accessLog == nil {
		return
	}
	caller := callerFrom(ctx)
	event := models.AccessEvent{
		Action:     action,
		Run:        run,
		Subject:    caller.Subject,
		RemoteAddr: caller.RemoteAddr,
	}
	if err := s.accessLog.Save(ctx, event); err != nil {
		s.logger.Warn("failed to record access", zap.String("action", action), zap.String("run", run), zap.Error(err))
	}
}
