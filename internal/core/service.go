package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"sdrfcore/internal/blob"
	"sdrfcore/internal/parse"
	"sdrfcore/internal/termsource"
	"sdrfcore/pkg/sdrf"
)

const documentContentType = "text/tab-separated-values"

// Service exposes the high-level operations: parse a document into a stored
// experiment, validate its term-source references, and retrieve archived
// sources.
type Service struct {
	store    sdrf.Store
	blobs    blob.Store
	logger   Logger
	clock    Clock
	metrics  MetricsRecorder
	resolver termsource.Resolver
	catalog  *termsource.Catalog
}

// NewService constructs a service over the supplied experiment store. A nil
// blob store disables document archival.
func NewService(store sdrf.Store, blobs blob.Store, opts ...ServiceOption) *Service {
	options := defaultServiceOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{
		store:    store,
		blobs:    blobs,
		logger:   options.logger,
		clock:    options.clock,
		metrics:  options.metrics,
		resolver: options.resolver,
		catalog:  options.catalog,
	}
}

func (s *Service) observe(ctx context.Context, operation string, start time.Time, err error) {
	s.metrics.Observe(ctx, operation, err == nil, time.Since(start))
}

// ParseDocument parses one tab-delimited document, persists the resulting
// experiment, and archives the source bytes under documents/<id>.sdrf.
// Returned warnings are non-fatal; a returned error means nothing was stored.
func (s *Service) ParseDocument(ctx context.Context, name string, r io.Reader) (rec Record, warnings []parse.UnconsumedCellsWarning, err error) {
	start := s.clock.Now()
	defer func() { s.observe(ctx, "parse_document", start, err) }()

	data, err := io.ReadAll(r)
	if err != nil {
		return Record{}, nil, fmt.Errorf("read document: %w", err)
	}
	session := parse.NewSession(parse.WithLogger(s.logger))
	experiment, err := session.Parse(bytes.NewReader(data))
	if err != nil {
		s.logger.Error("document rejected", "name", name, "error", err)
		return Record{}, nil, err
	}
	warnings = session.Warnings()

	rec = Record{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedAt:  start,
		Experiment: experiment,
	}
	if s.blobs != nil {
		key := "documents/" + rec.ID + ".sdrf"
		if _, err := s.blobs.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
			ContentType: documentContentType,
			Metadata:    map[string]string{"name": name},
		}); err != nil {
			return Record{}, nil, fmt.Errorf("archive document: %w", err)
		}
		rec.SourceKey = key
	}
	rec, err = s.store.PutExperiment(ctx, rec)
	if err != nil {
		return Record{}, nil, fmt.Errorf("store experiment: %w", err)
	}
	s.logger.Info("document parsed",
		"id", rec.ID,
		"name", name,
		"slots", len(experiment.Slots),
		"warnings", len(warnings),
	)
	return rec, warnings, nil
}

// GetExperiment returns the stored record with a freshly rebuilt graph.
func (s *Service) GetExperiment(ctx context.Context, id string) (rec Record, err error) {
	start := s.clock.Now()
	defer func() { s.observe(ctx, "get_experiment", start, err) }()
	return s.store.GetExperiment(ctx, id)
}

// ListExperiments returns all stored records.
func (s *Service) ListExperiments(ctx context.Context) (recs []Record, err error) {
	start := s.clock.Now()
	defer func() { s.observe(ctx, "list_experiments", start, err) }()
	return s.store.ListExperiments(ctx)
}

// DeleteExperiment removes the record and its archived source, if any.
func (s *Service) DeleteExperiment(ctx context.Context, id string) (err error) {
	start := s.clock.Now()
	defer func() { s.observe(ctx, "delete_experiment", start, err) }()

	rec, err := s.store.GetExperiment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteExperiment(ctx, id); err != nil {
		return err
	}
	if s.blobs != nil && rec.SourceKey != "" {
		if _, err := s.blobs.Delete(ctx, rec.SourceKey); err != nil {
			s.logger.Warn("archived document not removed", "id", id, "key", rec.SourceKey, "error", err)
		}
	}
	return nil
}

// ValidateExperiment resolves every term-source reference of a stored
// experiment and persists any accessions filled in along the way. Requires a
// resolver configured via WithResolver.
func (s *Service) ValidateExperiment(ctx context.Context, id string) (report termsource.Report, err error) {
	start := s.clock.Now()
	defer func() { s.observe(ctx, "validate_experiment", start, err) }()

	if s.resolver == nil {
		return termsource.Report{}, fmt.Errorf("no term-source resolver configured")
	}
	rec, err := s.store.GetExperiment(ctx, id)
	if err != nil {
		return termsource.Report{}, err
	}
	validator := termsource.NewValidator(s.resolver, s.catalog)
	report, err = validator.ValidateExperiment(ctx, rec.Experiment)
	if err != nil {
		return termsource.Report{}, err
	}
	if report.Resolved > 0 {
		if _, err := s.store.PutExperiment(ctx, rec); err != nil {
			return termsource.Report{}, fmt.Errorf("store resolved accessions: %w", err)
		}
	}
	s.logger.Info("experiment validated",
		"id", id,
		"checked", report.Checked,
		"resolved", report.Resolved,
		"failures", len(report.Failures),
	)
	return report, nil
}

// ArchivedDocument returns the original source bytes of a stored experiment.
func (s *Service) ArchivedDocument(ctx context.Context, id string) (rc io.ReadCloser, err error) {
	start := s.clock.Now()
	defer func() { s.observe(ctx, "archived_document", start, err) }()

	if s.blobs == nil {
		return nil, fmt.Errorf("no blob store configured")
	}
	rec, err := s.store.GetExperiment(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.SourceKey == "" {
		return nil, fmt.Errorf("experiment %s has no archived document", id)
	}
	_, rc, err = s.blobs.Get(ctx, rec.SourceKey)
	return rc, err
}
