package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dailyoperacional/internal/catalog"
	"dailyoperacional/internal/dataset"
	"dailyoperacional/internal/engine"
	"dailyoperacional/internal/source"
)

// SnapshotSource is satisfied by *source.Store.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (source.Snapshot, error)
}

// Recorder receives run level measurements.
type Recorder interface {
	engine.FailureObserver
	RenderDone(elapsed time.Duration)
}

// Service runs the pipeline for HTTP handlers.
type Service struct {
	Source    SnapshotSource
	Catalog   *catalog.Catalog
	Formatter engine.Formatter
	Recorder  Recorder
	Logger    *slog.Logger
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// View loads the current snapshot and renders it. A load failure yields a
// view carrying only the diagnostic.
func (s *Service) View(ctx context.Context, q Query) ViewModel {
	start := s.now()
	runID := uuid.NewString()
	logger := s.logger().With("run_id", runID)

	snap, err := s.Source.Snapshot(ctx)
	if err != nil {
		logger.Error("load failed", "error", err)
		return ViewModel{
			RunID:          runID,
			CatalogVersion: s.Catalog.Version(),
			GeneratedAt:    start,
			Query:          q,
			Error:          diagnose(err),
		}
	}

	in := Input{
		Snapshot:  snap,
		Catalog:   s.Catalog,
		Query:     q,
		Today:     start,
		Formatter: s.Formatter,
	}
	if s.Recorder != nil {
		in.Failures = s.Recorder
	}
	vm := Render(in)
	vm.RunID = runID
	vm.GeneratedAt = start

	elapsed := s.now().Sub(start)
	if s.Recorder != nil {
		s.Recorder.RenderDone(elapsed)
	}
	logger.Info("view rendered",
		"sections", len(vm.Sections),
		"events", len(snap.Events),
		"window_from", vm.Window.From.Format(time.DateOnly),
		"window_to", vm.Window.To.Format(time.DateOnly),
		"duration_ms", elapsed.Milliseconds(),
	)
	return vm
}

// Choices are the selectable filter values.
type Choices struct {
	Options dataset.Options  `json:"options"`
	Periods []dataset.Period `json:"periods"`
}

// Options returns the facet and period choices of the current snapshot.
func (s *Service) Options(ctx context.Context) (Choices, error) {
	snap, err := s.Source.Snapshot(ctx)
	if err != nil {
		return Choices{}, err
	}
	merged := dataset.Merge(snap.Events, snap.References, s.Catalog)
	visible := dataset.Visible(merged, s.Catalog)
	return Choices{
		Options: dataset.FacetOptions(visible),
		Periods: dataset.Periods(visible, s.now()),
	}, nil
}

func diagnose(err error) *Diagnostic {
	stage := "load"
	var le *source.LoadError
	if errors.As(err, &le) {
		stage = string(le.Stage)
	}

	var msg string
	switch {
	case errors.Is(err, source.ErrMissingColumns):
		msg = "A planilha não contém as colunas obrigatórias"
	case errors.Is(err, source.ErrEmptySource):
		msg = "A fonte de dados está vazia"
	case errors.Is(err, source.ErrMissingCredentials):
		msg = "Credenciais do Google Drive não configuradas"
	case errors.Is(err, context.DeadlineExceeded):
		msg = "Tempo esgotado ao buscar os dados"
	default:
		msg = "Erro ao carregar os dados"
	}
	return &Diagnostic{Stage: stage, Message: fmt.Sprintf("%s (%s): %v", msg, stage, err)}
}
