// Package analytics builds the wildlife park reports from an immutable
// snapshot.
//
// Each report is a pure function of a *core.Snapshot. The Analytics facade
// binds one snapshot for its lifetime, dispatches reports by Kind and
// computes the combined report, running the builders concurrently.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/wildstat/pkg/core"
)

// Analytics computes reports over a single snapshot. It holds no mutable
// state and is safe for concurrent use.
type Analytics struct {
	snap   *core.Snapshot
	logger *slog.Logger
}

// New creates an Analytics bound to snap. A nil snapshot is treated as an
// empty one; a nil logger discards output.
func New(snap *core.Snapshot, logger *slog.Logger) *Analytics {
	if snap == nil {
		snap = core.EmptySnapshot()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analytics{snap: snap, logger: logger}
}

// Snapshot returns the snapshot the reports are computed from.
func (a *Analytics) Snapshot() *core.Snapshot { return a.snap }

// BasicStats computes the basic statistics report.
func (a *Analytics) BasicStats() BasicStats { return ComputeBasicStats(a.snap) }

// AnimalDistribution computes the animal distribution report.
func (a *Analytics) AnimalDistribution() AnimalDistribution {
	return ComputeAnimalDistribution(a.snap)
}

// GuestAnalysis computes the guest analysis report.
func (a *Analytics) GuestAnalysis() (GuestAnalysis, error) { return ComputeGuestAnalysis(a.snap) }

// GuiderAnalysis computes the guider analysis report.
func (a *Analytics) GuiderAnalysis() GuiderAnalysis { return ComputeGuiderAnalysis(a.snap) }

// ComplexAnalysis computes the cross-entity report.
func (a *Analytics) ComplexAnalysis() ComplexAnalysis { return ComputeComplexAnalysis(a.snap) }

// Run computes the report of the given kind.
func (a *Analytics) Run(ctx context.Context, kind Kind) (Report, error) {
	if !kind.Valid() {
		return nil, &UnknownKindError{Kind: string(kind), Available: Kinds()}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		report Report
		err    error
	)
	switch kind {
	case KindBasic:
		report = a.BasicStats()
	case KindAnimals:
		report = a.AnimalDistribution()
	case KindGuests:
		report, err = a.GuestAnalysis()
	case KindGuiders:
		report = a.GuiderAnalysis()
	case KindComplex:
		report = a.ComplexAnalysis()
	}
	if err != nil {
		a.logger.Debug("report failed", slog.String("kind", kind.String()), slog.String("error", err.Error()))
		return nil, err
	}

	a.logger.Debug("computed report",
		slog.String("kind", kind.String()),
		slog.String("snapshot", a.snap.ID()),
		slog.Duration("duration", time.Since(start)))
	return report, nil
}

// RunByName resolves name with ParseKind and computes that report.
func (a *Analytics) RunByName(ctx context.Context, name string) (Report, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return a.Run(ctx, kind)
}

// All computes every report concurrently. The first failure fails the
// whole batch and no partial result is returned.
func (a *Analytics) All(ctx context.Context) (*Combined, error) {
	return a.Select(ctx, Kinds()...)
}

// Select computes the given reports concurrently, failing the batch on the
// first error.
func (a *Analytics) Select(ctx context.Context, selected ...Kind) (*Combined, error) {
	for _, k := range selected {
		if !k.Valid() {
			return nil, &UnknownKindError{Kind: string(k), Available: Kinds()}
		}
	}

	var (
		mu  sync.Mutex
		out Combined
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, k := range selected {
		g.Go(func() error {
			r, err := a.Run(gctx, k)
			if err != nil {
				return err
			}
			mu.Lock()
			out.set(r)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("combined report: %w", err)
	}
	return &out, nil
}

// AllPartial computes every report concurrently and keeps the ones that
// succeeded. The returned error joins the failures of the others; the
// combined result is never nil.
func (a *Analytics) AllPartial(ctx context.Context) (*Combined, error) {
	return a.SelectPartial(ctx, Kinds()...)
}

// SelectPartial is Select without the fail-fast: every selected report is
// attempted and the failures are joined.
func (a *Analytics) SelectPartial(ctx context.Context, selected ...Kind) (*Combined, error) {
	var (
		mu   sync.Mutex
		out  Combined
		errs = make([]error, len(selected))
		wg   sync.WaitGroup
	)
	for i, k := range selected {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := a.Run(ctx, k)
			if err != nil {
				errs[i] = err
				return
			}
			mu.Lock()
			out.set(r)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return &out, errors.Join(errs...)
}
