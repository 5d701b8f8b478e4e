package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rpgo/financial-freedom/internal/domain"
)

// maxPublishAttempts bounds how often ApplyShock recomputes after losing a race with
// RunBaseline.
const maxPublishAttempts = 3

// ErrBaselineChanged is returned when a shock could not be published because the
// baseline kept being replaced.
var ErrBaselineChanged = errors.New("baseline changed while applying shock")

// projectionState is one published snapshot. Its trajectories are never mutated after
// publication; a new snapshot replaces it wholesale.
type projectionState struct {
	params   domain.ParameterSet
	baseline domain.Trajectory
	shock    *domain.AccidentShock
	current  domain.Trajectory
}

// ProjectionService runs baselines and overlays shocks on the cached baseline.
// It is safe for concurrent use.
type ProjectionService struct {
	Simulator *WealthSimulator
	Sources   SourceFactory
	Logger    Logger

	mu    sync.RWMutex
	state *projectionState

	// beforePublish runs between computing an overlay and publishing it (tests only).
	beforePublish func()
}

// NewProjectionService creates a service with the default simulator and independently
// seeded random sources.
func NewProjectionService() *ProjectionService {
	return &ProjectionService{
		Simulator: NewWealthSimulator(),
		Sources:   FreshSources(),
		Logger:    NopLogger{},
	}
}

// SetLogger sets the logger for the service and its simulator. If nil is provided, a no-op logger is used.
func (ps *ProjectionService) SetLogger(l Logger) {
	l = loggerOrNop(l)
	ps.Logger = l
	if ps.Simulator != nil {
		ps.Simulator.Logger = l
	}
}

// RunBaseline simulates params, replaces the cached baseline and returns its projection.
// When params carries an accident, the returned projection is the shocked one and the
// shock stays set until ClearShock or the next RunBaseline.
func (ps *ProjectionService) RunBaseline(ctx context.Context, params domain.ParameterSet) (*domain.Projection, error) {
	if params.Accident != nil {
		if err := params.Accident.Validate(); err != nil {
			return nil, fmt.Errorf("accident: %w", err)
		}
	}

	sim := ps.Simulator
	if sim == nil {
		sim = NewWealthSimulator()
	}
	var src RandomVariateSource
	if params.AllocationFraction().IsPositive() {
		sources := ps.Sources
		if sources == nil {
			sources = FreshSources()
		}
		src = sources()
	}

	baseline, err := sim.Simulate(ctx, params, src)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate baseline: %w", err)
	}

	state := &projectionState{params: params, baseline: baseline, current: baseline}
	if params.Accident != nil {
		shock := *params.Accident
		state.shock = &shock
		state.current = ApplyShock(baseline, shock)
	}

	ps.mu.Lock()
	ps.state = state
	ps.mu.Unlock()

	projection := project(state)
	loggerOrNop(ps.Logger).Infof("baseline ready: ages %d-%d, corpus %s, freedom age %s",
		params.CurrentAge, params.RetirementAge, projection.RequiredCorpus.StringFixed(2), describeAge(projection.FreedomAge))
	return projection, nil
}

// ApplyShock overlays shock on the cached baseline, replacing any previously set shock.
// It returns domain.ErrUnseededOverlay when no baseline has been run, and
// ErrBaselineChanged when new baselines keep replacing the one being overlaid.
func (ps *ProjectionService) ApplyShock(ctx context.Context, shock domain.AccidentShock) (*domain.Projection, error) {
	if err := shock.Validate(); err != nil {
		return nil, fmt.Errorf("accident: %w", err)
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ps.mu.RLock()
		prev := ps.state
		ps.mu.RUnlock()
		if prev == nil {
			return nil, domain.ErrUnseededOverlay
		}

		state := &projectionState{
			params:   prev.params,
			baseline: prev.baseline,
			shock:    &shock,
			current:  ApplyShock(prev.baseline, shock),
		}
		if ps.beforePublish != nil {
			ps.beforePublish()
		}
		if ps.publish(prev, state) {
			loggerOrNop(ps.Logger).Debugf("shock applied at age %d: amount %s", shock.AccidentAge, shock.ShockAmount().StringFixed(2))
			return project(state), nil
		}
		if attempt == maxPublishAttempts {
			return nil, fmt.Errorf("%w after %d attempts", ErrBaselineChanged, attempt)
		}
		loggerOrNop(ps.Logger).Debugf("baseline replaced while applying shock, retrying")
	}
}

// ClearShock drops the current shock and returns the baseline projection.
func (ps *ProjectionService) ClearShock() (*domain.Projection, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.state == nil {
		return nil, domain.ErrUnseededOverlay
	}
	ps.state = &projectionState{
		params:   ps.state.params,
		baseline: ps.state.baseline,
		current:  ps.state.baseline,
	}
	return project(ps.state), nil
}

// Baseline returns the unshocked projection, or nil before the first RunBaseline.
func (ps *ProjectionService) Baseline() *domain.Projection {
	ps.mu.RLock()
	state := ps.state
	ps.mu.RUnlock()
	if state == nil {
		return nil
	}
	return project(&projectionState{params: state.params, baseline: state.baseline, current: state.baseline})
}

// Current returns the projection currently on display, or nil before the first RunBaseline.
func (ps *ProjectionService) Current() *domain.Projection {
	ps.mu.RLock()
	state := ps.state
	ps.mu.RUnlock()
	if state == nil {
		return nil
	}
	return project(state)
}

// publish swaps in next only if the snapshot is still prev.
func (ps *ProjectionService) publish(prev, next *projectionState) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.state != prev {
		return false
	}
	ps.state = next
	return true
}

// project builds a Projection over a copy of the snapshot's current trajectory.
func project(state *projectionState) *domain.Projection {
	p := Summarize(state.current.Clone())
	if state.shock != nil {
		shock := *state.shock
		p.ShockApplied = true
		p.Shock = &shock
	}
	return p
}

func describeAge(age *int) string {
	if age == nil {
		return "not achieved"
	}
	return fmt.Sprintf("%d", *age)
}
