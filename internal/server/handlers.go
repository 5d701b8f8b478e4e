package server

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rpgo/financial-freedom/internal/calculation"
	"github.com/rpgo/financial-freedom/internal/config"
	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/rpgo/financial-freedom/internal/metrics"
	"github.com/valyala/fasthttp"
)

// MonteCarloRequest is the body of POST /v1/montecarlo. Simulations defaults to the
// configured count; Seed 0 picks a fresh seed.
type MonteCarloRequest struct {
	Input       config.Input `json:"input"`
	Simulations int          `json:"simulations"`
	Seed        int64        `json:"seed"`
}

func decodeBody(ctx *fasthttp.RequestCtx, v interface{}) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return fmt.Errorf("%w: request body is empty", domain.ErrInvalidParameter)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidParameter, err)
	}
	return nil
}

func (s *Server) handleCreateSession(ctx *fasthttp.RequestCtx) {
	id := s.sessions.Create()
	s.api.LogSession(id, "created")
	writeJSON(ctx, fasthttp.StatusCreated, SessionResponse{SessionID: id})
}

func (s *Server) handleGetSession(ctx *fasthttp.RequestCtx, id string) {
	svc, err := s.sessions.Get(id)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	current := svc.Current()
	if current == nil {
		writeErr(ctx, domain.ErrUnseededOverlay)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, current)
}

func (s *Server) handleDeleteSession(ctx *fasthttp.RequestCtx, id string) {
	if !s.sessions.Delete(id) {
		writeErr(ctx, errSessionNotFound)
		return
	}
	s.api.LogSession(id, "deleted")
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func (s *Server) handleBaseline(ctx *fasthttp.RequestCtx, id string) {
	svc, err := s.sessions.Get(id)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	var input config.Input
	if err := decodeBody(ctx, &input); err != nil {
		writeErr(ctx, err)
		return
	}

	start := time.Now()
	projection, err := s.runBaseline(svc, input)
	metrics.RecordProjection("baseline", outcome(err), time.Since(start).Seconds())
	if err != nil {
		writeErr(ctx, err)
		return
	}
	metrics.RecordFreedomAge(projection.FreedomAge)
	s.api.LogProjection(id, "baseline", projection.FreedomAge, projection.ShockApplied)
	writeJSON(ctx, fasthttp.StatusOK, projection)
}

func (s *Server) runBaseline(svc *calculation.ProjectionService, input config.Input) (*domain.Projection, error) {
	params, err := input.ToParameterSet()
	if err != nil {
		return nil, err
	}
	rctx, cancel := s.requestContext()
	defer cancel()
	return svc.RunBaseline(rctx, params)
}

func (s *Server) handleShock(ctx *fasthttp.RequestCtx, id string) {
	svc, err := s.sessions.Get(id)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	var accident config.AccidentInput
	if err := decodeBody(ctx, &accident); err != nil {
		writeErr(ctx, err)
		return
	}

	start := time.Now()
	projection, err := s.applyShock(svc, accident)
	metrics.RecordProjection("shock", outcome(err), time.Since(start).Seconds())
	if err != nil {
		writeErr(ctx, err)
		return
	}
	s.api.LogProjection(id, "shock", projection.FreedomAge, projection.ShockApplied)
	writeJSON(ctx, fasthttp.StatusOK, projection)
}

func (s *Server) applyShock(svc *calculation.ProjectionService, accident config.AccidentInput) (*domain.Projection, error) {
	shock, err := accident.ToShock()
	if err != nil {
		return nil, err
	}
	rctx, cancel := s.requestContext()
	defer cancel()
	return svc.ApplyShock(rctx, shock)
}

func (s *Server) handleClearShock(ctx *fasthttp.RequestCtx, id string) {
	svc, err := s.sessions.Get(id)
	if err != nil {
		writeErr(ctx, err)
		return
	}

	start := time.Now()
	projection, err := svc.ClearShock()
	metrics.RecordProjection("clear_shock", outcome(err), time.Since(start).Seconds())
	if err != nil {
		writeErr(ctx, err)
		return
	}
	s.api.LogProjection(id, "clear_shock", projection.FreedomAge, projection.ShockApplied)
	writeJSON(ctx, fasthttp.StatusOK, projection)
}

func (s *Server) handleMonteCarlo(ctx *fasthttp.RequestCtx) {
	var req MonteCarloRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeErr(ctx, err)
		return
	}

	start := time.Now()
	summary, err := s.runMonteCarlo(req)
	metrics.RecordProjection("monte_carlo", outcome(err), time.Since(start).Seconds())
	if err != nil {
		writeErr(ctx, err)
		return
	}
	metrics.RecordMonteCarloSuccessRate(summary.SuccessRate.InexactFloat64())
	writeJSON(ctx, fasthttp.StatusOK, summary)
}

func (s *Server) runMonteCarlo(req MonteCarloRequest) (*domain.MonteCarloSummary, error) {
	params, err := req.Input.ToParameterSet()
	if err != nil {
		return nil, err
	}
	n := req.Simulations
	if n == 0 {
		n = s.simulation.MonteCarloSimulations
	}
	if n < 0 || n > s.simulation.MonteCarloSimulations {
		return nil, fmt.Errorf("%w: simulations must be between 1 and %d, got %d",
			domain.ErrInvalidParameter, s.simulation.MonteCarloSimulations, n)
	}

	mcs := calculation.NewMonteCarloSimulator()
	mcs.Simulator.MaxYears = s.simulation.MaxYears
	mcs.Simulator.Logger = s.engineLog
	mcs.Logger = s.engineLog

	rctx, cancel := s.requestContext()
	defer cancel()
	return mcs.Run(rctx, params, calculation.MonteCarloConfig{
		NumSimulations: n,
		Seed:           req.Seed,
		Concurrency:    s.simulation.MonteCarloConcurrency,
	})
}
