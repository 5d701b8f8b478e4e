// Package server exposes the projection engine over HTTP.
package server

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/financial-freedom/internal/calculation"
	"github.com/rpgo/financial-freedom/internal/config"
	"github.com/rpgo/financial-freedom/internal/logger"
	"github.com/rpgo/financial-freedom/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"golang.org/x/time/rate"
)

// Server serves the projection API.
type Server struct {
	settings   config.ServerSettings
	simulation config.SimulationSettings

	api       *logger.APILogger
	engineLog *logger.EngineLogger
	sessions  *SessionStore
	limiter   *rate.Limiter
	metrics   fasthttp.RequestHandler
	http      *fasthttp.Server
}

// New builds a server from settings. Nothing listens until Serve or ListenAndServe.
func New(settings *config.Settings, log *logrus.Logger) *Server {
	s := &Server{
		settings:   settings.Server,
		simulation: settings.Simulation,
		api:        logger.NewAPILogger(log),
		engineLog:  logger.NewEngineLogger(log),
		limiter:    rate.NewLimiter(rate.Limit(settings.Server.RateLimit), settings.Server.RateBurst),
		metrics:    fasthttpadaptor.NewFastHTTPHandler(metrics.Handler()),
	}
	s.sessions = NewSessionStore(settings.Server.SessionTTL, settings.Server.CleanupInterval, s.newService)
	s.http = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "ffcalc",
		ReadTimeout:        settings.Server.ReadTimeout,
		WriteTimeout:       settings.Server.WriteTimeout,
		MaxRequestBodySize: settings.Server.MaxBodyBytes,
	}
	return s
}

func (s *Server) newService(id string) *calculation.ProjectionService {
	svc := calculation.NewProjectionService()
	svc.Simulator.MaxYears = s.simulation.MaxYears
	svc.SetLogger(s.engineLog.WithSession(id))
	return svc
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore { return s.sessions }

// ListenAndServe serves on the configured address until Shutdown.
func (s *Server) ListenAndServe() error {
	s.api.WithField("addr", s.settings.Addr).Info("Projection API listening")
	return s.http.ListenAndServe(s.settings.Addr)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.http.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.ShutdownWithContext(ctx)
}

// Handler returns the rate-limited, logged request handler.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		method := string(ctx.Method())
		path := string(ctx.Path())

		route := "limited"
		if s.limiter.Allow() {
			route = s.route(ctx, method, path)
		} else {
			metrics.RecordRateLimited()
			writeError(ctx, fasthttp.StatusTooManyRequests, "rate limit exceeded")
		}

		status := ctx.Response.StatusCode()
		metrics.RecordHTTPRequest(route, strconv.Itoa(status))
		s.api.LogRequest(method, path, status, time.Since(start))
	}
}

// route dispatches a request and returns its route label.
func (s *Server) route(ctx *fasthttp.RequestCtx, method, path string) string {
	switch path {
	case "/healthz":
		if !allow(ctx, method, fasthttp.MethodGet) {
			return "/healthz"
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		return "/healthz"
	case "/metrics":
		if allow(ctx, method, fasthttp.MethodGet) {
			s.metrics(ctx)
		}
		return "/metrics"
	case "/v1/sessions":
		if allow(ctx, method, fasthttp.MethodPost) {
			s.handleCreateSession(ctx)
		}
		return "/v1/sessions"
	case "/v1/montecarlo":
		if allow(ctx, method, fasthttp.MethodPost) {
			s.handleMonteCarlo(ctx)
		}
		return "/v1/montecarlo"
	}

	rest, ok := strings.CutPrefix(path, "/v1/sessions/")
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, "no route for "+path)
		return "unknown"
	}
	id, action, _ := strings.Cut(rest, "/")

	switch action {
	case "":
		switch method {
		case fasthttp.MethodGet:
			s.handleGetSession(ctx, id)
		case fasthttp.MethodDelete:
			s.handleDeleteSession(ctx, id)
		default:
			allow(ctx, method, fasthttp.MethodGet, fasthttp.MethodDelete)
		}
		return "/v1/sessions/{id}"
	case "baseline":
		if allow(ctx, method, fasthttp.MethodPost) {
			s.handleBaseline(ctx, id)
		}
		return "/v1/sessions/{id}/baseline"
	case "shock":
		switch method {
		case fasthttp.MethodPost:
			s.handleShock(ctx, id)
		case fasthttp.MethodDelete:
			s.handleClearShock(ctx, id)
		default:
			allow(ctx, method, fasthttp.MethodPost, fasthttp.MethodDelete)
		}
		return "/v1/sessions/{id}/shock"
	}

	writeError(ctx, fasthttp.StatusNotFound, "no route for "+path)
	return "unknown"
}

// allow writes 405 unless method is one of allowed.
func allow(ctx *fasthttp.RequestCtx, method string, allowed ...string) bool {
	for _, m := range allowed {
		if method == m {
			return true
		}
	}
	ctx.Response.Header.Set("Allow", strings.Join(allowed, ", "))
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "method "+method+" not allowed")
	return false
}

// requestContext bounds engine work by the write timeout.
func (s *Server) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.settings.WriteTimeout)
}
