// Package server exposes the icon grid over HTTP.
//
// The catalog and resolver are built before the server starts and are only
// read afterwards, so handlers share them without locking.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"

	"github.com/polisai/skillicons/pkg/catalog"
	"github.com/polisai/skillicons/pkg/config"
	"github.com/polisai/skillicons/pkg/grid"
	"github.com/polisai/skillicons/pkg/icons"
	"github.com/polisai/skillicons/pkg/telemetry"
)

// Options configures a Server.
type Options struct {
	Catalog  *catalog.Catalog
	Resolver *icons.Resolver
	Render   config.RenderConfig

	// Metrics enables the Prometheus endpoint at MetricsPath when non-nil.
	Metrics     *Metrics
	MetricsPath string

	// RateLimiter throttles every route except /healthz when non-nil.
	RateLimiter *RateLimiter

	Logger *slog.Logger
}

// Server serves composite icon images and the catalog listing endpoints.
type Server struct {
	catalog     *catalog.Catalog
	resolver    *icons.Resolver
	render      config.RenderConfig
	metrics     *Metrics
	metricsPath string
	limiter     *RateLimiter
	logger      *slog.Logger

	httpServer *http.Server
	errCh      chan error
}

// New validates opts and builds a Server. A nil Resolver is derived from the
// catalog with the default alias table.
func New(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		return nil, errors.New("server: catalog is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Resolver == nil {
		opts.Resolver = icons.NewResolver(opts.Catalog, nil)
	}
	if opts.Render.DefaultPerLine == 0 {
		opts.Render.DefaultPerLine = config.DefaultPerLine
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.Metrics != nil {
		opts.Metrics.metricsPath = opts.MetricsPath
	}
	if opts.RateLimiter != nil {
		opts.RateLimiter.metricsPath = opts.MetricsPath
	}

	return &Server{
		catalog:     opts.Catalog,
		resolver:    opts.Resolver,
		render:      opts.Render,
		metrics:     opts.Metrics,
		metricsPath: opts.MetricsPath,
		limiter:     opts.RateLimiter,
		logger:      opts.Logger,
		errCh:       make(chan error, 1),
	}, nil
}

// Handler returns the full middleware chain around the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /icons", s.handleIcons)
	mux.HandleFunc("GET /api/icons", s.handleIconNames)
	mux.HandleFunc("GET /api/svgs", s.handleCatalog)
	mux.HandleFunc("GET /healthz", handleHealth)
	if s.metrics != nil {
		mux.Handle("GET "+s.metricsPath, s.metrics.Handler())
	}

	var handler http.Handler = otelhttp.NewHandler(mux, "skillicons.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	if s.limiter != nil {
		handler = s.limiter.Wrap(handler)
	}
	if s.metrics != nil {
		handler = s.metrics.MetricsMiddleware(handler)
	}
	return RequestID(s.logger, handler)
}

// Start binds cfg.Address and serves in the background. Serve failures are
// logged and delivered on Errors.
func (s *Server) Start(cfg config.ServerConfig) (net.Addr, error) {
	tlsConfig, err := cfg.TLS.ServerTLSConfig()
	if err != nil {
		return nil, fmt.Errorf("tls config: %w", err)
	}

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		TLSConfig:    tlsConfig,
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to bind listener on %s: %w", cfg.Address, err)
	}

	// Log the actual resolved address (useful when addr is :0)
	s.logger.Info("Server listening", "addr", listener.Addr().String(), "tls", tlsConfig != nil, "icons", s.catalog.Len())

	go func() {
		var err error
		if tlsConfig != nil {
			err = s.httpServer.ServeTLS(listener, cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = s.httpServer.Serve(listener)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed", "error", err)
			s.errCh <- err
		}
	}()

	return listener.Addr(), nil
}

// Errors reports a fatal serve error, if one occurs.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Shutdown gracefully stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIcons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := ParseRequest(r.URL.Query(), s.render)
	if err != nil {
		s.recordRender(ctx, telemetry.RenderMetrics{Outcome: telemetry.OutcomeRejected})
		s.writeError(w, r, err)
		return
	}

	tokens := s.resolver.Expand(req.Icons)

	_, span := telemetry.Tracer().Start(ctx, "icons.resolve")
	keys := s.resolver.Resolve(tokens, req.Theme)
	rm := telemetry.RenderMetrics{
		Requested: len(tokens),
		Resolved:  len(keys),
		PerLine:   req.PerLine,
		Theme:     string(req.Theme),
	}
	telemetry.AnnotateRender(span, rm)
	span.End()

	if len(keys) == 0 {
		rm.Outcome = telemetry.OutcomeUnresolved
		s.recordRender(ctx, rm)
		s.writeError(w, r, errNothingResolved())
		return
	}

	_, span = telemetry.Tracer().Start(ctx, "grid.compose")
	start := time.Now()
	doc, err := grid.Compose(keys, req.PerLine, s.catalog)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose failed")
		span.End()
		rm.Outcome = telemetry.OutcomeFailed
		s.recordRender(ctx, rm)
		s.writeError(w, r, err)
		return
	}
	span.End()

	rm.Outcome = telemetry.OutcomeRendered
	s.recordRender(ctx, rm)
	s.logger.Debug("rendered icon grid",
		"request_id", RequestIDFromContext(ctx),
		"icons", len(keys),
		"per_line", req.PerLine,
		"theme", req.Theme,
		"duration", time.Since(start),
	)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := doc.WriteTo(w); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func (s *Server) handleIconNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, s.resolver.BaseNames())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	data, err := s.catalog.MarshalJSON()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) recordRender(ctx context.Context, rm telemetry.RenderMetrics) {
	telemetry.RecordRender(ctx, rm)
	if s.metrics != nil {
		s.metrics.RecordRender(rm.Outcome, rm.Theme, rm.Requested, rm.Resolved)
	}
}
