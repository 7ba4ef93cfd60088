package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tidalpow/backend-go/internal/api"
	"github.com/tidalpow/backend-go/internal/energy"
	"github.com/tidalpow/backend-go/internal/handler"
)

type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// Gatherer backs /metrics. Nil serves the default registry.
	Gatherer prometheus.Gatherer
}

// Server is the local HTTP surface over the dashboard service.
type Server struct {
	router  *mux.Router
	srv     *http.Server
	service handler.DashboardService
	opts    Options
	now     func() time.Time
}

func New(service handler.DashboardService, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	router := mux.NewRouter()
	s := &Server{
		router:  router,
		service: service,
		opts:    opts,
		now:     time.Now,
		srv: &http.Server{
			Addr:         opts.Addr,
			Handler:      router,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(logRequests)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metricsHandler()).Methods(http.MethodGet)

	stations := s.router.PathPrefix("/stations").Subrouter()
	stations.HandleFunc("", s.handleRanking).Methods(http.MethodGet)
	stations.HandleFunc("/{name}", s.handleDashboard).Methods(http.MethodGet)
	stations.HandleFunc("/{name}/revenue", s.handleRevenue).Methods(http.MethodGet)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("Starting HTTP server")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}

func (s *Server) metricsHandler() http.Handler {
	if s.opts.Gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	page, err := api.ParsePage(queryParams(r))
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.service.Ranking(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewRankingResponse(result))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	d, err := s.service.Dashboard(r.Context(), name, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewDashboardResponse(d))
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	params := queryParams(r)

	area := energy.ParseArea(params["area"])
	price, _, err := api.ParseFloat(params, "price")
	if err != nil {
		writeError(w, err)
		return
	}

	estimate, err := s.service.Revenue(r.Context(), name, area, price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewRevenueResponse(estimate))
}

// queryParams flattens the query string the way API Gateway does, keeping
// the first value of each key.
func queryParams(r *http.Request) map[string]string {
	query := r.URL.Query()
	params := make(map[string]string, len(query))
	for key := range query {
		params[key] = query.Get(key)
	}
	return params
}

func writeError(w http.ResponseWriter, err error) {
	status, message := api.StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, api.NewErrorResponse(message))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("Handled request")
	})
}
