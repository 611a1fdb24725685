// Package httpapi exposes the resource markets, account cache and token
// registry over HTTP, with a websocket stream of market aggregates.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/wallet-resources/internal/application"
	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/metrics"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	apiVersion  = "/v1"
	contentType = "application/json"
	DefaultAddr = ":8080"
)

var errInvalidMs = errors.New("ms must be a non-negative number")

type Server struct {
	srv     *http.Server
	router  *mux.Router
	service *application.Service
	logger  *zap.Logger
	stream  streamConfig

	done      chan struct{}
	closeOnce sync.Once
}

type Option func(*Server)

// WithStreamInterval sets how often idle stream clients are pinged.
func WithStreamInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.stream.pingInterval = d
		}
	}
}

func New(addr string, service *application.Service, logger *zap.Logger, opts ...Option) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()
	s := &Server{
		router:  r,
		service: service,
		logger:  logger,
		stream:  defaultStreamConfig(),
		done:    make(chan struct{}),
		srv: &http.Server{
			Addr:              addr,
			Handler:           metrics.InstrumentHandler(r),
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()

	return s
}

// Handler is the instrumented router, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not
// reported as an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http api listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes open streams.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.srv.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r := s.router.PathPrefix(apiVersion).Subrouter()
	r.HandleFunc("/resources", s.resources).Methods(http.MethodGet)
	r.HandleFunc("/quote/{model}", s.quote).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{name}", s.account).Methods(http.MethodGet)
	r.HandleFunc("/tokens", s.tokens).Methods(http.MethodGet)
	r.HandleFunc("/balances", s.balances).Methods(http.MethodGet)
	r.HandleFunc("/stream", s.streamAggregates).Methods(http.MethodGet)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"chain_id": string(s.service.ChainID()),
	})
}

func (s *Server) resources(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, newAggregatesView(s.service.Aggregates()))
}

// quote prices ?ms= milliseconds of CPU with the model named in the path.
// ms defaults to 1.
func (s *Server) quote(w http.ResponseWriter, r *http.Request) {
	model := application.QuoteModel(mux.Vars(r)["model"])
	if !model.Valid() {
		s.writeError(w, http.StatusNotFound, errors.New("unknown quote model "+strconv.Quote(string(model))))
		return
	}

	ms := 1.0
	if raw := r.URL.Query().Get("ms"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, errInvalidMs)
			return
		}
		ms = parsed
	}

	quote, err := s.service.Quote(model, ms)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, newQuoteView(quote))
}

// account serves the cached account, refreshing it when stale or when
// ?refresh=true. A stale record is still returned when the refresh fails.
func (s *Server) account(w http.ResponseWriter, r *http.Request) {
	name := domain.AccountName(mux.Vars(r)["name"])
	force, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	resp := s.service.Account(r.Context(), name, force)
	if resp.Error != nil && resp.Updated.IsZero() {
		s.writeError(w, statusFor(resp.Error), resp.Error)
		return
	}

	s.writeJSON(w, http.StatusOK, newAccountView(resp))
}

func (s *Server) tokens(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Tokens().List())
}

func (s *Server) balances(w http.ResponseWriter, _ *http.Request) {
	balances, err := s.service.Balances()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, balances)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug("write response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorView{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoSnapshot):
		return http.StatusServiceUnavailable
	case errors.Is(err, application.ErrNoBalanceSync),
		errors.Is(err, application.ErrUnknownChain),
		errors.Is(err, domain.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrEmptyAccountName):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPoolState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
