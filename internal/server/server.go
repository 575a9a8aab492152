// Package server exposes the savings plan over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/iwvelando/savings-plan/internal/config"
	"github.com/iwvelando/savings-plan/internal/gateway"
	"github.com/iwvelando/savings-plan/internal/plan"
	"github.com/iwvelando/savings-plan/pkg/constants"
	"github.com/iwvelando/savings-plan/pkg/ratelimit"
	"github.com/iwvelando/savings-plan/pkg/validation"
	"go.uber.org/zap"
)

// Options configures the HTTP handler.
type Options struct {
	AppName     string
	Debug       bool
	Version     string
	MaxBodySize int64
	// Limiter throttles the welcome and plan endpoints per remote address; nil disables throttling.
	Limiter *ratelimit.Limiter
	CORS    config.CORSConfig
}

type handler struct {
	logger      *zap.Logger
	gateway     *gateway.Gateway
	appName     string
	debug       bool
	version     string
	maxBodySize int64
	limiter     *ratelimit.Limiter
	cors        config.CORSConfig
}

// NewHandler constructs the HTTP handler that serves the savings plan API.
func NewHandler(logger *zap.Logger, gw *gateway.Gateway, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gw == nil {
		gw = gateway.New(logger, nil, nil, 0)
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}
	if strings.TrimSpace(opts.AppName) == "" {
		opts.AppName = constants.DefaultAppName
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		gateway:     gw,
		appName:     opts.AppName,
		debug:       opts.Debug,
		version:     trimmedVersion,
		maxBodySize: opts.MaxBodySize,
		limiter:     opts.Limiter,
		cors:        opts.CORS,
	}

	middleware := []mux.MiddlewareFunc{h.withRequestID, h.withAccessLog, h.withRecovery, h.withCORS}

	router := mux.NewRouter()
	router.Use(middleware...)
	// mux does not apply Use middleware to its fallback handlers.
	router.NotFoundHandler = chain(h.statusHandler(http.StatusNotFound), middleware)
	router.MethodNotAllowedHandler = chain(h.statusHandler(http.StatusMethodNotAllowed), middleware)

	// Welcome document
	router.Handle("/", h.withRateLimit(http.HandlerFunc(h.handleRoot))).Methods(http.MethodGet, http.MethodOptions)

	api := router.PathPrefix("/api").Subrouter()

	// Version endpoint for client metadata
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	v1 := api.PathPrefix("/v1").Subrouter()

	// Savings plan calculation
	v1.Handle("/information", h.withRateLimit(http.HandlerFunc(h.handleInformation))).
		Methods(http.MethodPost, http.MethodOptions)

	// Liveness, including the advisory cache status
	v1.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	return router
}

// chain wraps next so that middleware[0] runs first.
func chain(next http.Handler, middleware []mux.MiddlewareFunc) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		next = middleware[i](next)
	}
	return next
}

func (h *handler) statusHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
	})
}

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

type rootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Debug   bool   `json:"debug"`
}

type healthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, rootResponse{
		Message: fmt.Sprintf("Welcome to the %s!", h.appName),
		Version: h.version,
		Debug:   h.debug,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Cache:  h.gateway.CacheStatus(r.Context()),
	})
}

func (h *handler) handleInformation(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInformation"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	req, err := plan.DecodeRequest(r.Body)
	if err != nil {
		h.respondPlanError(w, r, err, op)
		return
	}

	result, source, err := h.gateway.Plan(r.Context(), req)
	if err != nil {
		h.respondPlanError(w, r, err, op)
		return
	}

	h.logger.Info("savings plan served",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.String("cache", string(source)),
	)

	w.Header().Set("X-Cache", string(source))
	h.writeJSON(w, http.StatusOK, result)
}

// respondPlanError maps decoding and planning failures onto status codes.
// Internal details are logged, never returned.
func (h *handler) respondPlanError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var validationErr *plan.ValidationError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		h.respondErrorWithOp(w, r, http.StatusBadRequest, errorResponse{
			Error:  validationErr.Error(),
			Fields: validationErr.Fields,
		}, op, err)
	case errors.As(err, &maxBytesErr):
		h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge, errorResponse{
			Error: fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize),
		}, op, err)
	default:
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, errorResponse{
			Error: "internal server error, please try again later",
		}, op, err)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, body errorResponse, op string, cause error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("status", status),
		zap.Error(cause),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("savings plan request failed", fields...)
	} else {
		h.logger.Info("savings plan request rejected", fields...)
	}

	h.writeJSON(w, status, body)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
