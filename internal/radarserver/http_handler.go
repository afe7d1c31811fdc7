package radarserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cory-johannsen/radar/internal/radar"
)

// ResolvePath is the route that accepts resolution requests.
const ResolvePath = "/radar"

// HTTPHandler serves the JSON resolution endpoint and a liveness probe.
type HTTPHandler struct {
	svc          *Service
	logger       *zap.Logger
	maxBodyBytes int64
	mux          *http.ServeMux
}

// NewHTTPHandler creates an HTTPHandler. A non-nil metrics handler is mounted
// on metricsPath.
//
// Precondition: svc and logger must be non-nil; maxBodyBytes must be > 0.
// Postcondition: Returns a handler routing POST /radar and GET /healthz.
func NewHTTPHandler(svc *Service, logger *zap.Logger, maxBodyBytes int64, metricsPath string, metrics http.Handler) *HTTPHandler {
	h := &HTTPHandler{
		svc:          svc,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
		mux:          http.NewServeMux(),
	}
	h.mux.HandleFunc("POST "+ResolvePath, h.handleResolve)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	if metrics != nil {
		h.mux.Handle("GET "+metricsPath, metrics)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *HTTPHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeRequest(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.svc.Reject(TransportHTTP, err)
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.writeError(w, status, err)
		return
	}

	res, err := h.svc.Resolve(r.Context(), TransportHTTP, req)
	if err != nil {
		h.writeError(w, httpStatus(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, res.Target)
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("writing response", zap.Error(err))
	}
}

// httpStatus maps a resolution error to its response status.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, ErrMalformedRequest), errors.Is(err, radar.ErrInvalidProtocol):
		return http.StatusBadRequest
	case errors.Is(err, radar.ErrExhaustedCandidateSet):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
