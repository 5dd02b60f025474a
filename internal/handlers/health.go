package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// healthBody is served verbatim; clients match on the exact string.
const healthBody = `{"status": "healthy", "message": "Server is running"}`

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(healthBody)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	w.Write([]byte(healthBody))
}

// Checker is a dependency the readiness probe verifies.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type ReadyHandler struct {
	checkers []Checker
	timeout  time.Duration
}

func NewReadyHandler(checkers ...Checker) *ReadyHandler {
	return &ReadyHandler{
		checkers: checkers,
		timeout:  2 * time.Second,
	}
}

func (h *ReadyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: map[string]string{}}
	status := http.StatusOK

	for _, c := range h.checkers {
		if err := c.Check(ctx); err != nil {
			resp.Checks[c.Name()] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name()] = "ok"
	}

	writeJSON(w, status, resp)
}
