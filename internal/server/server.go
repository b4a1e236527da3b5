package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/city-budget/internal/budget"
	"github.com/iwvelando/city-budget/internal/chart"
	"github.com/iwvelando/city-budget/internal/ledger"
	"github.com/iwvelando/city-budget/pkg/output"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger  *zap.Logger
	budget  *budget.Budget
	version string
}

// badRequestError marks selection input that cannot be parsed.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string {
	return e.msg
}

// NewHandler constructs the HTTP handler that serves the dashboard UI and chart API.
// Every chart request re-runs exactly one query against b, which is shared
// read-only between requests.
func NewHandler(logger *zap.Logger, b *budget.Budget, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, budget: b, version: trimmedVersion}

	mux := http.NewServeMux()

	// Selection widget values
	mux.HandleFunc("/api/options", h.handleOptions)

	// Chart queries
	mux.HandleFunc("/api/charts/split", h.handleSplit)
	mux.HandleFunc("/api/charts/trend", h.handleTrend)
	mux.HandleFunc("/api/charts/departments", h.handleDepartments)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/render.js", h.handleRenderScript)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

func (h *handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	opts, err := chart.OptionsFor(h.budget)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleOptions")
		return
	}
	h.writeJSON(w, http.StatusOK, opts)
}

func (h *handler) handleSplit(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, "split", "server.handleSplit", func() (chart.Spec, error) {
		query := r.URL.Query()
		year := strings.TrimSpace(query.Get("year"))
		if year == "" {
			return chart.Spec{}, &badRequestError{msg: "missing year"}
		}

		ledgerName := query.Get("ledger")
		if ledgerName == "" {
			return chart.ExpenseVsRevenue(h.budget, year)
		}
		kind, err := budget.ParseKind(ledgerName)
		if err != nil {
			return chart.Spec{}, &badRequestError{msg: err.Error()}
		}
		return chart.SplitByCategory(h.budget, kind, year)
	})
}

func (h *handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, "trend", "server.handleTrend", func() (chart.Spec, error) {
		query := r.URL.Query()
		start, err := intParam(query.Get("start"), 0)
		if err != nil {
			return chart.Spec{}, err
		}
		end, err := intParam(query.Get("end"), len(h.budget.Years())-1)
		if err != nil {
			return chart.Spec{}, err
		}
		return chart.AggregateTrend(h.budget, start, end)
	})
}

func (h *handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, "departments", "server.handleDepartments", func() (chart.Spec, error) {
		query := r.URL.Query()
		kind, err := budget.ParseKind(query.Get("ledger"))
		if err != nil {
			return chart.Spec{}, &badRequestError{msg: err.Error()}
		}

		names := query["name"]
		if unmatched := chart.UnmatchedDepartments(h.budget, kind, names); len(unmatched) > 0 {
			h.logger.Debug("skipping unknown departments",
				zap.String("op", "server.handleDepartments"),
				zap.String("ledger", string(kind)),
				zap.Strings("names", unmatched),
			)
		}
		return chart.DepartmentTrend(h.budget, kind, names), nil
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleRenderScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	if _, err := w.Write([]byte(output.RenderScript())); err != nil {
		h.logger.Warn("failed to write render script",
			zap.String("op", "server.handleRenderScript"),
			zap.Error(err),
		)
	}
}

// serveChart runs one chart query and writes its spec, or an error status when
// the selection is invalid.
func (h *handler) serveChart(w http.ResponseWriter, r *http.Request, name, op string, query func() (chart.Spec, error)) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	spec, err := query()
	if err != nil {
		status := statusFor(err)
		observeQuery(name, status, time.Since(start))
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	observeQuery(name, http.StatusOK, elapsed)

	h.logger.Debug("chart computed",
		zap.String("op", op),
		zap.String("title", spec.Title),
		zap.Int("series", len(spec.Series)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, spec)
}

func statusFor(err error) int {
	var keyErr *ledger.KeyError
	var badRequest *badRequestError
	switch {
	case errors.As(err, &keyErr):
		return http.StatusNotFound
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func intParam(value string, fallback int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &badRequestError{msg: fmt.Sprintf("invalid year index %q", value)}
	}
	return n, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Error("chart request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
