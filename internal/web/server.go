package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cryptopool-labs/invariant/internal/fixedpoint"
	"github.com/cryptopool-labs/invariant/internal/logger"
	"github.com/cryptopool-labs/invariant/internal/solver"
	"github.com/cryptopool-labs/invariant/internal/state"
	"github.com/cryptopool-labs/invariant/internal/types"
	"github.com/cryptopool-labs/invariant/internal/utils"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer exposes the invariant solvers over HTTP
type WebServer struct {
	router *mux.Router
	port   string
}

// NewWebServer creates a new web server instance
func NewWebServer(port string) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router: mux.NewRouter(),
		port:   port,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	// Prometheus scrape endpoint
	ws.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/solve/d", ws.handleSolveD).Methods("POST")
	api.HandleFunc("/solve/y", ws.handleSolveY).Methods("POST")
	api.HandleFunc("/solves", ws.handleGetSolves).Methods("GET")
	api.HandleFunc("/solves/{id}", ws.handleGetSolve).Methods("GET")
	api.HandleFunc("/stats", ws.handleGetStats).Methods("GET")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	hasErrors := false
	dbHealthy := true
	if state.Enabled() {
		if err := state.TestDBConnection(); err != nil {
			dbHealthy = false
			hasErrors = true
		}
	}

	overallStatus := "OK"
	if hasErrors {
		overallStatus = "DEGRADED"
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":            runtime.Version(),
			"goroutines_count":   runtime.NumGoroutine(),
			"total_alloc_bytes":  memStats.TotalAlloc,
			"heap_objects_count": memStats.HeapObjects,
			"alloc_bytes":        memStats.Alloc,
			"sys_bytes":          memStats.Sys,
			"gc_cycles":          memStats.NumGC,
		},
		"component": map[string]interface{}{
			"name":    "invariant-solver",
			"version": "1.0.0",
		},
		"audit": map[string]interface{}{
			"enabled":          state.Enabled(),
			"database_healthy": dbHealthy,
		},
	}

	statusCode := http.StatusOK
	if hasErrors {
		statusCode = http.StatusServiceUnavailable
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleSolveD computes the invariant D for the posted balances
func (ws *WebServer) handleSolveD(w http.ResponseWriter, r *http.Request) {
	var req types.SolveDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	d0 := req.D0
	if d0.IsNil() {
		d0 = sdkmath.ZeroInt()
	}

	start := time.Now()
	d, err := solver.SolveD(req.A, req.Gamma, req.Balances, d0)
	duration := time.Since(start)

	status := classifyStatus(err)
	observeSolve(types.KindInvariant, status, duration)

	if state.Enabled() {
		record := types.SolveRecord{
			Kind:           types.KindInvariant,
			RequestedAt:    start.UTC(),
			Amplification:  intString(req.A),
			Gamma:          intString(req.Gamma),
			Balances:       intStrings(req.Balances),
			InitialGuess:   intString(d0),
			Status:         status,
			DurationMicros: duration.Microseconds(),
		}
		if err != nil {
			record.ErrorReason = err.Error()
		} else {
			record.Result = d.String()
		}
		if _, saveErr := state.SaveSolveRecord(record); saveErr != nil {
			webLogger.Error().Err(saveErr).Msg("Failed to save solve record")
		}
	}

	if err != nil {
		webLogger.Warn().Err(err).Str("status", status).Msg("Invariant solve failed")
		ws.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	response := map[string]interface{}{
		"d":               d.String(),
		"status":          status,
		"duration_micros": duration.Microseconds(),
	}
	if display, convErr := utils.FixedToFloat64(d, fixedpoint.Decimals); convErr == nil {
		response["d_display"] = display
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleSolveY computes the balance at index i that restores invariant D
func (ws *WebServer) handleSolveY(w http.ResponseWriter, r *http.Request) {
	var req types.SolveYRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	y, err := solver.SolveY(req.A, req.Gamma, req.Balances, req.N, req.D, req.Index)
	duration := time.Since(start)

	status := classifyStatus(err)
	observeSolve(types.KindBalance, status, duration)

	if state.Enabled() {
		record := types.SolveRecord{
			Kind:           types.KindBalance,
			RequestedAt:    start.UTC(),
			Amplification:  intString(req.A),
			Gamma:          intString(req.Gamma),
			Balances:       intStrings(req.Balances),
			Invariant:      intString(req.D),
			AssetIndex:     req.Index,
			Status:         status,
			DurationMicros: duration.Microseconds(),
		}
		if err != nil {
			record.ErrorReason = err.Error()
		} else {
			record.Result = y.String()
		}
		if _, saveErr := state.SaveSolveRecord(record); saveErr != nil {
			webLogger.Error().Err(saveErr).Msg("Failed to save solve record")
		}
	}

	if err != nil {
		webLogger.Warn().Err(err).Str("status", status).Msg("Balance solve failed")
		ws.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	response := map[string]interface{}{
		"y":               y.String(),
		"status":          status,
		"duration_micros": duration.Microseconds(),
	}
	if display, convErr := utils.FixedToFloat64(y, fixedpoint.Decimals); convErr == nil {
		response["y_display"] = display
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetSolves returns recent audited solves
func (ws *WebServer) handleGetSolves(w http.ResponseWriter, r *http.Request) {
	if !state.Enabled() {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "Audit store is disabled")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	records, err := state.GetRecentSolves(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent solves")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve solves")
		return
	}

	response := map[string]interface{}{
		"solves": records,
		"count":  len(records),
		"limit":  limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetSolve returns a specific audited solve by ID
func (ws *WebServer) handleGetSolve(w http.ResponseWriter, r *http.Request) {
	if !state.Enabled() {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "Audit store is disabled")
		return
	}

	vars := mux.Vars(r)
	idStr := vars["id"]

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid record ID")
		return
	}

	record, err := state.GetSolveByID(id)
	if err != nil {
		webLogger.Error().Err(err).Int64("recordId", id).Msg("Failed to get solve record")
		ws.writeErrorResponse(w, http.StatusNotFound, "Solve record not found")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, record)
}

// handleGetStats returns aggregated solver usage statistics
func (ws *WebServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	if !state.Enabled() {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "Audit store is disabled")
		return
	}

	stats, err := state.GetSolveStats()
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get solve stats")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, stats)
}

// classifyStatus maps a solver error to its recorded status string
func classifyStatus(err error) string {
	switch {
	case err == nil:
		return types.StatusOK
	case errors.Is(err, solver.ErrDomain):
		return types.StatusDomainError
	case errors.Is(err, solver.ErrConvergence):
		return types.StatusConvergenceError
	case errors.Is(err, fixedpoint.ErrOverflow),
		errors.Is(err, fixedpoint.ErrDivisionByZero),
		errors.Is(err, fixedpoint.ErrNegative):
		return types.StatusArithmeticError
	default:
		return types.StatusInternalError
	}
}

func intString(v sdkmath.Int) string {
	if v.IsNil() {
		return "0"
	}
	return v.String()
}

func intStrings(vs []sdkmath.Int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = intString(v)
	}
	return out
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
