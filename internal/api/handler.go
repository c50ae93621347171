package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eugenenazirov/stripplan/internal/metrics"
	"github.com/eugenenazirov/stripplan/internal/packing"
	"github.com/eugenenazirov/stripplan/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	modeCutting    = "cutting"
	modeGrouped    = "grouped"
	modeIndividual = "individual"

	maxBodyBytes = 1 << 20
	// maxPieces bounds the number of expanded pieces per request.
	maxPieces = 20_000
)

// PlanningDefaults fill in request fields the caller leaves out.
type PlanningDefaults struct {
	RollLength          float64
	WattsPerMeter       float64
	SafetyFactorPercent int
	SourceMode          string
}

// DefaultPlanningDefaults mirrors the configuration defaults.
func DefaultPlanningDefaults() PlanningDefaults {
	return PlanningDefaults{
		RollLength:          10,
		WattsPerMeter:       10,
		SafetyFactorPercent: 20,
		SourceMode:          modeGrouped,
	}
}

// Handler wires planner and storage dependencies into HTTP handlers.
type Handler struct {
	planner  packing.Planner
	storage  storage.Storage
	defaults PlanningDefaults
	metrics  *metrics.Metrics
	logger   *zap.Logger
	validate *validator.Validate

	clock func() time.Time

	mu               sync.RWMutex
	catalogUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithDefaults sets the planning values used when a request omits them.
func WithDefaults(defaults PlanningDefaults) HandlerOption {
	return func(h *Handler) {
		h.defaults = defaults
	}
}

// WithPlanMetrics records computed plans in m.
func WithPlanMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithHandlerLogger sets the logger used for plan diagnostics.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(planner packing.Planner, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		planner:  planner,
		storage:  store,
		defaults: DefaultPlanningDefaults(),
		logger:   zap.NewNop(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.catalogUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	_ = r
	capacities, err := h.storage.GetCatalog()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := catalogResponse{
		Capacities: capacities,
		UpdatedAt:  h.currentCatalogUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutCatalog(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.storage.SetCatalog(req.Capacities); err != nil {
		if errors.Is(err, storage.ErrInvalidCatalog) {
			writeError(w, http.StatusBadRequest, "Invalid catalog", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markCatalogUpdated()

	capacities, err := h.storage.GetCatalog()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := catalogResponse{
		Capacities: capacities,
		UpdatedAt:  h.currentCatalogUpdatedAt(),
		Message:    "Catalog updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCuttingPlan(w http.ResponseWriter, r *http.Request) {
	var req cuttingRequest
	if !h.decode(w, r, &req) {
		return
	}

	rollLength := h.defaults.RollLength
	if req.RollLength != nil {
		rollLength = *req.RollLength
	}

	start := time.Now()
	plan, err := h.planner.PackFixed(toOrders(req.Orders), rollLength)
	elapsed := time.Since(start)
	if err != nil {
		h.metrics.ObserveFailure(modeCutting)
		writePlanError(w, err)
		return
	}

	stats := packing.Summarize(plan)
	h.observe(r.Context(), modeCutting, stats, elapsed)

	if wantsCSV(r) {
		writeCSV(w, "cutting-plan.csv", pieceTable(plan))
		return
	}

	resp := cuttingResponse{
		PlanID:            uuid.NewString(),
		RollLength:        rollLength,
		Bins:              binViews(plan),
		Statistics:        stats,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSourcesPlan(w http.ResponseWriter, r *http.Request) {
	var req sourcesRequest
	if !h.decode(w, r, &req) {
		return
	}

	wattsPerMeter := h.defaults.WattsPerMeter
	if req.WattsPerMeter != nil {
		wattsPerMeter = *req.WattsPerMeter
	}
	percent := h.defaults.SafetyFactorPercent
	if req.SafetyFactorPercent != nil {
		percent = *req.SafetyFactorPercent
	}
	mode := h.defaults.SourceMode
	if req.Mode != "" {
		mode = req.Mode
	}
	catalog := req.Catalog
	if len(catalog) == 0 {
		stored, err := h.storage.GetCatalog()
		if err != nil {
			writeInternalError(w, err)
			return
		}
		catalog = stored
	}
	safetyFactor := 1 + float64(percent)/100

	resp := sourcesResponse{
		PlanID:        uuid.NewString(),
		Mode:          mode,
		WattsPerMeter: wattsPerMeter,
		SafetyFactor:  safetyFactor,
		Catalog:       catalog,
	}
	orders := toOrders(req.Orders)

	start := time.Now()
	switch mode {
	case modeIndividual:
		result, err := h.planner.AssignOrders(orders, wattsPerMeter, catalog, safetyFactor)
		elapsed := time.Since(start)
		if err != nil {
			h.metrics.ObserveFailure(mode)
			writePlanError(w, err)
			return
		}
		h.observe(r.Context(), mode, individualStatistics(result), elapsed)

		if wantsCSV(r) {
			writeCSV(w, "sources-individual.csv", assignmentTable(result))
			return
		}
		resp.Assignments = result.Assignments
		resp.Counts = result.Counts
		resp.CalculationTimeMs = elapsed.Milliseconds()

	default:
		plan, stats, err := h.planner.PackCatalog(orders, wattsPerMeter, catalog, safetyFactor)
		elapsed := time.Since(start)
		if err != nil {
			h.metrics.ObserveFailure(mode)
			writePlanError(w, err)
			return
		}
		h.observe(r.Context(), mode, stats, elapsed)

		if wantsCSV(r) {
			writeCSV(w, "sources-grouped.csv", binTable(plan))
			return
		}
		resp.Bins = binViews(plan)
		resp.Statistics = &stats
		resp.Counts = packing.SourceCounts(plan)
		resp.CalculationTimeMs = elapsed.Milliseconds()
	}

	writeJSON(w, http.StatusOK, resp)
}

// decode reads and validates a JSON body, writing a 400 response on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", describeValidation(err))
		return false
	}
	if withOrders, ok := dst.(interface{ pieces() int }); ok && withOrders.pieces() > maxPieces {
		writeError(w, http.StatusBadRequest, "Invalid request",
			fmt.Sprintf("orders expand to more than %d pieces", maxPieces),
			"Split the order list into several plans")
		return false
	}
	return true
}

func (h *Handler) observe(ctx context.Context, mode string, stats packing.Statistics, elapsed time.Duration) {
	h.metrics.ObservePlan(mode, stats, elapsed)
	h.logger.Debug("plan computed",
		zap.String("mode", mode),
		zap.Int("bins", stats.Bins),
		zap.Int("units", stats.Units),
		zap.Int("overloaded", stats.OverloadedBins),
		zap.Duration("elapsed", elapsed),
		zap.String("request_id", requestIDFromContext(ctx)),
	)
}

func (h *Handler) currentCatalogUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalogUpdatedAt
}

func (h *Handler) markCatalogUpdated() {
	h.mu.Lock()
	h.catalogUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func writePlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, packing.ErrInvalidOrder),
		errors.Is(err, packing.ErrInvalidCapacity),
		errors.Is(err, packing.ErrInvalidParameter):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, packing.ErrPieceExceedsCapacity):
		writeError(w, http.StatusUnprocessableEntity, "Piece exceeds roll length", err.Error(),
			"Use a longer roll or split the listed pieces")
	case errors.Is(err, packing.ErrEmptyCatalog):
		writeError(w, http.StatusUnprocessableEntity, "No sources available", err.Error(),
			"Configure at least one source rating with PUT /api/catalog")
	default:
		writeInternalError(w, err)
	}
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// individualStatistics counts one source per piece so individual plans can be
// recorded alongside grouped ones.
func individualStatistics(result packing.IndividualResult) packing.Statistics {
	var stats packing.Statistics
	for _, a := range result.Assignments {
		stats.Bins += a.Count
		stats.Units += a.Count
		stats.RealConsumption += a.Consumption * float64(a.Count)
		stats.InstalledCapacity += a.Capacity * float64(a.Count)
		if a.Overflowed {
			stats.OverloadedBins += a.Count
		} else {
			stats.WastedCapacity += (a.Capacity - a.Adjusted) * float64(a.Count)
		}
	}
	if stats.InstalledCapacity > 0 {
		stats.AverageUtilization = stats.RealConsumption / stats.InstalledCapacity
	}
	return stats
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
