/*
handlers.go - HTTP API handlers for the campaign analytics engine

PURPOSE:
  Exposes the dataset store and analysis pipeline via REST API. Handles
  HTTP request/response, CSV/JSON parsing, and delegates to domain logic.

ENDPOINTS:
  Datasets:
    GET    /api/datasets               Loaded status and row counts
    POST   /api/datasets/{kind}        Upload one dataset as CSV
    POST   /api/datasets/sample        Load generated demo data
    DELETE /api/datasets               Clear all datasets

  Analysis:
    GET    /api/analysis               Full report
    GET    /api/analysis/records       Reconciled campaign records
    GET    /api/analysis/metrics       Metrics by grain (?grain=...)
    GET    /api/analysis/findings      Data-quality findings
    GET    /api/analysis/rankings      Rankings (?metric=...)
    GET    /api/analysis/recommendations
    GET    /api/analysis/summary       Executive summary

ASSUMPTION OVERRIDES:
  Analysis endpoints accept query parameters that override the default
  assumptions for that one request:
    baseline_fraction    organic-revenue share deducted for incremental ROAS
    underperformer_roas  ROAS floor for the underperformer tier
    top_percentile       share of population in the top tier

REQUEST FLOW:
  1. Parse HTTP request (CSV body or query params)
  2. Validate input
  3. Call domain logic (campaign parsing, analytics.Analyze)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Schema errors, invalid input
  - 404: Unknown dataset kind
  - 409: No data loaded yet
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gitraun/healthkart-influencer-dashboard/analytics"
	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
	"github.com/gitraun/healthkart-influencer-dashboard/factory"
	"github.com/gitraun/healthkart-influencer-dashboard/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  store.DatasetStore
	Config analytics.Config

	// Memoized report for the last analyzed snapshot, keyed by its hash.
	// Only default-assumption reports are cached; overridden requests
	// recompute.
	mu         sync.Mutex
	cachedHash string
	cached     *analytics.Report
}

// NewHandler creates a new handler with the given store and default
// analysis assumptions.
func NewHandler(st store.DatasetStore, cfg analytics.Config) *Handler {
	return &Handler{Store: st, Config: cfg}
}

// =============================================================================
// DATASET HANDLERS
// =============================================================================

// GetDatasets returns the loaded status and per-dataset row counts.
func (h *Handler) GetDatasets(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read datasets", err)
		return
	}

	counts := make(map[string]int, 4)
	for ds, n := range snap.Counts() {
		counts[string(ds)] = n
	}
	writeJSON(w, http.StatusOK, DatasetStatusDTO{Loaded: !snap.Empty(), Counts: counts})
}

// UploadDataset replaces one dataset from a CSV request body.
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	ds := campaign.Dataset(chi.URLParam(r, "kind"))

	table, err := readCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid CSV", err)
		return
	}

	rows, err := h.replaceDataset(r, ds, table)
	if err != nil {
		var schemaErr *campaign.SchemaError
		switch {
		case errors.Is(err, campaign.ErrUnknownDataset):
			writeError(w, http.StatusNotFound, "Unknown dataset", err)
		case errors.As(err, &schemaErr):
			resp := ErrorResponse{Error: "Schema validation failed", Code: "invalid_schema", Details: schemaErr.Error()}
			writeJSON(w, http.StatusBadRequest, resp)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to store dataset", err)
		}
		return
	}

	h.invalidate()
	writeJSON(w, http.StatusOK, UploadResponse{
		UploadID: uuid.NewString(),
		Dataset:  string(ds),
		Rows:     rows,
	})
}

// replaceDataset parses the table for one dataset kind and swaps it into
// the store.
func (h *Handler) replaceDataset(r *http.Request, ds campaign.Dataset, table campaign.Table) (int, error) {
	ctx := r.Context()
	switch ds {
	case campaign.DatasetInfluencers:
		rows, err := campaign.ParseInfluencers(table)
		if err != nil {
			return 0, err
		}
		return len(rows), h.Store.ReplaceInfluencers(ctx, rows)
	case campaign.DatasetPosts:
		rows, err := campaign.ParsePosts(table)
		if err != nil {
			return 0, err
		}
		return len(rows), h.Store.ReplacePosts(ctx, rows)
	case campaign.DatasetTracking:
		rows, err := campaign.ParseTracking(table)
		if err != nil {
			return 0, err
		}
		return len(rows), h.Store.ReplaceTracking(ctx, rows)
	case campaign.DatasetPayouts:
		rows, err := campaign.ParsePayouts(table)
		if err != nil {
			return 0, err
		}
		return len(rows), h.Store.ReplacePayouts(ctx, rows)
	default:
		return 0, campaign.ErrUnknownDataset
	}
}

// LoadSampleData replaces all four datasets with generated demo data.
func (h *Handler) LoadSampleData(w http.ResponseWriter, r *http.Request) {
	var req SampleDataRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	snap := factory.Generate(factory.Options{Seed: req.Seed, Influencers: req.Influencers})

	ctx := r.Context()
	if err := h.Store.ReplaceInfluencers(ctx, snap.Influencers); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store sample data", err)
		return
	}
	if err := h.Store.ReplacePosts(ctx, snap.Posts); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store sample data", err)
		return
	}
	if err := h.Store.ReplaceTracking(ctx, snap.Tracking); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store sample data", err)
		return
	}
	if err := h.Store.ReplacePayouts(ctx, snap.Payouts); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store sample data", err)
		return
	}

	h.invalidate()
	counts := make(map[string]int, 4)
	for ds, n := range snap.Counts() {
		counts[string(ds)] = n
	}
	writeJSON(w, http.StatusOK, DatasetStatusDTO{Loaded: true, Counts: counts})
}

// ClearDatasets removes all loaded datasets.
func (h *Handler) ClearDatasets(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear datasets", err)
		return
	}
	h.invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// =============================================================================
// ANALYSIS HANDLERS
// =============================================================================

// GetAnalysis returns the full report.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// GetRecords returns the reconciled per-influencer campaign records.
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}
	dtos := make([]RecordDTO, len(report.Records))
	for i, rec := range report.Records {
		dtos[i] = toRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMetrics returns metrics at the requested grain.
// GET /api/analysis/metrics?grain=influencer|platform|category|brand
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}

	grain := r.URL.Query().Get("grain")
	switch grain {
	case "", "influencer":
		dtos := make([]InfluencerMetricsDTO, len(report.Influencers))
		for i, m := range report.Influencers {
			dtos[i] = toInfluencerMetricsDTO(m)
		}
		writeJSON(w, http.StatusOK, dtos)
	case "platform":
		writeJSON(w, http.StatusOK, toGroupMetricsDTOs(report.Platforms))
	case "category":
		writeJSON(w, http.StatusOK, toGroupMetricsDTOs(report.Categories))
	case "brand":
		writeJSON(w, http.StatusOK, toGroupMetricsDTOs(report.Brands))
	default:
		writeError(w, http.StatusBadRequest, "Unknown grain: "+grain, nil)
	}
}

// GetFindings returns the data-quality findings and exclusion counts.
func (h *Handler) GetFindings(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"findings":          report.Findings,
		"excluded_posts":    report.ExcludedPosts,
		"excluded_tracking": report.ExcludedTracking,
		"excluded_payouts":  report.ExcludedPayouts,
	})
}

// GetRankings returns one or all rankings.
// GET /api/analysis/rankings?metric=roas
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		dtos := make([]RankingDTO, len(report.Rankings))
		for i, rk := range report.Rankings {
			dtos[i] = toRankingDTO(rk)
		}
		writeJSON(w, http.StatusOK, dtos)
		return
	}

	for _, rk := range report.Rankings {
		if string(rk.Metric) == metric {
			writeJSON(w, http.StatusOK, toRankingDTO(rk))
			return
		}
	}
	writeError(w, http.StatusBadRequest, "Unknown ranking metric: "+metric, nil)
}

// GetRecommendations returns the ordered recommendation list.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}
	dtos := make([]RecommendationDTO, len(report.Recommendations))
	for i, rec := range report.Recommendations {
		dtos[i] = RecommendationDTO{
			Type:      rec.Type,
			Subject:   rec.Subject,
			Kind:      string(rec.Kind),
			Priority:  string(rec.Priority),
			Rationale: rec.Rationale,
			Action:    rec.Action,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSummary returns the executive summary block.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(report.Summary))
}

// GetClassifications returns the performance tier of each influencer.
func (h *Handler) GetClassifications(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}
	dtos := make([]ClassificationDTO, len(report.Classifications))
	for i, c := range report.Classifications {
		dtos[i] = ClassificationDTO{
			InfluencerID:     string(c.InfluencerID),
			Name:             c.Name,
			Tier:             string(c.Tier),
			PerformanceScore: c.PerformanceScore,
			ROAS:             c.ROAS.Float64Ptr(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ANALYSIS PLUMBING
// =============================================================================

// analyze loads the current snapshot and runs the pipeline, reusing the
// cached report when the snapshot and assumptions are unchanged. A false
// return means the response has already been written.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) (*analytics.Report, bool) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read datasets", err)
		return nil, false
	}
	if snap.Empty() {
		writeError(w, http.StatusConflict, "No influencer data loaded", campaign.ErrNoData)
		return nil, false
	}

	cfg, overridden, err := configFromQuery(h.Config, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assumption override", err)
		return nil, false
	}

	if overridden {
		return analytics.Analyze(snap, cfg), true
	}

	hash := snap.Hash()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cached == nil || h.cachedHash != hash {
		h.cached = analytics.Analyze(snap, cfg)
		h.cachedHash = hash
	}
	return h.cached, true
}

// invalidate drops the memoized report after any dataset change.
func (h *Handler) invalidate() {
	h.mu.Lock()
	h.cached = nil
	h.cachedHash = ""
	h.mu.Unlock()
}

// configFromQuery applies per-request assumption overrides.
func configFromQuery(base analytics.Config, r *http.Request) (analytics.Config, bool, error) {
	q := r.URL.Query()
	overridden := false

	if v := q.Get("baseline_fraction"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f >= 1 {
			return base, false, errors.New("baseline_fraction must be in [0, 1)")
		}
		base.BaselineFraction = decimal.NewFromFloat(f)
		base.HasBaseline = true
		overridden = true
	}
	if v := q.Get("underperformer_roas"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return base, false, errors.New("underperformer_roas must be a non-negative number")
		}
		base.UnderperformerROAS = decimal.NewFromFloat(f)
		overridden = true
	}
	if v := q.Get("top_percentile"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 1 {
			return base, false, errors.New("top_percentile must be in (0, 1]")
		}
		base.TopPerformerPercentile = f
		overridden = true
	}
	return base, overridden, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// readCSV reads a CSV body into the column/row form the parsers take.
// Ragged rows are rejected by the csv reader; a header-only file yields
// zero rows.
func readCSV(body io.Reader) (campaign.Table, error) {
	reader := csv.NewReader(body)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return campaign.Table{}, errors.New("empty file")
	}
	if err != nil {
		return campaign.Table{}, err
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return campaign.Table{}, err
		}
		rows = append(rows, row)
	}
	return campaign.Table{Columns: header, Rows: rows}, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
