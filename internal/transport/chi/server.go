// Package chi exposes the inspection service over HTTP using the chi router.
package chi

import (
	"encoding/json"
	"net/http"

	chiv5 "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/verimetric/dimtol/internal/domain"
	"github.com/verimetric/dimtol/internal/domain/measure"
	"github.com/verimetric/dimtol/internal/domain/notation"
	"github.com/verimetric/dimtol/internal/domain/record"
	"github.com/verimetric/dimtol/internal/metrics"
	autosaveuc "github.com/verimetric/dimtol/internal/usecase/autosave"
	healthuc "github.com/verimetric/dimtol/internal/usecase/health"
	ingestuc "github.com/verimetric/dimtol/internal/usecase/ingest"
	inspectionuc "github.com/verimetric/dimtol/internal/usecase/inspection"
	projectuc "github.com/verimetric/dimtol/internal/usecase/project"
)

const maxIngestRows = 1000

// Server wires the usecases to HTTP handlers.
type Server struct {
	ingest        *ingestuc.Service
	inspection    *inspectionuc.Service
	autosave      *autosaveuc.Service
	projects      *projectuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	inspection *inspectionuc.Service,
	autosave *autosaveuc.Service,
	projects *projectuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:     ingest,
		inspection: inspection,
		autosave:   autosave,
		projects:   projects,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, CodeRecordNotFound),
		sentinelHandler(domain.ErrLotNotFound, http.StatusNotFound, CodeLotNotFound),
		sentinelHandler(domain.ErrSnapshotNotFound, http.StatusNotFound, CodeSnapshotNotFound),
		sentinelHandler(domain.ErrProjectExists, http.StatusConflict, CodeProjectExists),
		sentinelHandler(domain.ErrProjectNotFound, http.StatusNotFound, CodeProjectNotFound),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
	}
	return s
}

// Router builds the full route tree with middleware. apiKeys enables Bearer
// auth when non-empty.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chiv5.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)

	r.Post("/recognize", s.RecognizeNotation)
	r.Post("/evaluate", s.EvaluateMeasurement)

	r.Get("/lots", s.ListLots)
	r.Route("/lots/{lot}", func(r chiv5.Router) {
		r.Post("/ingest", s.IngestLot)
		r.Get("/records", s.ListRecords)
		r.Get("/summary", s.LotSummary)
		r.Post("/snapshots", s.SnapshotLot)
		r.Get("/snapshots/latest", s.LatestSnapshot)
		r.Route("/records/{item}", func(r chiv5.Router) {
			r.Get("/", s.GetRecord)
			r.Delete("/", s.DeleteRecord)
			r.Put("/actual", s.RecordMeasurement)
			r.Post("/override", s.ToggleOverride)
		})
	})

	r.Post("/projects", s.CreateProject)
	r.Get("/projects/{type}/{part}/{operation}/{serial}", s.GetProject)

	return r
}

// --- notation and evaluation ---

// RecognizeRequest is the body of POST /recognize.
type RecognizeRequest struct {
	Text string `json:"text"`
}

// NotationResult is the JSON rendering of a recognized callout.
type NotationResult struct {
	Format              string   `json:"format"`
	Nominal             *float64 `json:"nominal,omitempty"`
	LowerLimit          *float64 `json:"lower_limit,omitempty"`
	UpperLimit          *float64 `json:"upper_limit,omitempty"`
	ToleranceValue      *float64 `json:"tolerance_value,omitempty"`
	Class               string   `json:"class,omitempty"`
	Subtype             string   `json:"subtype,omitempty"`
	Diameter            bool     `json:"diameter,omitempty"`
	Modifiers           []string `json:"modifiers,omitempty"`
	DatumRefs           []string `json:"datum_refs,omitempty"`
	UnilateralSecondary *float64 `json:"unilateral_secondary,omitempty"`
}

// RecognizeResponse is the body of a successful POST /recognize.
type RecognizeResponse struct {
	Recognized bool            `json:"recognized"`
	Result     *NotationResult `json:"result,omitempty"`
}

// RecognizeNotation handles POST /recognize.
func (s *Server) RecognizeNotation(w http.ResponseWriter, r *http.Request) {
	var req RecognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "text is required")
		return
	}

	res, ok := notation.Recognize(req.Text)
	if !ok {
		metrics.RecognizeTotal.WithLabelValues("none").Inc()
		writeJSON(w, http.StatusOK, RecognizeResponse{Recognized: false})
		return
	}
	metrics.RecognizeTotal.WithLabelValues(string(res.Format)).Inc()
	writeJSON(w, http.StatusOK, RecognizeResponse{Recognized: true, Result: notationToDTO(res)})
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Actual     string   `json:"actual"`
	LowerLimit *float64 `json:"lower_limit,omitempty"`
	UpperLimit *float64 `json:"upper_limit,omitempty"`
}

// EvaluateResponse is the body of a successful POST /evaluate.
type EvaluateResponse struct {
	Compliant bool             `json:"compliant"`
	Summary   string           `json:"summary"`
	Readings  []ReadingVerdict `json:"readings,omitempty"`
}

// ReadingVerdict is one slash-separated reading and its verdict.
type ReadingVerdict struct {
	Raw       string   `json:"raw"`
	Value     *float64 `json:"value,omitempty"`
	Compliant bool     `json:"compliant"`
}

// EvaluateMeasurement handles POST /evaluate. It judges a measured cell
// against explicit limits without touching any stored record.
func (s *Server) EvaluateMeasurement(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	out := measure.Evaluate(req.Actual, measure.Limits{Lower: req.LowerLimit, Upper: req.UpperLimit})
	verdict := "compliant"
	if !out.Compliant {
		verdict = "out_of_tolerance"
	}
	metrics.EvaluationsTotal.WithLabelValues(verdict).Inc()
	writeJSON(w, http.StatusOK, outcomeToDTO(out))
}

// --- lots and records ---

// IngestRequest is the body of POST /lots/{lot}/ingest.
type IngestRequest struct {
	Rows []ingestuc.Row `json:"rows"`
}

// IngestResponse is the body of a successful ingest.
type IngestResponse struct {
	Records []record.Character `json:"records"`
	Stats   ingestuc.Stats     `json:"stats"`
}

// IngestLot handles POST /lots/{lot}/ingest.
func (s *Server) IngestLot(w http.ResponseWriter, r *http.Request) {
	lot := chiv5.URLParam(r, "lot")
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "rows must not be empty")
		return
	}
	if len(req.Rows) > maxIngestRows {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "too many rows")
		return
	}

	recs, stats, err := s.ingest.Ingest(r.Context(), lot, req.Rows)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, IngestResponse{Records: recs, Stats: stats})
}

// ListLots handles GET /lots.
func (s *Server) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := s.inspection.Lots(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if lots == nil {
		lots = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"lots": lots})
}

// ListRecords handles GET /lots/{lot}/records.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	lot := chiv5.URLParam(r, "lot")
	recs, err := s.inspection.List(r.Context(), lot)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if recs == nil {
		recs = []record.Character{}
	}
	writeJSON(w, http.StatusOK, map[string][]record.Character{"records": recs})
}

// GetRecord handles GET /lots/{lot}/records/{item}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	lot := chiv5.URLParam(r, "lot")
	item := chiv5.URLParam(r, "item")
	rec, err := s.inspection.Get(r.Context(), lot, item)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord handles DELETE /lots/{lot}/records/{item}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	lot := chiv5.URLParam(r, "lot")
	item := chiv5.URLParam(r, "item")
	if err := s.inspection.Delete(r.Context(), lot, item); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MeasurementRequest is the body of PUT /lots/{lot}/records/{item}/actual.
type MeasurementRequest struct {
	Actual string `json:"actual"`
}

// MeasurementResponse pairs the updated record with the evaluation outcome.
type MeasurementResponse struct {
	Record  record.Character `json:"record"`
	Outcome EvaluateResponse `json:"outcome"`
}

// RecordMeasurement handles PUT /lots/{lot}/records/{item}/actual.
func (s *Server) RecordMeasurement(w http.ResponseWriter, r *http.Request) {
	lot := chiv5.URLParam(r, "lot")
	item := chiv5.URLParam(r, "item")
	var req MeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, out, err := s.inspection.RecordMeasurement(r.Context(), lot, item, req.Actual)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MeasurementResponse{Record: rec, Outcome: outcomeToDTO(out)})
}

// ToggleOverride handles POST /lots/{lot}/records/{item}/override.
func (s *Server) ToggleOverride(w http.ResponseWriter, r *http.Request) {
	lot := chiv5.URLParam(r, "lot")
	item := chiv5.URLParam(r, "item")
	rec, err := s.inspection.ToggleOverride(r.Context(), lot, item)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// LotSummary handles GET /lots/{lot}/summary.
func (s *Server) LotSummary(w http.ResponseWriter, r *http.Request) {
	lot := chiv5.URLParam(r, "lot")
	sum, err := s.inspection.Summary(r.Context(), lot)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// --- snapshots ---

// SnapshotLot handles POST /lots/{lot}/snapshots (manual snapshot).
func (s *Server) SnapshotLot(w http.ResponseWriter, r *http.Request) {
	lot := chiv5.URLParam(r, "lot")
	snap, err := s.autosave.SnapshotLot(r.Context(), lot, "manual")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if snap.ID == "" {
		writeError(w, http.StatusNotFound, CodeLotNotFound, "lot has no records")
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// LatestSnapshot handles GET /lots/{lot}/snapshots/latest.
func (s *Server) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	lot := chiv5.URLParam(r, "lot")
	snap, err := s.autosave.Recover(r.Context(), lot)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// --- projects ---

// ProjectResponse pairs the project metadata with its folder location.
type ProjectResponse struct {
	Info  projectuc.Info `json:"info"`
	Dir   string         `json:"dir"`
	Files []string       `json:"files,omitempty"`
}

// CreateProject handles POST /projects.
func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	var key projectuc.Key
	if err := json.NewDecoder(r.Body).Decode(&key); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	info, dir, err := s.projects.Create(r.Context(), key)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ProjectResponse{Info: info, Dir: dir})
}

// GetProject handles GET /projects/{type}/{part}/{operation}/{serial}.
func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	key := projectuc.Key{
		Type:            chiv5.URLParam(r, "type"),
		PartNumber:      chiv5.URLParam(r, "part"),
		OperationNumber: chiv5.URLParam(r, "operation"),
		SerialNumber:    chiv5.URLParam(r, "serial"),
	}

	info, dir, err := s.projects.Load(r.Context(), key)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	files, err := s.projects.Files(r.Context(), key)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectResponse{Info: info, Dir: dir, Files: files})
}

// --- health and metrics ---

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- DTO mapping ---

func notationToDTO(res notation.Result) *NotationResult {
	return &NotationResult{
		Format:              string(res.Format),
		Nominal:             res.Nominal,
		LowerLimit:          res.LowerLimit,
		UpperLimit:          res.UpperLimit,
		ToleranceValue:      res.ToleranceValue,
		Class:               string(res.Class),
		Subtype:             res.Subtype,
		Diameter:            res.Diameter,
		Modifiers:           res.Modifiers,
		DatumRefs:           res.DatumRefs,
		UnilateralSecondary: res.UnilateralSecondary,
	}
}

func outcomeToDTO(out measure.Outcome) EvaluateResponse {
	resp := EvaluateResponse{
		Compliant: out.Compliant,
		Summary:   out.Summary,
	}
	for _, rd := range out.Readings {
		v := ReadingVerdict{Raw: rd.Raw, Compliant: rd.Compliant}
		if rd.Numeric {
			val := rd.Value
			v.Value = &val
		}
		resp.Readings = append(resp.Readings, v)
	}
	return resp
}
