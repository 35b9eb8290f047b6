// Package chi exposes the engine over HTTP using a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
	feedbackuc "github.com/askdocs-io/askdocs/internal/usecase/feedback"
	healthuc "github.com/askdocs-io/askdocs/internal/usecase/health"
	ingestuc "github.com/askdocs-io/askdocs/internal/usecase/ingest"
	queryuc "github.com/askdocs-io/askdocs/internal/usecase/query"
	removeuc "github.com/askdocs-io/askdocs/internal/usecase/remove"
	searchuc "github.com/askdocs-io/askdocs/internal/usecase/search"
)

// Error codes returned in the response body.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeValidationFailed   errorCode = "validation_failed"
	codeNotFound           errorCode = "not_found"
	codeAlreadyExists      errorCode = "already_exists"
	codeExtractionFailed   errorCode = "extraction_failed"
	codeEmbeddingFailed    errorCode = "embedding_provider_error"
	codeSummarizationError errorCode = "summarization_error"
	codeIndexUnavailable   errorCode = "index_unavailable"
	codeVectorDimMismatch  errorCode = "vector_dim_mismatch"
	codeTimeout            errorCode = "timeout"
	codeInternalError      errorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use case services to HTTP handlers.
type Server struct {
	ingest        *ingestuc.Service
	query         *queryuc.Service
	remove        *removeuc.Service
	search        *searchuc.Service
	feedback      *feedbackuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	query *queryuc.Service,
	remove *removeuc.Service,
	search *searchuc.Service,
	feedback *feedbackuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:   ingest,
		query:    query,
		remove:   remove,
		search:   search,
		feedback: feedback,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrInvalidConfig, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrExtractionFailed, http.StatusUnprocessableEntity, codeExtractionFailed),
		// Timeout precedes the provider sentinels: provider errors carry both.
		sentinelHandler(domain.ErrTimeout, http.StatusGatewayTimeout, codeTimeout),
		sentinelHandler(domain.ErrEmbeddingFailed, http.StatusBadGateway, codeEmbeddingFailed),
		sentinelHandler(domain.ErrSummarizationFailed, http.StatusBadGateway, codeSummarizationError),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ingest", s.Ingest)
		r.Post("/query", s.Query)
		r.Get("/documents", s.ListDocuments)
		r.Get("/documents/{id}", s.GetDocument)
		r.Delete("/documents/{id}", s.DeleteDocument)
		r.Post("/feedback", s.SubmitFeedback)
		r.Get("/feedback", s.ListFeedback)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// IngestRequest is the body of POST /api/v1/ingest.
type IngestRequest struct {
	Source  string `json:"source"`
	OwnerID string `json:"owner_id"`
}

// IngestResponse lists the ids of the documents written.
type IngestResponse struct {
	DocumentIDs []string `json:"document_ids"`
	Count       int      `json:"count"`
}

// Ingest handles POST /api/v1/ingest.
func (s *Server) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Source == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "source is required")
		return
	}
	if req.OwnerID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "owner_id is required")
		return
	}

	ids, err := s.ingest.Ingest(r.Context(), req.Source, req.OwnerID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, IngestResponse{
		DocumentIDs: ids,
		Count:       len(ids),
	})
}

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	Question   string `json:"question"`
	OwnerID    string `json:"owner_id"`
	AnswerOnly bool   `json:"answer_only"`
}

// Query handles POST /api/v1/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "question is required")
		return
	}
	if req.OwnerID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "owner_id is required")
		return
	}

	answer, err := s.query.Query(r.Context(), req.Question, req.OwnerID, req.AnswerOnly)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// ListDocuments handles GET /api/v1/documents. owner_id scopes the listing
// and is mandatory.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset := queryInt(q.Get("offset"), 0)
	limit := queryInt(q.Get("limit"), 0)

	ownerID := q.Get("owner_id")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "owner_id is required")
		return
	}

	page, err := s.search.ListDocuments(r.Context(), ownerID, offset, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// DocumentDetailResponse is one document including its extracted text.
type DocumentDetailResponse struct {
	searchuc.DocumentSummary
	Text string `json:"text"`
}

// GetDocument handles GET /api/v1/documents/{id}. owner_id is mandatory;
// another tenant's document reads as absent.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "owner_id is required")
		return
	}

	summary, text, err := s.search.GetDocument(r.Context(), id, ownerID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DocumentDetailResponse{
		DocumentSummary: summary,
		Text:            text,
	})
}

// DeleteDocument handles DELETE /api/v1/documents/{id}. owner_id is
// mandatory; deleting another tenant's document is a no-op.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "owner_id is required")
		return
	}

	if err := s.remove.Remove(r.Context(), chi.URLParam(r, "id"), ownerID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FeedbackRequest is the body of POST /api/v1/feedback.
type FeedbackRequest struct {
	Kind         string `json:"kind"`
	Text         string `json:"text"`
	Recipient    string `json:"recipient,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// FeedbackResponse confirms a stored feedback entry.
type FeedbackResponse struct {
	ID string `json:"id"`
}

// SubmitFeedback handles POST /api/v1/feedback.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id, err := s.feedback.Submit(r.Context(), req.Kind, req.Text, req.Recipient, req.ContactEmail)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FeedbackResponse{ID: id})
}

// FeedbackItem is one listed feedback entry.
type FeedbackItem struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Text         string `json:"text"`
	Recipient    string `json:"recipient,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// FeedbackListResponse is one page of feedback entries.
type FeedbackListResponse struct {
	Items []FeedbackItem `json:"items"`
	Total int            `json:"total"`
}

// ListFeedback handles GET /api/v1/feedback.
func (s *Server) ListFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset := queryInt(q.Get("offset"), 0)
	limit := queryInt(q.Get("limit"), 20)

	records, total, err := s.feedback.List(r.Context(), q.Get("kind"), offset, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]FeedbackItem, len(records))
	for i, rec := range records {
		items[i] = FeedbackItem{
			ID:           rec.ID(),
			Kind:         rec.Kind(),
			Text:         rec.Text(),
			Recipient:    rec.Recipient(),
			ContactEmail: rec.ContactEmail(),
		}
	}

	writeJSON(w, http.StatusOK, FeedbackListResponse{Items: items, Total: total})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// queryInt parses an integer query parameter, falling back on the default
// when absent or malformed.
func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidConfig,
		domain.ErrVectorDimMismatch,
		domain.ErrExtractionFailed,
		domain.ErrTimeout,
		domain.ErrEmbeddingFailed,
		domain.ErrSummarizationFailed,
		domain.ErrIndexUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
