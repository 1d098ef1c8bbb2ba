package server

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/bookdiff/internal/cache"
	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/fingerprint"
	"github.com/nao1215/bookdiff/internal/model"
	"github.com/nao1215/bookdiff/internal/pages"
	"github.com/nao1215/bookdiff/internal/report"
)

// CompareRequest is the body of POST /v1/compare.
// Omitted parameters take the server's defaults.
type CompareRequest struct {
	Old string `json:"old"`
	New string `json:"new"`

	Threshold   *int   `json:"threshold,omitempty"`
	Algorithm   string `json:"algorithm,omitempty"`
	HashSize    *int   `json:"hash_size,omitempty"`
	Band        *int   `json:"band,omitempty"`
	DetectMoves *bool  `json:"detect_moves,omitempty"`
	Sort        string `json:"sort,omitempty"`

	// IncludeOps adds the edit script to the response.
	IncludeOps bool `json:"include_ops,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HistoryEntry is one element of GET /v1/history.
type HistoryEntry struct {
	ID        int64  `json:"id"`
	OldSource string `json:"old_source"`
	NewSource string `json:"new_source"`
	Algorithm string `json:"algorithm"`
	Threshold int    `json:"threshold"`
	Timestamp string `json:"timestamp"`

	Summary model.Summary `json:"summary"`
}

// config returns a copy of the server defaults with the request applied.
func (req CompareRequest) config(base *config.Config) *config.Config {
	cfg := *base
	cfg.OldPath = req.Old
	cfg.NewPath = req.New
	cfg.IncludeOps = req.IncludeOps
	if req.Threshold != nil {
		cfg.Threshold = *req.Threshold
	}
	if req.Algorithm != "" {
		cfg.Algorithm = fingerprint.Algorithm(req.Algorithm)
	}
	if req.HashSize != nil {
		cfg.HashSize = *req.HashSize
	}
	if req.Band != nil {
		cfg.Band = *req.Band
	}
	if req.DetectMoves != nil {
		cfg.DetectMoves = *req.DetectMoves
	}
	if req.Sort != "" {
		cfg.SortOrder = pages.SortOrder(req.Sort)
	}
	return &cfg
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrEmptyBody
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := req.config(s.base)
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cmp, err := s.comparer.Compare(r.Context(), cfg)
	if err != nil {
		s.logger.Warn("comparison failed", "old", cfg.OldPath, "new", cfg.NewPath, "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, report.NewJSONReport(cmp, s.version, cfg.IncludeOps))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, ErrHistoryDisabled)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	records, err := s.history.History(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	entries := make([]HistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = HistoryEntry{
			ID:        rec.ID,
			OldSource: rec.OldSource,
			NewSource: rec.NewSource,
			Algorithm: rec.Algorithm,
			Threshold: rec.Threshold,
			Timestamp: rec.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
			Summary:   rec.Summary,
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryReport(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, ErrHistoryDisabled)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("id must be an integer"))
		return
	}

	rep, err := s.history.Report(r.Context(), id)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, rep)
	}
}

// statusFor maps a comparison error to an HTTP status.
// Problems with the submitted sources are the client's; anything else is
// the server's.
func statusFor(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, pages.ErrUnsupportedSource),
		errors.Is(err, pages.ErrNoPageImage),
		errors.Is(err, fingerprint.ErrDecode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
