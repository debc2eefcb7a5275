package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trendpulse/internal/core"
	"trendpulse/internal/logger"
	"trendpulse/internal/pipeline"
	"trendpulse/internal/store"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// StatusResponse is the /api/status payload.
type StatusResponse struct {
	Uptime   string       `json:"uptime"`
	Database *store.Stats `json:"database"`
}

// KeywordCreateRequest is the POST /api/keywords body.
type KeywordCreateRequest struct {
	Keyword string `json:"keyword"`
}

// InsightResponse is an insight with its generated posts attached.
type InsightResponse struct {
	core.Insight
	Posts []core.Post `json:"posts"`
}

// GenerateResponse reports a completed generation run.
type GenerateResponse struct {
	Message   string `json:"message"`
	InsightID string `json:"insight_id"`
}

var serverStartTime = time.Now()

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if _, err := s.store.GetStats(); err != nil {
		checks["database"] = "error"
		s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Checks: checks,
	})
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read database stats")
		return
	}

	s.respondJSON(w, http.StatusOK, StatusResponse{
		Uptime:   time.Since(serverStartTime).String(),
		Database: stats,
	})
}

// handleListKeywords handles GET /api/keywords
func (s *Server) handleListKeywords(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	keywords, err := s.store.ListKeywords(activeOnly)
	if err != nil {
		logger.Error("failed to list keywords", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list keywords")
		return
	}
	if keywords == nil {
		keywords = []core.Keyword{}
	}
	s.respondJSON(w, http.StatusOK, keywords)
}

// handleCreateKeyword handles POST /api/keywords
func (s *Server) handleCreateKeyword(w http.ResponseWriter, r *http.Request) {
	var req KeywordCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Keyword == "" {
		s.respondError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	if existing, err := s.store.GetKeywordByText(req.Keyword); err == nil && existing != nil {
		s.respondError(w, http.StatusConflict, "keyword already exists")
		return
	}

	keyword, err := s.store.CreateKeyword(req.Keyword)
	if err != nil {
		logger.Error("failed to create keyword", err, "keyword", req.Keyword)
		s.respondError(w, http.StatusInternalServerError, "failed to create keyword")
		return
	}
	s.respondJSON(w, http.StatusCreated, keyword)
}

// handleDeleteKeyword handles DELETE /api/keywords/{id}
func (s *Server) handleDeleteKeyword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.store.DeleteKeyword(id)
	if err != nil {
		logger.Error("failed to delete keyword", err, "id", id)
		s.respondError(w, http.StatusInternalServerError, "failed to delete keyword")
		return
	}
	if !deleted {
		s.respondError(w, http.StatusNotFound, "keyword not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "keyword deleted"})
}

// handleToggleKeyword handles PATCH /api/keywords/{id}/toggle
func (s *Server) handleToggleKeyword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	keyword, err := s.store.GetKeyword(id)
	if err != nil {
		logger.Error("failed to load keyword", err, "id", id)
		s.respondError(w, http.StatusInternalServerError, "failed to load keyword")
		return
	}
	if keyword == nil {
		s.respondError(w, http.StatusNotFound, "keyword not found")
		return
	}

	if _, err := s.store.SetKeywordActive(id, !keyword.IsActive); err != nil {
		logger.Error("failed to toggle keyword", err, "id", id)
		s.respondError(w, http.StatusInternalServerError, "failed to toggle keyword")
		return
	}

	updated, err := s.store.GetKeyword(id)
	if err != nil || updated == nil {
		s.respondError(w, http.StatusInternalServerError, "failed to reload keyword")
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

// handleListInsights handles GET /api/insights
func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	keywordID := r.URL.Query().Get("keyword_id")
	limit := queryInt(r, "limit", 50)

	insights, err := s.store.ListInsights(keywordID, limit)
	if err != nil {
		logger.Error("failed to list insights", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list insights")
		return
	}

	responses := make([]InsightResponse, 0, len(insights))
	for _, insight := range insights {
		responses = append(responses, s.insightResponse(insight))
	}
	s.respondJSON(w, http.StatusOK, responses)
}

// handleGetInsight handles GET /api/insights/{id}
func (s *Server) handleGetInsight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	insight, err := s.store.GetInsight(id)
	if err != nil {
		logger.Error("failed to load insight", err, "id", id)
		s.respondError(w, http.StatusInternalServerError, "failed to load insight")
		return
	}
	if insight == nil {
		s.respondError(w, http.StatusNotFound, "insight not found")
		return
	}
	s.respondJSON(w, http.StatusOK, s.insightResponse(*insight))
}

// handleGenerateInsight handles POST /api/insights/generate/{keywordID}. The
// full pipeline runs synchronously: source fetch, AI analysis, post
// generation, persistence.
func (s *Server) handleGenerateInsight(w http.ResponseWriter, r *http.Request) {
	keywordID := chi.URLParam(r, "keywordID")

	insight, err := s.generator.GenerateByID(r.Context(), keywordID)
	if err != nil {
		if errors.Is(err, pipeline.ErrKeywordNotFound) {
			s.respondError(w, http.StatusNotFound, "keyword not found")
			return
		}
		logger.Error("insight generation failed", err, "keyword_id", keywordID)
		s.respondError(w, http.StatusInternalServerError, "insight generation failed")
		return
	}

	s.respondJSON(w, http.StatusCreated, GenerateResponse{
		Message:   "insight generated",
		InsightID: insight.ID,
	})
}

// handleListPosts handles GET /api/posts
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	insightID := r.URL.Query().Get("insight_id")
	postType := core.PostType(r.URL.Query().Get("type"))
	limit := queryInt(r, "limit", 100)

	posts, err := s.store.ListPosts(insightID, postType, limit)
	if err != nil {
		logger.Error("failed to list posts", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []core.Post{}
	}
	s.respondJSON(w, http.StatusOK, posts)
}

// insightResponse attaches the insight's posts; a post lookup failure
// degrades to an empty post list rather than failing the whole response.
func (s *Server) insightResponse(insight core.Insight) InsightResponse {
	posts, err := s.store.ListPosts(insight.ID, "", 0)
	if err != nil {
		logger.Error("failed to load posts for insight", err, "insight_id", insight.ID)
		posts = nil
	}
	if posts == nil {
		posts = []core.Post{}
	}
	return InsightResponse{Insight: insight, Posts: posts}
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode json response", err)
	}
}

// respondError writes a JSON error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
