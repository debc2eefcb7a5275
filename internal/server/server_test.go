package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"trendpulse/internal/config"
	"trendpulse/internal/core"
	"trendpulse/internal/pipeline"
	"trendpulse/internal/store"
)

type stubGenerator struct {
	store *store.Store
	err   error
}

func (g *stubGenerator) GenerateByID(ctx context.Context, keywordID string) (*core.Insight, error) {
	if g.err != nil {
		return nil, g.err
	}
	keyword, err := g.store.GetKeyword(keywordID)
	if err != nil {
		return nil, err
	}
	if keyword == nil {
		return nil, pipeline.ErrKeywordNotFound
	}
	insight := &core.Insight{
		KeywordID:       keyword.ID,
		Keyword:         keyword.Keyword,
		SummaryKR:       "요약입니다",
		SummaryEN:       "a summary",
		SourcesAnalyzed: 10,
	}
	if err := g.store.SaveInsight(insight); err != nil {
		return nil, err
	}
	return insight, nil
}

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Server{
		Host:           "127.0.0.1",
		Port:           8000,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	return New(st, &stubGenerator{store: st}, cfg), st
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(rec.Body.Bytes(), &value); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return value
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	health := decodeBody[HealthResponse](t, rec)
	if health.Status != "ok" || health.Checks["database"] != "ok" {
		t.Errorf("unexpected health payload: %+v", health)
	}
}

func TestKeywordEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	// Create.
	rec := doRequest(t, s, http.MethodPost, "/api/keywords", KeywordCreateRequest{Keyword: "인공지능"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[core.Keyword](t, rec)
	if created.ID == "" || !created.IsActive {
		t.Errorf("unexpected created keyword: %+v", created)
	}

	// Duplicate is rejected.
	rec = doRequest(t, s, http.MethodPost, "/api/keywords", KeywordCreateRequest{Keyword: "인공지능"})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate keyword, got %d", rec.Code)
	}

	// List.
	rec = doRequest(t, s, http.MethodGet, "/api/keywords", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if keywords := decodeBody[[]core.Keyword](t, rec); len(keywords) != 1 {
		t.Errorf("expected 1 keyword, got %d", len(keywords))
	}

	// Toggle.
	rec = doRequest(t, s, http.MethodPatch, "/api/keywords/"+created.ID+"/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if toggled := decodeBody[core.Keyword](t, rec); toggled.IsActive {
		t.Error("keyword should be inactive after toggle")
	}

	// Active-only listing now excludes it.
	rec = doRequest(t, s, http.MethodGet, "/api/keywords?active=true", nil)
	if keywords := decodeBody[[]core.Keyword](t, rec); len(keywords) != 0 {
		t.Errorf("expected no active keywords, got %d", len(keywords))
	}

	// Delete.
	rec = doRequest(t, s, http.MethodDelete, "/api/keywords/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodDelete, "/api/keywords/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a deleted keyword, got %d", rec.Code)
	}
}

func TestCreateKeyword_BadBody(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/keywords", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid body, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/keywords", KeywordCreateRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty keyword, got %d", rec.Code)
	}
}

func TestGenerateInsight(t *testing.T) {
	s, st := newTestServer(t)

	keyword, err := st.CreateKeyword("커피")
	if err != nil {
		t.Fatalf("CreateKeyword failed: %v", err)
	}

	rec := doRequest(t, s, http.MethodPost, "/api/insights/generate/"+keyword.ID, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	generated := decodeBody[GenerateResponse](t, rec)
	if generated.InsightID == "" {
		t.Fatal("expected an insight ID in the response")
	}

	rec = doRequest(t, s, http.MethodGet, "/api/insights/"+generated.InsightID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	insight := decodeBody[InsightResponse](t, rec)
	if insight.Keyword != "커피" || insight.SourcesAnalyzed != 10 {
		t.Errorf("unexpected insight: %+v", insight.Insight)
	}
}

func TestGenerateInsight_UnknownKeyword(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/insights/generate/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestListInsightsWithPosts(t *testing.T) {
	s, st := newTestServer(t)

	keyword, _ := st.CreateKeyword("여행")
	insight := &core.Insight{KeywordID: keyword.ID, Keyword: keyword.Keyword, SummaryKR: "요약", SummaryEN: "summary"}
	if err := st.SaveInsight(insight); err != nil {
		t.Fatalf("SaveInsight failed: %v", err)
	}
	post := &core.Post{InsightID: insight.ID, Type: core.PostTypeTweet, Content: "여행 트렌드 소식"}
	if err := st.SavePost(post); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	rec := doRequest(t, s, http.MethodGet, "/api/insights", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	insights := decodeBody[[]InsightResponse](t, rec)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	if len(insights[0].Posts) != 1 {
		t.Errorf("expected the insight's post attached, got %d posts", len(insights[0].Posts))
	}
}

func TestListPosts_FilterByType(t *testing.T) {
	s, st := newTestServer(t)

	keyword, _ := st.CreateKeyword("음악")
	insight := &core.Insight{KeywordID: keyword.ID, Keyword: keyword.Keyword, SummaryKR: "요약", SummaryEN: "summary"}
	if err := st.SaveInsight(insight); err != nil {
		t.Fatalf("SaveInsight failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		st.SavePost(&core.Post{InsightID: insight.ID, Type: core.PostTypeTweet, Content: fmt.Sprintf("트윗 %d", i)})
	}
	st.SavePost(&core.Post{InsightID: insight.ID, Type: core.PostTypeInstagram, Content: "캡션", Hashtags: []string{"음악"}})

	rec := doRequest(t, s, http.MethodGet, "/api/posts?type=instagram", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	posts := decodeBody[[]core.Post](t, rec)
	if len(posts) != 1 || posts[0].Type != core.PostTypeInstagram {
		t.Errorf("unexpected filtered posts: %+v", posts)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/posts?insight_id="+insight.ID, nil)
	if posts := decodeBody[[]core.Post](t, rec); len(posts) != 4 {
		t.Errorf("expected 4 posts for the insight, got %d", len(posts))
	}
}

func TestGetInsight_NotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/insights/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
