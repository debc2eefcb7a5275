package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"trendpulse/internal/core"
)

type mockSource struct {
	texts   []string
	fetched int
}

func (m *mockSource) Name() string { return "mock" }

func (m *mockSource) FetchTexts(ctx context.Context, keyword string, maxResults int) []string {
	m.fetched++
	return m.texts
}

type mockGenerator struct {
	summaryCalls int
	tweetCalls   int
	instaCalls   int
}

func (m *mockGenerator) GenerateTrendSummary(ctx context.Context, sourceTexts []string) core.TrendSummary {
	m.summaryCalls++
	return core.TrendSummary{SummaryKR: "요약입니다", SummaryEN: "a summary"}
}

func (m *mockGenerator) GenerateTweetDrafts(ctx context.Context, summary core.TrendSummary, count int) core.TweetDraftSet {
	m.tweetCalls++
	drafts := make([]string, count)
	for i := range drafts {
		drafts[i] = fmt.Sprintf("draft number %d about the trend", i+1)
	}
	return core.TweetDraftSet{Drafts: drafts}
}

func (m *mockGenerator) GenerateInstagramPost(ctx context.Context, summary core.TrendSummary) core.InstagramPost {
	m.instaCalls++
	return core.InstagramPost{Caption: "a caption", Hashtags: []string{"트렌드"}}
}

type mockRepo struct {
	keywords     []core.Keyword
	insights     []*core.Insight
	posts        []*core.Post
	failInsight  bool
	failPost     bool
	nextInsightN int
}

func (m *mockRepo) GetKeyword(id string) (*core.Keyword, error) {
	for _, kw := range m.keywords {
		if kw.ID == id {
			copy := kw
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) ListKeywords(activeOnly bool) ([]core.Keyword, error) {
	if !activeOnly {
		return m.keywords, nil
	}
	var active []core.Keyword
	for _, kw := range m.keywords {
		if kw.IsActive {
			active = append(active, kw)
		}
	}
	return active, nil
}

func (m *mockRepo) SaveInsight(insight *core.Insight) error {
	if m.failInsight {
		return errors.New("insight write failed")
	}
	m.nextInsightN++
	insight.ID = fmt.Sprintf("insight-%d", m.nextInsightN)
	m.insights = append(m.insights, insight)
	return nil
}

func (m *mockRepo) SavePost(post *core.Post) error {
	if m.failPost {
		return errors.New("post write failed")
	}
	m.posts = append(m.posts, post)
	return nil
}

func testPipeline(source *mockSource, gen *mockGenerator, repo *mockRepo) *Pipeline {
	config := DefaultConfig()
	config.KeywordDelay = time.Millisecond
	return New(source, gen, repo, config)
}

func TestGenerateForKeyword_PersistsInsightAndPosts(t *testing.T) {
	source := &mockSource{texts: []string{"post one", "post two", "post three"}}
	gen := &mockGenerator{}
	repo := &mockRepo{}
	p := testPipeline(source, gen, repo)

	insight, err := p.GenerateForKeyword(context.Background(), core.Keyword{ID: "kw-1", Keyword: "커피"})
	if err != nil {
		t.Fatalf("GenerateForKeyword failed: %v", err)
	}
	if insight.SourcesAnalyzed != 3 {
		t.Errorf("expected 3 sources analyzed, got %d", insight.SourcesAnalyzed)
	}
	if insight.ID == "" {
		t.Error("insight should be persisted with an ID")
	}

	// 5 tweet drafts plus 1 instagram post.
	if len(repo.posts) != 6 {
		t.Fatalf("expected 6 posts, got %d", len(repo.posts))
	}
	var tweets, instas int
	for _, post := range repo.posts {
		if post.InsightID != insight.ID {
			t.Errorf("post not linked to insight: %+v", post)
		}
		switch post.Type {
		case core.PostTypeTweet:
			tweets++
		case core.PostTypeInstagram:
			instas++
		}
	}
	if tweets != 5 || instas != 1 {
		t.Errorf("expected 5 tweets and 1 instagram post, got %d/%d", tweets, instas)
	}
}

func TestGenerateByID_UnknownKeyword(t *testing.T) {
	p := testPipeline(&mockSource{}, &mockGenerator{}, &mockRepo{})

	_, err := p.GenerateByID(context.Background(), "missing")
	if !errors.Is(err, ErrKeywordNotFound) {
		t.Errorf("expected ErrKeywordNotFound, got %v", err)
	}
}

func TestGenerateByID_FoundKeyword(t *testing.T) {
	repo := &mockRepo{keywords: []core.Keyword{{ID: "kw-1", Keyword: "여행", IsActive: true}}}
	p := testPipeline(&mockSource{texts: []string{"text"}}, &mockGenerator{}, repo)

	insight, err := p.GenerateByID(context.Background(), "kw-1")
	if err != nil {
		t.Fatalf("GenerateByID failed: %v", err)
	}
	if insight.Keyword != "여행" {
		t.Errorf("unexpected insight keyword: %q", insight.Keyword)
	}
}

func TestGenerateForKeyword_InsightWriteFailure(t *testing.T) {
	repo := &mockRepo{failInsight: true}
	p := testPipeline(&mockSource{texts: []string{"text"}}, &mockGenerator{}, repo)

	if _, err := p.GenerateForKeyword(context.Background(), core.Keyword{ID: "kw-1", Keyword: "날씨"}); err == nil {
		t.Fatal("expected error when the insight cannot be stored")
	}
	if len(repo.posts) != 0 {
		t.Errorf("no posts should be written without a stored insight, got %d", len(repo.posts))
	}
}

func TestGenerateForKeyword_PostFailureKeepsInsight(t *testing.T) {
	repo := &mockRepo{failPost: true}
	p := testPipeline(&mockSource{texts: []string{"text"}}, &mockGenerator{}, repo)

	insight, err := p.GenerateForKeyword(context.Background(), core.Keyword{ID: "kw-1", Keyword: "음악"})
	if err != nil {
		t.Fatalf("a post write failure must not fail the insight: %v", err)
	}
	if insight == nil || insight.ID == "" {
		t.Error("insight should still be persisted")
	}
}

func TestRunAll_ProcessesOnlyActiveKeywords(t *testing.T) {
	source := &mockSource{texts: []string{"text"}}
	gen := &mockGenerator{}
	repo := &mockRepo{keywords: []core.Keyword{
		{ID: "kw-1", Keyword: "하나", IsActive: true},
		{ID: "kw-2", Keyword: "둘", IsActive: false},
		{ID: "kw-3", Keyword: "셋", IsActive: true},
	}}
	p := testPipeline(source, gen, repo)

	if err := p.RunAll(context.Background()); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(repo.insights) != 2 {
		t.Errorf("expected insights for 2 active keywords, got %d", len(repo.insights))
	}
	if gen.summaryCalls != 2 {
		t.Errorf("expected 2 summary generations, got %d", gen.summaryCalls)
	}
}

func TestRunAll_CanceledBetweenKeywords(t *testing.T) {
	repo := &mockRepo{keywords: []core.Keyword{
		{ID: "kw-1", Keyword: "하나", IsActive: true},
		{ID: "kw-2", Keyword: "둘", IsActive: true},
	}}
	config := DefaultConfig()
	config.KeywordDelay = time.Hour
	p := New(&mockSource{texts: []string{"text"}}, &mockGenerator{}, repo, config)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Let the first keyword finish, then cancel during the delay.
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := p.RunAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(repo.insights) != 1 {
		t.Errorf("expected only the first keyword processed, got %d insights", len(repo.insights))
	}
}
