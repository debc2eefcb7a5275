// Package pipeline runs the end-to-end generation flow for a keyword: fetch
// recent source texts, generate the bilingual trend summary, persist the
// insight, then derive and persist the social posts. The scheduler and the
// HTTP API both run their generation through this package.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trendpulse/internal/core"
	"trendpulse/internal/logger"
	"trendpulse/internal/sources"
)

// ErrKeywordNotFound reports a generation request for an unknown keyword ID.
var ErrKeywordNotFound = errors.New("keyword not found")

// Generator is the content generation surface the pipeline consumes. All
// three operations are infallible.
type Generator interface {
	GenerateTrendSummary(ctx context.Context, sourceTexts []string) core.TrendSummary
	GenerateTweetDrafts(ctx context.Context, summary core.TrendSummary, count int) core.TweetDraftSet
	GenerateInstagramPost(ctx context.Context, summary core.TrendSummary) core.InstagramPost
}

// Repository is the persistence surface the pipeline consumes.
type Repository interface {
	GetKeyword(id string) (*core.Keyword, error)
	ListKeywords(activeOnly bool) ([]core.Keyword, error)
	SaveInsight(insight *core.Insight) error
	SavePost(post *core.Post) error
}

// Config tunes a pipeline run.
type Config struct {
	MaxSourceResults int           // texts fetched per keyword
	TweetDraftCount  int           // drafts generated per insight
	KeywordDelay     time.Duration // pause between keywords in a batch run
}

// DefaultConfig returns the standard run configuration.
func DefaultConfig() Config {
	return Config{
		MaxSourceResults: 10,
		TweetDraftCount:  5,
		KeywordDelay:     2 * time.Second,
	}
}

// Pipeline wires a source, a generator, and a repository into the generation
// flow.
type Pipeline struct {
	source    sources.Source
	generator Generator
	repo      Repository
	config    Config
}

// New creates a pipeline.
func New(source sources.Source, generator Generator, repo Repository, config Config) *Pipeline {
	if config.MaxSourceResults <= 0 {
		config.MaxSourceResults = DefaultConfig().MaxSourceResults
	}
	if config.TweetDraftCount <= 0 {
		config.TweetDraftCount = DefaultConfig().TweetDraftCount
	}
	return &Pipeline{
		source:    source,
		generator: generator,
		repo:      repo,
		config:    config,
	}
}

// GenerateByID runs the flow for the keyword with the given ID. A missing
// keyword returns ErrKeywordNotFound. Inactive keywords are still processed;
// the active flag only gates scheduled batch runs.
func (p *Pipeline) GenerateByID(ctx context.Context, keywordID string) (*core.Insight, error) {
	keyword, err := p.repo.GetKeyword(keywordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword: %w", err)
	}
	if keyword == nil {
		return nil, ErrKeywordNotFound
	}
	return p.GenerateForKeyword(ctx, *keyword)
}

// GenerateForKeyword fetches source texts, generates and persists the insight
// and its derived posts, and returns the stored insight.
func (p *Pipeline) GenerateForKeyword(ctx context.Context, keyword core.Keyword) (*core.Insight, error) {
	logger.Info("generating insight", "keyword", keyword.Keyword, "source", p.source.Name())

	texts := p.source.FetchTexts(ctx, keyword.Keyword, p.config.MaxSourceResults)
	summary := p.generator.GenerateTrendSummary(ctx, texts)

	insight := &core.Insight{
		KeywordID:       keyword.ID,
		Keyword:         keyword.Keyword,
		SummaryKR:       summary.SummaryKR,
		SummaryEN:       summary.SummaryEN,
		SourcesAnalyzed: len(texts),
	}
	if err := p.repo.SaveInsight(insight); err != nil {
		return nil, fmt.Errorf("failed to save insight: %w", err)
	}

	if err := p.generatePosts(ctx, insight, summary); err != nil {
		// The insight is already stored; a post failure degrades the result
		// rather than discarding it.
		logger.Error("post generation failed", err, "keyword", keyword.Keyword, "insight_id", insight.ID)
	}

	logger.Info("insight generated", "keyword", keyword.Keyword, "insight_id", insight.ID, "sources", insight.SourcesAnalyzed)
	return insight, nil
}

// generatePosts derives the tweet drafts and the Instagram post from the
// summary and persists them under the insight.
func (p *Pipeline) generatePosts(ctx context.Context, insight *core.Insight, summary core.TrendSummary) error {
	drafts := p.generator.GenerateTweetDrafts(ctx, summary, p.config.TweetDraftCount)
	for _, draft := range drafts.Drafts {
		post := &core.Post{
			InsightID: insight.ID,
			Type:      core.PostTypeTweet,
			Content:   draft,
		}
		if err := p.repo.SavePost(post); err != nil {
			return fmt.Errorf("failed to save tweet draft: %w", err)
		}
	}

	instagram := p.generator.GenerateInstagramPost(ctx, summary)
	post := &core.Post{
		InsightID: insight.ID,
		Type:      core.PostTypeInstagram,
		Content:   instagram.Caption,
		Hashtags:  instagram.Hashtags,
	}
	if err := p.repo.SavePost(post); err != nil {
		return fmt.Errorf("failed to save instagram post: %w", err)
	}
	return nil
}

// RunAll processes every active keyword in sequence, pausing between
// keywords to stay clear of upstream rate limits. A failing keyword is
// logged and skipped; the run continues.
func (p *Pipeline) RunAll(ctx context.Context) error {
	keywords, err := p.repo.ListKeywords(true)
	if err != nil {
		return fmt.Errorf("failed to list active keywords: %w", err)
	}

	logger.Info("starting batch insight generation", "keywords", len(keywords))
	for i, keyword := range keywords {
		if i > 0 && p.config.KeywordDelay > 0 {
			select {
			case <-time.After(p.config.KeywordDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if _, err := p.GenerateForKeyword(ctx, keyword); err != nil {
			logger.Error("keyword generation failed, continuing", err, "keyword", keyword.Keyword)
		}
	}
	logger.Info("batch insight generation finished", "keywords", len(keywords))
	return nil
}
