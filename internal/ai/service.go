// Package ai is the orchestration facade over the LLM providers. Each of the
// three generation operations follows the same template: fingerprint the
// inputs, consult the response cache, walk the operation's provider priority
// order with retry and parsing applied per provider, and fall back to
// deterministic synthetic content when every provider is exhausted. The three
// public operations never fail: callers always receive a structurally valid
// result.
//
// The facade performs no rate limiting of its own; periodic callers iterating
// many keywords are expected to pace themselves.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trendpulse/internal/aicache"
	"trendpulse/internal/aiparse"
	"trendpulse/internal/config"
	"trendpulse/internal/core"
	"trendpulse/internal/llm"
	"trendpulse/internal/logger"
	"trendpulse/internal/retry"
)

// DefaultTweetDraftCount is used when a caller asks for a non-positive number
// of drafts.
const DefaultTweetDraftCount = 5

// Provider priority per operation. Trend summaries and tweet drafts lead with
// OpenAI; Instagram posts lead with Anthropic, which produces better caption
// copy. The ordering is intentional, not alphabetical.
var (
	summaryProviderOrder   = []string{"openai", "anthropic"}
	tweetProviderOrder     = []string{"openai", "anthropic"}
	instagramProviderOrder = []string{"anthropic", "openai"}
)

// errProvidersExhausted is the internal signal that every configured provider
// failed or none is configured. It never escapes the facade; it only routes
// execution to the synthetic fallback.
var errProvidersExhausted = errors.New("all providers exhausted")

// Options configures the facade.
type Options struct {
	Temperature float64
	MaxTokens   int
	CacheTTL    time.Duration
	Retry       retry.Options
}

// DefaultOptions returns the facade defaults.
func DefaultOptions() Options {
	return Options{
		Temperature: 0.7,
		MaxTokens:   2000,
		CacheTTL:    time.Hour,
		Retry:       retry.DefaultOptions(),
	}
}

// OptionsFromConfig derives facade options from the AI configuration section.
func OptionsFromConfig(cfg config.AI) Options {
	return Options{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		CacheTTL:    cfg.CacheTTL,
		Retry: retry.Options{
			MaxAttempts:       cfg.MaxRetries,
			PerAttemptTimeout: cfg.Timeout,
			BackoffUnit:       time.Second,
		},
	}
}

// Service sequences provider attempts and guarantees usable results.
type Service struct {
	providers map[string]llm.Provider
	cache     *aicache.Cache
	options   Options
}

// NewService creates the facade over the given configured providers. Provider
// names absent from the map are treated as unconfigured and skipped.
func NewService(providers []llm.Provider, cache *aicache.Cache, options Options) *Service {
	byName := make(map[string]llm.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Service{
		providers: byName,
		cache:     cache,
		options:   options,
	}
}

// ProvidersFromConfig builds the configured provider set. Providers without
// credentials are skipped silently.
func ProvidersFromConfig(cfg config.AI) []llm.Provider {
	var providers []llm.Provider
	if p, err := llm.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model); err == nil {
		providers = append(providers, p)
	} else if !errors.Is(err, llm.ErrUnconfigured) {
		logger.Error("openai provider init failed", err)
	}
	if p, err := llm.NewAnthropicProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model); err == nil {
		providers = append(providers, p)
	} else if !errors.Is(err, llm.ErrUnconfigured) {
		logger.Error("anthropic provider init failed", err)
	}
	return providers
}

// GenerateTrendSummary analyzes the source texts and returns a bilingual
// trend summary. Empty input short-circuits to a fixed summary without
// touching providers or the cache. Only the first 20 texts are sent to the
// model. This operation never fails.
func (s *Service) GenerateTrendSummary(ctx context.Context, sourceTexts []string) core.TrendSummary {
	if len(sourceTexts) == 0 {
		return emptyInputSummary()
	}

	normalized := normalizeTexts(sourceTexts)
	key := aicache.Fingerprint("trend_summary", normalized...)

	value, err := s.cache.GetOrCompute(key, s.options.CacheTTL, func() (any, error) {
		return s.computeTrendSummary(ctx, normalized)
	})
	if err != nil {
		logger.Warn("trend summary generation fell back to synthetic content", "error", err.Error())
		return syntheticTrendSummary(len(sourceTexts))
	}
	return value.(core.TrendSummary)
}

func (s *Service) computeTrendSummary(ctx context.Context, texts []string) (core.TrendSummary, error) {
	prompt := buildTrendSummaryPrompt(texts)

	summary, tier, provider, err := generate(s, ctx, "trend_summary", summaryProviderOrder, prompt, aiparse.TrendSummary)
	if err != nil {
		return core.TrendSummary{}, err
	}
	logger.Info("trend summary generated", "provider", provider, "tier", tier.String())
	return summary, nil
}

// GenerateTweetDrafts produces up to count tweet drafts from the summary.
// Non-positive counts default to 5. This operation never fails.
func (s *Service) GenerateTweetDrafts(ctx context.Context, summary core.TrendSummary, count int) core.TweetDraftSet {
	if count <= 0 {
		count = DefaultTweetDraftCount
	}

	insight := insightText(summary)
	key := aicache.Fingerprint("tweet_drafts", strconv.Itoa(count), insight)

	value, err := s.cache.GetOrCompute(key, s.options.CacheTTL, func() (any, error) {
		return s.computeTweetDrafts(ctx, insight, count)
	})
	if err != nil {
		logger.Warn("tweet draft generation fell back to synthetic content", "error", err.Error())
		return syntheticTweetDrafts(summary, count)
	}
	return value.(core.TweetDraftSet)
}

func (s *Service) computeTweetDrafts(ctx context.Context, insight string, count int) (core.TweetDraftSet, error) {
	prompt := buildTweetDraftsPrompt(insight, count)

	drafts, tier, provider, err := generate(s, ctx, "tweet_drafts", tweetProviderOrder, prompt, func(raw string) (core.TweetDraftSet, aiparse.Tier, error) {
		return aiparse.TweetDrafts(raw, count)
	})
	if err != nil {
		return core.TweetDraftSet{}, err
	}
	logger.Info("tweet drafts generated", "provider", provider, "tier", tier.String(), "count", len(drafts.Drafts))
	return drafts, nil
}

// GenerateInstagramPost produces a caption and hashtag set from the summary.
// This operation never fails.
func (s *Service) GenerateInstagramPost(ctx context.Context, summary core.TrendSummary) core.InstagramPost {
	insight := insightText(summary)
	key := aicache.Fingerprint("instagram_post", insight)

	value, err := s.cache.GetOrCompute(key, s.options.CacheTTL, func() (any, error) {
		return s.computeInstagramPost(ctx, insight)
	})
	if err != nil {
		logger.Warn("instagram post generation fell back to synthetic content", "error", err.Error())
		return syntheticInstagramPost(summary)
	}
	return value.(core.InstagramPost)
}

func (s *Service) computeInstagramPost(ctx context.Context, insight string) (core.InstagramPost, error) {
	prompt := buildInstagramPrompt(insight)

	post, tier, provider, err := generate(s, ctx, "instagram_post", instagramProviderOrder, prompt, aiparse.InstagramPost)
	if err != nil {
		return core.InstagramPost{}, err
	}
	logger.Info("instagram post generated", "provider", provider, "tier", tier.String(), "hashtags", len(post.Hashtags))
	return post, nil
}

// generate walks the operation's provider order. Unconfigured providers are
// skipped; a failed call or unparseable response moves on to the next
// provider; the first response that parses wins and later providers are not
// attempted. The returned error wraps errProvidersExhausted when nothing
// succeeded.
func generate[T any](s *Service, ctx context.Context, operation string, order []string, prompt string, parse func(string) (T, aiparse.Tier, error)) (T, aiparse.Tier, string, error) {
	var zero T

	if strings.TrimSpace(prompt) == "" {
		// Structurally invalid before any network call: fail fast without
		// consuming the retry budget.
		return zero, 0, "", fmt.Errorf("%s: empty prompt: %w", operation, errProvidersExhausted)
	}

	genOpts := llm.Options{
		Temperature: s.options.Temperature,
		MaxTokens:   s.options.MaxTokens,
	}

	var lastErr error
	for _, name := range order {
		provider, ok := s.providers[name]
		if !ok {
			logger.Debug("provider not configured, skipping", "operation", operation, "provider", name)
			continue
		}

		raw, err := retry.Do(ctx, s.options.Retry, func(ctx context.Context) (string, error) {
			return provider.GenerateText(ctx, prompt, genOpts)
		})
		if err != nil {
			logger.Warn("provider call failed, trying next provider", "operation", operation, "provider", name, "error", err.Error())
			lastErr = err
			continue
		}

		result, tier, err := parse(raw)
		if err != nil {
			logger.Warn("provider response unparseable, trying next provider", "operation", operation, "provider", name, "error", err.Error())
			lastErr = err
			continue
		}

		return result, tier, name, nil
	}

	if lastErr != nil {
		return zero, 0, "", fmt.Errorf("%s: %v: %w", operation, lastErr, errProvidersExhausted)
	}
	return zero, 0, "", fmt.Errorf("%s: no providers configured: %w", operation, errProvidersExhausted)
}

// normalizeTexts trims each source text and drops empties, preserving order,
// bounded to the first 20 entries.
func normalizeTexts(texts []string) []string {
	normalized := make([]string, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		normalized = append(normalized, text)
		if len(normalized) >= maxSourceTexts {
			break
		}
	}
	return normalized
}
