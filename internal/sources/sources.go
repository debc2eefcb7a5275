// Package sources fetches recent social media texts per keyword. Every source
// degrades to deterministic dummy content when it has no credentials or the
// upstream API fails, so the analysis pipeline always has input to work with.
package sources

import "context"

// Source produces recent post texts for a keyword. Implementations never
// fail: on any upstream problem they fall back to dummy content.
type Source interface {
	Name() string
	FetchTexts(ctx context.Context, keyword string, maxResults int) []string
}
