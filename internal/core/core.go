package core

import "time"

// Keyword represents a tracked search keyword.
type Keyword struct {
	ID        string    `json:"id"`         // Unique identifier for the keyword
	Keyword   string    `json:"keyword"`    // The keyword text (unique)
	IsActive  bool      `json:"is_active"`  // Whether the scheduler should process this keyword
	CreatedAt time.Time `json:"created_at"` // Timestamp when the keyword was added
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of the last update
}

// Insight represents an AI-generated trend analysis for a keyword.
type Insight struct {
	ID              string    `json:"id"`               // Unique identifier for the insight
	KeywordID       string    `json:"keyword_id"`       // Identifier of the source keyword
	Keyword         string    `json:"keyword"`          // Keyword text at generation time
	SummaryKR       string    `json:"summary_kr"`       // Korean trend summary
	SummaryEN       string    `json:"summary_en"`       // English trend summary
	SourcesAnalyzed int       `json:"sources_analyzed"` // Number of source texts analyzed
	CreatedAt       time.Time `json:"created_at"`       // Timestamp when the insight was generated
}

// PostType distinguishes generated post variants.
type PostType string

const (
	PostTypeTweet     PostType = "tweet"
	PostTypeInstagram PostType = "instagram"
)

// Post represents a generated social media post derived from an insight.
type Post struct {
	ID        string    `json:"id"`         // Unique identifier for the post
	InsightID string    `json:"insight_id"` // Identifier of the parent insight
	Type      PostType  `json:"type"`       // tweet or instagram
	Content   string    `json:"content"`    // Post body (tweet text or Instagram caption)
	Hashtags  []string  `json:"hashtags"`   // Hashtags without leading '#' (Instagram only)
	CreatedAt time.Time `json:"created_at"` // Timestamp when the post was generated
}

// TrendSummary is the bilingual summary produced per keyword-analysis request.
// Both summaries are at least 10 characters after trimming. Immutable once
// returned; consumed by the downstream content generators.
type TrendSummary struct {
	SummaryKR string `json:"summary_kr"`
	SummaryEN string `json:"summary_en"`
}

// TweetDraftSet is an ordered set of tweet drafts. Every draft is non-empty
// and between 10 and 280 characters.
type TweetDraftSet struct {
	Drafts []string `json:"drafts"`
}

// InstagramPost is a generated caption plus cleaned hashtags. The caption is
// at least 50 characters; hashtags carry no leading '#' and are capped at 15.
type InstagramPost struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}
