package aiparse

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"trendpulse/internal/core"
)

const minSummaryChars = 10

var (
	summaryKRMarkers = []string{"summary_kr:", "한글 요약:", "한국어 요약:"}
	summaryENMarkers = []string{"summary_en:", "영문 요약:", "영어 요약:"}
)

type summaryPayload struct {
	SummaryKR string `json:"summary_kr"`
	SummaryEN string `json:"summary_en"`
}

// TrendSummary parses raw provider text into a validated bilingual summary.
// The strict tier expects a {"summary_kr": ..., "summary_en": ...} object;
// the lenient tier slices the text between the Korean/English summary
// markers. Both tiers enforce the same 10-character minimum per summary.
func TrendSummary(raw string) (core.TrendSummary, Tier, error) {
	strict, strictErr := trendSummaryStrict(raw)
	if strictErr == nil {
		return strict, TierStrict, nil
	}

	lenient, lenientErr := trendSummaryLenient(raw)
	if lenientErr == nil {
		return lenient, TierLenient, nil
	}

	return core.TrendSummary{}, 0, &ParseError{
		Shape:      "trend summary",
		StrictErr:  strictErr,
		LenientErr: lenientErr,
	}
}

func trendSummaryStrict(raw string) (core.TrendSummary, error) {
	var payload summaryPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return core.TrendSummary{}, fmt.Errorf("not a structured summary: %w", err)
	}

	summary := core.TrendSummary{
		SummaryKR: trimQuotes(payload.SummaryKR),
		SummaryEN: trimQuotes(payload.SummaryEN),
	}
	if err := validateSummary(summary); err != nil {
		return core.TrendSummary{}, err
	}
	return summary, nil
}

func trendSummaryLenient(raw string) (core.TrendSummary, error) {
	kr, foundKR := sliceBetween(raw, summaryKRMarkers, summaryENMarkers)
	en, foundEN := sliceBetween(raw, summaryENMarkers, nil)
	if !foundKR || !foundEN {
		return core.TrendSummary{}, fmt.Errorf("summary markers not found")
	}

	summary := core.TrendSummary{
		SummaryKR: trimQuotes(kr),
		SummaryEN: trimQuotes(en),
	}
	if err := validateSummary(summary); err != nil {
		return core.TrendSummary{}, err
	}
	return summary, nil
}

func validateSummary(s core.TrendSummary) error {
	if utf8.RuneCountInString(s.SummaryKR) < minSummaryChars {
		return fmt.Errorf("korean summary too short: %d chars (minimum %d)", utf8.RuneCountInString(s.SummaryKR), minSummaryChars)
	}
	if utf8.RuneCountInString(s.SummaryEN) < minSummaryChars {
		return fmt.Errorf("english summary too short: %d chars (minimum %d)", utf8.RuneCountInString(s.SummaryEN), minSummaryChars)
	}
	return nil
}
