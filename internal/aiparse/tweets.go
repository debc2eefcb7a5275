package aiparse

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"trendpulse/internal/core"
)

const (
	minTweetChars = 10
	maxTweetChars = 280
)

// tweetLinePrefixes are markers models prepend to draft lines despite being
// asked for bare lines. Stripped before length validation.
var tweetLinePrefixes = []string{
	"트윗", "Tweet",
	"1.", "2.", "3.", "4.", "5.", "6.", "7.", "8.", "9.",
	"1)", "2)", "3)", "4)", "5)", "6)", "7)", "8)", "9)",
	"1:", "2:", "3:", "4:", "5:", "6:", "7:", "8:", "9:",
	"-", "•", "*",
}

type tweetsPayload struct {
	Tweets []string `json:"tweets"`
}

// TweetDrafts parses raw provider text into at most count validated drafts.
// The strict tier expects {"tweets": [...]}; any element over 280 characters
// fails the whole set, while elements under 10 characters are discarded. The
// lenient tier scrapes candidate lines from free text, dropping whatever
// fails the same bounds. Either way, zero surviving drafts is a failure.
func TweetDrafts(raw string, count int) (core.TweetDraftSet, Tier, error) {
	strict, strictErr := tweetDraftsStrict(raw, count)
	if strictErr == nil {
		return strict, TierStrict, nil
	}

	lenient, lenientErr := tweetDraftsLenient(raw, count)
	if lenientErr == nil {
		return lenient, TierLenient, nil
	}

	return core.TweetDraftSet{}, 0, &ParseError{
		Shape:      "tweet drafts",
		StrictErr:  strictErr,
		LenientErr: lenientErr,
	}
}

func tweetDraftsStrict(raw string, count int) (core.TweetDraftSet, error) {
	var payload tweetsPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return core.TweetDraftSet{}, fmt.Errorf("not a structured draft list: %w", err)
	}
	if len(payload.Tweets) == 0 {
		return core.TweetDraftSet{}, fmt.Errorf("draft list is empty")
	}

	var drafts []string
	for _, tweet := range payload.Tweets {
		tweet = strings.TrimSpace(tweet)
		length := utf8.RuneCountInString(tweet)
		if length > maxTweetChars {
			// A draft that can never be posted means the model ignored the
			// length contract; reject the whole set rather than truncate.
			return core.TweetDraftSet{}, fmt.Errorf("draft exceeds %d characters: %d", maxTweetChars, length)
		}
		if length < minTweetChars {
			continue
		}
		drafts = append(drafts, tweet)
		if count > 0 && len(drafts) >= count {
			break
		}
	}
	if len(drafts) == 0 {
		return core.TweetDraftSet{}, fmt.Errorf("no drafts survived validation")
	}
	return core.TweetDraftSet{Drafts: drafts}, nil
}

func tweetDraftsLenient(raw string, count int) (core.TweetDraftSet, error) {
	var drafts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		line = stripTweetPrefixes(line)
		length := utf8.RuneCountInString(line)
		if length < minTweetChars || length > maxTweetChars {
			continue
		}

		drafts = append(drafts, line)
		if count > 0 && len(drafts) >= count {
			break
		}
	}
	if len(drafts) == 0 {
		return core.TweetDraftSet{}, fmt.Errorf("no usable draft lines found")
	}
	return core.TweetDraftSet{Drafts: drafts}, nil
}

// stripTweetPrefixes removes recognized leading markers and an optional
// trailing colon from a draft line.
func stripTweetPrefixes(line string) string {
	for _, prefix := range tweetLinePrefixes {
		if strings.HasPrefix(line, prefix) {
			line = strings.TrimSpace(strings.TrimPrefix(line, prefix))
			line = strings.TrimSpace(strings.TrimPrefix(line, ":"))
		}
	}
	return line
}
