package aiparse

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"trendpulse/internal/core"
)

const (
	minCaptionChars = 50
	maxHashtagCount = 15
)

var (
	captionMarkers = []string{"caption:", "캡션:"}
	hashtagMarkers = []string{"hashtags:", "해시태그:"}
)

// DefaultHashtags is substituted when a response carries zero usable tags.
var DefaultHashtags = []string{"트렌드분석", "인사이트", "데이터분석"}

type instagramPayload struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// InstagramPost parses raw provider text into a validated caption and
// hashtag set. The strict tier expects {"caption": ..., "hashtags": [...]};
// the lenient tier slices the text between caption/hashtag markers. Both
// tiers require a 50-character caption and clean hashtags the same way.
func InstagramPost(raw string) (core.InstagramPost, Tier, error) {
	strict, strictErr := instagramStrict(raw)
	if strictErr == nil {
		return strict, TierStrict, nil
	}

	lenient, lenientErr := instagramLenient(raw)
	if lenientErr == nil {
		return lenient, TierLenient, nil
	}

	return core.InstagramPost{}, 0, &ParseError{
		Shape:      "instagram post",
		StrictErr:  strictErr,
		LenientErr: lenientErr,
	}
}

func instagramStrict(raw string) (core.InstagramPost, error) {
	var payload instagramPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return core.InstagramPost{}, fmt.Errorf("not a structured instagram post: %w", err)
	}

	caption := trimQuotes(payload.Caption)
	if err := validateCaption(caption); err != nil {
		return core.InstagramPost{}, err
	}
	return core.InstagramPost{
		Caption:  caption,
		Hashtags: CleanHashtags(payload.Hashtags),
	}, nil
}

func instagramLenient(raw string) (core.InstagramPost, error) {
	captionPart, found := sliceBetweenFold(raw, captionMarkers, hashtagMarkers)
	if !found {
		return core.InstagramPost{}, fmt.Errorf("caption marker not found")
	}
	caption := trimQuotes(captionPart)
	if err := validateCaption(caption); err != nil {
		return core.InstagramPost{}, err
	}

	var tags []string
	if tagPart, ok := sliceBetweenFold(raw, hashtagMarkers, nil); ok {
		tags = strings.Fields(tagPart)
	}

	return core.InstagramPost{
		Caption:  caption,
		Hashtags: CleanHashtags(tags),
	}, nil
}

func validateCaption(caption string) error {
	if utf8.RuneCountInString(caption) < minCaptionChars {
		return fmt.Errorf("caption too short: %d chars (minimum %d)", utf8.RuneCountInString(caption), minCaptionChars)
	}
	return nil
}

// CleanHashtags strips leading '#', enclosing brackets, and surrounding
// whitespace from each tag, drops entries left empty, and caps the result at
// 15 tags. Zero usable tags yields the fixed default set.
func CleanHashtags(tags []string) []string {
	var cleaned []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		tag = strings.Trim(tag, "#[]")
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		cleaned = append(cleaned, tag)
		if len(cleaned) >= maxHashtagCount {
			break
		}
	}
	if len(cleaned) == 0 {
		return append([]string(nil), DefaultHashtags...)
	}
	return cleaned
}
