// Package aiparse converts raw provider text into validated result shapes.
// Parsing is two-tiered: a strict tier that expects the structured JSON the
// model was instructed to emit, and a lenient tier that scrapes marker
// substrings out of free text when the model almost complied. The two tiers
// are kept as separate code paths so a failure can always be attributed to
// one of them.
package aiparse

import (
	"fmt"
	"strings"
)

// Tier identifies which parsing strategy produced a result.
type Tier int

const (
	// TierStrict means the structured JSON tier succeeded.
	TierStrict Tier = iota
	// TierLenient means the marker-scraping fallback succeeded.
	TierLenient
)

func (t Tier) String() string {
	if t == TierStrict {
		return "strict"
	}
	return "lenient"
}

// ParseError reports that neither tier produced a valid shape.
type ParseError struct {
	Shape      string
	StrictErr  error
	LenientErr error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s failed: strict: %v; lenient: %v", e.Shape, e.StrictErr, e.LenientErr)
}

// stripCodeFence removes surrounding markdown code-fence markers and, when an
// object literal is embedded in extra prose, slices it out. Models regularly
// wrap JSON in ```json fences despite instructions.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// trimQuotes removes surrounding whitespace and quote characters from a field.
func trimQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'“”`)
}

// sliceBetween returns the text after the first occurrence of any start
// marker, cut before the earliest of the stop markers. The bool reports
// whether a start marker was found.
func sliceBetween(text string, startMarkers, stopMarkers []string) (string, bool) {
	for _, marker := range startMarkers {
		idx := strings.Index(text, marker)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(marker):]
		for _, stop := range stopMarkers {
			if stopIdx := strings.Index(rest, stop); stopIdx >= 0 {
				rest = rest[:stopIdx]
			}
		}
		return rest, true
	}
	return "", false
}

// sliceBetweenFold is sliceBetween with ASCII-case-insensitive marker
// matching, for shapes whose markers models capitalize freely.
func sliceBetweenFold(text string, startMarkers, stopMarkers []string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, marker := range startMarkers {
		idx := strings.Index(lowered, strings.ToLower(marker))
		if idx < 0 {
			continue
		}
		rest := text[idx+len(marker):]
		restLowered := lowered[idx+len(marker):]
		for _, stop := range stopMarkers {
			if stopIdx := strings.Index(restLowered, strings.ToLower(stop)); stopIdx >= 0 {
				rest = rest[:stopIdx]
				restLowered = restLowered[:stopIdx]
			}
		}
		return rest, true
	}
	return "", false
}
