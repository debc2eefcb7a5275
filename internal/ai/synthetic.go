package ai

import (
	"fmt"

	"trendpulse/internal/core"
)

// syntheticDefaultHashtags is the fixed hashtag set attached to locally
// generated Instagram posts.
var syntheticDefaultHashtags = []string{"트렌드분석", "인사이트", "데이터분석", "소셜미디어", "마케팅"}

// emptyInputSummary is returned when there is nothing to analyze. No provider
// is called and nothing is cached.
func emptyInputSummary() core.TrendSummary {
	return core.TrendSummary{
		SummaryKR: "분석할 게시물이 없습니다.",
		SummaryEN: "No source texts to analyze.",
	}
}

// syntheticTrendSummary builds the deterministic fallback summary, embedding
// the number of source texts that were available.
func syntheticTrendSummary(sourceCount int) core.TrendSummary {
	summaryKR := fmt.Sprintf("최근 %d개의 게시물을 분석한 결과, 주요 트렌드는 다음과 같습니다:\n\n", sourceCount)
	summaryKR += "- 사용자들이 공유하는 주요 주제들이 확인됩니다.\n"
	summaryKR += "- 감정적 반응과 참여도가 높은 게시물들이 눈에 띕니다.\n"
	summaryKR += "- 새로운 관점과 의견들이 다양하게 제시되고 있습니다."

	summaryEN := fmt.Sprintf("After analyzing %d recent posts, the main trends are:\n\n", sourceCount)
	summaryEN += "- Key topics shared by users have been identified.\n"
	summaryEN += "- Posts with high emotional engagement stand out.\n"
	summaryEN += "- Diverse perspectives and opinions are being presented."

	return core.TrendSummary{SummaryKR: summaryKR, SummaryEN: summaryEN}
}

// syntheticTweetDrafts builds count deterministic drafts from the summary
// excerpt. Every draft fits the 10..280 character contract.
func syntheticTweetDrafts(summary core.TrendSummary, count int) core.TweetDraftSet {
	base := insightText(summary)
	drafts := make([]string, 0, count)
	for i := 0; i < count; i++ {
		drafts = append(drafts, fmt.Sprintf("📊 트렌드 분석 %d/%d: %s... 더 많은 인사이트를 확인해보세요!", i+1, count, excerpt(base, 100)))
	}
	return core.TweetDraftSet{Drafts: drafts}
}

// syntheticInstagramPost builds the deterministic fallback post with the
// fixed default hashtag set.
func syntheticInstagramPost(summary core.TrendSummary) core.InstagramPost {
	caption := fmt.Sprintf("📈 최신 트렌드 인사이트\n\n%s\n\n더 많은 인사이트와 상세한 분석 결과는 트렌드 리포트에서 확인해보세요!", excerpt(insightText(summary), 200))
	return core.InstagramPost{
		Caption:  caption,
		Hashtags: append([]string(nil), syntheticDefaultHashtags...),
	}
}

// insightText picks the summary text used to seed derivative content,
// preferring Korean.
func insightText(summary core.TrendSummary) string {
	if summary.SummaryKR != "" {
		return summary.SummaryKR
	}
	if summary.SummaryEN != "" {
		return summary.SummaryEN
	}
	return "최신 트렌드"
}

// excerpt returns at most n runes of s.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
