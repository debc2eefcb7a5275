package aiparse

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTrendSummary_StrictJSON(t *testing.T) {
	raw := "```json\n{\"summary_kr\": \"최근 트렌드는 인공지능에 대한 관심 증가입니다.\", \"summary_en\": \"The main trend is rising interest in AI.\"}\n```"

	summary, tier, err := TrendSummary(raw)
	if err != nil {
		t.Fatalf("TrendSummary failed: %v", err)
	}
	if tier != TierStrict {
		t.Errorf("expected strict tier, got %s", tier)
	}
	if !strings.Contains(summary.SummaryEN, "rising interest") {
		t.Errorf("unexpected english summary: %q", summary.SummaryEN)
	}
}

func TestTrendSummary_LenientMarkers(t *testing.T) {
	raw := `분석 결과를 알려드립니다.

한글 요약: 사용자들이 새로운 기술 트렌드에 큰 관심을 보이고 있습니다.
영문 요약: Users are showing strong interest in emerging technology trends.`

	summary, tier, err := TrendSummary(raw)
	if err != nil {
		t.Fatalf("TrendSummary failed: %v", err)
	}
	if tier != TierLenient {
		t.Errorf("expected lenient tier, got %s", tier)
	}
	if !strings.HasPrefix(summary.SummaryKR, "사용자들이") {
		t.Errorf("unexpected korean summary: %q", summary.SummaryKR)
	}
	if !strings.HasPrefix(summary.SummaryEN, "Users are") {
		t.Errorf("unexpected english summary: %q", summary.SummaryEN)
	}
}

func TestTrendSummary_ShortSummaryRejectedByBothTiers(t *testing.T) {
	// Syntactically valid but constraint-violating: both tiers enforce the
	// same minimum length, so the parse as a whole must fail.
	raw := `{"summary_kr": "짧음", "summary_en": "short"}`

	_, _, err := TrendSummary(raw)
	if err == nil {
		t.Fatal("expected parse failure for sub-minimum summaries")
	}
	parseErr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.StrictErr == nil || parseErr.LenientErr == nil {
		t.Error("both tier errors should be recorded")
	}
}

func TestTrendSummary_GarbageFails(t *testing.T) {
	if _, _, err := TrendSummary("no markers, no json"); err == nil {
		t.Fatal("expected failure on unparseable text")
	}
}

func TestTweetDrafts_StrictClampsToCount(t *testing.T) {
	raw := `{"tweets": [
		"첫 번째 트윗 초안입니다. 트렌드를 다룹니다.",
		"두 번째 트윗 초안입니다. 다른 관점을 제시합니다.",
		"세 번째 트윗 초안입니다. 실용적인 팁 공유.",
		"네 번째 트윗 초안입니다. 새로운 인사이트.",
		"다섯 번째 트윗 초안입니다. 미래 전망 분석.",
		"여섯 번째 트윗 초안입니다. 커뮤니티 반응.",
		"일곱 번째 트윗 초안입니다. 통계 하이라이트.",
		"여덟 번째 트윗 초안입니다. 마무리 요약."
	]}`

	set, tier, err := TweetDrafts(raw, 5)
	if err != nil {
		t.Fatalf("TweetDrafts failed: %v", err)
	}
	if tier != TierStrict {
		t.Errorf("expected strict tier, got %s", tier)
	}
	if len(set.Drafts) != 5 {
		t.Errorf("expected exactly 5 drafts from 8 candidates, got %d", len(set.Drafts))
	}
	for _, draft := range set.Drafts {
		length := utf8.RuneCountInString(draft)
		if length < 10 || length > 280 {
			t.Errorf("draft length %d outside [10,280]: %q", length, draft)
		}
	}
}

func TestTweetDrafts_StrictRejectsOverlongDraft(t *testing.T) {
	long := strings.Repeat("a", 300)
	raw := `{"tweets": ["` + long + `"]}`

	set, tier, err := TweetDrafts(raw, 5)
	if err != nil {
		// Strict tier rejected the set and the single overlong line is
		// unusable for the lenient tier too.
		return
	}
	// If the lenient tier salvaged something it must still obey the bounds.
	if tier != TierLenient {
		t.Errorf("strict tier must not accept a 300-char draft (tier=%s)", tier)
	}
	for _, draft := range set.Drafts {
		if utf8.RuneCountInString(draft) > 280 {
			t.Errorf("draft exceeds 280 chars: %q", draft)
		}
	}
}

func TestTweetDrafts_LenientStripsPrefixes(t *testing.T) {
	raw := `트윗 1: 오늘의 트렌드는 데이터 기반 의사결정입니다.
- 짧은줄
2. Second draft line about the current keyword trend.
• Bullet draft line describing community reactions today.`

	set, tier, err := TweetDrafts(raw, 5)
	if err != nil {
		t.Fatalf("TweetDrafts failed: %v", err)
	}
	if tier != TierLenient {
		t.Errorf("expected lenient tier, got %s", tier)
	}
	if len(set.Drafts) != 3 {
		t.Fatalf("expected 3 drafts (short line dropped), got %d: %v", len(set.Drafts), set.Drafts)
	}
	for _, draft := range set.Drafts {
		if strings.HasPrefix(draft, "트윗") || strings.HasPrefix(draft, "-") ||
			strings.HasPrefix(draft, "2.") || strings.HasPrefix(draft, "•") {
			t.Errorf("prefix not stripped: %q", draft)
		}
	}
}

func TestInstagramPost_StrictJSON(t *testing.T) {
	raw := `{"caption": "오늘의 트렌드 인사이트를 공유합니다. 많은 사용자들이 관심을 보이는 주제를 모아 한눈에 볼 수 있도록 정리했습니다.", "hashtags": ["#트렌드", "insight", "#데이터"]}`

	post, tier, err := InstagramPost(raw)
	if err != nil {
		t.Fatalf("InstagramPost failed: %v", err)
	}
	if tier != TierStrict {
		t.Errorf("expected strict tier, got %s", tier)
	}
	want := []string{"트렌드", "insight", "데이터"}
	if !reflect.DeepEqual(post.Hashtags, want) {
		t.Errorf("expected cleaned hashtags %v, got %v", want, post.Hashtags)
	}
}

func TestInstagramPost_LenientMarkers(t *testing.T) {
	raw := `캡션: 이번 주 소셜 미디어에서 가장 뜨거웠던 트렌드를 한눈에 정리했습니다. 지금 바로 확인해보세요!
해시태그: #트렌드 #인사이트 #마케팅`

	post, tier, err := InstagramPost(raw)
	if err != nil {
		t.Fatalf("InstagramPost failed: %v", err)
	}
	if tier != TierLenient {
		t.Errorf("expected lenient tier, got %s", tier)
	}
	if utf8.RuneCountInString(post.Caption) < 50 {
		t.Errorf("caption under 50 chars: %q", post.Caption)
	}
	want := []string{"트렌드", "인사이트", "마케팅"}
	if !reflect.DeepEqual(post.Hashtags, want) {
		t.Errorf("expected %v, got %v", want, post.Hashtags)
	}
}

func TestInstagramPost_ShortCaptionFails(t *testing.T) {
	if _, _, err := InstagramPost(`{"caption": "too short", "hashtags": []}`); err == nil {
		t.Fatal("expected failure for sub-minimum caption")
	}
}

func TestCleanHashtags(t *testing.T) {
	got := CleanHashtags([]string{"#Trend", " insight ", "", "#"})
	want := []string{"Trend", "insight"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCleanHashtags_EmptyYieldsDefaults(t *testing.T) {
	got := CleanHashtags(nil)
	if !reflect.DeepEqual(got, DefaultHashtags) {
		t.Errorf("expected default set %v, got %v", DefaultHashtags, got)
	}
}

func TestCleanHashtags_CapsAtFifteen(t *testing.T) {
	var tags []string
	for i := 0; i < 20; i++ {
		tags = append(tags, "#tag")
	}
	if got := CleanHashtags(tags); len(got) != 15 {
		t.Errorf("expected 15 tags, got %d", len(got))
	}
}
