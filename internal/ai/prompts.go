package ai

import (
	"fmt"
	"strings"
)

// maxSourceTexts bounds the prompt size: only the first 20 source texts are
// sent to the model, extras are ignored.
const maxSourceTexts = 20

const trendSummaryPromptTemplate = `다음 소셜 미디어 게시물들을 분석하여 주요 트렌드를 요약해주세요.

게시물 목록:
%s

다음 JSON 형식으로만 응답해주세요:
{"summary_kr": "[한국어로 주요 트렌드 요약]", "summary_en": "[영어로 주요 트렌드 요약]"}

JSON으로 응답할 수 없다면 아래 형식을 사용해주세요:
한글 요약: [한국어로 주요 트렌드 요약]
영문 요약: [영어로 주요 트렌드 요약]

요약은 3-5개의 주요 포인트로 구성하고, 구체적이고 실용적인 인사이트를 제공해주세요.`

const tweetDraftsPromptTemplate = `다음 트렌드 인사이트를 바탕으로 %d개의 트윗 초안을 작성해주세요.

인사이트:
%s

요구사항:
- 각 트윗은 280자 이내, 10자 이상으로 작성
- 독창적이고 매력적인 내용
- 해시태그는 최대 2-3개만 포함
- 각 트윗은 서로 다른 관점이나 포인트를 다루기

다음 JSON 형식으로만 응답해주세요:
{"tweets": ["트윗 내용 1", "트윗 내용 2", ...]}

JSON으로 응답할 수 없다면 번호 없이 각 트윗을 한 줄씩 작성해주세요.`

const instagramPromptTemplate = `다음 트렌드 인사이트를 바탕으로 인스타그램 포스트 캡션과 해시태그를 작성해주세요.

인사이트:
%s

요구사항:
- 캡션은 500-1000자 정도로 작성 (최소 50자)
- 이모지를 적절히 사용하여 시각적 매력 추가
- 해시태그는 5-10개 정도, 관련성 높은 것만

다음 JSON 형식으로만 응답해주세요:
{"caption": "[캡션 내용]", "hashtags": ["해시태그1", "해시태그2", ...]}

JSON으로 응답할 수 없다면 아래 형식을 사용해주세요:
캡션: [캡션 내용]
해시태그: [해시태그1] [해시태그2] [해시태그3] ...`

// buildTrendSummaryPrompt formats the trend-summary prompt over at most
// maxSourceTexts entries.
func buildTrendSummaryPrompt(sourceTexts []string) string {
	texts := sourceTexts
	if len(texts) > maxSourceTexts {
		texts = texts[:maxSourceTexts]
	}
	return fmt.Sprintf(trendSummaryPromptTemplate, strings.Join(texts, "\n"))
}

// buildTweetDraftsPrompt formats the tweet-draft prompt for count drafts.
func buildTweetDraftsPrompt(insight string, count int) string {
	return fmt.Sprintf(tweetDraftsPromptTemplate, count, insight)
}

// buildInstagramPrompt formats the Instagram caption/hashtag prompt.
func buildInstagramPrompt(insight string) string {
	return fmt.Sprintf(instagramPromptTemplate, insight)
}
