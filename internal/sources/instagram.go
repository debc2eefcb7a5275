package sources

import (
	"context"
	"fmt"

	"trendpulse/internal/logger"
)

// InstagramClient serves recent Instagram captions per hashtag. The Graph API
// integration is not wired yet, so every fetch serves dummy captions.
// TODO: call the Instagram Graph API hashtag search once an app review grants
// the instagram_basic scope.
type InstagramClient struct {
	accessToken string
}

// NewInstagramClient creates a client using the given Graph API access token.
func NewInstagramClient(accessToken string) *InstagramClient {
	return &InstagramClient{accessToken: accessToken}
}

// Name identifies this source in logs and persisted records.
func (c *InstagramClient) Name() string {
	return "instagram"
}

// FetchTexts returns up to maxResults caption texts for the keyword.
func (c *InstagramClient) FetchTexts(ctx context.Context, keyword string, maxResults int) []string {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if c.accessToken != "" {
		logger.Debug("instagram graph api not integrated, serving dummy captions", "keyword", keyword)
	}
	return dummyCaptions(keyword, maxResults)
}

func dummyCaptions(keyword string, count int) []string {
	captions := make([]string, 0, count)
	for i := 0; i < count; i++ {
		captions = append(captions, fmt.Sprintf("#%s 관련 인스타그램 게시물 %d번째입니다. 오늘의 분위기를 담았습니다.", keyword, i+1))
	}
	return captions
}
