package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trendpulse/internal/logger"
)

const (
	twitterAPIBase   = "https://api.twitter.com/2"
	twitterMaxWindow = 24 * time.Hour

	defaultMaxResults = 10
	apiMaxResults     = 100
)

// TwitterClient searches recent tweets through the Twitter API v2. Without a
// bearer token it serves dummy tweets instead of calling the API.
type TwitterClient struct {
	bearerToken string
	baseURL     string
	httpClient  *http.Client
	now         func() time.Time
}

// NewTwitterClient creates a client using the given bearer token. An empty
// token yields a client that only serves dummy content.
func NewTwitterClient(bearerToken string) *TwitterClient {
	return &TwitterClient{
		bearerToken: bearerToken,
		baseURL:     twitterAPIBase,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		now:         time.Now,
	}
}

// Name identifies this source in logs and persisted records.
func (c *TwitterClient) Name() string {
	return "twitter"
}

// FetchTexts returns up to maxResults recent tweet texts matching the
// keyword, searching the last 24 hours. API errors and missing credentials
// both fall back to dummy tweets.
func (c *TwitterClient) FetchTexts(ctx context.Context, keyword string, maxResults int) []string {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if c.bearerToken == "" {
		logger.Debug("twitter bearer token not configured, serving dummy tweets", "keyword", keyword)
		return dummyTweets(keyword, maxResults)
	}

	texts, err := c.searchRecent(ctx, keyword, maxResults)
	if err != nil {
		logger.Warn("twitter search failed, serving dummy tweets", "keyword", keyword, "error", err.Error())
		return dummyTweets(keyword, maxResults)
	}
	return texts
}

type tweetSearchResponse struct {
	Data []struct {
		Text string `json:"text"`
	} `json:"data"`
}

func (c *TwitterClient) searchRecent(ctx context.Context, keyword string, maxResults int) ([]string, error) {
	if maxResults > apiMaxResults {
		maxResults = apiMaxResults
	}
	startTime := c.now().UTC().Add(-twitterMaxWindow).Format(time.RFC3339)

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("start_time", startTime)
	params.Set("tweet.fields", "text,created_at,public_metrics")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var parsed tweetSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	texts := make([]string, 0, len(parsed.Data))
	for _, tweet := range parsed.Data {
		texts = append(texts, tweet.Text)
	}
	return texts, nil
}

// dummyTweetTemplates are the keyword-templated fallback tweets, in a fixed
// rotation order.
var dummyTweetTemplates = []string{
	"%s에 대한 최신 트렌드가 흥미롭네요! 많은 사람들이 관심을 보이고 있습니다.",
	"최근 %s 관련해서 정말 많은 논의가 오가고 있네요. 주목할 만한 포인트들이 있습니다.",
	"%s에 대한 다양한 의견들이 나오고 있어요. 특히 젊은 세대의 관점이 인상적입니다.",
	"오늘 %s에 대한 뉴스가 화제가 되고 있네요. 많은 사람들이 공감하고 있습니다.",
	"%s와 관련된 새로운 인사이트가 나오고 있어요. 앞으로의 전개가 기대됩니다.",
	"최근 %s에 대한 관심이 급증하고 있습니다. 트렌드를 주도하는 요소들이 보입니다.",
	"%s에 대한 실용적인 팁들이 공유되고 있네요. 많은 도움이 될 것 같습니다.",
	"오늘 %s에 대한 토론이 활발하게 진행되고 있어요. 다양한 시각이 제시되고 있습니다.",
	"%s와 관련된 혁신적인 아이디어들이 나오고 있네요. 미래가 기대됩니다.",
	"최근 %s에 대한 긍정적인 반응이 많아지고 있어요. 트렌드 변화가 느껴집니다.",
}

func dummyTweets(keyword string, count int) []string {
	if count > len(dummyTweetTemplates) {
		count = len(dummyTweetTemplates)
	}
	tweets := make([]string, 0, count)
	for _, template := range dummyTweetTemplates[:count] {
		tweets = append(tweets, fmt.Sprintf(template, keyword))
	}
	return tweets
}
