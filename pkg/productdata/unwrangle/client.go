package unwrangle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"shopquery-be/pkg/productdata"
)

const (
	platformSearch  = "amazon_search"
	platformDetail  = "amazon_detail"
	platformReviews = "amazon_reviews"
)

// Client calls the unwrangle getter API. Responses are cached in-process
// so repeated enrichment of the same product within a comparison chat
// does not burn upstream quota.
type Client struct {
	BaseURL string
	ApiKey  string
	Http    *http.Client
	cache   *gocache.Cache
}

var _ productdata.Provider = &Client{}

func NewClient(baseURL, apiKey string, cacheTTL time.Duration) *Client {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Client{
		BaseURL: baseURL,
		ApiKey:  apiKey,
		Http: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (c *Client) Search(ctx context.Context, query string, page int) (*productdata.SearchResult, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := "search:" + query + ":" + strconv.Itoa(page)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*productdata.SearchResult), nil
	}

	params := url.Values{}
	params.Set("platform", platformSearch)
	params.Set("search", query)
	params.Set("page", strconv.Itoa(page))

	var raw searchResponse
	if err := c.get(ctx, params, &raw); err != nil {
		return nil, err
	}

	result := &productdata.SearchResult{
		Query:        query,
		Page:         page,
		TotalResults: raw.TotalResults,
		Products:     make([]productdata.Snapshot, 0, len(raw.Results)),
	}
	for _, item := range raw.Results {
		result.Products = append(result.Products, item.toSnapshot())
	}

	c.cache.SetDefault(cacheKey, result)
	return result, nil
}

func (c *Client) GetProductSnapshot(ctx context.Context, productId string) (*productdata.Snapshot, error) {
	cacheKey := "detail:" + productId
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*productdata.Snapshot), nil
	}

	params := url.Values{}
	params.Set("platform", platformDetail)
	params.Set("item_id", productId)

	var raw detailResponse
	if err := c.get(ctx, params, &raw); err != nil {
		return nil, err
	}

	snapshot := raw.Detail.toSnapshot()
	if snapshot.Id == "" {
		snapshot.Id = productId
	}

	c.cache.SetDefault(cacheKey, &snapshot)
	return &snapshot, nil
}

func (c *Client) GetProductReviews(ctx context.Context, productUrl string, page int) (*productdata.ReviewsResult, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := "reviews:" + productUrl + ":" + strconv.Itoa(page)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*productdata.ReviewsResult), nil
	}

	params := url.Values{}
	params.Set("platform", platformReviews)
	params.Set("url", productUrl)
	params.Set("page", strconv.Itoa(page))

	var raw reviewsResponse
	if err := c.get(ctx, params, &raw); err != nil {
		return nil, err
	}

	result := &productdata.ReviewsResult{
		ProductUrl:   productUrl,
		Page:         page,
		TotalResults: raw.TotalResults,
		Reviews:      make([]productdata.Review, 0, len(raw.Reviews)),
	}
	for _, rev := range raw.Reviews {
		result.Reviews = append(result.Reviews, productdata.Review{
			Author: rev.Author,
			Rating: rev.Rating,
			Title:  rev.Title,
			Body:   rev.Body,
			Date:   rev.Date,
		})
	}

	c.cache.SetDefault(cacheKey, result)
	return result, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("api_key", c.ApiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Http.Do(req)
	if err != nil {
		return fmt.Errorf("product api request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("product api error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
