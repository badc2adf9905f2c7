package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://serpapi.com"

// Client runs Google searches through SerpAPI; the calorie service mines
// the answer box and organic snippets for calorie figures.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type AnswerBox struct {
	Answer string `json:"answer"`
	Link   string `json:"link"`
}

type OrganicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

type SearchResult struct {
	AnswerBox      *AnswerBox      `json:"answer_box"`
	OrganicResults []OrganicResult `json:"organic_results"`
}

func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("missing SerpAPI key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.APIKey)
	params.Set("engine", "google")
	params.Set("num", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create SerpAPI request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute SerpAPI request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read SerpAPI response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("SerpAPI request failed with status %d", resp.StatusCode)
	}

	var parsed SearchResult
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode SerpAPI response: %w", err)
	}
	return &parsed, nil
}
