package apininjas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.api-ninjas.com"

// Client queries the API Ninjas nutrition endpoint for verified calorie
// data on common foods.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type nutritionItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// Nutrition returns the summed calories across all items the API matches
// for the query. found is false when the API has no usable match.
func (c *Client) Nutrition(ctx context.Context, query string) (calories float64, found bool, err error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return 0, false, fmt.Errorf("missing API Ninjas key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	url := fmt.Sprintf("%s/v1/nutrition?query=%s", baseURL, strings.ReplaceAll(strings.TrimSpace(query), " ", "%20"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, false, fmt.Errorf("create API Ninjas request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("execute API Ninjas request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, false, fmt.Errorf("read API Ninjas response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, false, fmt.Errorf("API Ninjas request failed with status %d", resp.StatusCode)
	}

	var items []nutritionItem
	if err := json.Unmarshal(body, &items); err != nil {
		return 0, false, fmt.Errorf("decode API Ninjas response: %w", err)
	}

	var total float64
	for _, item := range items {
		total += item.Calories
	}
	if total <= 0 {
		return 0, false, nil
	}
	return total, true, nil
}
