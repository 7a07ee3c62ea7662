package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client asks the OpenAI moderation endpoint whether text is flagged.
type Client struct {
	APIKey  string
	BaseURL string
	http    *http.Client
}

func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &Client{APIKey: apiKey, BaseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: 5 * time.Second}}
}

func (c *Client) Check(ctx context.Context, text string) (bool, error) {
	if c.APIKey == "" {
		return false, errors.New("missing OPENAI_API_KEY")
	}
	b, _ := json.Marshal(map[string]any{"input": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/moderations", bytes.NewReader(b))
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return false, fmt.Errorf("openai status %d", resp.StatusCode)
	}
	var out struct {
		Results []struct {
			Flagged bool `json:"flagged"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	if len(out.Results) == 0 {
		return false, errors.New("no results")
	}
	return !out.Results[0].Flagged, nil
}
