package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const systemPrompt = "You moderate a family-friendly party word game. " +
	"Reply with exactly one word: FLAGGED if the player's text is hateful, sexual or abusive, otherwise CLEAN."

// Client classifies text with a local Ollama model.
type Client struct {
	Host  string
	Model string
	http  *http.Client
}

func New(host, model string) *Client {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &Client{Host: strings.TrimRight(host, "/"), Model: model, http: &http.Client{Timeout: 5 * time.Second}}
}

func (c *Client) Check(ctx context.Context, text string) (bool, error) {
	payload := map[string]any{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": text},
		},
		"stream": false,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Host+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return false, fmt.Errorf("ollama status %d", resp.StatusCode)
	}
	var out struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	verdict := strings.ToUpper(strings.TrimSpace(out.Message.Content))
	return !strings.HasPrefix(verdict, "FLAGGED"), nil
}
