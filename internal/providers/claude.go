package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/0xn1k/AIConflux/internal/utils"
)

// ClaudeProvider binds to the Anthropic messages API. The API key is resolved
// per call so values loaded from .env at startup are honored.
type ClaudeProvider struct {
	keyEnv  string
	baseURL string
}

func (p *ClaudeProvider) key() string {
	return os.Getenv(p.keyEnv)
}

func (p *ClaudeProvider) Complete(ctx context.Context, prompt string, history []Message) (string, error) {
	messages := make([]map[string]string, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, map[string]string{"role": m.Role, "content": m.Content})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	requestBody := map[string]interface{}{
		"model":      "claude-3-5-sonnet-20241022",
		"max_tokens": maxCompletionTokens,
		"messages":   messages,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.key())
	req.Header.Set("anthropic-version", "2023-06-01")

	client := utils.NewHTTPClient(30 * time.Second)
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	if response.Error != nil {
		return "", fmt.Errorf("Claude API error: %s", response.Error.Message)
	}

	for _, block := range response.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "No response", nil
}

func init() {
	Register("Claude", &ClaudeProvider{
		keyEnv:  "ANTHROPIC_API_KEY",
		baseURL: "https://api.anthropic.com/v1",
	})
}
