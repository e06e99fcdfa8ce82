package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/0xn1k/AIConflux/internal/utils"
)

// GeminiProvider binds to the Google generative language API. Gemini uses its
// own content shape: assistant turns are sent with role "model". The API key
// is resolved per call so values loaded from .env at startup are honored.
type GeminiProvider struct {
	keyEnv  string
	baseURL string
}

func (p *GeminiProvider) key() string {
	return os.Getenv(p.keyEnv)
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt string, history []Message) (string, error) {
	key := p.key()
	if key == "" {
		return "", errors.New("Gemini API key not configured")
	}

	contents := make([]map[string]interface{}, 0, len(history)+1)
	for _, m := range history {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, map[string]interface{}{
			"role":  role,
			"parts": []map[string]string{{"text": m.Content}},
		})
	}
	contents = append(contents, map[string]interface{}{
		"role":  "user",
		"parts": []map[string]string{{"text": prompt}},
	})

	requestBody := map[string]interface{}{
		"contents": contents,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/gemini-2.0-flash:generateContent?key=%s", p.baseURL, key)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

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
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Error *struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("Gemini API error %d: %s", response.Error.Code, response.Error.Message)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini")
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

func init() {
	Register("Gemini", &GeminiProvider{
		keyEnv:  "GEMINI_API_KEY",
		baseURL: "https://generativelanguage.googleapis.com/v1",
	})
}
