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

const maxCompletionTokens = 500

// OpenAIChatProvider speaks the OpenAI chat-completions wire format. DeepSeek
// exposes the same API under its own base URL, so both models share this type.
// The API key is resolved per call: registration happens in init(), before
// the .env file has been loaded into the environment.
type OpenAIChatProvider struct {
	keyEnv  string
	baseURL string
	model   string
}

func (p *OpenAIChatProvider) key() string {
	return os.Getenv(p.keyEnv)
}

func (p *OpenAIChatProvider) Complete(ctx context.Context, prompt string, history []Message) (string, error) {
	messages := make([]map[string]string, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, map[string]string{"role": m.Role, "content": m.Content})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	requestBody := map[string]interface{}{
		"model":      p.model,
		"messages":   messages,
		"max_tokens": maxCompletionTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.key())

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
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	if response.Error != nil {
		return "", fmt.Errorf("%s API error: %s", p.model, response.Error.Message)
	}

	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "No response", nil
	}

	return response.Choices[0].Message.Content, nil
}

func init() {
	Register("ChatGPT", &OpenAIChatProvider{
		keyEnv:  "OPENAI_API_KEY",
		baseURL: "https://api.openai.com/v1",
		model:   "gpt-3.5-turbo",
	})
	Register("DeepSeek", &OpenAIChatProvider{
		keyEnv:  "DEEPSEEK_API_KEY",
		baseURL: "https://api.deepseek.com",
		model:   "deepseek-chat",
	})
}
