// Package providers holds the bindings to upstream chat-completion services.
// Each binding is registered under its catalog model name; dispatch goes
// through Call, which never fails: transport and provider errors are folded
// into the returned text so one broken provider cannot abort a fan-out batch.
package providers

import (
	"context"
	"fmt"
	"sync"
)

// Message is one prior turn passed to an upstream provider.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Provider is a single upstream chat-completion binding.
type Provider interface {
	Complete(ctx context.Context, prompt string, history []Message) (string, error)
}

var providerMu sync.RWMutex
var providerRegistry = make(map[string]Provider)

// Register installs a provider under the given model name, replacing any
// existing binding.
func Register(name string, p Provider) {
	providerMu.Lock()
	providerRegistry[name] = p
	providerMu.Unlock()
}

func getProvider(name string) Provider {
	providerMu.RLock()
	p := providerRegistry[name]
	providerMu.RUnlock()
	return p
}

// Call dispatches the prompt to the named provider and returns display text.
// Failures come back as a sentinel string, never as an error: a model without
// a binding yields "Model <name> not implemented yet", and a provider failure
// yields "Error: <cause>".
func Call(ctx context.Context, model, prompt string, history []Message) string {
	p := getProvider(model)
	if p == nil {
		return fmt.Sprintf("Model %s not implemented yet", model)
	}

	text, err := p.Complete(ctx, prompt, history)
	if err != nil {
		return "Error: " + err.Error()
	}
	return text
}
