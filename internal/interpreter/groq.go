package interpreter

import (
	"context"
	"fmt"
	"net/http"
)

const groqBaseURL = "https://api.groq.com/openai/v1/chat/completions"

// Groq implements Client using Groq's OpenAI-compatible Chat Completions API.
type Groq struct {
	apiKey string
	client *http.Client
}

// NewGroq returns a Client that uses the Groq API with the given API key.
func NewGroq(apiKey string) *Groq {
	return &Groq{
		apiKey: apiKey,
		client: http.DefaultClient,
	}
}

// Complete sends system and user messages to the Groq API and returns the assistant reply.
func (c *Groq) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("groq: API key not set")
	}
	return completeChat(ctx, c.client, groqBaseURL, c.apiKey, "groq", model, systemPrompt, userMessage)
}
