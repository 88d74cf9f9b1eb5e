package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const classifySystemPrompt = `You are an intent classifier for customer support. Classify the customer message into one of these categories: technical, billing, general, sensitive, complex_technical. Also provide a confidence score (0-1) and suggested priority (low, medium, high, critical). Respond with JSON format: { "intent": "category", "confidence": 0.95, "priority": "medium", "summary": "brief summary" }`

const generateSystemPrompt = `You are a helpful customer support AI for an ERP/CRM integration platform. The customer's message has been classified as: %s with %s priority. Provide a helpful, professional response. Keep responses concise but informative. If it's a technical issue, acknowledge the problem and provide initial troubleshooting steps. For billing questions, provide general information and mention human escalation for specific account details.`

// OpenAIClassifier implements Classifier on top of an OpenAI-compatible
// chat-completion API.
type OpenAIClassifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClassifier creates a classifier. baseURL is optional and allows
// pointing at any OpenAI-compatible endpoint.
func NewOpenAIClassifier(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClassifier {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAIClassifier{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAIClassifier) ClassifyIntent(ctx context.Context, text string) (Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrClassification, err)
	}
	if len(resp.Choices) == 0 {
		return Classification{}, fmt.Errorf("%w: empty response", ErrClassification)
	}

	var cls Classification
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &cls); err != nil {
		return Classification{}, fmt.Errorf("%w: malformed output: %v", ErrClassification, err)
	}

	cls.Normalize()
	return cls, nil
}

func (c *OpenAIClassifier) GenerateReply(ctx context.Context, text string, cls Classification) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(generateSystemPrompt, cls.Intent, cls.Priority)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
