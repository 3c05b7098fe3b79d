package sim

import (
	"context"
	"fmt"
	"strings"

	"agentdesk/internal/catalog"

	"github.com/sashabaranov/go-openai"
)

// OpenAIResponder generates partner replies with a chat completion model.
// It is only used when an API key is configured; the caller is expected to
// fall back to the canned responder on any error.
type OpenAIResponder struct {
	client *openai.Client
	model  string
}

// NewOpenAIResponder builds a responder for the given key and model.
func NewOpenAIResponder(apiKey, model string) (*OpenAIResponder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sim: openai responder requires an API key")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIResponder{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Respond asks the model for the persona's next line given the transcript.
func (r *OpenAIResponder) Respond(ctx context.Context, persona catalog.Persona, transcript []string) (string, error) {
	system := fmt.Sprintf(
		"You are %s, a %s in a customer-service role-play. %s Scenario: %s. Communication style: %s. Reply with a single short conversational line, staying in character.",
		persona.Name, persona.Kind, persona.Background, persona.Scenario, persona.CommStyle,
	)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: "Conversation so far:\n" + strings.Join(transcript, "\n") + "\n\nYour next line:"},
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    messages,
		MaxTokens:   120,
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("sim: openai respond: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("sim: openai respond: empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
