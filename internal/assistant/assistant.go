// Package assistant wraps the Gemini API behind a small question/answer
// surface for the /ai command.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Assistant answers free-form questions through a generative model.
type Assistant struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New connects to the Gemini API. The returned Assistant must be closed
// when the bot shuts down.
func New(ctx context.Context, apiKey, modelName string) (*Assistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text("Kamu adalah asisten bot Telegram berbahasa Indonesia. " +
				"Jawab singkat, jelas, dan ramah. Jangan gunakan format markdown."),
		},
	}

	return &Assistant{client: client, model: model}, nil
}

// Ask sends a question and returns the concatenated text parts of the
// first candidate.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.model.GenerateContent(ctx, genai.Text(question))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "", fmt.Errorf("empty response")
	}
	return answer, nil
}

// Close releases the underlying API client.
func (a *Assistant) Close() error {
	return a.client.Close()
}
