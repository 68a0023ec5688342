package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"enterprise-brain/backend/internal/graph"
	brainerrors "enterprise-brain/backend/pkg/errors"
	"enterprise-brain/backend/pkg/logger"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const narrationSystemPrompt = `You explain why an item in an enterprise knowledge graph exists.
You receive causal chains of relations leading into the item.
Answer in at most four sentences. Mention people, decisions and dependencies by name.
If there are no chains, say that nothing upstream explains the item.`

// maxRetries bounds LLM attempts per narration
const maxRetries = 3

// LLMAdapter narrates graph explanations through an OpenAI-compatible
// endpoint such as LiteLLM
type LLMAdapter struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewLLMAdapter creates a new LLM adapter
func NewLLMAdapter(baseURL, apiKey, modelID string) *LLMAdapter {
	// For LiteLLM, we can use a dummy API key if not provided
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimSuffix(baseURL, "/") + "/v1"

	return &LLMAdapter{
		client: openai.NewClientWithConfig(config),
		model:  modelID,
		logger: logger.Get(),
	}
}

// Model returns the model id requests are sent to
func (a *LLMAdapter) Model() string {
	return a.model
}

// Narrate turns an explanation into a short prose summary
func (a *LLMAdapter) Narrate(ctx context.Context, exp graph.Explanation) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narrationSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildExplanationPrompt(exp)},
		},
		Temperature: 0.2,
	}

	var (
		resp openai.ChatCompletionResponse
		err  error
	)
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			a.logger.Warn("Retrying narration request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", brainerrors.NewNarrationFailed(a.model, ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}
		a.logger.Error("Narration request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", a.model),
		)
	}
	if err != nil {
		return "", brainerrors.NewNarrationFailed(a.model, fmt.Errorf("after %d attempts: %w", maxRetries, err))
	}

	if len(resp.Choices) == 0 {
		return "", brainerrors.NewNarrationFailed(a.model, fmt.Errorf("no choices in LLM response"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	a.logger.Debug("Narration generated",
		zap.String("model", a.model),
		zap.String("node_id", exp.NodeID),
		zap.Int("paths", len(exp.Paths)),
	)
	return content, nil
}

// BuildExplanationPrompt renders causal paths as plain text, one chain per line:
// "Approve Release (action) <-[assigned]- Alice Chen (person)"
func BuildExplanationPrompt(exp graph.Explanation) string {
	var b strings.Builder
	if len(exp.Paths) == 0 {
		fmt.Fprintf(&b, "Item: %s\nNo causal chains.\n", exp.NodeID)
		return b.String()
	}

	root := exp.Paths[0].Nodes[0]
	fmt.Fprintf(&b, "Item: %s (%s)\nCausal chains:\n", root.Label, root.Type)
	for _, p := range exp.Paths {
		b.WriteString("- ")
		for i, n := range p.Nodes {
			if i > 0 {
				fmt.Fprintf(&b, " <-[%s]- ", p.Relations[i-1])
			}
			fmt.Fprintf(&b, "%s (%s)", n.Label, n.Type)
		}
		b.WriteString("\n")
	}
	return b.String()
}
