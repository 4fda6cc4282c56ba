package gateway

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/avisser/redline/internal/config"
)

// OpenAIClient talks to any OpenAI-compatible chat-completion endpoint,
// including local servers via the config base_url override.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIClient builds the collaborator client from config.
// The API key comes from REDLINE_API_KEY, falling back to OPENAI_API_KEY.
// Local endpoints that need no key may set REDLINE_API_KEY to any value.
func NewOpenAIClient(cfg *config.Config, logger *zap.Logger) (*OpenAIClient, error) {
	apiKey := os.Getenv("REDLINE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("REDLINE_API_KEY (or OPENAI_API_KEY) is not set")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("collaborator client ready",
		zap.String("model", cfg.Model),
		zap.Bool("custom_endpoint", cfg.BaseURL != ""),
	)

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Transform implements Client.
func (c *OpenAIClient) Transform(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("transform text must not be empty")
	}
	if !req.Kind.Known() {
		return nil, fmt.Errorf("unknown action kind %q", req.Kind)
	}
	if req.Kind == ActionCustom && strings.TrimSpace(req.Instruction) == "" {
		return nil, fmt.Errorf("custom action requires an instruction")
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, m := range TruncateContext(req.Context, MaxContextMessages) {
		role := openai.ChatMessageRoleUser
		if m.Role == "ai" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: buildUserPrompt(req),
	})

	c.logger.Debug("sending transform request",
		zap.String("kind", string(req.Kind)),
		zap.Bool("partial", req.IsPartial),
		zap.Int("context_messages", len(req.Context)),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		c.logger.Error("collaborator call failed", zap.Error(err))
		return nil, fmt.Errorf("collaborator call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("collaborator returned no choices")
	}

	result, err := parseEnvelope(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("unusable collaborator response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("transform response classified", zap.String("type", string(result.Type)))
	return result, nil
}
