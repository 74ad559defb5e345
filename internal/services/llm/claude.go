package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

const (
	defaultClaudeModel     = "claude-sonnet-4-20250514"
	defaultClaudeMaxTokens = 8192
)

// ClaudeService generates completions through the Anthropic API.
type ClaudeService struct {
	config  common.LLMConfig
	client  anthropic.Client
	timeout time.Duration
	logger  arbor.ILogger
}

func NewClaudeService(config common.LLMConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if config.ClaudeAPIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set INDAGO_CLAUDE_API_KEY or llm.claude_api_key in config)")
	}
	if config.Model == "" {
		config.Model = defaultClaudeModel
	}

	service := &ClaudeService{
		config:  config,
		client:  anthropic.NewClient(option.WithAPIKey(config.ClaudeAPIKey)),
		timeout: config.Timeout,
		logger:  logger.WithPrefix("claude"),
	}

	logger.Info().Str("model", config.Model).Dur("timeout", config.Timeout).Msg("Claude service initialized")
	return service, nil
}

func (s *ClaudeService) Generate(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var systemText string
	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if systemText != "" {
				systemText += "\n"
			}
			systemText += msg.Content
		case "assistant":
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: defaultClaudeMaxTokens,
		Messages:  claudeMessages,
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemText}}
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}
	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated")
	}
	return response.String(), nil
}

func (s *ClaudeService) Close() error {
	return nil
}
