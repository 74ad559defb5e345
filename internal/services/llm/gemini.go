package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiService generates completions through the Gemini API, retrying
// quota errors with the API-suggested delay.
type GeminiService struct {
	config  common.LLMConfig
	client  *genai.Client
	retry   *RetryConfig
	timeout time.Duration
	logger  arbor.ILogger
}

func NewGeminiService(config common.LLMConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set INDAGO_GEMINI_API_KEY or llm.gemini_api_key in config)")
	}
	if config.Model == "" {
		config.Model = defaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  config,
		client:  client,
		retry:   NewDefaultRetryConfig(),
		timeout: config.Timeout,
		logger:  logger.WithPrefix("gemini"),
	}

	logger.Info().Str("model", config.Model).Dur("timeout", config.Timeout).Msg("Gemini service initialized")
	return service, nil
}

// convertMessages maps conversation messages to Gemini contents, pulling any
// system message out as the system instruction.
func convertMessages(messages []interfaces.Message) ([]*genai.Content, string) {
	var systemText string
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText != "" {
				systemText += "\n"
			}
			systemText += msg.Content
			continue
		}

		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}
	return contents, systemText
}

// Generate produces a completion for the conversation, retrying rate limit
// errors per the retry config.
func (s *GeminiService) Generate(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= s.retry.MaxRetries; attempt++ {
		response, err := s.generateOnce(ctx, messages)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !IsRateLimitError(err) || attempt == s.retry.MaxRetries {
			break
		}

		backoff := s.retry.CalculateBackoff(attempt, ExtractRetryDelay(err))
		s.logger.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Rate limited, backing off")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func (s *GeminiService) generateOnce(ctx context.Context, messages []interfaces.Message) (string, error) {
	contents, systemText := convertMessages(messages)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.config.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}
	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated")
	}
	return response.String(), nil
}

func (s *GeminiService) Close() error {
	// genai.Client holds no resources needing explicit release.
	s.client = nil
	return nil
}
