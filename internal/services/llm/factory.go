package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

// NewLLMService creates the configured model provider.
func NewLLMService(config common.LLMConfig, logger arbor.ILogger) (interfaces.LLMService, error) {
	logger.Info().Str("provider", config.Provider).Str("model", config.Model).Msg("Initializing LLM service")

	switch config.Provider {
	case "gemini":
		return NewGeminiService(config, logger)
	case "claude":
		return NewClaudeService(config, logger)
	default:
		return nil, fmt.Errorf("invalid LLM provider '%s': must be 'gemini' or 'claude'", config.Provider)
	}
}
