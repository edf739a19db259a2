package providers

import (
	"fmt"
	"strings"
	"time"

	"squish/internal/config"
)

// NewProvider picks the backend strategy once, from the engine selector.
func NewProvider(cfg config.Config) (LLMProvider, error) {
	if cfg.IsLocal() {
		timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
		return NewOllamaProvider(cfg.APIBase, cfg.Model, timeout), nil
	}
	if strings.TrimSpace(cfg.APIKey) == "" && strings.TrimSpace(cfg.APIBase) == "" {
		return nil, fmt.Errorf("engine %q needs api_key or api_base", cfg.Engine)
	}
	return NewOpenAIProvider(strings.ToLower(cfg.Engine), cfg.APIBase, cfg.APIKey, cfg.Model, cfg.Stream), nil
}
