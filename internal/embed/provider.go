package embed

import "fmt"

// NewProvider instantiates a Provider from cfg. An empty provider name
// selects OpenAI; "none" returns an error, and the caller decides whether
// that disables semantic search or should be reported.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "":
		return newOpenAIProvider(cfg)
	case "ollama":
		return newOllamaProvider(cfg)
	case "none":
		return nil, fmt.Errorf("no embedding provider configured")
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
