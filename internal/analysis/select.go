package analysis

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spiffcs/ghlens/internal/log"
)

// Strategy names.
const (
	StrategyAuto  = "auto"
	StrategyRules = "rules"
	StrategyModel = "model"
)

// ValidStrategies lists the accepted strategy names.
var ValidStrategies = []string{StrategyAuto, StrategyRules, StrategyModel}

// Settings selects and configures an analyzer.
type Settings struct {
	Strategy  string
	Model     string
	MaxTokens int64
	// APIKey is read from the environment; it never comes from a config file.
	APIKey string
	// RequestOptions are passed through to the Anthropic client.
	RequestOptions []option.RequestOption
}

// Select returns the analyzer for s. With the auto strategy the model is
// used when a credential is present, otherwise the rules. Requesting the
// model without a credential yields an analyzer that reports
// ErrNotConfigured.
func Select(s Settings, opts ...Option) (Analyzer, error) {
	strategy := strings.ToLower(strings.TrimSpace(s.Strategy))
	if strategy == "" {
		strategy = StrategyAuto
	}

	switch strategy {
	case StrategyRules:
		return NewRules(opts...), nil
	case StrategyModel:
		return newModelFor(s, opts), nil
	case StrategyAuto:
		if s.APIKey != "" {
			return newModelFor(s, opts), nil
		}
		log.Debug("no model credential, using rule-based analysis")
		return NewRules(opts...), nil
	default:
		return nil, fmt.Errorf("unknown analysis strategy %q (valid: %s)", s.Strategy, strings.Join(ValidStrategies, ", "))
	}
}

func newModelFor(s Settings, opts []Option) *Model {
	completer, err := NewAnthropicCompleter(s.APIKey, s.Model, s.MaxTokens, s.RequestOptions...)
	if err != nil {
		return NewModel(nil, opts...)
	}
	return NewModel(completer, opts...)
}
