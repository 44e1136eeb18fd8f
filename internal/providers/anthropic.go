package providers

import (
	"github.com/folio-dev/folio/internal/canned"
	"github.com/folio-dev/folio/internal/models"
)

// NewAnthropicProvider creates the simulated Anthropic provider.
func NewAnthropicProvider(bank *canned.Bank, picker canned.Picker) Provider {
	return &SimulatedProvider{
		name:      models.ProviderAnthropic,
		templates: bank.Anthropic,
		picker:    picker,
	}
}
