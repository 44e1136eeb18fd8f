package providers

import (
	"github.com/folio-dev/folio/internal/canned"
	"github.com/folio-dev/folio/internal/models"
)

// NewOpenAIProvider creates the simulated OpenAI provider.
func NewOpenAIProvider(bank *canned.Bank, picker canned.Picker) Provider {
	return &SimulatedProvider{
		name:      models.ProviderOpenAI,
		templates: bank.OpenAI,
		picker:    picker,
	}
}
