package providers

import (
	"context"

	"github.com/folio-dev/folio/internal/canned"
	"github.com/folio-dev/folio/internal/models"
)

// SimulatedProvider answers from a fixed set of templates without any
// network call.
type SimulatedProvider struct {
	name      models.Provider
	templates []canned.Template
	picker    canned.Picker
}

// GetName returns the provider identifier.
func (p *SimulatedProvider) GetName() models.Provider {
	return p.name
}

// GetModels returns nil: nothing is called.
func (p *SimulatedProvider) GetModels() []string {
	return nil
}

// Respond picks one template uniformly.
func (p *SimulatedProvider) Respond(_ context.Context, message string) (string, error) {
	picker := p.picker
	if picker == nil {
		picker = canned.RandomPicker{}
	}
	return canned.PickTemplate(picker, p.templates, message), nil
}
