// Package router turns a chat request into a reply by routing it to one of
// the configured providers and absorbing provider failures.
package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/folio-dev/folio/internal/canned"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/observability"
	"github.com/folio-dev/folio/internal/providers"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// errEmptyReply guards the success invariant: a successful response always
// carries text.
var errEmptyReply = errors.New("provider returned an empty reply")

// RoutingDecision records which provider served a request and why.
type RoutingDecision struct {
	Requested string
	Provider  models.Provider
	Reason    string
}

// Resolver maps (message, provider) to a ChatResponse. It never fails for a
// well-formed request.
type Resolver struct {
	providers map[models.Provider]providers.Provider
	bank      *canned.Bank
	picker    canned.Picker
	logger    *zap.Logger
	metrics   *observability.Metrics
	tracing   *observability.Tracing
	now       func() time.Time
}

// Options wires a Resolver.
type Options struct {
	// Live answers huggingface and default requests.
	Live      providers.Provider
	OpenAI    providers.Provider
	Anthropic providers.Provider
	Bank      *canned.Bank
	Picker    canned.Picker
	Logger    *zap.Logger
	Metrics   *observability.Metrics
	Tracing   *observability.Tracing
	Now       func() time.Time
}

// NewResolver creates a resolver. Live, OpenAI, Anthropic and Bank are
// required.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Live == nil || opts.OpenAI == nil || opts.Anthropic == nil {
		return nil, fmt.Errorf("live, openai and anthropic providers are required")
	}
	if opts.Bank == nil {
		return nil, fmt.Errorf("canned response bank is required")
	}

	picker := opts.Picker
	if picker == nil {
		picker = canned.RandomPicker{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Resolver{
		providers: map[models.Provider]providers.Provider{
			models.ProviderHuggingFace: opts.Live,
			models.ProviderDefault:     opts.Live,
			models.ProviderOpenAI:      opts.OpenAI,
			models.ProviderAnthropic:   opts.Anthropic,
		},
		bank:    opts.Bank,
		picker:  picker,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		tracing: opts.Tracing,
		now:     now,
	}, nil
}

// Decide picks the provider for a request. Unknown names route to the live
// provider.
func (r *Resolver) Decide(req models.ChatRequest) RoutingDecision {
	kind := models.ParseProvider(req.Provider)

	decision := RoutingDecision{Requested: req.Provider, Provider: kind}
	switch {
	case kind.IsSimulated():
		decision.Reason = "simulated provider"
	case kind == models.ProviderDefault && req.Provider != "" && req.Provider != string(models.ProviderDefault):
		decision.Reason = "unknown provider, using default"
	default:
		decision.Reason = "live inference"
	}
	return decision
}

// Resolve produces the reply for req. When the chosen provider cannot run at
// all, one of the generic fallback templates is returned instead.
func (r *Resolver) Resolve(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	decision := r.Decide(req)

	ctx, span := r.tracing.StartSpan(ctx, "chat.resolve",
		trace.WithAttributes(attribute.String("chat.provider", string(decision.Provider))))
	defer span.End()

	provider := r.providers[decision.Provider]

	r.logger.Debug("Routing chat request",
		zap.String("requested", decision.Requested),
		zap.String("provider", string(decision.Provider)),
		zap.String("reason", decision.Reason))

	reply, err := provider.Respond(ctx, req.Message)
	if err == nil && reply == "" {
		err = errEmptyReply
	}

	switch {
	case err != nil:
		r.logger.Error("Provider failed, using generic fallback",
			zap.String("provider", string(decision.Provider)),
			zap.Error(err))
		r.tracing.RecordError(ctx, err)
		r.metrics.RecordResolution(string(decision.Provider), "fallback")
		reply = canned.PickTemplate(r.picker, r.bank.Fallbacks, req.Message)
	case decision.Provider.IsSimulated():
		r.metrics.RecordResolution(string(decision.Provider), "simulated")
	}

	return models.ChatResponse{
		Response:  reply,
		Provider:  req.Provider,
		Success:   true,
		Timestamp: r.now().UTC(),
	}
}

// ProviderInfo describes one provider for the listing endpoint.
type ProviderInfo struct {
	Name      models.Provider
	Simulated bool
	Models    []string
}

// Providers lists the providers in a stable order.
func (r *Resolver) Providers() []ProviderInfo {
	order := []models.Provider{
		models.ProviderHuggingFace,
		models.ProviderOpenAI,
		models.ProviderAnthropic,
		models.ProviderDefault,
	}

	infos := make([]ProviderInfo, 0, len(order))
	for _, name := range order {
		p := r.providers[name]
		infos = append(infos, ProviderInfo{
			Name:      name,
			Simulated: name.IsSimulated(),
			Models:    p.GetModels(),
		})
	}
	return infos
}
