package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/folio-dev/folio/internal/canned"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/observability"
	"github.com/folio-dev/folio/internal/providers"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubProvider counts calls and replies with a fixed result.
type stubProvider struct {
	name  models.Provider
	reply string
	err   error
	calls int
}

func (s *stubProvider) GetName() models.Provider { return s.name }
func (s *stubProvider) GetModels() []string      { return []string{"stub-model"} }

func (s *stubProvider) Respond(ctx context.Context, message string) (string, error) {
	s.calls++
	return s.reply, s.err
}

var fixedNow = time.Date(2024, 5, 1, 12, 30, 45, 123000000, time.UTC)

func newTestResolver(t *testing.T, live providers.Provider, picker canned.Picker) (*Resolver, *observability.Metrics) {
	t.Helper()
	logger := zap.NewNop()
	metrics, err := observability.NewMetrics(observability.MetricsConfig{}, logger)
	require.NoError(t, err)

	bank := canned.Default()
	r, err := NewResolver(Options{
		Live:      live,
		OpenAI:    providers.NewOpenAIProvider(bank, picker),
		Anthropic: providers.NewAnthropicProvider(bank, picker),
		Bank:      bank,
		Picker:    picker,
		Logger:    logger,
		Metrics:   metrics,
		Tracing:   observability.NewTracing(observability.TracingConfig{ServiceName: "test"}, logger),
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return r, metrics
}

func TestNewResolverRequiresProviders(t *testing.T) {
	_, err := NewResolver(Options{Bank: canned.Default()})
	assert.Error(t, err)

	live := &stubProvider{name: models.ProviderHuggingFace}
	bank := canned.Default()
	_, err = NewResolver(Options{
		Live:      live,
		OpenAI:    providers.NewOpenAIProvider(bank, nil),
		Anthropic: providers.NewAnthropicProvider(bank, nil),
	})
	assert.Error(t, err)
}

func TestResolveSimulatedProvidersSkipLiveProvider(t *testing.T) {
	bank := canned.Default()

	for _, tt := range []struct {
		provider  string
		templates []canned.Template
	}{
		{"openai", bank.OpenAI},
		{"anthropic", bank.Anthropic},
	} {
		t.Run(tt.provider, func(t *testing.T) {
			for i := range tt.templates {
				live := &stubProvider{name: models.ProviderHuggingFace, reply: "live"}
				r, metrics := newTestResolver(t, live, canned.FixedPicker(i))

				resp := r.Resolve(context.Background(), models.ChatRequest{Message: "hi", Provider: tt.provider})

				assert.True(t, resp.Success)
				assert.Equal(t, tt.templates[i].Render("hi"), resp.Response)
				assert.Equal(t, tt.provider, resp.Provider)
				assert.Zero(t, live.calls)
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResolutionCounter(tt.provider, "simulated")))
			}
		})
	}
}

func TestResolveRoutesToLiveProvider(t *testing.T) {
	for _, provider := range []string{"huggingface", "default", "", "mistral", "HuggingFace"} {
		t.Run(provider, func(t *testing.T) {
			live := &stubProvider{name: models.ProviderHuggingFace, reply: "live reply"}
			r, _ := newTestResolver(t, live, canned.FixedPicker(0))

			resp := r.Resolve(context.Background(), models.ChatRequest{Message: "hi", Provider: provider})

			assert.True(t, resp.Success)
			assert.Equal(t, "live reply", resp.Response)
			assert.Equal(t, provider, resp.Provider)
			assert.Equal(t, 1, live.calls)
			assert.Equal(t, fixedNow, resp.Timestamp)
		})
	}
}

func TestResolveProviderErrorUsesFallback(t *testing.T) {
	bank := canned.Default()

	for i := range bank.Fallbacks {
		live := &stubProvider{name: models.ProviderHuggingFace, err: errors.New("credential store offline")}
		r, metrics := newTestResolver(t, live, canned.FixedPicker(i))

		resp := r.Resolve(context.Background(), models.ChatRequest{Message: "help me", Provider: "huggingface"})

		assert.True(t, resp.Success)
		assert.Equal(t, bank.Fallbacks[i].Render("help me"), resp.Response)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResolutionCounter("huggingface", "fallback")))
	}
}

func TestResolveEmptyReplyUsesFallback(t *testing.T) {
	live := &stubProvider{name: models.ProviderHuggingFace}
	r, _ := newTestResolver(t, live, canned.FixedPicker(2))

	resp := r.Resolve(context.Background(), models.ChatRequest{Message: "x"})

	assert.True(t, resp.Success)
	assert.Equal(t, canned.Default().Fallbacks[2].Render("x"), resp.Response)
}

func TestDecide(t *testing.T) {
	r, _ := newTestResolver(t, &stubProvider{name: models.ProviderHuggingFace}, nil)

	tests := []struct {
		requested string
		want      models.Provider
		reason    string
	}{
		{"openai", models.ProviderOpenAI, "simulated provider"},
		{"anthropic", models.ProviderAnthropic, "simulated provider"},
		{"huggingface", models.ProviderHuggingFace, "live inference"},
		{"default", models.ProviderDefault, "live inference"},
		{"", models.ProviderDefault, "live inference"},
		{"cohere", models.ProviderDefault, "unknown provider, using default"},
	}

	for _, tt := range tests {
		d := r.Decide(models.ChatRequest{Provider: tt.requested})
		assert.Equal(t, tt.want, d.Provider, tt.requested)
		assert.Equal(t, tt.reason, d.Reason, tt.requested)
	}
}

func TestProvidersListing(t *testing.T) {
	r, _ := newTestResolver(t, &stubProvider{name: models.ProviderHuggingFace}, nil)

	infos := r.Providers()
	require.Len(t, infos, 4)

	assert.Equal(t, models.ProviderHuggingFace, infos[0].Name)
	assert.False(t, infos[0].Simulated)
	assert.Equal(t, []string{"stub-model"}, infos[0].Models)

	assert.Equal(t, models.ProviderOpenAI, infos[1].Name)
	assert.True(t, infos[1].Simulated)
	assert.Empty(t, infos[1].Models)

	assert.Equal(t, models.ProviderDefault, infos[3].Name)
}
