package providers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/folio-dev/folio/internal/canned"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultPersona is prefixed to every prompt sent to the inference API.
const DefaultPersona = "You are José's AI assistant, a Web3 business consultant. Help with Web3 opportunities, career advice, and project ideas."

// promptSeparator sits between the persona and the user's message.
const promptSeparator = "User message:"

// MinAcceptedLength is the exclusive lower bound on cleaned completion length.
const MinAcceptedLength = 10

// Generator is the single-call contract the candidate loop depends on.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, cred Credential) models.AttemptResult
}

// HuggingFaceProvider answers with live completions, trying each candidate
// model once and in order, and falls back to keyword replies.
type HuggingFaceProvider struct {
	generator   Generator
	models      []string
	persona     string
	echo        *regexp.Regexp
	credentials CredentialSource
	bank        *canned.Bank
	logger      *zap.Logger
	metrics     *observability.Metrics
	tracing     *observability.Tracing
}

// HuggingFaceOptions wires the live provider.
type HuggingFaceOptions struct {
	Generator   Generator
	Models      []string
	Persona     string
	Credentials CredentialSource
	Bank        *canned.Bank
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Tracing     *observability.Tracing
}

// NewHuggingFaceProvider creates the live provider.
func NewHuggingFaceProvider(opts HuggingFaceOptions) *HuggingFaceProvider {
	persona := opts.Persona
	if persona == "" {
		persona = DefaultPersona
	}
	modelList := opts.Models
	if len(modelList) == 0 {
		modelList = DefaultModels
	}
	credentials := opts.Credentials
	if credentials == nil {
		credentials = StaticCredential("")
	}

	return &HuggingFaceProvider{
		generator:   opts.Generator,
		models:      append([]string(nil), modelList...),
		persona:     persona,
		echo:        echoPattern(persona),
		credentials: credentials,
		bank:        opts.Bank,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		tracing:     opts.Tracing,
	}
}

// GetName returns the provider identifier.
func (p *HuggingFaceProvider) GetName() models.Provider {
	return models.ProviderHuggingFace
}

// GetModels returns the candidate models in the order they are tried.
func (p *HuggingFaceProvider) GetModels() []string {
	return append([]string(nil), p.models...)
}

// Respond runs the candidate chain and the keyword fallback. It returns an
// error only when the chain itself could not run, e.g. the credential could
// not be resolved or the loop panicked.
func (p *HuggingFaceProvider) Respond(ctx context.Context, message string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply = ""
			err = fmt.Errorf("huggingface orchestration panic: %v", r)
		}
	}()

	return p.resolve(ctx, message)
}

func (p *HuggingFaceProvider) resolve(ctx context.Context, message string) (string, error) {
	cred, err := p.credentials()
	if err != nil {
		return "", fmt.Errorf("failed to resolve inference credential: %w", err)
	}

	prompt := p.BuildPrompt(message)

	for i, model := range p.models {
		text, ok := p.tryCandidate(ctx, i, model, prompt, cred)
		if !ok {
			continue
		}

		p.logger.Info("Candidate accepted",
			zap.String("model", model),
			zap.Int("position", i+1))
		p.metrics.RecordResolution(string(models.ProviderHuggingFace), "live")
		return p.bank.WrapLive(text, message), nil
	}

	group, reply := p.bank.KeywordResponse(message)
	p.logger.Info("All candidates failed, using keyword response",
		zap.Int("candidates", len(p.models)),
		zap.String("group", group))
	p.metrics.RecordResolution(string(models.ProviderHuggingFace), "keyword")
	return reply, nil
}

// tryCandidate makes exactly one call against model and reports the cleaned
// text when it clears the acceptance floor.
func (p *HuggingFaceProvider) tryCandidate(ctx context.Context, position int, model, prompt string, cred Credential) (string, bool) {
	ctx, span := p.tracing.StartSpan(ctx, "inference.candidate",
		trace.WithAttributes(
			attribute.String("inference.model", model),
			attribute.Int("inference.position", position+1),
		))
	defer span.End()

	p.logger.Debug("Trying model", zap.String("model", model))

	start := time.Now()
	result := p.generator.Generate(ctx, model, prompt, cred)
	duration := time.Since(start)

	outcome := result.Outcome.String()
	switch result.Outcome {
	case models.OutcomeRetryable:
		p.logger.Info("Model is loading",
			zap.String("model", model),
			zap.Int("status", result.StatusCode))
	case models.OutcomeFailure:
		p.logger.Warn("Model failed",
			zap.String("model", model),
			zap.Int("status", result.StatusCode),
			zap.String("reason", result.Reason))
	}

	if result.Outcome != models.OutcomeSuccess {
		p.metrics.RecordCandidateAttempt(model, outcome, duration)
		span.SetAttributes(attribute.String("inference.outcome", outcome))
		return "", false
	}

	cleaned := p.CleanCompletion(result.Text)
	if !Accepts(cleaned) {
		outcome = "rejected"
		p.logger.Info("Model output below acceptance floor",
			zap.String("model", model),
			zap.Int("length", utf8.RuneCountInString(cleaned)))
	}

	p.metrics.RecordCandidateAttempt(model, outcome, duration)
	span.SetAttributes(attribute.String("inference.outcome", outcome))
	return cleaned, outcome == models.OutcomeSuccess.String()
}

// BuildPrompt prefixes the persona to the raw user message.
func (p *HuggingFaceProvider) BuildPrompt(message string) string {
	return p.persona + " " + promptSeparator + " " + message
}

// CleanCompletion removes an echoed persona span when present, trims the
// text and keeps only its first line. The line itself is not trimmed again.
// The strip is best effort; Accepts is what rejects bad output.
func (p *HuggingFaceProvider) CleanCompletion(text string) string {
	if p.echo != nil {
		if loc := p.echo.FindStringIndex(text); loc != nil {
			text = text[:loc[0]] + text[loc[1]:]
		}
	}
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return text
}

// Accepts reports whether a cleaned completion is long enough to use.
func Accepts(cleaned string) bool {
	return utf8.RuneCountInString(cleaned) > MinAcceptedLength
}

// echoPattern matches the first occurrence of the persona's opening clause
// through the prompt separator on a single line.
func echoPattern(persona string) *regexp.Regexp {
	lead := persona
	if i := strings.IndexAny(lead, ",."); i > 0 {
		lead = lead[:i]
	}
	lead = strings.TrimSpace(lead)
	if lead == "" {
		return nil
	}
	return regexp.MustCompile(regexp.QuoteMeta(lead) + `.*?` + regexp.QuoteMeta(promptSeparator))
}
