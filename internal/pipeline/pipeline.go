// Package pipeline orchestrates one chat turn: classify the message, pull
// user context from the store, walk the provider tiers until a valid
// in-character reply comes back, and apply the success side effects.
//
// Respond never returns an empty string and never panics. Every failure
// path ends at a persona emergency reply.
package pipeline

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/jdsports555/WaifuChatBotv2/internal/facts"
	"github.com/jdsports555/WaifuChatBotv2/internal/llm"
	"github.com/jdsports555/WaifuChatBotv2/internal/nlp"
	"github.com/jdsports555/WaifuChatBotv2/internal/persona"
	"github.com/jdsports555/WaifuChatBotv2/internal/storage"
	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

// Sampling temperatures by topic family.
const (
	nsfwTemperature    = 0.95
	generalTemperature = 0.8
)

// Affection deltas applied after a successful provider reply.
const (
	affectionPerReply       = 1
	affectionPositiveBonus  = 2
	historyFetchLimit       = 10
	defaultCompletionTokens = 1024
)

// Pipeline wires the classifier, fact extractor, store, and provider tiers
// into the single Respond entry point.
type Pipeline struct {
	store     storage.FactStore
	persona   *persona.Persona
	extractor *facts.Extractor
	prompts   *llm.PromptBuilder
	validator *llm.ResponseValidator
	selector  *Selector

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a pipeline. The selector may be empty, in which case every
// request is served from the persona emergency tables.
func New(store storage.FactStore, p *persona.Persona, selector *Selector) *Pipeline {
	return &Pipeline{
		store:     store,
		persona:   p,
		extractor: facts.NewExtractor(store),
		prompts:   llm.NewPromptBuilder(p),
		validator: llm.NewResponseValidator(p.Name),
		selector:  selector,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Respond handles one inbound message and always returns a non-empty
// in-character reply. Store failures are logged and degrade to a reply
// built from empty context.
func (p *Pipeline) Respond(ctx context.Context, externalID, displayName, text string) string {
	message := nlp.Normalize(text)
	if message == "" {
		return p.emergency(types.TopicDefault)
	}

	user, err := p.store.GetOrCreateUser(ctx, externalID, displayName)
	if err != nil {
		slog.Error("user lookup failed, serving without context",
			"external_id", externalID, "error", err)
		return p.contextFreeReply(ctx, message)
	}
	if user.DisplayName != "" {
		displayName = user.DisplayName
	}

	// A name introduction is answered directly, without a provider trip.
	if name, ok := facts.DetectName(message); ok {
		return p.acknowledgeName(ctx, user.ID, message, name)
	}

	sentiment := nlp.Sentiment(message)
	keywords := nlp.Keywords(message)
	topic := nlp.TopicOf(message, keywords)

	p.extractor.Extract(ctx, user.ID, message)

	history, err := p.store.GetHistory(ctx, user.ID, historyFetchLimit)
	if err != nil {
		slog.Warn("history fetch failed", "user_id", user.ID, "error", err)
		history = nil
	}
	knownFacts, err := p.store.GetFacts(ctx, user.ID)
	if err != nil {
		slog.Warn("facts fetch failed", "user_id", user.ID, "error", err)
		knownFacts = nil
	}

	req := llm.PromptRequest{
		Topic:       topic,
		DisplayName: displayName,
		Facts:       factList(knownFacts),
		History:     history,
		Message:     message,
	}

	reply, ok := p.completeTiers(ctx, req)
	if !ok {
		reply = p.emergency(topic)
	}

	p.recordTurn(ctx, user.ID, message, reply)
	if ok {
		delta := affectionPerReply
		if sentiment == types.SentimentPositive {
			delta += affectionPositiveBonus
		}
		if err := p.store.UpdateAffection(ctx, user.ID, delta); err != nil {
			slog.Warn("affection update failed", "user_id", user.ID, "error", err)
		}
	}
	return reply
}

// completeTiers walks the provider tiers for the request's topic. It
// returns the validated reply, or ok=false when every tier failed.
func (p *Pipeline) completeTiers(ctx context.Context, req llm.PromptRequest) (string, bool) {
	opts := llm.CompletionOptions{
		Temperature: generalTemperature,
		MaxTokens:   defaultCompletionTokens,
	}
	if req.Topic.IsNSFW() {
		opts.Temperature = nsfwTemperature
	}

	for _, t := range p.selector.Select(req.Topic) {
		reply, err := p.completeTier(ctx, t, req, opts)
		if err != nil {
			slog.Warn("provider tier failed",
				"provider", t.client.Name(), "topic", string(req.Topic), "error", err)
			continue
		}
		return reply, true
	}
	return "", false
}

// completeTier runs one family: paced completion, one alternate-model retry
// on rate limit, validation, and one reinforced-prompt retry on reject.
func (p *Pipeline) completeTier(ctx context.Context, t *tier, req llm.PromptRequest, opts llm.CompletionOptions) (string, error) {
	raw, err := p.pacedComplete(ctx, t, req, opts)
	if llm.IsRateLimited(err) {
		opts.AltModel = true
		raw, err = p.pacedComplete(ctx, t, req, opts)
	}
	if err != nil {
		return "", err
	}

	reply, err := p.validator.Validate(raw)
	if err == nil {
		return reply, nil
	}

	slog.Info("response rejected, retrying with reinforced prompt",
		"provider", t.client.Name(), "reason", err)
	req.Reinforced = true
	raw, err = p.pacedComplete(ctx, t, req, opts)
	if err != nil {
		return "", err
	}
	return p.validator.Validate(raw)
}

func (p *Pipeline) pacedComplete(ctx context.Context, t *tier, req llm.PromptRequest, opts llm.CompletionOptions) (string, error) {
	if err := t.pacer.Wait(ctx); err != nil {
		return "", err
	}
	return t.client.Complete(ctx, p.prompts.Build(req), opts)
}

// contextFreeReply serves a request when the store is unavailable: the
// tiers still run, with no facts and no history.
func (p *Pipeline) contextFreeReply(ctx context.Context, message string) string {
	keywords := nlp.Keywords(message)
	topic := nlp.TopicOf(message, keywords)

	reply, ok := p.completeTiers(ctx, llm.PromptRequest{
		Topic:   topic,
		Message: message,
	})
	if !ok {
		return p.emergency(topic)
	}
	return reply
}

// acknowledgeName stores the introduced name and answers with a persona
// acknowledgment line.
func (p *Pipeline) acknowledgeName(ctx context.Context, userID, message, name string) string {
	if err := p.store.SetDisplayName(ctx, userID, name); err != nil {
		slog.Warn("display name update failed", "user_id", userID, "error", err)
	}
	if err := p.store.StoreFact(ctx, userID, types.FactName, name); err != nil {
		slog.Warn("name fact store failed", "user_id", userID, "error", err)
	}

	p.mu.Lock()
	reply := p.persona.NameAck(name, p.rng)
	p.mu.Unlock()

	p.recordTurn(ctx, userID, message, reply)
	return reply
}

// recordTurn appends both sides of the exchange to history. Failures are
// logged, never surfaced.
func (p *Pipeline) recordTurn(ctx context.Context, userID, message, reply string) {
	if err := p.store.StoreMessage(ctx, userID, message, types.OriginUser); err != nil {
		slog.Warn("user message store failed", "user_id", userID, "error", err)
	}
	if err := p.store.StoreMessage(ctx, userID, reply, types.OriginCharacter); err != nil {
		slog.Warn("reply store failed", "user_id", userID, "error", err)
	}
}

func (p *Pipeline) emergency(topic types.Topic) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.persona.EmergencyReply(topic, p.rng)
}

// Greeting returns a persona line for a conversation start command.
func (p *Pipeline) Greeting() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.persona.Greeting(p.rng)
}

// Help returns a persona line for a help command.
func (p *Pipeline) Help() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.persona.Help(p.rng)
}

// MediaDeflection returns the fixed line for non-text content.
func (p *Pipeline) MediaDeflection() string {
	return p.persona.MediaDeflection
}

// factList flattens the fact map into the slice form the prompt builder
// sorts. Map order does not matter here.
func factList(m map[types.FactType]string) []types.Fact {
	facts := make([]types.Fact, 0, len(m))
	for factType, value := range m {
		facts = append(facts, types.Fact{Type: factType, Value: value})
	}
	return facts
}
