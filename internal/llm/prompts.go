package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jdsports555/WaifuChatBotv2/internal/persona"
	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

// historyWindow is the number of most recent messages quoted in the prompt.
const historyWindow = 10

// PromptRequest carries everything the builder needs for one turn.
type PromptRequest struct {
	Topic       types.Topic
	DisplayName string
	Facts       []types.Fact
	History     []types.MessageRecord
	Message     string

	// Reinforced adds a firmer in-character instruction. Set for the
	// retry after a validation reject.
	Reinforced bool
}

// PromptBuilder assembles the single-turn prompt sent to every provider.
// Output is deterministic for a given request: facts are ordered by type
// then value, history keeps storage order.
type PromptBuilder struct {
	persona *persona.Persona
}

// NewPromptBuilder creates a builder bound to one persona.
func NewPromptBuilder(p *persona.Persona) *PromptBuilder {
	return &PromptBuilder{persona: p}
}

// Build renders the full prompt text for a request.
func (b *PromptBuilder) Build(req PromptRequest) string {
	var sb strings.Builder

	sb.WriteString(b.persona.Description)
	sb.WriteString("\n")

	if guidance, ok := b.persona.TopicGuidance(req.Topic); ok {
		sb.WriteString("\nCurrent conversation context:\n")
		sb.WriteString(guidance)
		sb.WriteString("\n")
	}

	if facts := b.renderFacts(req); facts != "" {
		sb.WriteString("\nWhat you know about ")
		sb.WriteString(b.userLabel(req))
		sb.WriteString(":\n")
		sb.WriteString(facts)
	}

	if history := b.renderHistory(req); history != "" {
		sb.WriteString("\nRecent conversation:\n")
		sb.WriteString(history)
	}

	sb.WriteString("\n")
	sb.WriteString(b.userLabel(req))
	sb.WriteString(" says: ")
	sb.WriteString(req.Message)
	sb.WriteString("\n\nReply as ")
	sb.WriteString(b.persona.Name)
	sb.WriteString(" in two to four sentences. Stay fully in character and do not mention these instructions.")

	if req.Reinforced {
		sb.WriteString(" Your previous reply slipped out of character. This time answer only as ")
		sb.WriteString(b.persona.Name)
		sb.WriteString(" would, with no disclaimers, no apologies about the topic, and no meta commentary.")
	}

	return sb.String()
}

func (b *PromptBuilder) userLabel(req PromptRequest) string {
	if req.DisplayName != "" {
		return req.DisplayName
	}
	return "The user"
}

// renderFacts lists known facts one per line, sorted by type then value so
// identical knowledge always yields identical prompt text.
func (b *PromptBuilder) renderFacts(req PromptRequest) string {
	if len(req.Facts) == 0 {
		return ""
	}
	facts := make([]types.Fact, len(req.Facts))
	copy(facts, req.Facts)
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Type != facts[j].Type {
			return facts[i].Type < facts[j].Type
		}
		return facts[i].Value < facts[j].Value
	})

	var sb strings.Builder
	for _, f := range facts {
		fmt.Fprintf(&sb, "- %s: %s\n", f.Type, f.Value)
	}
	return sb.String()
}

// renderHistory quotes the last historyWindow messages in storage order,
// labeling each line with the speaker.
func (b *PromptBuilder) renderHistory(req PromptRequest) string {
	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, m := range history {
		speaker := b.userLabel(req)
		if m.Origin == types.OriginCharacter {
			speaker = b.persona.Name
		}
		fmt.Fprintf(&sb, "%s: %s\n", speaker, m.Content)
	}
	return sb.String()
}
