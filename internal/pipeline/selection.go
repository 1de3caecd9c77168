package pipeline

import (
	"time"

	"github.com/jdsports555/WaifuChatBotv2/internal/llm"
	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

// familyOrder names provider families in preference order. Only registered
// families participate; the rest are skipped.
type familyOrder []string

// defaultOrder runs the hosted tiers first and the local model last.
var defaultOrder = familyOrder{"gemini", "openai", "anthropic", "ollama"}

// nsfwOrder promotes the local model ahead of the stricter hosted tiers.
var nsfwOrder = familyOrder{"gemini", "ollama", "openai", "anthropic"}

// tier couples one provider client with its request pacer. The pacer is
// per family, shared by every request that routes through it.
type tier struct {
	client llm.Client
	pacer  *llm.Pacer
}

// Selector maps a topic to the ordered list of provider tiers to try.
type Selector struct {
	tiers    map[string]*tier
	cooldown time.Duration
}

// NewSelector creates an empty selector. Each registered family gets a
// pacer enforcing the given cooldown between its requests.
func NewSelector(cooldown time.Duration) *Selector {
	return &Selector{
		tiers:    make(map[string]*tier),
		cooldown: cooldown,
	}
}

// Register adds a provider family to the routing pool.
func (s *Selector) Register(c llm.Client) {
	s.tiers[c.Name()] = &tier{
		client: c,
		pacer:  llm.NewPacer(s.cooldown),
	}
}

// Empty reports whether no provider family is registered.
func (s *Selector) Empty() bool { return len(s.tiers) == 0 }

// Select returns the tiers to try for a topic, in order. Walking the list
// front to back already moves each request away from a tier that just
// failed it, so no state is carried between requests.
func (s *Selector) Select(topic types.Topic) []*tier {
	order := defaultOrder
	if topic.IsNSFW() {
		order = nsfwOrder
	}

	tiers := make([]*tier, 0, len(order))
	for _, family := range order {
		if t, ok := s.tiers[family]; ok {
			tiers = append(tiers, t)
		}
	}
	return tiers
}
