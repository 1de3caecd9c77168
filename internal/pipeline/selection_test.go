package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

func familyNames(tiers []*tier) []string {
	names := make([]string, len(tiers))
	for i, t := range tiers {
		names[i] = t.client.Name()
	}
	return names
}

func TestSelectDefaultOrderIndependentOfRegistration(t *testing.T) {
	sel := NewSelector(0)
	for _, name := range []string{"ollama", "anthropic", "gemini", "openai"} {
		sel.Register(&stubClient{name: name})
	}

	got := sel.Select(types.TopicMusic)
	assert.Equal(t, []string{"gemini", "openai", "anthropic", "ollama"}, familyNames(got))
}

func TestSelectNSFWPromotesLocalModel(t *testing.T) {
	sel := NewSelector(0)
	for _, name := range []string{"gemini", "openai", "anthropic", "ollama"} {
		sel.Register(&stubClient{name: name})
	}

	got := sel.Select(types.TopicNSFWMild)
	assert.Equal(t, []string{"gemini", "ollama", "openai", "anthropic"}, familyNames(got))
}

func TestSelectSkipsUnregisteredFamilies(t *testing.T) {
	sel := NewSelector(0)
	sel.Register(&stubClient{name: "anthropic"})
	sel.Register(&stubClient{name: "ollama"})

	got := sel.Select(types.TopicDefault)
	assert.Equal(t, []string{"anthropic", "ollama"}, familyNames(got))
}

func TestSelectIsStatelessAcrossCalls(t *testing.T) {
	sel := NewSelector(0)
	sel.Register(&stubClient{name: "gemini"})
	sel.Register(&stubClient{name: "openai"})

	first := sel.Select(types.TopicDefault)
	second := sel.Select(types.TopicDefault)
	require.Equal(t, []string{"gemini", "openai"}, familyNames(first))
	assert.Equal(t, familyNames(first), familyNames(second))
}

func TestSelectEmptySelector(t *testing.T) {
	sel := NewSelector(0)
	assert.True(t, sel.Empty())
	assert.Empty(t, sel.Select(types.TopicDefault))
}
