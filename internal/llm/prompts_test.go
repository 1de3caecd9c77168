package llm

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdsports555/WaifuChatBotv2/internal/persona"
	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

func testRequest() PromptRequest {
	now := time.Now()
	return PromptRequest{
		Topic:       types.TopicMusic,
		DisplayName: "Alex",
		Facts: []types.Fact{
			{Type: types.FactLocation, Value: "berlin"},
			{Type: types.FactHobby, Value: "painting"},
		},
		History: []types.MessageRecord{
			{Content: "hey", Origin: types.OriginUser, Timestamp: now},
			{Content: "Hey yourself. What's up?", Origin: types.OriginCharacter, Timestamp: now},
		},
		Message: "what music do you like?",
	}
}

func TestBuildIncludesAllSections(t *testing.T) {
	b := NewPromptBuilder(persona.Default())
	prompt := b.Build(testRequest())

	assert.Contains(t, prompt, "Nozara", "persona description and closing must name the character")
	assert.Contains(t, prompt, "post-punk", "music guidance must be present")
	assert.Contains(t, prompt, "- location: berlin")
	assert.Contains(t, prompt, "- hobby: painting")
	assert.Contains(t, prompt, "Alex: hey")
	assert.Contains(t, prompt, "Nozara: Hey yourself. What's up?")
	assert.Contains(t, prompt, "Alex says: what music do you like?")
	assert.NotContains(t, prompt, "slipped out of character")
}

func TestBuildIsDeterministic(t *testing.T) {
	b := NewPromptBuilder(persona.Default())

	req := testRequest()
	first := b.Build(req)

	// same knowledge, different fact order
	req.Facts[0], req.Facts[1] = req.Facts[1], req.Facts[0]
	second := b.Build(req)

	assert.Equal(t, first, second)
}

func TestBuildReinforcedAddsInstruction(t *testing.T) {
	b := NewPromptBuilder(persona.Default())

	req := testRequest()
	req.Reinforced = true
	prompt := b.Build(req)

	assert.Contains(t, prompt, "slipped out of character")
	assert.Contains(t, prompt, "no meta commentary")
}

func TestBuildWithoutFactsOrHistory(t *testing.T) {
	b := NewPromptBuilder(persona.Default())

	prompt := b.Build(PromptRequest{
		Topic:   types.TopicDefault,
		Message: "tell me something",
	})

	assert.NotContains(t, prompt, "What you know about")
	assert.NotContains(t, prompt, "Recent conversation:")
	assert.Contains(t, prompt, "The user says: tell me something")
}

func TestBuildTruncatesHistoryWindow(t *testing.T) {
	b := NewPromptBuilder(persona.Default())

	req := testRequest()
	req.History = nil
	for i := 1; i <= 30; i++ {
		req.History = append(req.History, types.MessageRecord{
			Content: fmt.Sprintf("message number %02d.", i),
			Origin:  types.OriginUser,
		})
	}
	prompt := b.Build(req)

	require.NotContains(t, prompt, "message number 20.",
		"messages before the window must be dropped")
	assert.Contains(t, prompt, "message number 21.")
	assert.Contains(t, prompt, "message number 30.")
}
