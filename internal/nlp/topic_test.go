package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

func classify(text string) types.Topic {
	return TopicOf(text, Keywords(text))
}

func TestTopicGreetingShortCircuits(t *testing.T) {
	for _, text := range []string{
		"hi",
		"hello there",
		"hey, long time no see",
		"how are you doing",
		"good morning sunshine",
		"what's up",
	} {
		assert.Equal(t, types.TopicGreeting, classify(text), "text: %q", text)
	}
}

func TestTopicKeywordScoring(t *testing.T) {
	tests := []struct {
		text string
		want types.Topic
	}{
		{"i watched a new anime episode with my favorite manga character", types.TopicAnime},
		{"this recipe makes a delicious spicy meal", types.TopicFood},
		{"the concert had amazing guitar and drums", types.TopicMusic},
		{"the forecast says thunder and lightning all winter", types.TopicWeather},
		{"i pulled a tarot card and read about witchcraft rituals", types.TopicOccult},
		{"the meaning of existence and consciousness troubles philosophers", types.TopicPhilosophy},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.text))
		})
	}
}

func TestTopicAlwaysInEnumeration(t *testing.T) {
	known := map[types.Topic]bool{
		types.TopicGreeting: true, types.TopicPersonal: true, types.TopicArt: true,
		types.TopicLiterature: true, types.TopicMusic: true, types.TopicPhilosophy: true,
		types.TopicTechnology: true, types.TopicAnime: true, types.TopicGames: true,
		types.TopicFood: true, types.TopicWeather: true, types.TopicOccult: true,
		types.TopicRomance: true, types.TopicNSFWMild: true, types.TopicNSFWExplicit: true,
		types.TopicDefault: true,
	}

	inputs := []string{
		"", "?", "hello", "the sky is blue", "guitar dungeon tarot existence",
		"completely unrelated zxqw tokens", "do you like me?", "42",
	}
	for _, text := range inputs {
		topic := classify(text)
		assert.True(t, known[topic], "topic %q for input %q not in enumeration", topic, text)
	}
}

func TestExplicitVsMildResolution(t *testing.T) {
	// Three explicit-only keywords (3 x 1.5 = 4.5) against two mild-only
	// keywords (2 x 1.2 = 2.4): 4.5 > 2.4*1.3, so explicit wins.
	assert.Equal(t, types.TopicNSFWExplicit,
		classify("nsfw naughty nude lewd erotic"))

	// Two explicit-only keywords (2 x 1.5 = 3.0) against the same mild pair:
	// 3.0 <= 2.4*1.3, so the milder interpretation wins.
	assert.Equal(t, types.TopicNSFWMild,
		classify("nsfw naughty nude lewd"))
}

func TestExplicitSlangClassifies(t *testing.T) {
	// Common slang with no mild-vocabulary hits must land on explicit, not
	// fall through to default.
	for _, text := range []string{
		"i want to fuck you",
		"send me your tits",
		"thinking about anal all day",
	} {
		assert.Equal(t, types.TopicNSFWExplicit, classify(text), "text: %q", text)
	}
}

func TestPersonalQuestionFallback(t *testing.T) {
	// No topic keyword matches, question form, second-person reference.
	assert.Equal(t, types.TopicPersonal, classify("what do you think?"))
}

func TestDefaultFallback(t *testing.T) {
	assert.Equal(t, types.TopicDefault, classify("the sky is blue"))
}
