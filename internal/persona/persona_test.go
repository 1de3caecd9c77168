package persona

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultCoversAllRealTopics(t *testing.T) {
	p := Default()
	for _, topic := range []types.Topic{
		types.TopicGreeting, types.TopicPersonal, types.TopicAnime,
		types.TopicFood, types.TopicGames, types.TopicMusic,
		types.TopicWeather, types.TopicArt, types.TopicLiterature,
		types.TopicTechnology, types.TopicPhilosophy, types.TopicRomance,
		types.TopicOccult, types.TopicNSFWMild, types.TopicNSFWExplicit,
	} {
		_, ok := p.TopicGuidance(topic)
		assert.True(t, ok, "missing guidance for %s", topic)
	}
}

func TestEmergencyReplyPoolSelection(t *testing.T) {
	p := Default()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		general := p.EmergencyReply(types.TopicDefault, rng)
		assert.Contains(t, p.EmergencyGeneral, general)

		nsfw := p.EmergencyReply(types.TopicNSFWExplicit, rng)
		assert.Contains(t, p.EmergencyNSFW, nsfw)
	}
}

func TestNameAckIncludesName(t *testing.T) {
	p := Default()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		assert.Contains(t, p.NameAck("Alex", rng), "Alex")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	override := strings.TrimSpace(`
name: Mira
emergency_nsfw:
  - "custom line"
guidance:
  food: "talk about ramen"
`)
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Mira", p.Name)
	assert.Equal(t, []string{"custom line"}, p.EmergencyNSFW)
	g, ok := p.TopicGuidance(types.TopicFood)
	require.True(t, ok)
	assert.Equal(t, "talk about ramen", g)

	// untouched fields keep their defaults
	assert.NotEmpty(t, p.Description)
	assert.NotEmpty(t, p.EmergencyGeneral)
}

func TestLoadRejectsInvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: ""`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
