package nlp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

// explicitOverMildRatio is the margin the explicit score must exceed the
// mild score by before an ambiguous message resolves to nsfw_explicit.
const explicitOverMildRatio = 1.3

func compilePatterns(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		compiled[i] = regexp.MustCompile(expr)
	}
	return compiled
}

// TopicOf classifies a message into exactly one Topic.
//
// Greeting patterns short-circuit everything else. Otherwise every topic in
// the table is scored by keyword overlap against the union of the extracted
// keywords and all length-3+ lowercase tokens of the text, with the NSFW
// weights applied. When nsfw_mild and nsfw_explicit both land in the top two
// scores, explicit wins only when its score clears the mild score by more
// than 30 percent. A zero winning score falls through to "personal" for
// second-person questions and "default" for everything else. Equal scores
// resolve to the topic declared first in the table, so classification is
// fully deterministic.
func TopicOf(text string, keywords []string) types.Topic {
	lower := strings.ToLower(text)

	for _, p := range greetingPatterns {
		if p.MatchString(lower) {
			return types.TopicGreeting
		}
	}

	wordSet := make(map[string]struct{})
	for _, k := range keywords {
		wordSet[k] = struct{}{}
	}
	for _, tok := range tokenPattern.FindAllString(lower, -1) {
		wordSet[tok] = struct{}{}
	}

	scores := make(map[types.Topic]float64, len(topicTable))
	best := types.TopicDefault
	bestScore := 0.0
	for _, entry := range topicTable {
		var matched int
		for w := range wordSet {
			if _, ok := entry.keywords[w]; ok {
				matched++
			}
		}
		score := float64(matched) * entry.weight
		scores[entry.topic] = score
		if score > bestScore {
			best = entry.topic
			bestScore = score
		}
	}

	if bestScore > 0 {
		if topTwoAreNSFW(scores) {
			explicit := scores[types.TopicNSFWExplicit]
			mild := scores[types.TopicNSFWMild]
			if explicit > mild*explicitOverMildRatio {
				return types.TopicNSFWExplicit
			}
			return types.TopicNSFWMild
		}
		return best
	}

	if IsQuestion(lower) && (strings.Contains(lower, "you") || strings.Contains(lower, "your")) {
		return types.TopicPersonal
	}

	return types.TopicDefault
}

// topTwoAreNSFW reports whether nsfw_mild and nsfw_explicit occupy the two
// highest scores. Ordering among equal scores follows table declaration
// order, matching the main scoring pass.
func topTwoAreNSFW(scores map[types.Topic]float64) bool {
	ranked := make([]types.Topic, 0, len(topicTable))
	for _, entry := range topicTable {
		ranked = append(ranked, entry.topic)
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})
	if len(ranked) < 2 {
		return false
	}
	top2 := map[types.Topic]bool{ranked[0]: true, ranked[1]: true}
	return top2[types.TopicNSFWMild] && top2[types.TopicNSFWExplicit]
}
