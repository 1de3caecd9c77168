// Package nlp provides lightweight text analysis for inbound messages:
// keyword-set sentiment, frequency-ranked keyword extraction, and topic
// classification. Everything here is stateless and deterministic; no
// external model or service is involved.
package nlp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

var (
	wordPattern  = regexp.MustCompile(`\w+`)
	tokenPattern = regexp.MustCompile(`\b[a-z]{3,}\b`)
)

// positiveWords and negativeWords are the fixed sentiment vocabularies.
// Sentiment is decided purely by set intersection size, so synonyms inside
// one set are interchangeable.
var positiveWords = newSet(
	"good", "great", "awesome", "excellent", "happy", "love", "like", "nice",
	"wonderful", "beautiful", "amazing", "fantastic", "cool", "cute", "kawaii",
	"fun", "enjoy", "sweet", "lovely", "excited", "glad", "thanks", "thank",
	"pleased", "pleasant", "joy", "cheerful", "delighted", "perfect", "yay", "wow",
)

var negativeWords = newSet(
	"bad", "terrible", "horrible", "awful", "sad", "hate", "dislike", "angry",
	"upset", "annoyed", "disappointed", "sorry", "unfortunate", "ugly", "boring",
	"tired", "sick", "hurt", "pain", "cry", "crying", "tears", "depressed",
	"unhappy", "miserable", "stupid", "dumb", "idiot", "sucks", "worst",
)

var stopWords = newSet(
	"the", "and", "for", "that", "this", "with", "you", "your", "can", "are",
	"have", "just",
)

var questionWords = newSet(
	"what", "when", "where", "who", "why", "how", "can", "could", "would",
	"should", "is", "are", "do", "does",
)

func newSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Sentiment classifies text by intersecting its lowercase word set with the
// fixed positive and negative vocabularies. The strictly larger intersection
// wins; ties (including zero matches on both sides) are neutral.
func Sentiment(text string) types.Sentiment {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}

	var positive, negative int
	for w := range seen {
		if _, ok := positiveWords[w]; ok {
			positive++
		}
		if _, ok := negativeWords[w]; ok {
			negative++
		}
	}

	switch {
	case positive > negative:
		return types.SentimentPositive
	case negative > positive:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

// Keywords extracts up to five salient tokens from text: lowercase alphabetic
// tokens of length >= 3 with stopwords removed, ranked by frequency
// descending with ties broken by first occurrence. When five or fewer
// candidate tokens exist the whole candidate list is returned unranked.
func Keywords(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	candidates := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := stopWords[tok]; !stop {
			candidates = append(candidates, tok)
		}
	}

	if len(candidates) <= 5 {
		return candidates
	}

	counts := make(map[string]int, len(candidates))
	firstSeen := make(map[string]int, len(candidates))
	order := make([]string, 0, len(candidates))
	for i, tok := range candidates {
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = i
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(a, b int) bool {
		if counts[order[a]] != counts[order[b]] {
			return counts[order[a]] > counts[order[b]]
		}
		return firstSeen[order[a]] < firstSeen[order[b]]
	})

	if len(order) > 5 {
		order = order[:5]
	}
	return order
}

// IsQuestion reports whether text looks like a question: it either contains
// a question mark or starts with a common interrogative word.
func IsQuestion(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return false
	}
	_, ok := questionWords[fields[0]]
	return ok
}
