// Package facts extracts durable user facts (location, hobby, job, age) and
// name introductions from free-form chat messages using ordered regex rule
// lists. Only the first matching pattern per category is tried; later
// patterns in that category are skipped once one succeeds.
package facts

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

// FactWriter is the slice of the fact store the extractor needs.
type FactWriter interface {
	StoreFact(ctx context.Context, userID string, factType types.FactType, value string) error
}

// category holds the ordered rule list and acceptance filter for one fact type.
type category struct {
	factType types.FactType
	patterns []*regexp.Regexp
	accept   func(value string) bool
}

var locationBlacklist = map[string]struct{}{
	"here": {}, "there": {}, "anywhere": {},
}

var jobBlacklist = map[string]struct{}{
	"student": {}, "person": {}, "human": {}, "fan": {}, "friend": {}, "gamer": {},
}

// Pattern order within a category matters: the first hit wins.
var categories = []category{
	{
		factType: types.FactLocation,
		patterns: compile(
			`i(?:'m| am) from ([\w\s]+)`,
			`i live in ([\w\s]+)`,
			`my home is (?:in|at) ([\w\s]+)`,
		),
		accept: func(v string) bool {
			if len(v) <= 2 {
				return false
			}
			_, banned := locationBlacklist[v]
			return !banned
		},
	},
	{
		factType: types.FactHobby,
		patterns: compile(
			`i (?:like|love|enjoy) ([\w\s]+ing)`,
			`i'm into ([\w\s]+)`,
			`my hobby is ([\w\s]+)`,
			`i (?:like|love|enjoy) to ([\w\s]+)`,
		),
		accept: func(v string) bool { return len(v) > 2 },
	},
	{
		factType: types.FactJob,
		patterns: compile(
			`i(?:'m| am) (?:a|an) ([\w\s]+)`,
			`i work as (?:a|an) ([\w\s]+)`,
			`my job is (?:a|an) ([\w\s]+)`,
		),
		accept: func(v string) bool {
			if len(v) <= 2 {
				return false
			}
			_, banned := jobBlacklist[v]
			return !banned
		},
	},
	{
		factType: types.FactAge,
		patterns: compile(
			`i(?:'m| am) (\d+) years old`,
			`my age is (\d+)`,
			`i'm (\d+)`,
		),
		accept: func(v string) bool {
			age, err := strconv.Atoi(v)
			return err == nil && age >= 5 && age <= 120
		},
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		compiled[i] = regexp.MustCompile(expr)
	}
	return compiled
}

// clauseCutPoints end a captured value: greedy [\w\s]+ captures run until
// end of message, so the value is trimmed back to its first clause.
var clauseCutPoints = []string{" and ", " but ", " because ", " so ", " which "}

// trimClause normalizes a raw capture to its first clause, lowercase and
// whitespace-trimmed. This is the fixed normalization policy: stored fact
// values are lowercase single clauses ("berlin", "teacher").
func trimClause(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, cut := range clauseCutPoints {
		if i := strings.Index(v, cut); i >= 0 {
			v = v[:i]
		}
	}
	return strings.TrimSpace(v)
}

// Extractor applies the category rule lists to inbound messages and writes
// accepted facts through a FactWriter.
type Extractor struct {
	store FactWriter
}

// NewExtractor creates an Extractor writing into store.
func NewExtractor(store FactWriter) *Extractor {
	return &Extractor{store: store}
}

// Extract scans the lowercased message for facts and stores every accepted
// value. It returns the facts found this pass; categories with no match are
// simply absent. Store failures are logged and skipped, never surfaced:
// losing a fact must not break response generation.
func (e *Extractor) Extract(ctx context.Context, userID, message string) []types.Fact {
	lower := strings.ToLower(message)

	var found []types.Fact
	for _, cat := range categories {
		for _, p := range cat.patterns {
			m := p.FindStringSubmatch(lower)
			if m == nil {
				continue
			}
			value := trimClause(m[1])
			if value != "" && cat.accept(value) {
				if err := e.store.StoreFact(ctx, userID, cat.factType, value); err != nil {
					log.Printf("[facts] store %s fact: %v", cat.factType, err)
				} else {
					found = append(found, types.Fact{UserID: userID, Type: cat.factType, Value: value})
				}
			}
			break // first matching pattern per category wins
		}
	}
	return found
}

// namePhrases are scanned before generic extraction; a hit short-circuits
// normal response generation with a name acknowledgment.
var namePhrases = []string{"my name is", "i am called", "call me"}

// DetectName looks for a name introduction phrase and returns the
// capitalized first word that follows it, trailing punctuation stripped.
func DetectName(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, phrase := range namePhrases {
		i := strings.Index(lower, phrase)
		if i < 0 {
			continue
		}
		rest := strings.TrimSpace(lower[i+len(phrase):])
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		name := strings.Trim(fields[0], ".!?,;:")
		if name == "" {
			continue
		}
		return strings.ToUpper(name[:1]) + name[1:], true
	}
	return "", false
}
