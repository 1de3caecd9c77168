package llm

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Validation failure reasons. The pipeline retries once with a reinforced
// prompt on either.
var (
	ErrResponseTooShort = errors.New("response too short")
	ErrResponseRefusal  = errors.New("response is an out-of-character refusal")
)

// minResponseLength is the shortest reply accepted after cleanup, in runes.
const minResponseLength = 10

// refusalMarkers are substrings that indicate the model dropped the
// character and answered as an assistant. Matching is case-insensitive.
var refusalMarkers = []string{
	"i cannot",
	"i can't",
	"i won't",
	"i will not",
	"i'm not able to",
	"i am not able to",
	"i'm unable to",
	"as an ai",
	"as a language model",
	"as an assistant",
	"i'm sorry, but",
	"i am sorry, but",
	"i apologize, but",
	"cannot assist",
	"can't assist",
	"cannot help with",
	"can't help with",
	"not appropriate",
	"inappropriate request",
	"against my guidelines",
	"content policy",
	"i don't feel comfortable",
	"i do not feel comfortable",
}

// ResponseValidator checks provider output before it reaches the user and
// strips speaker-prefix echoes like "Nozara: ...".
type ResponseValidator struct {
	personaName string
}

// NewResponseValidator creates a validator for the named persona.
func NewResponseValidator(personaName string) *ResponseValidator {
	return &ResponseValidator{personaName: personaName}
}

// Validate cleans a raw completion and reports whether it is usable.
// It returns the cleaned text on success, or ErrResponseTooShort /
// ErrResponseRefusal on reject.
func (v *ResponseValidator) Validate(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)

	// Providers sometimes echo the speaker label from the quoted history.
	prefix := v.personaName + ":"
	if strings.HasPrefix(cleaned, prefix) {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
	}
	cleaned = strings.Trim(cleaned, "\"")

	if utf8.RuneCountInString(cleaned) < minResponseLength {
		return "", ErrResponseTooShort
	}

	lower := strings.ToLower(cleaned)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return "", ErrResponseRefusal
		}
	}

	return cleaned, nil
}
