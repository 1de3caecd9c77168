// Package types defines the core data structures for the chat responder:
// topics, sentiment labels, user profiles, learned facts, and conversation
// history records shared between the analyzer, the stores, and the pipeline.
package types

// Sentiment is the coarse polarity label produced by the text analyzer.
type Sentiment string

const (
	// SentimentPositive indicates the message leans positive
	SentimentPositive Sentiment = "positive"

	// SentimentNegative indicates the message leans negative
	SentimentNegative Sentiment = "negative"

	// SentimentNeutral indicates no clear polarity (including ties)
	SentimentNeutral Sentiment = "neutral"
)

// Topic is the classification label attached to a single inbound message.
// It drives prompt guidance, provider routing, and emergency reply choice.
// Topics are derived per message and never persisted.
type Topic string

const (
	TopicGreeting     Topic = "greeting"
	TopicPersonal     Topic = "personal"
	TopicArt          Topic = "art"
	TopicLiterature   Topic = "literature"
	TopicMusic        Topic = "music"
	TopicPhilosophy   Topic = "philosophy"
	TopicTechnology   Topic = "technology"
	TopicAnime        Topic = "anime"
	TopicGames        Topic = "games"
	TopicFood         Topic = "food"
	TopicWeather      Topic = "weather"
	TopicOccult       Topic = "occult"
	TopicRomance      Topic = "romance"
	TopicNSFWMild     Topic = "nsfw_mild"
	TopicNSFWExplicit Topic = "nsfw_explicit"
	TopicDefault      Topic = "default"
)

// IsNSFW reports whether the topic belongs to the NSFW family. The pipeline
// uses this for temperature selection and emergency reply choice.
func (t Topic) IsNSFW() bool {
	return t == TopicNSFWMild || t == TopicNSFWExplicit
}

// FactType identifies the kind of a learned user fact. One value per type
// per user; the latest write overwrites.
type FactType string

const (
	FactName     FactType = "name"
	FactLocation FactType = "location"
	FactHobby    FactType = "hobby"
	FactJob      FactType = "job"
	FactAge      FactType = "age"
)

// Origin marks which side of the conversation a stored message came from.
type Origin string

const (
	// OriginUser marks a message sent by the user
	OriginUser Origin = "user"

	// OriginCharacter marks a reply produced by the character
	OriginCharacter Origin = "character"
)

// MinAffection and MaxAffection bound the affection score. Every update
// clamps into this range.
const (
	MinAffection = 0
	MaxAffection = 100
)

// ClampAffection forces an affection value into [MinAffection, MaxAffection].
func ClampAffection(v int) int {
	if v < MinAffection {
		return MinAffection
	}
	if v > MaxAffection {
		return MaxAffection
	}
	return v
}
