package classifier

import (
	"context"
	"regexp"
	"strings"
)

// Intent is the coarse conversational purpose of a user message. The set is
// closed; labels produced by a generative model outside of it are rejected.
type Intent string

const (
	IntentGreeting    Intent = "greetings"
	IntentQuery       Intent = "query"
	IntentInformation Intent = "information"
	IntentFeedback    Intent = "feedback"
)

// Intents lists every intent in the order used for score iteration and
// tie-breaking: when two intents score equally, the earlier one wins.
var Intents = []Intent{IntentGreeting, IntentQuery, IntentInformation, IntentFeedback}

func (i Intent) Valid() bool {
	switch i {
	case IntentGreeting, IntentQuery, IntentInformation, IntentFeedback:
		return true
	}
	return false
}

// Result is the outcome of classifying one message. Confidence is always
// within [0, 1].
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Classifier determines a message's intent. Classify is total: it never
// fails, falling back to a low-confidence query result when it cannot do
// better.
type Classifier interface {
	Classify(ctx context.Context, message string) Result
}

// Complexity buckets a message by word count.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// MessageComplexity classifies a message as simple (at most 3 words),
// moderate (4-10 words) or complex.
func MessageComplexity(message string) Complexity {
	wordCount := len(strings.Fields(message))
	switch {
	case wordCount <= 3:
		return ComplexitySimple
	case wordCount <= 10:
		return ComplexityModerate
	default:
		return ComplexityComplex
	}
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "can": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {},
}

const maxKeywords = 10

// Keywords extracts up to 10 lowercase keywords from the message, dropping
// stop words and tokens of length 2 or less, preserving first-occurrence
// order.
func Keywords(message string) []string {
	words := wordPattern.FindAllString(strings.ToLower(message), -1)

	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}

	return keywords
}

var intentDescriptions = map[Intent]string{
	IntentGreeting:    "User is greeting or starting a conversation",
	IntentQuery:       "User is asking a question or seeking information",
	IntentInformation: "User is providing information or sharing knowledge",
	IntentFeedback:    "User is giving feedback, thanks, or expressing opinion",
}

// Describe returns a human-readable description of the intent.
func Describe(intent Intent) string {
	if desc, ok := intentDescriptions[intent]; ok {
		return desc
	}
	return "Unknown intent"
}

func clampConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
