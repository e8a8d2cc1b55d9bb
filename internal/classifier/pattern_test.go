package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPatternClassifier() *PatternClassifier {
	return NewPatternClassifier(DefaultPatternConfig())
}

func TestPatternClassifyEmptyInput(t *testing.T) {
	clf := newPatternClassifier()

	for _, message := range []string{"", "   ", "\n\t "} {
		result := clf.Classify(context.Background(), message)
		assert.Equal(t, IntentQuery, result.Intent, "message: %q", message)
		assert.Equal(t, 0.1, result.Confidence, "message: %q", message)
	}
}

func TestPatternClassifyGreeting(t *testing.T) {
	clf := newPatternClassifier()

	for _, message := range []string{"hi", "Hello!", "hey", "good morning", "Nice to meet you"} {
		result := clf.Classify(context.Background(), message)
		assert.Equal(t, IntentGreeting, result.Intent, "message: %q", message)
		assert.GreaterOrEqual(t, result.Confidence, 0.1, "message: %q", message)
	}
}

func TestPatternClassifyQuery(t *testing.T) {
	clf := newPatternClassifier()

	result := clf.Classify(context.Background(), "What is the capital of France")
	assert.Equal(t, IntentQuery, result.Intent)
	assert.Greater(t, result.Confidence, 0.1)
}

func TestPatternClassifyInformation(t *testing.T) {
	clf := newPatternClassifier()

	result := clf.Classify(context.Background(), "I want to tell you some news")
	assert.Equal(t, IntentInformation, result.Intent)
}

func TestPatternClassifyFeedback(t *testing.T) {
	clf := newPatternClassifier()

	result := clf.Classify(context.Background(), "thanks, that was awesome")
	assert.Equal(t, IntentFeedback, result.Intent)
}

func TestPatternClassifyNoMatchFallsBackToQuery(t *testing.T) {
	clf := newPatternClassifier()

	result := clf.Classify(context.Background(), "xylophone zebra quartz")
	assert.Equal(t, IntentQuery, result.Intent)
	assert.Equal(t, 0.1, result.Confidence)
}

func TestPatternClassifyConfidenceBounds(t *testing.T) {
	clf := newPatternClassifier()

	messages := []string{
		"hi",
		"what is this and how does it work and why would you explain it please help",
		"thanks thanks thanks great awesome nice perfect love it helpful clear agree rate improve",
		"I think I know I believe I feel that this is based on a fact update news information data",
	}
	for _, message := range messages {
		result := clf.Classify(context.Background(), message)
		assert.GreaterOrEqual(t, result.Confidence, 0.0, "message: %q", message)
		assert.LessOrEqual(t, result.Confidence, 1.0, "message: %q", message)
		assert.True(t, result.Intent.Valid(), "message: %q", message)
	}
}

func TestPatternClassifyIsDeterministic(t *testing.T) {
	clf := newPatternClassifier()

	message := "could you explain how the weather works"
	first := clf.Classify(context.Background(), message)
	second := clf.Classify(context.Background(), message)
	assert.Equal(t, first, second)
}

func TestPatternClassifyLengthDecay(t *testing.T) {
	clf := newPatternClassifier()

	short := clf.Classify(context.Background(), "what is this")
	long := clf.Classify(context.Background(),
		"what is this thing over here I found lying around in the garden yesterday "+
			"when I was outside looking at all the plants and flowers near the old fence")

	require.Equal(t, IntentQuery, short.Intent)
	require.Equal(t, IntentQuery, long.Intent)
	assert.Greater(t, short.Confidence, long.Confidence)
}

func TestPatternMatches(t *testing.T) {
	clf := newPatternClassifier()

	matches := clf.Matches("hello, can you help me")
	assert.NotEmpty(t, matches[IntentGreeting])
	assert.NotEmpty(t, matches[IntentQuery])
	assert.Empty(t, matches[IntentInformation])
}
