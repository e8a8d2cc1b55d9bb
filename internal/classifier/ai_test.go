package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/dmarkhas/lmchat/internal/gateway"
)

type fakeGateway struct {
	response string
	err      error
	calls    int
}

func (f *fakeGateway) Complete(_ context.Context, _ []gateway.Message, _ float32, _ int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGateway) Ping(_ context.Context) error {
	return f.err
}

func TestAIClassifyEmptyInputSkipsGateway(t *testing.T) {
	gw := &fakeGateway{err: errors.New("must not be called")}
	clf := NewAIClassifier(gw, zap.NewNop())

	for _, message := range []string{"", "   "} {
		result := clf.Classify(context.Background(), message)
		assert.Equal(t, IntentQuery, result.Intent)
		assert.Equal(t, 0.1, result.Confidence)
	}
	assert.Zero(t, gw.calls)
}

func TestAIClassifyParsesJSONResponse(t *testing.T) {
	gw := &fakeGateway{response: `{"intent": "greetings", "confidence": 0.98, "reasoning": "Direct greeting"}`}
	clf := NewAIClassifier(gw, zap.NewNop())

	result := clf.Classify(context.Background(), "Hi there!")
	assert.Equal(t, IntentGreeting, result.Intent)
	assert.Equal(t, 0.98, result.Confidence)
	assert.Equal(t, "Direct greeting", result.Reasoning)
	assert.Equal(t, 1, gw.calls)
}

func TestAIClassifyParsesJSONEmbeddedInProse(t *testing.T) {
	gw := &fakeGateway{response: `Sure, here is my classification:
{"intent": "feedback", "confidence": 0.9, "reasoning": "Gratitude"}
Let me know if you need anything else.`}
	clf := NewAIClassifier(gw, zap.NewNop())

	result := clf.Classify(context.Background(), "thanks!")
	assert.Equal(t, IntentFeedback, result.Intent)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestAIClassifyClampsConfidence(t *testing.T) {
	gw := &fakeGateway{response: `{"intent": "query", "confidence": 1.7}`}
	clf := NewAIClassifier(gw, zap.NewNop())

	result := clf.Classify(context.Background(), "what time is it")
	assert.Equal(t, IntentQuery, result.Intent)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestAIClassifyRejectsUnknownLabel(t *testing.T) {
	gw := &fakeGateway{response: `{"intent": "chitchat", "confidence": 0.9}`}
	clf := NewAIClassifier(gw, zap.NewNop())

	// Unknown labels never extend the intent set; this is a parse miss.
	result := clf.Classify(context.Background(), "hmm")
	assert.Equal(t, IntentQuery, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestAIClassifyFallsBackToTextScan(t *testing.T) {
	gw := &fakeGateway{response: "The message reads as feedback to me."}
	clf := NewAIClassifier(gw, zap.NewNop())

	result := clf.Classify(context.Background(), "great work")
	assert.Equal(t, IntentFeedback, result.Intent)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestAIClassifyTextScanReadsNumeralAsConfidence(t *testing.T) {
	gw := &fakeGateway{response: "I would call this a query, about 90 percent sure."}
	clf := NewAIClassifier(gw, zap.NewNop())

	// Values above 1 are read as percentages.
	result := clf.Classify(context.Background(), "how does this work")
	assert.Equal(t, IntentQuery, result.Intent)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestAIClassifyTextScanRequiresWholeWord(t *testing.T) {
	gw := &fakeGateway{response: "This is a subquerying misinformational response."}
	clf := NewAIClassifier(gw, zap.NewNop())

	result := clf.Classify(context.Background(), "hello there everyone")
	assert.Equal(t, IntentQuery, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestAIClassifyUnparseableResponse(t *testing.T) {
	gw := &fakeGateway{response: "lorem ipsum dolor sit amet"}
	clf := NewAIClassifier(gw, zap.NewNop())

	result := clf.Classify(context.Background(), "anything at all")
	assert.Equal(t, IntentQuery, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestAIClassifyGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: &gateway.Error{StatusCode: 500, Body: "boom"}}
	clf := NewAIClassifier(gw, zap.NewNop())

	// Distinguishable from both the empty-input 0.1 and the parse-miss 0.5.
	result := clf.Classify(context.Background(), "what is the weather")
	assert.Equal(t, IntentQuery, result.Intent)
	assert.Equal(t, 0.3, result.Confidence)
}
