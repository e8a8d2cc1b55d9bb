package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dmarkhas/lmchat/internal/gateway"
)

// Classification prompts run at low temperature with a bounded token budget
// to keep the model's output as predictable as a free-text contract allows.
const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 200

	// Confidence assigned when the gateway call itself fails. Kept above
	// the empty-input default so the two cases stay distinguishable.
	gatewayFailureConfidence = 0.3
	// Confidence assigned when the response came back but no usable
	// intent could be extracted from it.
	parseMissConfidence = 0.5
	// Confidence assigned to a bare label found by text scan when the
	// response carries no numeral of its own.
	textScanConfidence = 0.8

	emptyInputConfidence = 0.1
)

type intentDefinition struct {
	intent   Intent
	examples []string
}

var intentDefinitions = []intentDefinition{
	{IntentGreeting, []string{
		"Hello", "Hi there", "Good morning", "Hey", "How are you?",
		"What's up?", "Nice to meet you", "Good day", "Greetings",
		"Howdy", "Sup", "Yo", "Good evening", "Good afternoon",
	}},
	{IntentQuery, []string{
		"What is...", "How do I...", "Can you help me...", "Explain...",
		"Tell me about...", "I need help with...", "How does... work?",
		"What do you think about...", "Can you explain...", "I'm wondering...",
		"Do you know...", "Could you tell me...", "I want to know...",
	}},
	{IntentInformation, []string{
		"I want to tell you...", "Here's what I know...", "Let me share...",
		"I think that...", "In my opinion...", "I believe...", "I feel...",
		"This is...", "That's interesting because...", "I found out that...",
		"I learned that...", "I discovered...", "I know that...",
	}},
	{IntentFeedback, []string{
		"Thank you", "That's helpful", "I like this", "Great job",
		"That's awesome", "I love it", "This is terrible", "I hate this",
		"That's wrong", "I disagree", "I agree", "That's correct",
		"This is confusing", "I don't understand", "That makes sense",
		"Thanks a lot", "Much appreciated", "That's amazing", "This sucks",
	}},
}

// AIClassifier asks the text generation gateway to label the message. The
// gateway offers no output contract, so parsing is a fallback chain:
// embedded JSON object, then a whole-word label scan, then a fixed default.
// Classify never fails outward.
type AIClassifier struct {
	gw     gateway.Gateway
	prompt string
	logger *zap.Logger
}

func NewAIClassifier(gw gateway.Gateway, logger *zap.Logger) *AIClassifier {
	return &AIClassifier{
		gw:     gw,
		prompt: buildClassificationPrompt(),
		logger: logger,
	}
}

func buildClassificationPrompt() string {
	var b strings.Builder
	b.WriteString("You are an expert at classifying user messages into intent categories. \n\nINTENT CATEGORIES:\n")

	for _, def := range intentDefinitions {
		fmt.Fprintf(&b, "\n%s:\n- Description: %s\n- Examples: %s...\n",
			strings.ToUpper(string(def.intent)),
			Describe(def.intent),
			strings.Join(def.examples[:5], ", "))
	}

	b.WriteString(`

TASK:
Classify the given user message into ONE of the four intent categories above.

RULES:
1. Choose the MOST APPROPRIATE category based on the message's primary purpose
2. Consider the context and underlying meaning, not just keywords
3. If a message could fit multiple categories, choose the most dominant one
4. Be flexible with language variations, slang, and informal expressions
5. Consider the user's intent, not just the literal words

RESPONSE FORMAT:
Respond with ONLY a JSON object in this exact format:
{
    "intent": "category_name",
    "confidence": 0.95,
    "reasoning": "Brief explanation of why this category was chosen"
}

EXAMPLES:
Message: "Hi there!"
Response: {"intent": "greetings", "confidence": 0.98, "reasoning": "Direct greeting"}

Message: "What's the weather like?"
Response: {"intent": "query", "confidence": 0.95, "reasoning": "Asking for information"}

Message: "I think this is a great idea"
Response: {"intent": "information", "confidence": 0.90, "reasoning": "Sharing an opinion"}

Message: "Thanks for your help!"
Response: {"intent": "feedback", "confidence": 0.95, "reasoning": "Expressing gratitude"}

Now classify this message:`)

	return b.String()
}

func (c *AIClassifier) Classify(ctx context.Context, message string) Result {
	if strings.TrimSpace(message) == "" {
		return Result{Intent: IntentQuery, Confidence: emptyInputConfidence}
	}

	fullPrompt := fmt.Sprintf("%s\n\nMessage: %q\n\nResponse:", c.prompt, message)

	response, err := c.gw.Complete(ctx, []gateway.Message{
		{Role: gateway.RoleUser, Content: fullPrompt},
	}, classifyTemperature, classifyMaxTokens)
	if err != nil {
		c.logger.Warn("Intent classification call failed, using default",
			zap.Error(err))
		return Result{Intent: IntentQuery, Confidence: gatewayFailureConfidence}
	}

	if result, ok := parseClassification(response); ok {
		return result
	}

	c.logger.Debug("Could not extract intent from model response",
		zap.String("response", response))
	return Result{Intent: IntentQuery, Confidence: parseMissConfidence}
}

var (
	embeddedJSONPattern = regexp.MustCompile(`\{[^}]*"intent"[^}]*\}`)
	numeralPattern      = regexp.MustCompile(`\d+\.?\d*`)

	labelPatterns = func() map[Intent]*regexp.Regexp {
		patterns := make(map[Intent]*regexp.Regexp, len(Intents))
		for _, intent := range Intents {
			patterns[intent] = regexp.MustCompile(`\b` + string(intent) + `\b`)
		}
		return patterns
	}()
)

// parseClassification walks the extraction chain over the raw model output:
// a JSON object carrying an "intent" key wins, otherwise the text is scanned
// for a bare intent label.
func parseClassification(response string) (Result, bool) {
	response = strings.TrimSpace(response)

	if match := embeddedJSONPattern.FindString(response); match != "" {
		var parsed struct {
			Intent     string  `json:"intent"`
			Confidence float64 `json:"confidence"`
			Reasoning  string  `json:"reasoning"`
		}
		if err := json.Unmarshal([]byte(match), &parsed); err == nil {
			intent := Intent(strings.ToLower(parsed.Intent))
			if intent.Valid() {
				return Result{
					Intent:     intent,
					Confidence: clampConfidence(parsed.Confidence),
					Reasoning:  parsed.Reasoning,
				}, true
			}
		}
	}

	return extractIntentFromText(response)
}

// extractIntentFromText salvages an intent from free text: the first intent
// label appearing as a whole word wins, with any bare numeral in the text
// reinterpreted as a confidence (values above 1 are read as percentages).
func extractIntentFromText(response string) (Result, bool) {
	lowered := strings.ToLower(response)

	for _, intent := range Intents {
		if !labelPatterns[intent].MatchString(lowered) {
			continue
		}

		confidence := textScanConfidence
		if numeral := numeralPattern.FindString(response); numeral != "" {
			if value, err := strconv.ParseFloat(numeral, 64); err == nil {
				if value > 1 {
					value /= 100
				}
				confidence = value
			}
		}

		return Result{
			Intent:     intent,
			Confidence: clampConfidence(confidence),
			Reasoning:  "Extracted from text response",
		}, true
	}

	return Result{}, false
}
