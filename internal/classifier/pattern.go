package classifier

import (
	"context"
	"regexp"
	"strings"
)

// PatternConfig tunes the deterministic classifier. The decay constants and
// minimum confidence are heuristics inherited from field use; they are
// configurable rather than derived.
type PatternConfig struct {
	// MinConfidence is the score below which classification falls back to
	// a low-confidence query result.
	MinConfidence float64
	// LengthDecayScale is the message length (in characters) at which the
	// length factor would reach zero if it were not floored.
	LengthDecayScale float64
	// LengthDecayFloor is the lowest the length factor can go.
	LengthDecayFloor float64
}

func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		MinConfidence:    0.1,
		LengthDecayScale: 200,
		LengthDecayFloor: 0.5,
	}
}

var greetingPatterns = []string{
	`\b(hi|hello|hey|good morning|good afternoon|good evening|greetings)\b`,
	`\b(how are you|how do you do|what's up|sup)\b`,
	`\b(nice to meet you|pleased to meet you)\b`,
	`\b(good day|good night)\b`,
	`^[!]*hello[!]*$`,
	`^[!]*hi[!]*$`,
	`^[!]*hey[!]*$`,
}

var queryPatterns = []string{
	`\b(what|how|why|when|where|who|which|can you|could you|would you)\b`,
	`\b(explain|describe|tell me|show me|help me)\b`,
	`\b(how to|how do|how can|how does)\b`,
	`\b(what is|what are|what does|what do)\b`,
	`\b(why is|why are|why does|why do)\b`,
	`\b(when is|when are|when does|when do)\b`,
	`\b(where is|where are|where does|where do)\b`,
	`\b(who is|who are|who does|who do)\b`,
	`\b(which is|which are|which does|which do)\b`,
	`\b(can you|could you|would you|will you)\b`,
	`\b(please|help|assist|support)\b`,
}

var informationPatterns = []string{
	`\b(here is|here are|let me tell you|i want to tell you)\b`,
	`\b(i have|i know|i think|i believe|i feel)\b`,
	`\b(in my opinion|according to|based on)\b`,
	`\b(i want to share|i'd like to share|let me share)\b`,
	`\b(this is|these are|that is|those are)\b`,
	`\b(i found|i discovered|i learned)\b`,
	`\b(update|news|information|data|fact)\b`,
}

var feedbackPatterns = []string{
	`\b(thank you|thanks|thx|thank)\b`,
	`\b(great|awesome|excellent|amazing|wonderful|fantastic)\b`,
	`\b(good|nice|cool|sweet|perfect|brilliant)\b`,
	`\b(bad|terrible|awful|horrible|disappointing)\b`,
	`\b(wrong|incorrect|not right|not correct)\b`,
	`\b(like|love|enjoy|appreciate)\b`,
	`\b(dislike|hate|don't like|not good)\b`,
	`\b(helpful|useful|useless|not helpful)\b`,
	`\b(clear|confusing|unclear|understand|don't understand)\b`,
	`\b(agree|disagree|correct|incorrect)\b`,
	`\b(rate|rating|score|review|feedback)\b`,
	`\b(improve|better|worse|change)\b`,
}

// PatternClassifier scores a message against fixed per-intent regular
// expression tables. It is deterministic and never touches the network.
type PatternClassifier struct {
	config   PatternConfig
	patterns map[Intent][]*regexp.Regexp
}

func NewPatternClassifier(config PatternConfig) *PatternClassifier {
	return &PatternClassifier{
		config: config,
		patterns: map[Intent][]*regexp.Regexp{
			IntentGreeting:    compileAll(greetingPatterns),
			IntentQuery:       compileAll(queryPatterns),
			IntentInformation: compileAll(informationPatterns),
			IntentFeedback:    compileAll(feedbackPatterns),
		},
	}
}

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + pattern)
	}
	return compiled
}

// Classify scores the message against each intent's pattern table and picks
// the highest. Ties go to the earlier intent in the fixed Intents order.
func (c *PatternClassifier) Classify(_ context.Context, message string) Result {
	message = strings.ToLower(strings.TrimSpace(message))
	if message == "" {
		return Result{Intent: IntentQuery, Confidence: c.config.MinConfidence}
	}

	best := Result{Intent: Intents[0], Confidence: c.score(message, c.patterns[Intents[0]])}
	for _, intent := range Intents[1:] {
		if score := c.score(message, c.patterns[intent]); score > best.Confidence {
			best = Result{Intent: intent, Confidence: score}
		}
	}

	if best.Confidence < c.config.MinConfidence {
		return Result{Intent: IntentQuery, Confidence: c.config.MinConfidence}
	}

	return best
}

// score is the fraction of the intent's patterns that match anywhere in the
// message, decayed for longer messages: short messages tend to carry a
// single clear intent.
func (c *PatternClassifier) score(message string, patterns []*regexp.Regexp) float64 {
	if len(patterns) == 0 {
		return 0
	}

	matches := 0
	for _, pattern := range patterns {
		if pattern.MatchString(message) {
			matches++
		}
	}

	base := float64(matches) / float64(len(patterns))

	lengthFactor := 1.0 - float64(len(message))/c.config.LengthDecayScale
	if lengthFactor < c.config.LengthDecayFloor {
		lengthFactor = c.config.LengthDecayFloor
	}

	return clampConfidence(base * lengthFactor)
}

// Matches reports which patterns matched for each intent, for diagnostic
// endpoints.
func (c *PatternClassifier) Matches(message string) map[Intent][]string {
	message = strings.ToLower(message)

	matches := make(map[Intent][]string, len(Intents))
	for _, intent := range Intents {
		matched := []string{}
		for _, pattern := range c.patterns[intent] {
			if pattern.MatchString(message) {
				matched = append(matched, pattern.String())
			}
		}
		matches[intent] = matched
	}
	return matches
}
