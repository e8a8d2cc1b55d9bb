package followup

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dmarkhas/lmchat/internal/classifier"
	"github.com/dmarkhas/lmchat/internal/gateway"
)

const (
	// Question generation runs hotter than classification: variety matters
	// more than consistency here.
	generateTemperature = 0.7
	generateMaxTokens   = 200

	// User messages are truncated before being embedded in the generation
	// prompt.
	generateMessageLimit = 200

	maxQuestions = 3

	// Candidate lines shorter than this after cleanup are degenerate
	// fragments, not questions.
	minQuestionLength = 10

	// Follow-ups are suppressed for replies shorter than this.
	minReplyLength = 50

	enumerationCutset = "•-*123456789. "
)

var fallbackQuestions = map[classifier.Intent][]string{
	classifier.IntentQuery: {
		"Would you like to know more about this?",
		"Do you want me to explain this in more detail?",
		"Should I tell you more about this topic?",
	},
	classifier.IntentInformation: {
		"Would you like to explore this further?",
		"Do you want to know more about this?",
		"Should I dive deeper into this topic?",
	},
}

var genericFallbackQuestions = []string{
	"Would you like to know more about this?",
	"Do you want to explore this further?",
	"Should I tell you more about this?",
}

// Generator produces candidate follow-up questions for a conversation turn
// by chaining two generative calls: an analysis of the reply, then a
// question-generation prompt seeded with that analysis. Every stage degrades
// to fixed fallbacks, so enrichment never blocks the primary reply.
type Generator struct {
	gw       gateway.Gateway
	analyzer *Analyzer
	logger   *zap.Logger
}

func NewGenerator(gw gateway.Gateway, logger *zap.Logger) *Generator {
	return &Generator{
		gw:       gw,
		analyzer: NewAnalyzer(gw, logger),
		logger:   logger,
	}
}

// ShouldFollowUp decides whether follow-up generation runs at all. Greetings
// and short replies are not enriched.
func ShouldFollowUp(intent classifier.Intent, replyLength int) bool {
	if intent == classifier.IntentGreeting || replyLength < minReplyLength {
		return false
	}

	switch intent {
	case classifier.IntentQuery, classifier.IntentInformation, classifier.IntentFeedback:
		return true
	}
	return false
}

// Generate returns up to 3 follow-up questions, best first. On gateway
// failure it returns the intent-specific fallback list.
func (g *Generator) Generate(ctx context.Context, userMessage, reply string, intent classifier.Intent) []string {
	analysis := g.analyzer.Analyze(ctx, reply, intent)

	questions, err := g.generateQuestions(ctx, userMessage, analysis)
	if err != nil {
		g.logger.Warn("Follow-up generation failed, using fallback questions",
			zap.Error(err),
			zap.String("intent", string(intent)))
		return Fallback(intent)
	}

	g.logger.Debug("Generated follow-up questions",
		zap.Int("count", len(questions)),
		zap.String("intent", string(intent)))
	return questions
}

// AppendBest enriches the reply with the best follow-up question. An empty
// candidate list, or any failure along the way, leaves the reply unchanged.
func (g *Generator) AppendBest(ctx context.Context, userMessage, reply string, intent classifier.Intent) string {
	questions := g.Generate(ctx, userMessage, reply, intent)
	if len(questions) == 0 {
		return reply
	}

	best := strings.Trim(questions[0], `"`)
	if best == "" {
		return reply
	}

	return reply + "\n\n" + best
}

func (g *Generator) generateQuestions(ctx context.Context, userMessage string, analysis Characterization) ([]string, error) {
	truncated := userMessage
	if len(truncated) > generateMessageLimit {
		truncated = truncated[:generateMessageLimit]
	}

	prompt := fmt.Sprintf(`Based on this conversation, generate 2-3 engaging follow-up questions:

User asked: %q
AI responded about: %s
Response type: %s
Complexity: %s

Generate follow-up questions that:
1. Are natural and conversational
2. Encourage deeper exploration
3. Match the user's interest level
4. Are specific to the topics discussed
5. Use varied question formats (would you like, do you want, should I, etc.)

Examples of good follow-up questions:
- "Would you like to dive deeper into [specific topic]?"
- "Do you want to know more about [specific aspect]?"
- "Should I explain [related concept] in more detail?"
- "Would you like to see some examples of [topic]?"
- "Do you want to explore [specific area] further?"

Generate 2-3 questions, one per line, without numbering or bullet points.
`, truncated, strings.Join(analysis.Topics, ", "), analysis.Category, analysis.Complexity)

	response, err := g.gw.Complete(ctx, []gateway.Message{
		{Role: gateway.RoleUser, Content: prompt},
	}, generateTemperature, generateMaxTokens)
	if err != nil {
		return nil, err
	}

	return parseQuestions(response), nil
}

// parseQuestions extracts question candidates from model output: one per
// line, enumeration markers stripped, each required to contain a question
// mark and clear the minimum length. When no line qualifies, sentence
// fragments containing a question mark are tried instead.
func parseQuestions(response string) []string {
	questions := []string{}

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "?") {
			continue
		}

		question := strings.Trim(line, enumerationCutset)
		if len(question) > minQuestionLength {
			questions = append(questions, question)
		}
	}

	if len(questions) == 0 {
		for _, sentence := range strings.Split(response, ".") {
			if !strings.Contains(sentence, "?") {
				continue
			}
			if question := strings.TrimSpace(sentence); len(question) > minQuestionLength {
				questions = append(questions, question)
			}
		}
	}

	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	return questions
}

// Fallback returns the fixed fallback question list for the intent.
func Fallback(intent classifier.Intent) []string {
	if questions, ok := fallbackQuestions[intent]; ok {
		return questions
	}
	return genericFallbackQuestions
}
