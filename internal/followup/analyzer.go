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
	analyzeTemperature = 0.3
	analyzeMaxTokens   = 150

	// Replies are truncated before being embedded in the analysis prompt
	// to bound prompt size.
	analyzeReplyLimit = 500

	maxTopics = 3
)

// Characterization is the analyzer's structured summary of a reply, used to
// steer follow-up question phrasing. A total default exists, so analysis can
// always produce a value.
type Characterization struct {
	Category     string
	Topics       []string
	Complexity   string
	Completeness string
	Exploration  string
}

func defaultCharacterization() Characterization {
	return Characterization{
		Category:     "general",
		Topics:       []string{"general information"},
		Complexity:   "moderate",
		Completeness: "complete",
		Exploration:  "general aspects",
	}
}

// Analyzer asks the gateway to characterize a generated reply along fixed
// axes. Analyze never fails outward: any gateway or parse miss yields the
// default characterization.
type Analyzer struct {
	gw     gateway.Gateway
	logger *zap.Logger
}

func NewAnalyzer(gw gateway.Gateway, logger *zap.Logger) *Analyzer {
	return &Analyzer{gw: gw, logger: logger}
}

func (a *Analyzer) Analyze(ctx context.Context, reply string, intent classifier.Intent) Characterization {
	truncated := reply
	if len(truncated) > analyzeReplyLimit {
		truncated = truncated[:analyzeReplyLimit]
	}

	prompt := fmt.Sprintf(`Analyze this AI response and determine the best follow-up approach:

AI Response: %q
User Intent: %s

Determine:
1. Response type: technical, practical, general, comparative, or educational
2. Main topics mentioned (list 2-3 key topics)
3. Complexity level: simple, moderate, or complex
4. Whether it's a complete answer or needs more detail
5. What aspects could be explored further

Respond in this format:
Type: [response_type]
Topics: [topic1, topic2, topic3]
Complexity: [complexity_level]
Completeness: [complete/partial/overview]
Exploration: [what can be explored further]
`, truncated, intent)

	response, err := a.gw.Complete(ctx, []gateway.Message{
		{Role: gateway.RoleUser, Content: prompt},
	}, analyzeTemperature, analyzeMaxTokens)
	if err != nil {
		a.logger.Warn("Response analysis call failed, using defaults",
			zap.Error(err))
		return defaultCharacterization()
	}

	return parseCharacterization(response)
}

// parseCharacterization reads the line-prefixed analysis format. Recognized
// prefixes overwrite the default fields; everything else is ignored.
func parseCharacterization(response string) Characterization {
	analysis := defaultCharacterization()

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		prefix, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch strings.TrimSpace(prefix) {
		case "Type":
			analysis.Category = strings.ToLower(value)
		case "Topics":
			topics := []string{}
			for _, topic := range strings.Split(value, ",") {
				if topic = strings.TrimSpace(topic); topic != "" {
					topics = append(topics, topic)
				}
				if len(topics) == maxTopics {
					break
				}
			}
			if len(topics) > 0 {
				analysis.Topics = topics
			}
		case "Complexity":
			analysis.Complexity = strings.ToLower(value)
		case "Completeness":
			analysis.Completeness = strings.ToLower(value)
		case "Exploration":
			analysis.Exploration = value
		}
	}

	return analysis
}
