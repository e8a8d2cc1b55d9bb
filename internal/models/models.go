package models

import "time"

// ChatMessage is one turn of a conversation. Intent fields are only set on
// user messages, and only when classification ran for that turn.
type ChatMessage struct {
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp"`
	Intent           string    `json:"intent,omitempty"`
	IntentConfidence *float64  `json:"intent_confidence,omitempty"`
	Keywords         []string  `json:"keywords,omitempty"`
	Complexity       string    `json:"complexity,omitempty"`
}

// ChatSession is a full conversation, ordered oldest first.
type ChatSession struct {
	SessionID string        `json:"session_id"`
	CreatedAt time.Time     `json:"created_at"`
	Messages  []ChatMessage `json:"messages"`
}

// ChatRequest starts a new chat session.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ContinueChatRequest adds a turn to an existing session.
type ContinueChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

// ChatResponse is returned by both chat endpoints.
type ChatResponse struct {
	SessionID           string        `json:"session_id"`
	Message             string        `json:"message"`
	ConversationHistory []ChatMessage `json:"conversation_history"`
	UserIntent          string        `json:"user_intent,omitempty"`
	IntentConfidence    float64       `json:"intent_confidence"`
}

// IntentAnalysis is the standalone intent inspection result.
type IntentAnalysis struct {
	Intent      string   `json:"intent"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Complexity  string   `json:"complexity"`
}
