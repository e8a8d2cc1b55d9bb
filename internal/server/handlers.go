package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmarkhas/lmchat/internal/classifier"
	"github.com/dmarkhas/lmchat/internal/gateway"
	"github.com/dmarkhas/lmchat/internal/models"
	"github.com/dmarkhas/lmchat/internal/storage"
)

func (s *Server) handleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := &models.ChatSession{
		SessionID: uuid.New().String(),
		CreatedAt: time.Now(),
	}

	s.logger.Info("New chat request received",
		zap.String("session_id", session.SessionID))

	response, err := s.runTurn(c.Request.Context(), session, req.Message)
	if err != nil {
		s.respondTurnError(c, session.SessionID, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) handleContinueChat(c *gin.Context) {
	var req models.ContinueChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := s.store.GetSession(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		s.logger.Error("Failed to load session",
			zap.Error(err),
			zap.String("session_id", req.SessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	s.logger.Info("Continuing existing session",
		zap.String("session_id", req.SessionID),
		zap.Int("messages", len(session.Messages)))

	response, err := s.runTurn(c.Request.Context(), session, req.Message)
	if err != nil {
		s.respondTurnError(c, req.SessionID, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) respondTurnError(c *gin.Context, sessionID string, err error) {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		s.logger.Error("Chat completion failed",
			zap.Error(err),
			zap.String("session_id", sessionID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Text generation backend unavailable"})
		return
	}

	s.logger.Error("Chat turn failed",
		zap.Error(err),
		zap.String("session_id", sessionID))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) handleListSessions(c *gin.Context) {
	ids, err := s.store.ListSessions(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to list sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sessions"})
		return
	}

	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ids)
}

func (s *Server) handleGetSession(c *gin.Context) {
	sessionID := c.Param("id")

	session, err := s.store.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		s.logger.Error("Failed to load session",
			zap.Error(err),
			zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) handleSessionMessages(c *gin.Context) {
	sessionID := c.Param("id")

	session, err := s.store.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		s.logger.Error("Failed to load session messages",
			zap.Error(err),
			zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	c.JSON(http.StatusOK, session.Messages)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := s.store.DeleteSession(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		s.logger.Error("Failed to delete session",
			zap.Error(err),
			zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}

	s.logger.Info("Session deleted", zap.String("session_id", sessionID))
	c.JSON(http.StatusOK, gin.H{
		"message":    "Session deleted successfully",
		"session_id": sessionID,
	})
}

func (s *Server) handleAnalyzeIntent(c *gin.Context) {
	message := c.Query("message")
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message query parameter is required"})
		return
	}

	result := s.classifier.Classify(c.Request.Context(), message)

	analysis := models.IntentAnalysis{
		Intent:      string(result.Intent),
		Confidence:  result.Confidence,
		Description: classifier.Describe(result.Intent),
		Keywords:    classifier.Keywords(message),
		Complexity:  string(classifier.MessageComplexity(message)),
	}

	s.logger.Info("Intent analysis completed",
		zap.String("intent", analysis.Intent),
		zap.Float64("confidence", analysis.Confidence))

	c.JSON(http.StatusOK, analysis)
}

// patternMatcher is implemented by classifiers that can report which
// patterns matched per intent.
type patternMatcher interface {
	Matches(message string) map[classifier.Intent][]string
}

func (s *Server) handleIntentAnalysis(c *gin.Context) {
	message := c.Query("message")
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message query parameter is required"})
		return
	}

	result := s.classifier.Classify(c.Request.Context(), message)

	analysis := gin.H{
		"intent":         string(result.Intent),
		"confidence":     result.Confidence,
		"description":    classifier.Describe(result.Intent),
		"keywords":       classifier.Keywords(message),
		"complexity":     string(classifier.MessageComplexity(message)),
		"message_length": len(message),
		"word_count":     len(strings.Fields(message)),
	}

	if matcher, ok := s.classifier.(patternMatcher); ok {
		analysis["pattern_matches"] = matcher.Matches(message)
	}

	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleIntents(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{
			"intent":      string(classifier.IntentGreeting),
			"description": classifier.Describe(classifier.IntentGreeting),
			"examples":    "Hello, Hi there, Good morning, How are you?",
		},
		{
			"intent":      string(classifier.IntentQuery),
			"description": classifier.Describe(classifier.IntentQuery),
			"examples":    "What is..., How do I..., Can you help me..., Explain...",
		},
		{
			"intent":      string(classifier.IntentInformation),
			"description": classifier.Describe(classifier.IntentInformation),
			"examples":    "I want to tell you..., Here's what I know..., Let me share...",
		},
		{
			"intent":      string(classifier.IntentFeedback),
			"description": classifier.Describe(classifier.IntentFeedback),
			"examples":    "Thank you, That's helpful, I like this, Great job",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	err := s.gw.Ping(c.Request.Context())

	status := "healthy"
	message := "Service is running"
	if err != nil {
		status = "degraded"
		message = "LM Studio connection failed"
		s.logger.Warn("Health check: backend unreachable", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              status,
		"lm_studio_connected": err == nil,
		"timestamp":           time.Now().Format(time.RFC3339),
		"message":             message,
	})
}
