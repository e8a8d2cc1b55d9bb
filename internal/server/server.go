package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmarkhas/lmchat/internal/classifier"
	"github.com/dmarkhas/lmchat/internal/followup"
	"github.com/dmarkhas/lmchat/internal/gateway"
	"github.com/dmarkhas/lmchat/internal/models"
	"github.com/dmarkhas/lmchat/internal/storage"
)

// Primary chat completions run at the backend's conversational settings:
// moderate temperature, unbounded output.
const chatTemperature = 0.7

type Server struct {
	router     *gin.Engine
	gw         gateway.Gateway
	classifier classifier.Classifier
	followups  *followup.Generator
	store      storage.Storage
	logger     *zap.Logger
}

func New(gw gateway.Gateway, clf classifier.Classifier, followups *followup.Generator, store storage.Storage, logger *zap.Logger) *Server {
	s := &Server{
		router:     gin.New(),
		gw:         gw,
		classifier: clf,
		followups:  followups,
		store:      store,
		logger:     logger,
	}

	s.router.Use(gin.Recovery())

	api := s.router.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/continue-chat", s.handleContinueChat)
	api.GET("/sessions", s.handleListSessions)
	api.GET("/sessions/:id", s.handleGetSession)
	api.GET("/sessions/:id/messages", s.handleSessionMessages)
	api.DELETE("/sessions/:id", s.handleDeleteSession)
	api.GET("/analyze-intent", s.handleAnalyzeIntent)
	api.GET("/intent-analysis", s.handleIntentAnalysis)
	api.GET("/intents", s.handleIntents)
	api.GET("/health", s.handleHealth)

	return s
}

func (s *Server) Handler() *gin.Engine {
	return s.router
}

func (s *Server) Run(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// runTurn executes the conversational pipeline for one user message:
// classify, call the chat model with the full history, enrich with a
// follow-up question behind the gating policy, persist the session.
// Classification and enrichment degrade silently; only a failed primary
// completion or a failed save is an error.
func (s *Server) runTurn(ctx context.Context, session *models.ChatSession, message string) (*models.ChatResponse, error) {
	result := s.classifier.Classify(ctx, message)
	keywords := classifier.Keywords(message)
	complexity := classifier.MessageComplexity(message)

	s.logger.Info("Classified message intent",
		zap.String("session_id", session.SessionID),
		zap.String("intent", string(result.Intent)),
		zap.Float64("confidence", result.Confidence),
		zap.String("complexity", string(complexity)))

	confidence := result.Confidence
	session.Messages = append(session.Messages, models.ChatMessage{
		Role:             gateway.RoleUser,
		Content:          message,
		Timestamp:        time.Now(),
		Intent:           string(result.Intent),
		IntentConfidence: &confidence,
		Keywords:         keywords,
		Complexity:       string(complexity),
	})

	turns := make([]gateway.Message, len(session.Messages))
	for i, msg := range session.Messages {
		turns[i] = gateway.Message{Role: msg.Role, Content: msg.Content}
	}

	s.logger.Debug("Sending conversation to LM Studio",
		zap.String("session_id", session.SessionID),
		zap.Int("turns", len(turns)))

	reply, err := s.gw.Complete(ctx, turns, chatTemperature, 0)
	if err != nil {
		return nil, err
	}

	session.Messages = append(session.Messages, models.ChatMessage{
		Role:      gateway.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	})

	response := reply
	if followup.ShouldFollowUp(result.Intent, len(reply)) {
		response = s.followups.AppendBest(ctx, message, reply, result.Intent)
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return &models.ChatResponse{
		SessionID:           session.SessionID,
		Message:             response,
		ConversationHistory: session.Messages,
		UserIntent:          string(result.Intent),
		IntentConfidence:    result.Confidence,
	}, nil
}
