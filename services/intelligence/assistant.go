// File: services/intelligence/assistant.go
package ai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"eisenflow/models"
)

// DefaultAssistantService implements AssistantService with a Gemini model and
// a Redis-backed conversation context.
type DefaultAssistantService struct {
	client   *GeminiClient
	ctxStore *RedisContextStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewDefaultAssistantService(client *GeminiClient, ctxStore *RedisContextStore, logger *zap.Logger) *DefaultAssistantService {
	return &DefaultAssistantService{
		client:   client,
		ctxStore: ctxStore,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *DefaultAssistantService) Chat(ctx context.Context, req models.AssistantRequest, tasks []models.Task) (*models.AssistantResponse, error) {
	aiCtx, err := s.ctxStore.Get(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("assistant context load failed, starting fresh", zap.Error(err))
		aiCtx = &models.AssistantContext{}
	}

	system, err := buildAssistantPrompt(tasks, s.now())
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(system)
	for _, turn := range aiCtx.History {
		sb.WriteString("\n\n")
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Text)
	}
	sb.WriteString("\n\nuser: ")
	sb.WriteString(req.Text)

	raw, err := s.client.GenerateJSON(ctx, sb.String())
	if err != nil {
		s.logger.Error("assistant generate failed", zap.Error(err))
		return &models.AssistantResponse{
			Text: "I'm having trouble connecting to my brain right now. Try again later.",
		}, nil
	}

	var resp models.AssistantResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		s.logger.Warn("assistant returned non-JSON, passing text through", zap.Error(err))
		resp = models.AssistantResponse{Text: raw}
	}

	aiCtx.History = append(aiCtx.History,
		models.AssistantTurn{Role: "user", Text: req.Text},
		models.AssistantTurn{Role: "model", Text: resp.Text},
	)
	if err := s.ctxStore.Set(ctx, req.UserID, aiCtx); err != nil {
		s.logger.Warn("assistant context save failed", zap.Error(err))
	}

	return &resp, nil
}
