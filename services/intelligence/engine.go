// File: services/intelligence/engine.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"eisenflow/models"
	"eisenflow/services/planner"
)

// GeminiEngine implements ScheduleEngine on top of a GeminiClient.
type GeminiEngine struct {
	client *GeminiClient
	logger *zap.Logger
}

func NewGeminiEngine(client *GeminiClient, logger *zap.Logger) *GeminiEngine {
	return &GeminiEngine{client: client, logger: logger}
}

func (e *GeminiEngine) ProposePlan(ctx context.Context, slots []planner.FreeSlot, tasks []models.Task, windowStart string, days int) (*models.EnginePlan, error) {
	prompt, err := buildPlanPrompt(slots, tasks, windowStart, days)
	if err != nil {
		return nil, fmt.Errorf("build plan prompt: %w", err)
	}

	e.logger.Debug("sending schedule request to engine",
		zap.Int("slots", len(slots)),
		zap.Int("tasks", len(tasks)),
		zap.Int("promptChars", len(prompt)),
	)

	raw, err := e.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	plan, err := parseEnginePlan(raw)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// parseEnginePlan decodes the engine's reply. A bare JSON array is accepted
// as a schedule without metadata, since models occasionally drop the wrapper
// object.
func parseEnginePlan(raw string) (*models.EnginePlan, error) {
	var plan models.EnginePlan
	if err := json.Unmarshal([]byte(raw), &plan); err == nil {
		return &plan, nil
	}

	var segments []models.EngineSegment
	if err := json.Unmarshal([]byte(raw), &segments); err == nil {
		return &models.EnginePlan{Schedule: segments}, nil
	}

	return nil, fmt.Errorf("engine returned invalid JSON")
}
