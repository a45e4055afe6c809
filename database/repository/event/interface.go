// File: database/repository/event/interface.go
package eventRepo

import (
	"context"

	"eisenflow/database"
	"eisenflow/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type EventRepository interface {
	UpsertMany(ctx context.Context, userID string, events []models.CalendarEvent) error
	ListByUserInWindow(ctx context.Context, userID, startDate, endDate string) ([]models.CalendarEvent, error)
	ListFixedInWindow(ctx context.Context, userID, startDate, endDate string) ([]models.CalendarEvent, error)
	// ListStartingBetween returns every user's events starting in
	// [startISO, endISO); the reminder scan runs across accounts.
	ListStartingBetween(ctx context.Context, startISO, endISO string) ([]models.CalendarEvent, error)
	// ReplaceWindow deletes every event whose start date falls inside
	// [startDate, endDate) and inserts the fresh batch. Events outside the
	// window are preserved untouched.
	ReplaceWindow(ctx context.Context, userID, startDate, endDate string, events []models.CalendarEvent) error
	Delete(ctx context.Context, userID, eventID string) error
}

type mongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo constructs a new MongoDB EventRepository.
func NewMongoEventRepo() EventRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	repo := &mongoEventRepo{
		coll: db.Collection("events"),
	}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("event repo index creation failed", zap.Error(err))
	}
	return repo
}
