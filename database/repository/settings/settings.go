// File: database/repository/settings/settings.go
package settingsRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eisenflow/config"
	"eisenflow/database"
	"eisenflow/models"
)

type SettingsRepository interface {
	// Get returns the user's planner settings, falling back to the
	// configured defaults when none are stored.
	Get(ctx context.Context, userID string) (*models.PlannerSettings, error)
	Upsert(ctx context.Context, settings *models.PlannerSettings) error
}

type mongoSettingsRepo struct {
	coll *mongo.Collection
}

// NewMongoSettingsRepo constructs a new MongoDB SettingsRepository.
func NewMongoSettingsRepo() SettingsRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoSettingsRepo{
		coll: db.Collection("settings"),
	}
}

// DefaultSettings builds the configured fallback work window for a user.
func DefaultSettings(userID string) *models.PlannerSettings {
	return &models.PlannerSettings{
		UserID:       userID,
		DayStartHour: config.AppConfig.PlannerDayStartHour,
		DayEndHour:   config.AppConfig.PlannerDayEndHour,
		WorkWeekOnly: config.AppConfig.PlannerWorkWeekOnly,
		DaysToPlan:   config.AppConfig.PlannerDaysToPlan,
	}
}

func (r *mongoSettingsRepo) Get(ctx context.Context, userID string) (*models.PlannerSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var settings models.PlannerSettings
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return DefaultSettings(userID), nil
	}
	if err != nil {
		return nil, err
	}
	if settings.DaysToPlan < 1 {
		settings.DaysToPlan = config.AppConfig.PlannerDaysToPlan
	}
	return &settings, nil
}

func (r *mongoSettingsRepo) Upsert(ctx context.Context, settings *models.PlannerSettings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"userId": settings.UserID}, settings, opts)
	return err
}
