// File: database/repository/task/interface.go
package taskRepo

import (
	"context"

	"eisenflow/database"
	"eisenflow/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, userID, taskID string) (*models.Task, error)
	ListByUser(ctx context.Context, userID string) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, userID, taskID string) error
}

type mongoTaskRepo struct {
	coll *mongo.Collection
}

// NewMongoTaskRepo constructs a new MongoDB TaskRepository.
func NewMongoTaskRepo() TaskRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	repo := &mongoTaskRepo{
		coll: db.Collection("tasks"),
	}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("task repo index creation failed", zap.Error(err))
	}
	return repo
}
