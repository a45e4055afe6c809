// File: database/repository/event/crud.go
package eventRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eisenflow/models"
)

// Event start instants are stored as ISO 8601 strings, so date-window
// comparisons against "YYYY-MM-DD" bounds are plain lexicographic ones:
// "2025-03-03" sorts before "2025-03-03T09:00:00" and after any earlier date.
func windowFilter(userID, startDate, endDate string) bson.M {
	return bson.M{
		"userId": userID,
		"start":  bson.M{"$gte": startDate, "$lt": endDate},
	}
}

func (r *mongoEventRepo) UpsertMany(ctx context.Context, userID string, events []models.CalendarEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(events))
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		ev.UserID = userID
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": ev.ID, "userId": userID}).
			SetReplacement(ev).
			SetUpsert(true))
	}
	if len(writes) == 0 {
		return nil
	}

	_, err := r.coll.BulkWrite(ctx, writes)
	return err
}

func (r *mongoEventRepo) ListByUserInWindow(ctx context.Context, userID, startDate, endDate string) ([]models.CalendarEvent, error) {
	return r.list(ctx, windowFilter(userID, startDate, endDate))
}

func (r *mongoEventRepo) ListFixedInWindow(ctx context.Context, userID, startDate, endDate string) ([]models.CalendarEvent, error) {
	filter := windowFilter(userID, startDate, endDate)
	filter["isFixed"] = true
	return r.list(ctx, filter)
}

func (r *mongoEventRepo) list(ctx context.Context, filter bson.M) ([]models.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.CalendarEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListStartingBetween spans all users; the reminder scan uses it to find
// events about to start.
func (r *mongoEventRepo) ListStartingBetween(ctx context.Context, startISO, endISO string) ([]models.CalendarEvent, error) {
	return r.list(ctx, bson.M{"start": bson.M{"$gte": startISO, "$lt": endISO}})
}

func (r *mongoEventRepo) ReplaceWindow(ctx context.Context, userID, startDate, endDate string, events []models.CalendarEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, windowFilter(userID, startDate, endDate)); err != nil {
		return err
	}
	return r.UpsertMany(ctx, userID, events)
}

func (r *mongoEventRepo) Delete(ctx context.Context, userID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": eventID, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
