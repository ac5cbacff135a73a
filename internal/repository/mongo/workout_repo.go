// internal/repository/mongo/workout_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (string, error) {
	if workout.UserID == "" {
		return "", domain.ErrWorkoutUserIDRequired
	}
	workout.ID = uuid.NewString()
	workout.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return "", err
	}
	return workout.ID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoWorkoutRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByUserID returns the user's workout history, newest first.
func (r *mongoWorkoutRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Workout, error) {
	return findAll[domain.Workout](ctx, r.collection, bson.M{"userId": userID}, newestFirst())
}

// GetInDateRange returns workouts dated within [from, to], newest first.
func (r *mongoWorkoutRepository) GetInDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	return findAll[domain.Workout](ctx, r.collection, filter, newestFirst())
}

// GetLastForRoutine returns the most recent workout started from routineID.
func (r *mongoWorkoutRepository) GetLastForRoutine(ctx context.Context, userID, routineID string) (*domain.Workout, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	return r.findOne(ctx, bson.M{"userId": userID, "routineId": routineID}, opts)
}

// Update replaces the whole workout document; the workout tree is always written as a unit.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == "" {
		return errors.New("workout ID is required for update")
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": workout.ID, "userId": workout.UserID}, workout)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout, ensuring it belongs to userID.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "routineId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
