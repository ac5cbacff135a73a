// internal/repository/mongo/routine_repo.go
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

const routineCollectionName = "routines"

// mongoRoutineRepository implements repository.RoutineRepository
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a new Routine repository.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
	}
}

func prepareRoutine(routine *domain.Routine, now time.Time) error {
	if routine.UserID == "" || routine.Name == "" {
		return errors.New("routine requires userId and name")
	}
	routine.ID = uuid.NewString()
	routine.CreatedAt = now
	routine.UpdatedAt = now
	if routine.Exercises == nil {
		routine.Exercises = []domain.RoutineExercise{}
	}
	if routine.AllMuscleGroups == nil {
		routine.AllMuscleGroups = []string{}
	}
	return nil
}

// Create inserts a new routine.
func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.Routine) (string, error) {
	if err := prepareRoutine(routine, time.Now().UTC()); err != nil {
		return "", err
	}
	if _, err := r.collection.InsertOne(ctx, routine); err != nil {
		return "", err
	}
	return routine.ID, nil
}

// CreateMany inserts routines in one batch and returns their ids in order.
func (r *mongoRoutineRepository) CreateMany(ctx context.Context, routines []domain.Routine) ([]string, error) {
	if len(routines) == 0 {
		return []string{}, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(routines))
	ids := make([]string, 0, len(routines))
	for i := range routines {
		if err := prepareRoutine(&routines[i], now); err != nil {
			return nil, err
		}
		docs = append(docs, routines[i])
		ids = append(ids, routines[i].ID)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetByID retrieves a single routine by its ID.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id string) (*domain.Routine, error) {
	var routine domain.Routine
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&routine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

// GetByUserID lists a user's routines by name.
func (r *mongoRoutineRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Routine, error) {
	return findAll[domain.Routine](ctx, r.collection, bson.M{"userId": userID}, byName())
}

// GetByMuscleGroup matches either the declared target group or any group the routine trains.
func (r *mongoRoutineRepository) GetByMuscleGroup(ctx context.Context, userID, muscleGroup string) ([]domain.Routine, error) {
	filter := bson.M{
		"userId": userID,
		"$or": bson.A{
			bson.M{"targetMuscleGroup": muscleGroup},
			bson.M{"allMuscleGroups": muscleGroup},
		},
	}
	return findAll[domain.Routine](ctx, r.collection, filter, byName())
}

func (r *mongoRoutineRepository) GetByDifficulty(ctx context.Context, userID string, difficulty domain.Difficulty) ([]domain.Routine, error) {
	return findAll[domain.Routine](ctx, r.collection, bson.M{"userId": userID, "difficulty": difficulty}, byName())
}

// Update writes the editable fields of a routine owned by routine.UserID.
// timesCompleted is only changed through IncrementTimesCompleted.
func (r *mongoRoutineRepository) Update(ctx context.Context, routine *domain.Routine) error {
	if routine.ID == "" {
		return errors.New("routine ID is required for update")
	}
	routine.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": routine.ID, "userId": routine.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":              routine.Name,
			"description":       routine.Description,
			"difficulty":        routine.Difficulty,
			"estimatedDuration": routine.EstimatedDuration,
			"targetMuscleGroup": routine.TargetMuscleGroup,
			"category":          routine.Category,
			"exercises":         routine.Exercises,
			"allMuscleGroups":   routine.AllMuscleGroups,
			"updatedAt":         routine.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a routine, ensuring it belongs to userID.
func (r *mongoRoutineRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncrementTimesCompleted adds by to the completion counter atomically.
func (r *mongoRoutineRepository) IncrementTimesCompleted(ctx context.Context, id string, by int) error {
	update := bson.M{"$inc": bson.M{"timesCompleted": by}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRoutineIndexes creates necessary indexes. Call during startup.
func EnsureRoutineIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "allMuscleGroups", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
