package mongo

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

func byName() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByIDs fetches every listed exercise in one round trip.
func (r *mongoExerciseRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error) {
	if len(ids) == 0 {
		return []domain.Exercise{}, nil
	}
	return findAll[domain.Exercise](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}

// GetAll returns the full catalog sorted by name.
func (r *mongoExerciseRepository) GetAll(ctx context.Context) ([]domain.Exercise, error) {
	return findAll[domain.Exercise](ctx, r.collection, bson.M{}, byName())
}

// GetByMuscleGroup matches exercises whose muscleGroups array contains the group.
func (r *mongoExerciseRepository) GetByMuscleGroup(ctx context.Context, muscleGroup string) ([]domain.Exercise, error) {
	return findAll[domain.Exercise](ctx, r.collection, bson.M{"muscleGroups": muscleGroup}, byName())
}

func (r *mongoExerciseRepository) GetByEquipment(ctx context.Context, equipment string) ([]domain.Exercise, error) {
	return findAll[domain.Exercise](ctx, r.collection, bson.M{"equipment": equipment}, byName())
}

// SearchByName does a case-insensitive substring match. The query is escaped,
// so it is matched literally.
func (r *mongoExerciseRepository) SearchByName(ctx context.Context, query string) ([]domain.Exercise, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	return findAll[domain.Exercise](ctx, r.collection, filter, byName())
}

// Filter combines every non-zero field of f.
func (r *mongoExerciseRepository) Filter(ctx context.Context, f repository.ExerciseFilter) ([]domain.Exercise, error) {
	filter := bson.M{}
	if f.MuscleGroup != "" {
		filter["muscleGroups"] = f.MuscleGroup
	}
	if f.Equipment != "" {
		filter["equipment"] = f.Equipment
	}
	if f.Difficulty != "" {
		filter["difficulty"] = f.Difficulty
	}
	if f.Compound != nil {
		filter["compound"] = *f.Compound
	}
	return findAll[domain.Exercise](ctx, r.collection, filter, byName())
}

// EquipmentTypes returns the distinct non-empty equipment tags, sorted.
func (r *mongoExerciseRepository) EquipmentTypes(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "equipment", bson.M{"equipment": bson.M{"$nin": bson.A{"", nil}}})
	if err != nil {
		return nil, err
	}
	types := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			types = append(types, s)
		}
	}
	sort.Strings(types)
	return types, nil
}

// Upsert replaces each exercise by id, inserting the ones that do not exist,
// in a single unordered bulk write. Exercises without an id get a new one.
func (r *mongoExerciseRepository) Upsert(ctx context.Context, exercises []domain.Exercise) (int, error) {
	if len(exercises) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(exercises))
	for i := range exercises {
		ex := &exercises[i]
		if ex.Name == "" {
			return 0, errors.New("exercise name is required")
		}
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		if ex.CreatedAt.IsZero() {
			ex.CreatedAt = now
		}
		if ex.MuscleGroups == nil {
			ex.MuscleGroups = []string{}
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": ex.ID}).
			SetReplacement(ex).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(result.UpsertedCount + result.MatchedCount), nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("exercise_name"),
		},
		{
			Keys:    bson.D{{Key: "muscleGroups", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "equipment", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
