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

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	if user.Email == "" || user.PasswordHash == "" {
		return "", errors.New("user email and password hash are required")
	}

	user.ID = uuid.NewString()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.FavoriteExercises == nil {
		user.FavoriteExercises = []string{}
	}
	if user.RoutineIDs == nil {
		user.RoutineIDs = []string{}
	}
	if user.WorkoutHistory == nil {
		user.WorkoutHistory = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrConflict
		}
		return "", err
	}
	return user.ID, nil
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByID retrieves a user by id.
func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AddRoutine records a routine id on the user. $addToSet keeps it unique.
func (r *mongoUserRepository) AddRoutine(ctx context.Context, userID, routineID string) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"routineIds": routineID}})
}

func (r *mongoUserRepository) RemoveRoutine(ctx context.Context, userID, routineID string) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"routineIds": routineID}})
}

func (r *mongoUserRepository) AddWorkoutToHistory(ctx context.Context, userID, workoutID string) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"workoutHistory": workoutID}})
}

func (r *mongoUserRepository) RemoveWorkoutFromHistory(ctx context.Context, userID, workoutID string) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"workoutHistory": workoutID}})
}

// ToggleFavorite reads the current membership, then writes the opposite with a
// filter that only matches while the membership is still what was read. A
// concurrent toggle in between makes the write miss and returns ErrConflict.
func (r *mongoUserRepository) ToggleFavorite(ctx context.Context, userID, exerciseID string) (bool, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	var filter, update bson.M
	nowFavorite := !user.IsFavorite(exerciseID)
	if nowFavorite {
		filter = bson.M{"_id": userID, "favoriteExercises": bson.M{"$ne": exerciseID}}
		update = bson.M{"$addToSet": bson.M{"favoriteExercises": exerciseID}}
	} else {
		filter = bson.M{"_id": userID, "favoriteExercises": exerciseID}
		update = bson.M{"$pull": bson.M{"favoriteExercises": exerciseID}}
	}

	if err := r.updateOne(ctx, filter, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, repository.ErrConflict
		}
		return false, err
	}
	return nowFavorite, nil
}

// IncrementStats applies delta with $inc so concurrent completions never lose updates.
func (r *mongoUserRepository) IncrementStats(ctx context.Context, userID string, delta domain.WorkoutStatistics) error {
	if delta.IsZero() {
		return nil
	}
	inc := bson.M{}
	if delta.TotalWorkouts != 0 {
		inc["stats.totalWorkouts"] = delta.TotalWorkouts
	}
	if delta.TotalMinutes != 0 {
		inc["stats.totalMinutes"] = delta.TotalMinutes
	}
	if delta.TotalSets != 0 {
		inc["stats.totalSets"] = delta.TotalSets
	}
	if delta.TotalWeight != 0 {
		inc["stats.totalWeight"] = delta.TotalWeight
	}
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{"$inc": inc})
}

// SetStats overwrites the stored statistics, used after a full recomputation.
func (r *mongoUserRepository) SetStats(ctx context.Context, userID string, stats domain.WorkoutStatistics) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"stats": stats}})
}

func (r *mongoUserRepository) SetProfileImage(ctx context.Context, userID, key string) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"profileImageKey": key}})
}

// UpdateProfile sets the fields present in p.
func (r *mongoUserRepository) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) error {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Gender != nil {
		set["gender"] = *p.Gender
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.Weight != nil {
		set["weight"] = *p.Weight
	}
	if p.Height != nil {
		set["height"] = *p.Height
	}
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
}

// updateOne applies update and bumps updatedAt. No matching document is ErrNotFound.
func (r *mongoUserRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updatedAt"] = time.Now().UTC()

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	// ModifiedCount is 0 when $addToSet found the value already present, which is fine.
	return nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
