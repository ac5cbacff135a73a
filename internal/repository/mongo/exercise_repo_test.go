package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

func exerciseDoc(id, name, equipment string, groups ...string) bson.D {
	gs := bson.A{}
	for _, g := range groups {
		gs = append(gs, g)
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "equipment", Value: equipment},
		{Key: "muscleGroups", Value: gs},
	}
}

func TestExerciseRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := func() string { return mt.DB.Name() + "." + exerciseCollectionName }

	mt.Run("get by ids", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(), mtest.FirstBatch,
			exerciseDoc("bench", "Bench Press", "barbell", "chest"),
			exerciseDoc("squat", "Back Squat", "barbell", "quads"),
		))

		got, err := repo.GetByIDs(ctx, []string{"bench", "squat", "ghost"})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "Bench Press", got[0].Name)
		assert.Equal(mt, []string{"chest"}, got[0].MuscleGroups)
	})

	mt.Run("get by ids with no ids skips the query", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)

		got, err := repo.GetByIDs(ctx, nil)
		require.NoError(mt, err)
		assert.Empty(mt, got)
	})

	mt.Run("get all across batches", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns(), mtest.FirstBatch, exerciseDoc("bench", "Bench Press", "barbell")),
			mtest.CreateCursorResponse(0, ns(), mtest.NextBatch, exerciseDoc("curl", "Biceps Curl", "dumbbell")),
		)

		got, err := repo.GetAll(ctx)
		require.NoError(mt, err)
		assert.Len(mt, got, 2)
	})

	mt.Run("search returns empty slice on no match", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(), mtest.FirstBatch))

		got, err := repo.SearchByName(ctx, "c++ (press)")
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(), mtest.FirstBatch))

		_, err := repo.GetByID(ctx, "ghost")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("equipment types are sorted and skip non-strings", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "values", Value: bson.A{"kettlebell", "barbell", 3, ""}},
		))

		types, err := repo.EquipmentTypes(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, []string{"barbell", "kettlebell"}, types)
	})

	mt.Run("upsert counts inserted and replaced", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 1},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 1}, {Key: "_id", Value: "new"}}}},
		))

		list := []domain.Exercise{{ID: "bench", Name: "Bench Press"}, {Name: "Farmer Carry"}}
		n, err := repo.Upsert(ctx, list)
		require.NoError(mt, err)
		assert.Equal(mt, 2, n)
		assert.NotEmpty(mt, list[1].ID)
	})

	mt.Run("upsert rejects unnamed exercises", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)

		_, err := repo.Upsert(ctx, []domain.Exercise{{ID: "x"}})
		assert.Error(mt, err)
	})
}
