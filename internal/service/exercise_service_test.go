package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
	"simplefit/internal/storage"
)

func exerciseCatalog() *fakeCatalog {
	return newFakeCatalog(
		domain.Exercise{ID: "bench", Name: "Bench Press", PrimaryMuscleGroup: "chest", Equipment: "barbell", IsCompound: true},
		domain.Exercise{ID: "incline", Name: "Incline Dumbbell Press", PrimaryMuscleGroup: "chest", Equipment: "dumbbell", IsCompound: true},
		domain.Exercise{ID: "fly", Name: "Cable Fly", PrimaryMuscleGroup: "chest", Equipment: "cable", ImageKey: "exercises/fly.png"},
	)
}

// blockingCatalog never answers Get until released.
type blockingCatalog struct {
	*fakeCatalog
	release chan struct{}
}

func (c *blockingCatalog) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	select {
	case <-c.release:
	case <-ctx.Done():
	}
	return c.fakeCatalog.Get(ctx, id)
}

func TestExerciseService_GetExercise(t *testing.T) {
	svc := NewExerciseService(exerciseCatalog(), new(MockExerciseRepository), nil, time.Second)

	got, err := svc.GetExercise(context.Background(), "bench")
	require.NoError(t, err)
	assert.Equal(t, "Bench Press", got.Name)

	_, err = svc.GetExercise(context.Background(), "nope")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.GetExercise(context.Background(), "")
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestExerciseService_GetExerciseTimesOut(t *testing.T) {
	cat := &blockingCatalog{fakeCatalog: exerciseCatalog(), release: make(chan struct{})}
	t.Cleanup(func() { close(cat.release) })
	svc := NewExerciseService(cat, new(MockExerciseRepository), nil, 20*time.Millisecond)

	_, err := svc.GetExercise(context.Background(), "bench")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestExerciseService_GetExerciseRemoteFailure(t *testing.T) {
	cat := exerciseCatalog()
	cat.err = errors.New("server selection timeout")
	svc := NewExerciseService(cat, new(MockExerciseRepository), nil, time.Second)

	_, err := svc.GetExercise(context.Background(), "bench")
	assert.Equal(t, KindRemoteFailure, KindOf(err))
}

func TestExerciseService_ListExercises(t *testing.T) {
	svc := NewExerciseService(exerciseCatalog(), new(MockExerciseRepository), nil, time.Second)
	ctx := context.Background()
	compound := true

	names := func(list []domain.Exercise) []string {
		out := []string{}
		for _, e := range list {
			out = append(out, e.Name)
		}
		return out
	}

	got, err := svc.ListExercises(ctx, ExerciseQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bench Press", "Cable Fly", "Incline Dumbbell Press"}, names(got))

	got, err = svc.ListExercises(ctx, ExerciseQuery{Search: "PRESS"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bench Press", "Incline Dumbbell Press"}, names(got))

	got, err = svc.ListExercises(ctx, ExerciseQuery{Search: "press", Filter: repository.ExerciseFilter{Equipment: "dumbbell", Compound: &compound}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Incline Dumbbell Press"}, names(got))

	got, err = svc.ListExercises(ctx, ExerciseQuery{Filter: repository.ExerciseFilter{Equipment: "cable"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cable Fly"}, names(got))

	_, err = svc.ListExercises(ctx, ExerciseQuery{Filter: repository.ExerciseFilter{Difficulty: "extreme"}})
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestExerciseService_MuscleGroups(t *testing.T) {
	svc := NewExerciseService(exerciseCatalog(), new(MockExerciseRepository), nil, time.Second)

	all, err := svc.MuscleGroups("")
	require.NoError(t, err)
	assert.Len(t, all, 13)

	back, err := svc.MuscleGroups("back")
	require.NoError(t, err)
	for _, g := range back {
		assert.Equal(t, "back", g.Side)
	}

	_, err = svc.MuscleGroups("sideways")
	assert.Equal(t, KindInvalidInput, KindOf(err))

	g, err := svc.GetMuscleGroup("Hamstrings")
	require.NoError(t, err)
	assert.Equal(t, domain.MuscleHamstrings, g.ID)

	_, err = svc.GetMuscleGroup("neck")
	assert.Equal(t, KindNotFound, KindOf(err))

	assert.Equal(t, []domain.Difficulty{domain.DifficultyBeginner, domain.DifficultyIntermediate, domain.DifficultyAdvanced}, svc.DifficultyLevels())
}

func TestExerciseService_GetExercisesByIDs(t *testing.T) {
	svc := NewExerciseService(exerciseCatalog(), new(MockExerciseRepository), nil, time.Second)

	got, err := svc.GetExercisesByIDs(context.Background(), []string{"fly", "missing", "bench"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fly", got[0].ID)
	assert.Equal(t, "bench", got[1].ID)
}

func TestExerciseService_ImageURL(t *testing.T) {
	media := new(MockFileStorage)
	media.On("GeneratePresignedDownloadURL", mock.Anything, "exercises/fly.png", storage.DefaultPresignedURLExpiry).
		Return("https://media.example.com/exercises/fly.png?sig=1", nil)
	cat := exerciseCatalog()
	svc := NewExerciseService(cat, new(MockExerciseRepository), media, time.Second)
	ctx := context.Background()

	fly := cat.byID["fly"]
	url, err := svc.ImageURL(ctx, &fly)
	require.NoError(t, err)
	assert.Contains(t, url, "fly.png")

	bench := cat.byID["bench"]
	url, err = svc.ImageURL(ctx, &bench)
	require.NoError(t, err)
	assert.Empty(t, url)
	media.AssertNumberOfCalls(t, "GeneratePresignedDownloadURL", 1)

	noMedia := NewExerciseService(cat, new(MockExerciseRepository), nil, time.Second)
	url, err = noMedia.ImageURL(ctx, &fly)
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestExerciseService_SeedCatalog(t *testing.T) {
	cat := exerciseCatalog()
	repo := new(MockExerciseRepository)
	svc := NewExerciseService(cat, repo, nil, time.Second)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(list []domain.Exercise) bool {
		return len(list) == 2 && list[0].ID == "squat" && list[1].Difficulty == domain.DifficultyAdvanced
	})).Return(2, nil)

	seed := `[
		{"id": "squat", "name": "Back Squat", "muscleGroups": ["quads", "glutes"], "primaryMuscleGroup": "quads", "equipment": "barbell", "difficulty": "intermediate", "compound": true},
		{"id": "snatch", "name": "Snatch", "muscleGroups": ["full_body"], "difficulty": "advanced", "imageKey": "exercises/snatch.jpg"}
	]`
	n, err := svc.SeedCatalog(context.Background(), strings.NewReader(seed))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, cat.cleared)
	repo.AssertExpectations(t)

	_, err = svc.SeedCatalog(context.Background(), strings.NewReader(`{"id": "x"}`))
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = svc.SeedCatalog(context.Background(), strings.NewReader(`[{"id": "x", "name": "X", "difficulty": "elite"}]`))
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.Equal(t, 1, cat.cleared)
}

func TestExerciseService_ClearCacheAndEquipment(t *testing.T) {
	cat := exerciseCatalog()
	svc := NewExerciseService(cat, new(MockExerciseRepository), nil, time.Second)

	svc.ClearCache()
	assert.Equal(t, 1, cat.cleared)

	types, err := svc.EquipmentTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"barbell", "dumbbell"}, types)
}
