package service

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"simplefit/internal/catalog"
	"simplefit/internal/domain"
	"simplefit/internal/repository"
	"simplefit/internal/storage"
)

// ExerciseCatalog is the read side of the exercise catalog. *catalog.Cache implements it.
type ExerciseCatalog interface {
	Get(ctx context.Context, id string) (*domain.Exercise, error)
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error)
	Details(ctx context.Context, ids []string) (map[string]domain.Exercise, error)
	Search(ctx context.Context, query string) ([]domain.Exercise, error)
	Filter(ctx context.Context, f repository.ExerciseFilter) ([]domain.Exercise, error)
	EquipmentTypes(ctx context.Context) ([]string, error)
	ClearCache()
}

// ExerciseQuery combines a name search with attribute filters.
type ExerciseQuery struct {
	Search string
	Filter repository.ExerciseFilter
}

type ExerciseService interface {
	GetExercise(ctx context.Context, id string) (*domain.Exercise, error)
	ListExercises(ctx context.Context, q ExerciseQuery) ([]domain.Exercise, error)
	GetExercisesByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error)
	EquipmentTypes(ctx context.Context) ([]string, error)
	// MuscleGroups lists the reference muscle groups, optionally only those on
	// one side of the body ("front" or "back").
	MuscleGroups(side string) ([]domain.MuscleGroup, error)
	GetMuscleGroup(id string) (domain.MuscleGroup, error)
	DifficultyLevels() []domain.Difficulty
	// ImageURL presigns the exercise picture; "" when the exercise has none.
	ImageURL(ctx context.Context, ex *domain.Exercise) (string, error)
	ClearCache()
	// SeedCatalog upserts a JSON array of exercises and invalidates the cache.
	SeedCatalog(ctx context.Context, r io.Reader) (int, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	catalog      ExerciseCatalog
	exerciseRepo repository.ExerciseRepository
	media        storage.FileStorage // nil when media storage is not configured
	awaitTimeout time.Duration
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(cat ExerciseCatalog, exerciseRepo repository.ExerciseRepository, media storage.FileStorage, awaitTimeout time.Duration) ExerciseService {
	return &exerciseService{
		catalog:      cat,
		exerciseRepo: exerciseRepo,
		media:        media,
		awaitTimeout: awaitTimeout,
	}
}

func (s *exerciseService) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	if id == "" {
		return nil, InvalidInput("exercise id is required", nil)
	}
	return awaitResult(ctx, s.awaitTimeout, "load exercise", "exercise", id, func(ctx context.Context) (*domain.Exercise, error) {
		return s.catalog.Get(ctx, id)
	})
}

// ListExercises searches by name first when a search term is given, then
// narrows the result with the filter.
func (s *exerciseService) ListExercises(ctx context.Context, q ExerciseQuery) ([]domain.Exercise, error) {
	if q.Filter.Difficulty != "" && !q.Filter.Difficulty.Valid() {
		return nil, InvalidInput(domain.ErrInvalidDifficulty.Error(), nil)
	}
	return awaitResult(ctx, s.awaitTimeout, "load exercises", "exercises", "", func(ctx context.Context) ([]domain.Exercise, error) {
		if q.Search == "" {
			return s.catalog.Filter(ctx, q.Filter)
		}
		found, err := s.catalog.Search(ctx, q.Search)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Exercise, 0, len(found))
		for i := range found {
			if catalog.Matches(&found[i], q.Filter) {
				out = append(out, found[i])
			}
		}
		return out, nil
	})
}

func (s *exerciseService) GetExercisesByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error) {
	return awaitResult(ctx, s.awaitTimeout, "load exercises", "exercises", "", func(ctx context.Context) ([]domain.Exercise, error) {
		return s.catalog.GetByIDs(ctx, ids)
	})
}

func (s *exerciseService) EquipmentTypes(ctx context.Context) ([]string, error) {
	return awaitResult(ctx, s.awaitTimeout, "load equipment types", "equipment", "", s.catalog.EquipmentTypes)
}

func (s *exerciseService) MuscleGroups(side string) ([]domain.MuscleGroup, error) {
	switch side {
	case "":
		return domain.MuscleGroups(), nil
	case "front", "back":
		return domain.MuscleGroupsOnSide(side), nil
	default:
		return nil, InvalidInput("side must be front or back", nil)
	}
}

func (s *exerciseService) GetMuscleGroup(id string) (domain.MuscleGroup, error) {
	g, ok := domain.LookupMuscleGroup(id)
	if !ok {
		return domain.MuscleGroup{}, NotFound("muscle group", id)
	}
	return g, nil
}

func (s *exerciseService) DifficultyLevels() []domain.Difficulty {
	return domain.DifficultyLevels()
}

func (s *exerciseService) ImageURL(ctx context.Context, ex *domain.Exercise) (string, error) {
	if ex == nil || !ex.HasImage() || s.media == nil {
		return "", nil
	}
	url, err := s.media.GeneratePresignedDownloadURL(ctx, ex.ImageKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", RemoteFailure("sign exercise image URL", err)
	}
	return url, nil
}

func (s *exerciseService) ClearCache() {
	s.catalog.ClearCache()
}

func (s *exerciseService) SeedCatalog(ctx context.Context, r io.Reader) (int, error) {
	var exercises []domain.Exercise
	if err := json.NewDecoder(r).Decode(&exercises); err != nil {
		return 0, InvalidInput("catalog seed is not a JSON array of exercises", err)
	}
	for i := range exercises {
		if !exercises[i].Difficulty.Valid() {
			return 0, InvalidInput("exercise "+exercises[i].Name+": "+domain.ErrInvalidDifficulty.Error(), nil)
		}
	}

	n, err := s.exerciseRepo.Upsert(ctx, exercises)
	if err != nil {
		return 0, RemoteFailure("seed exercise catalog", err)
	}
	s.catalog.ClearCache()
	log.Printf("INFO: [ExerciseService] Seeded %d exercises", n)
	return n, nil
}
