package service

import (
	"context"
	"log"

	"simplefit/internal/async"
	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

type StatisticsService interface {
	// GetStatistics returns the stored rollup.
	GetStatistics(ctx context.Context, userID string) (domain.WorkoutStatistics, error)
	// Recompute rebuilds the rollup from the full workout history and stores it.
	Recompute(ctx context.Context, userID string) (domain.WorkoutStatistics, error)
	// ApplyDelta queues the change in contribution when a workout goes from
	// before to after. nil before means created, nil after means deleted.
	ApplyDelta(userID string, before, after *domain.Workout) *async.Future[struct{}]
}

// statisticsService implements the StatisticsService interface.
type statisticsService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	followUps   *FollowUpQueue
}

// NewStatisticsService creates a new instance of statisticsService.
func NewStatisticsService(userRepo repository.UserRepository, workoutRepo repository.WorkoutRepository, followUps *FollowUpQueue) StatisticsService {
	return &statisticsService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		followUps:   followUps,
	}
}

func (s *statisticsService) GetStatistics(ctx context.Context, userID string) (domain.WorkoutStatistics, error) {
	if userID == "" {
		return domain.WorkoutStatistics{}, NotAuthenticated()
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.WorkoutStatistics{}, translate(err, "load statistics", "user", userID)
	}
	return user.Stats, nil
}

// Recompute runs on the follow-up queue so it is ordered after any delta
// already queued for the user. A delta applied on top of a fresh total would
// otherwise count the same workout twice.
func (s *statisticsService) Recompute(ctx context.Context, userID string) (domain.WorkoutStatistics, error) {
	if userID == "" {
		return domain.WorkoutStatistics{}, NotAuthenticated()
	}
	var stats domain.WorkoutStatistics
	fut := s.followUps.Enqueue("recompute statistics for user "+userID, func(ctx context.Context) error {
		history, err := s.workoutRepo.GetByUserID(ctx, userID)
		if err != nil {
			return RemoteFailure("load workout history", err)
		}
		fresh := domain.Recompute(history)
		if err := s.userRepo.SetStats(ctx, userID, fresh); err != nil {
			return translate(err, "store statistics", "user", userID)
		}
		stats = fresh
		log.Printf("INFO: [StatisticsService] Recomputed statistics for user %s over %d workouts", userID, len(history))
		return nil
	})
	if _, err := fut.Wait(ctx); err != nil {
		return domain.WorkoutStatistics{}, translate(err, "recompute statistics", "user", userID)
	}
	return stats, nil
}

func (s *statisticsService) ApplyDelta(userID string, before, after *domain.Workout) *async.Future[struct{}] {
	delta := domain.Delta(before, after)
	if delta.IsZero() {
		return async.Resolved(struct{}{}, nil)
	}
	return s.followUps.Enqueue("update statistics for user "+userID, func(ctx context.Context) error {
		return s.userRepo.IncrementStats(ctx, userID, delta)
	})
}
