package service

import (
	"context"
	"log"
	"time"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
	"simplefit/internal/storage"
)

// ProfileImageUpload tells the client where to PUT the new picture.
type ProfileImageUpload struct {
	UploadURL   string    `json:"uploadUrl"`
	ObjectKey   string    `json:"objectKey"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile edits name and body metrics and returns the updated profile.
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	// ProfileImageURL presigns the user's picture; "" when there is none.
	ProfileImageURL(ctx context.Context, user *domain.User) (string, error)
	// ToggleFavorite flips the exercise in the favorites list and returns the new state.
	ToggleFavorite(ctx context.Context, userID, exerciseID string) (bool, error)
	Favorites(ctx context.Context, userID string) ([]domain.Exercise, error)
	ProfileImageUploadURL(ctx context.Context, userID, fileName string) (*ProfileImageUpload, error)
}

// userService implements the UserService interface.
type userService struct {
	userRepo     repository.UserRepository
	catalog      ExerciseCatalog
	media        storage.FileStorage // nil when media storage is not configured
	followUps    *FollowUpQueue
	awaitTimeout time.Duration
}

// NewUserService creates a new instance of userService.
func NewUserService(
	userRepo repository.UserRepository,
	cat ExerciseCatalog,
	media storage.FileStorage,
	followUps *FollowUpQueue,
	awaitTimeout time.Duration,
) UserService {
	return &userService{
		userRepo:     userRepo,
		catalog:      cat,
		media:        media,
		followUps:    followUps,
		awaitTimeout: awaitTimeout,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "load profile", "user", userID)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	if update.IsEmpty() {
		return nil, InvalidInput("no profile fields to update", nil)
	}
	if err := update.Validate(); err != nil {
		return nil, translate(err, "update profile", "user", userID)
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, update); err != nil {
		return nil, translate(err, "update profile", "user", userID)
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) ProfileImageURL(ctx context.Context, user *domain.User) (string, error) {
	if user == nil || user.ProfileImageKey == "" || s.media == nil {
		return "", nil
	}
	url, err := s.media.GeneratePresignedDownloadURL(ctx, user.ProfileImageKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", RemoteFailure("sign profile image URL", err)
	}
	return url, nil
}

func (s *userService) ToggleFavorite(ctx context.Context, userID, exerciseID string) (bool, error) {
	if userID == "" {
		return false, NotAuthenticated()
	}
	if exerciseID == "" {
		return false, InvalidInput("exercise id is required", nil)
	}
	if _, err := awaitResult(ctx, s.awaitTimeout, "load exercise", "exercise", exerciseID, func(ctx context.Context) (*domain.Exercise, error) {
		return s.catalog.Get(ctx, exerciseID)
	}); err != nil {
		return false, err
	}

	favorite, err := s.userRepo.ToggleFavorite(ctx, userID, exerciseID)
	if err != nil {
		return false, translate(err, "toggle favorite", "user", userID)
	}
	return favorite, nil
}

func (s *userService) Favorites(ctx context.Context, userID string) ([]domain.Exercise, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.FavoriteExercises) == 0 {
		return []domain.Exercise{}, nil
	}
	return awaitResult(ctx, s.awaitTimeout, "load favorite exercises", "exercises", "", func(ctx context.Context) ([]domain.Exercise, error) {
		return s.catalog.GetByIDs(ctx, user.FavoriteExercises)
	})
}

// ProfileImageUploadURL reserves a new object key for the user's picture and
// presigns an upload to it. The previous picture is deleted in the background.
func (s *userService) ProfileImageUploadURL(ctx context.Context, userID, fileName string) (*ProfileImageUpload, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	if s.media == nil {
		return nil, &Error{Kind: KindRemoteFailure, Message: "media storage is not configured"}
	}
	contentType, ok := storage.ContentTypeForExt(fileName)
	if !ok {
		return nil, InvalidInput("profile image must be a jpeg, png, webp or gif file", nil)
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := storage.NewObjectKey(storage.ProfileImagePrefix, userID, fileName)
	url, err := s.media.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Printf("ERROR: [UserService] Failed to presign profile image upload for user %s: %v", userID, err)
		return nil, RemoteFailure("generate upload URL", err)
	}
	if err := s.userRepo.SetProfileImage(ctx, userID, key); err != nil {
		return nil, translate(err, "store profile image", "user", userID)
	}

	if old := user.ProfileImageKey; old != "" {
		s.followUps.Enqueue("delete profile image "+old, func(ctx context.Context) error {
			return s.media.DeleteObject(ctx, old)
		})
	}

	return &ProfileImageUpload{
		UploadURL:   url,
		ObjectKey:   key,
		ContentType: contentType,
		ExpiresAt:   time.Now().UTC().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}
