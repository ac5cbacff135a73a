package service

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

const minPasswordLength = 6

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	routineRepo   repository.RoutineRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, routineRepo repository.RoutineRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		routineRepo:   routineRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates the account and gives it the starter routines.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, InvalidInput("name, email and password cannot be empty", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, InvalidInput("email address is not valid", nil)
	}
	if len(password) < minPasswordLength {
		return nil, InvalidInput("password must be at least 6 characters", nil)
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, RemoteFailure("look up user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to hash password", Err: err}
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		// unique index on email catches a registration racing this one
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, RemoteFailure("create user", err)
	}

	s.seedDefaultRoutines(ctx, user)

	user.PasswordHash = ""
	return user, nil
}

// seedDefaultRoutines is best effort: an account without starter routines is still usable.
func (s *authService) seedDefaultRoutines(ctx context.Context, user *domain.User) {
	ids, err := s.routineRepo.CreateMany(ctx, domain.DefaultRoutines(user.ID))
	if err != nil {
		log.Printf("WARN: [AuthService] Failed to create default routines for user %s: %v", user.ID, err)
		return
	}
	for _, id := range ids {
		if err := s.userRepo.AddRoutine(ctx, user.ID, id); err != nil {
			log.Printf("WARN: [AuthService] Failed to link routine %s to user %s: %v", id, user.ID, err)
			continue
		}
		user.RoutineIDs = append(user.RoutineIDs, id)
	}
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, InvalidInput("email and password cannot be empty", nil)
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, RemoteFailure("look up user", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, &Error{Kind: KindUnknown, Message: "failed to generate authentication token", Err: err}
	}

	user.PasswordHash = ""
	return token, user, nil
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "simplefit",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
