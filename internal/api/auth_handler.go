package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"simplefit/internal/domain"
	"simplefit/internal/service"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	Email             string                   `json:"email"`
	Gender            string                   `json:"gender,omitempty"`
	Age               int                      `json:"age,omitempty"`
	Weight            float64                  `json:"weight,omitempty"`
	Height            float64                  `json:"height,omitempty"`
	BMI               float64                  `json:"bmi,omitempty"`
	BMICategory       string                   `json:"bmiCategory"`
	FavoriteExercises []string                 `json:"favoriteExercises"`
	RoutineIDs        []string                 `json:"routineIds"`
	WorkoutHistory    []string                 `json:"workoutHistory"`
	Stats             domain.WorkoutStatistics `json:"stats"`
	ProfileImageURL   string                   `json:"profileImageUrl,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Description Creates a new user account with the starter routines.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 502 {object} gin.H "Store unavailable"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user, ""))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 502 {object} gin.H "Store unavailable"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user, ""),
	})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
// Lists are never null in the response.
func MapUserToResponse(user *domain.User, profileImageURL string) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	nonNil := func(list []string) []string {
		if list == nil {
			return []string{}
		}
		return list
	}
	return UserResponse{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Gender:            user.Gender,
		Age:               user.Age,
		Weight:            user.Weight,
		Height:            user.Height,
		BMI:               user.BMI(),
		BMICategory:       user.BMICategory(),
		FavoriteExercises: nonNil(user.FavoriteExercises),
		RoutineIDs:        nonNil(user.RoutineIDs),
		WorkoutHistory:    nonNil(user.WorkoutHistory),
		Stats:             user.Stats,
		ProfileImageURL:   profileImageURL,
		CreatedAt:         user.CreatedAt,
	}
}
