// Package service holds the business rules that sit between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"strings"

	"lively/internal/models"
	"lively/internal/repository"
	"lively/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService registers users and checks their credentials.
type AuthService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// RegisterInput carries the fields of a signup request.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput carries the credentials of a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewAuthService creates a new AuthService with the default bcrypt cost.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with the default role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns the user whose email and password match. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewValidationError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewValidationError("Invalid credentials")
	}
	return user, nil
}
