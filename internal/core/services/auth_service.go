package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/adapters/persistence/repositories"
	"dinehub/internal/config"
	"dinehub/internal/core/domain"
	"dinehub/internal/pkg/jwt"
	"dinehub/internal/pkg/password"

	"gorm.io/gorm"
)

// Password rule violations
var (
	ErrWeakPassword    = &domain.Error{Kind: domain.ErrBadRequest, Message: password.ErrTooShort.Error()}
	ErrPasswordTooLong = &domain.Error{Kind: domain.ErrBadRequest, Message: password.ErrTooLong.Error()}
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *models.UserResponse `json:"user"`
	AccessToken string               `json:"access_token"`
	ExpiresIn   int                  `json:"expires_in"`
}

// Register registers a new user
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	switch password.Validate(input.Password) {
	case password.ErrTooShort:
		return nil, ErrWeakPassword
	case password.ErrTooLong:
		return nil, ErrPasswordTooLong
	}

	// 1. Check if username already exists
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, domain.Internal("check username", err)
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	// 2. Check if email already exists
	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, domain.Internal("check email", err)
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, domain.Internal("hash password", err)
	}

	// 4. Create user
	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
		FullName: input.FullName,
		Role:     string(domain.RoleUser),
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, domain.Internal("create user", err)
	}

	log.Printf("✅ User registered: %s", user.Username)
	return s.issue(user)
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.Internal("load user", err)
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if password.NeedsRehash(user.Password, password.DefaultCost) {
		s.rehash(ctx, user, input.Password)
	}

	log.Printf("✅ User logged in: %s", user.Username)
	return s.issue(user)
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal("load user", err)
	}
	return user, nil
}

// rehash upgrades a stored hash to the current cost; failure keeps the old hash
func (s *AuthService) rehash(ctx context.Context, user *models.User, plain string) {
	hashed, err := password.Hash(plain)
	if err != nil {
		log.Printf("⚠️ Rehash failed for %s: %v", user.Username, err)
		return
	}
	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("⚠️ Failed to store rehashed password for %s: %v", user.Username, err)
	}
}

// issue signs an access token for user
func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, domain.Internal("sign access token", err)
	}

	return &AuthResponse{
		User:        user.ToResponse(),
		AccessToken: accessToken,
		ExpiresIn:   s.cfg.JWT.AccessTokenMins * 60,
	}, nil
}
