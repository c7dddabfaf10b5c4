package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gearshare-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 30

var (
	// ErrValidation tags request validation failures so handlers can
	// reject them before any persistence call.
	ErrValidation = errors.New("invalid request")
	// ErrEmailTaken signals the email is already registered.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWeakPassword signals the password doesn't meet requirements.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// ProfileStore is the persistence surface the auth service needs.
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, p *models.Profile) error
}

// AuthService handles registration, login and session tokens. A profile is
// created together with the account at registration, so exactly one profile
// exists per identity.
type AuthService struct {
	profiles  ProfileStore
	jwtSecret string
}

// NewAuthService creates a new auth service
func NewAuthService(profiles ProfileStore, jwtSecret string) *AuthService {
	return &AuthService{
		profiles:  profiles,
		jwtSecret: jwtSecret,
	}
}

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
}

// Register creates a new account and its profile, returning the profile and
// a signed session token.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.Profile, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, "", fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, "", ErrWeakPassword
	}

	exists, err := s.profiles.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	profile := &models.Profile{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", fmt.Errorf("failed to create profile: %w", err)
	}

	token, err := s.GenerateJWT(profile.ID)
	if err != nil {
		return nil, "", err
	}

	return profile, token, nil
}

// Login authenticates an identity and returns its profile and a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Profile, string, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(profile.ID)
	if err != nil {
		return nil, "", err
	}

	return profile, token, nil
}

// GetProfile retrieves the profile for a user ID
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

// UpdateProfileRequest represents a request to update profile display fields
type UpdateProfileRequest struct {
	FullName  string  `json:"full_name"`
	Phone     *string `json:"phone,omitempty"`
	Location  *string `json:"location,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	PushToken *string `json:"push_token,omitempty"`
}

// UpdateProfile updates the caller's own profile
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.FullName) != "" {
		profile.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.Location != nil {
		profile.Location = req.Location
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.PushToken != nil {
		profile.PushToken = req.PushToken
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GenerateJWT generates a JWT token for a user
func (s *AuthService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *AuthService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
