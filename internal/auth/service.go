// Package auth is the identity and profile provider: account creation,
// credential checks, JWT session tokens, profile storage, and an
// auth-change subscription mirroring the signed-in identity into app state.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/snacksense/backend/internal/database"
	"github.com/snacksense/backend/internal/models"
)

var (
	// ErrEmailTaken means the account already exists. Surfaced verbatim at
	// the register boundary.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken means the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrInvalidProfile means the submitted profile has out-of-range values.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Claims is the JWT payload for a signed-in session.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Service implements the identity/persistence provider contract.
type Service struct {
	db        database.DB
	jwtSecret []byte
	tokenTTL  time.Duration

	mu      sync.Mutex
	current *models.Identity // nil when signed out
	subs    map[int]chan *models.Identity
	nextSub int
	closed  bool
}

// NewService builds the auth service over the given store.
func NewService(db database.DB, jwtSecret []byte, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		subs:      make(map[int]chan *models.Identity),
	}
}

// Register creates a new account and signs it in.
func (s *Service) Register(ctx context.Context, email, password string) (*models.Identity, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email address")
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("password must be at least 6 characters")
	}

	existing, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	return s.establish(user)
}

// SignIn verifies credentials and signs the account in.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Identity, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	return s.establish(user)
}

// establish mints a token and publishes the new identity to subscribers.
func (s *Service) establish(user *models.User) (*models.Identity, string, error) {
	identity := &models.Identity{UserID: user.ID, Email: user.Email}

	token, err := s.issueToken(identity)
	if err != nil {
		return nil, "", err
	}

	s.setIdentity(identity)
	return identity, token, nil
}

// SignOut clears the current identity and notifies subscribers.
func (s *Service) SignOut() {
	s.setIdentity(nil)
}

func (s *Service) issueToken(identity *models.Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: identity.UserID,
		Email:  identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Subject:   identity.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks a bearer token and returns the identity it carries.
func (s *Service) VerifyToken(tokenString string) (*models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &models.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// GetProfile returns the stored onboarding profile, or nil when the user has
// not onboarded yet. Absence is a distinct state, not a default profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.db.GetProfile(ctx, userID)
}

// SaveProfile validates and stores the profile, replacing it wholesale while
// leaving the user's other data untouched.
func (s *Service) SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) error {
	if profile == nil {
		return ErrInvalidProfile
	}
	if !models.ValidActivityLevel(profile.ActivityLevel) {
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidProfile, profile.ActivityLevel)
	}
	if !models.ValidHealthGoal(profile.HealthGoal) {
		return fmt.Errorf("%w: unknown health goal %q", ErrInvalidProfile, profile.HealthGoal)
	}
	if profile.WaterGoal <= 0 || profile.StepGoal <= 0 {
		return fmt.Errorf("%w: goals must be positive", ErrInvalidProfile)
	}
	return s.db.SaveProfile(ctx, userID, profile)
}
