package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arnold/habitus-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrRevoked            = errors.New("token has been revoked")
)

type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db          *gorm.DB
	secret      []byte
	expiry      time.Duration
	revocations Revocations
	now         func() time.Time
	log         *slog.Logger
}

func NewAuthService(db *gorm.DB, secret string, expiry time.Duration, revocations Revocations) *AuthService {
	if revocations == nil {
		revocations = NewMemoryRevocations()
	}
	return &AuthService{
		db:          db,
		secret:      []byte(secret),
		expiry:      expiry,
		revocations: revocations,
		now:         time.Now,
		log:         slog.Default(),
	}
}

// SignUp creates an account and returns a session token for it.
func (s *AuthService) SignUp(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:    email,
		Password: string(hashed),
		Username: req.Username,
		FullName: req.Name,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent sign-up can win between the check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.respond(user)
}

func (s *AuthService) SignIn(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.respond(user)
}

func (s *AuthService) respond(user models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// IssueToken signs an HS256 token carrying a fresh jti.
func (s *AuthService) IssueToken(userID uuid.UUID, email string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Session validates a token and checks it has not been signed out.
func (s *AuthService) Session(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	if claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Storage errors fail open.
			s.log.Warn("revocation check unavailable, accepting token", "jti", claims.ID, "error", err)
			revoked = false
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return claims, nil
}

// SignOut revokes the token until its natural expiry.
func (s *AuthService) SignOut(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	until := s.now().Add(s.expiry)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.revocations.Revoke(ctx, claims.ID, until)
}

// User loads the account behind a session.
func (s *AuthService) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
