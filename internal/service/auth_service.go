package service

import (
	"context"
	"errors"
	"time"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService issues JWTs for known users and seeds the bootstrap accounts.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// EnsureUser creates the account when the username does not exist yet.
	// Existing accounts are left untouched, password included.
	EnsureUser(ctx context.Context, username, password, role string) error
}

type authService struct {
	users     repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users repository.UserRepository, jwtSecret string, expirationHours int) AuthService {
	return &authService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  time.Duration(expirationHours) * time.Hour,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apierror.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthorized("Invalid credentials")
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: formatTime(expiresAt),
	}, nil
}

func (s *authService) EnsureUser(ctx context.Context, username, password, role string) error {
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &model.AppUser{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	log.Info().Str("username", username).Str("role", role).Msg("bootstrap user created")
	return nil
}
