package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

type Service struct {
	userRepo ports.UserRepository
	jwt      *JWTService
	log      *zap.Logger
}

func NewService(userRepo ports.UserRepository, jwt *JWTService, log *zap.Logger) ports.AuthService {
	return &Service{
		userRepo: userRepo,
		jwt:      jwt,
		log:      log,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return "", "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}

	access, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *Service) Register(ctx context.Context, user *domain.User) error {
	if user.Email == "" || user.Password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: email already registered", domain.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	// Role is fixed per account. Public registration only ever creates
	// clients; staff accounts are provisioned by an admin.
	if user.Role == "" {
		user.Role = domain.UserRoleClient
	}
	user.Verified = false
	user.NotifyByEmail = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	return s.userRepo.Save(ctx, user)
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ValidateToken(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.Type != "refresh" {
		return "", fmt.Errorf("%w: not a refresh token", domain.ErrUnauthenticated)
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("%w: user gone", domain.ErrUnauthenticated)
	}

	return s.jwt.GenerateAccessToken(user)
}

func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.jwt.ValidateToken(ctx, tokenStr)
	if err != nil {
		return nil, errors.Join(domain.ErrUnauthenticated, err)
	}
	if claims.Type != "access" {
		return nil, fmt.Errorf("%w: not an access token", domain.ErrUnauthenticated)
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user gone", domain.ErrUnauthenticated)
	}
	return user, nil
}
