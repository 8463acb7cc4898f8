package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newTestJWT() *JWTService {
	return NewJWTService("test-secret", 15*time.Minute, 24*time.Hour, mocks.NewMockCache(), newTestLogger())
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hashed)
}

func TestLogin_Success(t *testing.T) {
	user := &domain.User{
		ID:       "user-1",
		Email:    "maria@example.com",
		Password: hashPassword(t, "senha-secreta"),
		Role:     domain.UserRoleClient,
	}
	userRepo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}
	service := NewService(userRepo, newTestJWT(), newTestLogger())

	access, refresh, err := service.Login(context.Background(), "maria@example.com", "senha-secreta")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected both tokens")
	}

	// The issued access token must round-trip through validation.
	got, err := service.ValidateToken(context.Background(), access)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	user := &domain.User{
		ID:       "user-1",
		Email:    "maria@example.com",
		Password: hashPassword(t, "senha-secreta"),
	}
	userRepo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		},
	}
	service := NewService(userRepo, newTestJWT(), newTestLogger())

	_, _, err := service.Login(context.Background(), "maria@example.com", "senha-errada")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	service := NewService(&mocks.MockUserRepository{}, newTestJWT(), newTestLogger())

	_, _, err := service.Login(context.Background(), "ninguem@example.com", "senha")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRegister_HashesPasswordAndDefaultsToClient(t *testing.T) {
	var saved *domain.User
	userRepo := &mocks.MockUserRepository{
		SaveFunc: func(ctx context.Context, user *domain.User) error {
			saved = user
			return nil
		},
	}
	service := NewService(userRepo, newTestJWT(), newTestLogger())

	err := service.Register(context.Background(), &domain.User{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "senha-secreta",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil {
		t.Fatal("expected user saved")
	}
	if saved.Password == "senha-secreta" {
		t.Error("expected password hashed before save")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("senha-secreta")); err != nil {
		t.Error("stored hash does not match the password")
	}
	if saved.Role != domain.UserRoleClient {
		t.Errorf("expected client role, got %s", saved.Role)
	}
	if !saved.NotifyByEmail {
		t.Error("expected email notifications on by default")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "existing"}, nil
		},
	}
	service := NewService(userRepo, newTestJWT(), newTestLogger())

	err := service.Register(context.Background(), &domain.User{
		Email:    "maria@example.com",
		Password: "senha",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	service := NewService(&mocks.MockUserRepository{}, newTestJWT(), newTestLogger())

	for _, user := range []*domain.User{
		{Email: "maria@example.com"},
		{Password: "senha"},
		{},
	} {
		if err := service.Register(context.Background(), user); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("user %+v: expected ErrValidation, got %v", user, err)
		}
	}
}

func TestRefreshToken_IssuesNewAccessToken(t *testing.T) {
	user := &domain.User{ID: "user-1", Role: domain.UserRoleClient}
	userRepo := &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}
	jwtSvc := newTestJWT()
	service := NewService(userRepo, jwtSvc, newTestLogger())

	refresh, err := jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		t.Fatal(err)
	}

	access, err := service.RefreshToken(context.Background(), refresh)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := service.ValidateToken(context.Background(), access)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	user := &domain.User{ID: "user-1", Role: domain.UserRoleClient}
	jwtSvc := newTestJWT()
	service := NewService(&mocks.MockUserRepository{}, jwtSvc, newTestLogger())

	access, err := jwtSvc.GenerateAccessToken(user)
	if err != nil {
		t.Fatal(err)
	}

	_, err = service.RefreshToken(context.Background(), access)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestValidateToken_RejectsRefreshTokenAndGarbage(t *testing.T) {
	user := &domain.User{ID: "user-1", Role: domain.UserRoleClient}
	jwtSvc := newTestJWT()
	service := NewService(&mocks.MockUserRepository{}, jwtSvc, newTestLogger())

	refresh, err := jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := service.ValidateToken(context.Background(), refresh); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("refresh token: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := service.ValidateToken(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("garbage token: expected ErrUnauthenticated, got %v", err)
	}
}

func TestValidateToken_DeletedUser(t *testing.T) {
	user := &domain.User{ID: "user-1", Role: domain.UserRoleClient}
	jwtSvc := newTestJWT()
	service := NewService(&mocks.MockUserRepository{}, jwtSvc, newTestLogger())

	access, err := jwtSvc.GenerateAccessToken(user)
	if err != nil {
		t.Fatal(err)
	}

	_, err = service.ValidateToken(context.Background(), access)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}
