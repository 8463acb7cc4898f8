package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

// OAuth2Config holds the client credentials for Google sign-in.
type OAuth2Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	RedirectBaseURL    string
}

// OAuth2Service handles the Google social sign-in flow. Accounts created
// this way are always clients with no local password.
type OAuth2Service struct {
	config   OAuth2Config
	userRepo ports.UserRepository
	jwtSvc   *JWTService
	client   *http.Client
	log      *zap.Logger
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	VerifiedEmail bool   `json:"verified_email"`
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewOAuth2Service(config OAuth2Config, userRepo ports.UserRepository, jwtSvc *JWTService, log *zap.Logger) *OAuth2Service {
	return &OAuth2Service{
		config:   config,
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
}

// AuthURL builds the Google consent screen URL for the given CSRF state.
func (s *OAuth2Service) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", s.config.GoogleClientID)
	q.Set("redirect_uri", s.config.RedirectBaseURL+"/api/v1/auth/google/callback")
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	return "https://accounts.google.com/o/oauth2/v2/auth?" + q.Encode()
}

// HandleCallback exchanges the authorization code, resolves or creates the
// user, and returns access and refresh tokens.
func (s *OAuth2Service) HandleCallback(ctx context.Context, code string) (string, string, error) {
	token, err := s.exchangeCode(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("%w: google token exchange: %v", domain.ErrExternalService, err)
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return "", "", fmt.Errorf("%w: google userinfo: %v", domain.ErrExternalService, err)
	}
	if info.Email == "" {
		return "", "", fmt.Errorf("%w: google account has no email", domain.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, info.Email)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		user = &domain.User{
			ID:            uuid.New().String(),
			Name:          info.Name,
			Email:         info.Email,
			Role:          domain.UserRoleClient,
			Verified:      info.VerifiedEmail,
			PictureURL:    info.Picture,
			NotifyByEmail: true,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		if err := s.userRepo.Save(ctx, user); err != nil {
			return "", "", err
		}
		s.log.Info("user created via google sign-in", zap.String("user_id", user.ID))
	}

	access, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *OAuth2Service) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", s.config.GoogleClientID)
	form.Set("client_secret", s.config.GoogleClientSecret)
	form.Set("redirect_uri", s.config.RedirectBaseURL+"/api/v1/auth/google/callback")
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://oauth2.googleapis.com/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)
	}

	var tr googleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	return tr.AccessToken, nil
}

func (s *OAuth2Service) fetchUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
