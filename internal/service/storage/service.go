package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/infrastructure/circuitbreaker"
)

// Config holds storage provider configuration
type Config struct {
	// BaseURL of the external file store's presign API
	BaseURL string
	// APIKey authenticates presign requests
	APIKey string
	// Bucket is the logical container for order files
	Bucket string
	// URLTTL is how long issued upload URLs stay valid
	URLTTL time.Duration
}

// Service asks the external file store for presigned upload locations. File
// bytes never pass through this process; only metadata is kept locally.
type Service struct {
	config *Config
	client *circuitbreaker.HTTPClient
	log    *zap.Logger
}

func NewService(config *Config, log *zap.Logger) *Service {
	if config.URLTTL == 0 {
		config.URLTTL = 15 * time.Minute
	}

	settings := circuitbreaker.DefaultHTTPClientSettings("file-store")
	return &Service{
		config: config,
		client: circuitbreaker.NewHTTPClientWithSettings(settings, log),
		log:    log,
	}
}

type presignRequest struct {
	Bucket      string `json:"bucket"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	TTLSeconds  int    `json:"ttl_seconds"`
}

type presignResponse struct {
	UploadURL    string    `json:"upload_url"`
	RetrievalURL string    `json:"retrieval_url"`
	Key          string    `json:"key"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RequestUploadLocation asks the file store where a new file should go.
func (s *Service) RequestUploadLocation(ctx context.Context, fileName, mimeType string, size int64) (*domain.UploadLocation, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: file size must be positive", domain.ErrValidation)
	}

	body, err := json.Marshal(presignRequest{
		Bucket:      s.config.Bucket,
		FileName:    fileName,
		ContentType: mimeType,
		Size:        size,
		TTLSeconds:  int(s.config.URLTTL.Seconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal presign request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/v1/presign", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: file store unreachable: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.log.Warn("File store presign failed",
			zap.Int("status", resp.StatusCode),
			zap.String("file", fileName),
		)
		return nil, fmt.Errorf("%w: file store error (%d)", domain.ErrExternalService, resp.StatusCode)
	}

	var result presignResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse presign response: %w", err)
	}

	return &domain.UploadLocation{
		UploadURL:    result.UploadURL,
		RetrievalURL: result.RetrievalURL,
		StorageKey:   result.Key,
		ExpiresAt:    result.ExpiresAt,
	}, nil
}
