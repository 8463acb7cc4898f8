package domain

import (
	"time"
)

type FileKind string

const (
	// FileKindDocument covers client uploads and chat attachments; both show
	// up in the order's document list.
	FileKindDocument FileKind = "document"
	// FileKindReport is the final deliverable attached by staff.
	FileKindReport FileKind = "report"
)

// UploadedFile holds metadata for a file stored externally. The service never
// touches raw bytes; StorageKey is the retrieval handle issued by the storage
// provider.
type UploadedFile struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	OrderID    string    `json:"order_id" gorm:"index"`
	MessageID  *string   `json:"message_id,omitempty" gorm:"index"`
	Kind       FileKind  `json:"kind"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	StorageKey string    `json:"storage_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// UploadLocation is returned by the storage provider when a client asks
// where to put a file.
type UploadLocation struct {
	UploadURL    string    `json:"upload_url"`
	RetrievalURL string    `json:"retrieval_url"`
	StorageKey   string    `json:"storage_key"`
	ExpiresAt    time.Time `json:"expires_at"`
}
