package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is a helper type for jsonb string arrays.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Service is a catalog entry for a registry service (certificate search,
// registry protocol, document preparation). Immutable reference data seeded
// at deploy time. A nil Price means the order must be quoted by staff.
type Service struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Price        *float64   `json:"price,omitempty"`
	DurationDays int        `json:"duration_days"`
	Features     StringList `json:"features" gorm:"type:jsonb"`
	CreatedAt    time.Time  `json:"created_at"`
}

// QuoteBased reports whether orders for this service start awaiting a quote.
func (s *Service) QuoteBased() bool {
	return s.Price == nil
}
