package domain

import (
	"time"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleAnalyst UserRole = "analyst"
	UserRoleClient  UserRole = "client"
)

// IsStaff reports whether the role sits on the fulfillment side of the desk.
func (r UserRole) IsStaff() bool {
	return r == UserRoleAdmin || r == UserRoleAnalyst
}

type User struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	Name              string     `json:"name"`
	Email             string     `json:"email" gorm:"uniqueIndex"`
	Phone             string     `json:"phone,omitempty" gorm:"index"`
	Password          string     `json:"-"` // Hashed password; empty for social sign-in accounts
	Role              UserRole   `json:"role"`
	Verified          bool       `json:"verified"`
	CPF               string     `json:"cpf,omitempty" gorm:"index"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	Address           string     `json:"address,omitempty"`
	PictureURL        string     `json:"picture_url,omitempty"`
	NotifyByEmail     bool       `json:"notify_by_email" gorm:"default:true"`
	NotifyByWhatsApp  bool       `json:"notify_by_whatsapp" gorm:"default:false"`
	PreferredLanguage string     `json:"preferred_language" gorm:"default:pt-BR"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
