package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountBanned    AccountStatus = "banned"
)

// User is the directory record the moderation core reads and enforces
// against. Credentials and session state live with the auth service.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email          string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	DisplayName    string         `gorm:"size:100" json:"display_name"`
	Role           string         `gorm:"size:20;default:'user'" json:"role"`
	Status         AccountStatus  `gorm:"size:20;not null;default:'active';index" json:"status"`
	SuspendedUntil *time.Time     `json:"suspended_until,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
