package models

import (
	"time"

	"github.com/google/uuid"
)

type EnforcementStatus string

const (
	EnforcementPending EnforcementStatus = "pending"
	EnforcementDone    EnforcementStatus = "done"
	EnforcementFailed  EnforcementStatus = "failed"
)

// EnforcementTask is the outbox row for a directory-side consequence (ban,
// restriction). It is inserted in the same transaction as the report update,
// so a crash between the two writes cannot lose the consequence. The unique
// (report_id, action) index makes enforcement idempotent across retries.
type EnforcementTask struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_enforcement_report_action" json:"report_id"`
	Action       ActionType        `gorm:"size:30;not null;uniqueIndex:idx_enforcement_report_action" json:"action"`
	TargetUserID uuid.UUID         `gorm:"type:uuid;not null;index" json:"target_user_id"`
	ActorID      uuid.UUID         `gorm:"type:uuid;not null" json:"actor_id"`
	Until        *time.Time        `json:"until,omitempty"`
	Status       EnforcementStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Attempts     int               `gorm:"not null;default:0" json:"attempts"`
	LastError    string            `gorm:"size:1000" json:"last_error,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (EnforcementTask) TableName() string {
	return "enforcement_tasks"
}
