package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditEntry mirrors every report mutation into an append-only trail. It is
// write-only from the moderation core: current report state is never derived
// from it.
type AuditEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"report_id"`
	ActorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"actor_id"`
	Event     string         `gorm:"size:50;not null" json:"event"`
	Action    ActionType     `gorm:"size:30" json:"action,omitempty"`
	Status    ReportStatus   `gorm:"size:20" json:"status,omitempty"`
	Reason    string         `gorm:"size:1000" json:"reason,omitempty"`
	Detail    datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"detail,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}

// Audit event names.
const (
	AuditReportSubmitted = "report_submitted"
	AuditStatusChanged   = "status_changed"
	AuditActionTaken     = "action_taken"
	AuditReportAssigned  = "report_assigned"
	AuditReclassified    = "report_reclassified"
	AuditEnforcementDone = "enforcement_applied"
)
