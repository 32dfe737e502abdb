package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditTrail appends immutable records for every report mutation. It is
// write-only for the moderation core; reads exist solely for the admin
// review endpoint, never to derive current report state.
type AuditTrail struct {
	db *gorm.DB
}

func NewAuditTrail(db *gorm.DB) *AuditTrail {
	return &AuditTrail{db: db}
}

// Append writes entries inside the caller's transaction so the trail and the
// report row move together.
func (t *AuditTrail) Append(tx *gorm.DB, entries ...models.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return tx.Create(&entries).Error
}

// ForReport returns the trail for one report in append order.
func (t *AuditTrail) ForReport(ctx context.Context, reportID uuid.UUID) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := t.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

// submissionAudit builds the trail entry for a freshly accepted report.
func submissionAudit(r *models.Report) models.AuditEntry {
	detail, _ := json.Marshal(map[string]interface{}{
		"target_kind": r.TargetKind,
		"target_id":   r.TargetID,
		"priority":    r.Priority,
	})
	return models.AuditEntry{
		ReportID:  r.ID,
		ActorID:   r.ReporterID,
		Event:     models.AuditReportSubmitted,
		Status:    r.Status,
		Reason:    string(r.ReasonCode),
		Detail:    datatypes.JSON(detail),
		CreatedAt: time.Now(),
	}
}

// auditDiff derives trail entries from what a mutator changed: one entry per
// appended action-log record, one when the classification (reason, severity
// or priority) changed, and one when the assignment changed.
func auditDiff(before, after *models.Report, actorID uuid.UUID) []models.AuditEntry {
	now := time.Now()
	var entries []models.AuditEntry

	for _, e := range after.ActionsTaken[len(before.ActionsTaken):] {
		event := models.AuditStatusChanged
		if e.Action != "" {
			event = models.AuditActionTaken
		}
		entries = append(entries, models.AuditEntry{
			ReportID:  after.ID,
			ActorID:   e.ActorID,
			Event:     event,
			Action:    e.Action,
			Status:    e.Status,
			Reason:    e.Reason,
			CreatedAt: now,
		})
	}

	if before.ReasonCode != after.ReasonCode || before.Severity != after.Severity || before.Priority != after.Priority {
		detail, _ := json.Marshal(map[string]interface{}{
			"reason_code": after.ReasonCode,
			"severity":    after.Severity,
			"priority":    after.Priority,
		})
		entries = append(entries, models.AuditEntry{
			ReportID:  after.ID,
			ActorID:   actorID,
			Event:     models.AuditReclassified,
			Status:    after.Status,
			Reason:    string(after.ReasonCode),
			Detail:    datatypes.JSON(detail),
			CreatedAt: now,
		})
	}

	if !uuidPtrEqual(before.AssignedTo, after.AssignedTo) {
		detail := []byte(`{}`)
		if after.AssignedTo != nil {
			detail, _ = json.Marshal(map[string]string{"assigned_to": after.AssignedTo.String()})
		}
		entries = append(entries, models.AuditEntry{
			ReportID:  after.ID,
			ActorID:   actorID,
			Event:     models.AuditReportAssigned,
			Status:    after.Status,
			Detail:    datatypes.JSON(detail),
			CreatedAt: now,
		})
	}

	return entries
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
