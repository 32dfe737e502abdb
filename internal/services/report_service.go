package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/veyra-social/moderation-backend/internal/directory"
	"github.com/veyra-social/moderation-backend/internal/dto"
	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxNarrativeLen  = 1000
	maxSupplementLen = 500
	maxPageSize      = 100
	defaultPageSize  = 20
)

// ListFilter narrows the triage queue. Zero-valued fields are ignored.
type ListFilter struct {
	Status     *models.ReportStatus
	Priority   *models.PriorityTier
	ReporterID *uuid.UUID
	AssignedTo *uuid.UUID
	Page       int
	PageSize   int
}

// ReportService is the report store: it owns submission (with the
// deduplication guard and priority stamping), lookups, the triage queue
// query, and version-checked updates that keep the audit trail in step.
type ReportService struct {
	db         *gorm.DB
	dir        directory.Directory
	audit      *AuditTrail
	retryLimit int
}

func NewReportService(db *gorm.DB, dir directory.Directory, audit *AuditTrail, retryLimit int) *ReportService {
	if retryLimit < 1 {
		retryLimit = 1
	}
	return &ReportService{db: db, dir: dir, audit: audit, retryLimit: retryLimit}
}

// Submit validates the candidate, resolves the target, applies the
// deduplication guard and creates the report with its priority stamped.
func (s *ReportService) Submit(ctx context.Context, reporterID uuid.UUID, req *dto.SubmitReportRequest, sctx models.SubmissionContext) (*models.Report, error) {
	if err := validateSubmission(reporterID, req); err != nil {
		return nil, err
	}

	exists, err := s.dir.Exists(ctx, req.TargetKind, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("%w: directory lookup: %v", ErrDependency, err)
	}
	if !exists {
		return nil, ErrTargetNotFound
	}

	// Friendly pre-check. The partial unique index below is what actually
	// closes the race between concurrent submissions.
	var open int64
	err = s.db.WithContext(ctx).Model(&models.Report{}).
		Where("reporter_id = ? AND target_kind = ? AND target_id = ?", reporterID, req.TargetKind, req.TargetID).
		Where("status IN ?", openStatusStrings()).
		Count(&open).Error
	if err != nil {
		return nil, fmt.Errorf("dedup check: %w", err)
	}
	if open > 0 {
		return nil, ErrDuplicateReport
	}

	severity := severityRank(req.Severity)
	priority := PriorityOf(req.ReasonCode, severity)

	report := models.Report{
		ID:           uuid.New(),
		ReporterID:   reporterID,
		TargetKind:   req.TargetKind,
		TargetID:     req.TargetID,
		ReasonCode:   req.ReasonCode,
		Narrative:    strings.TrimSpace(req.Narrative),
		Supplement:   strings.TrimSpace(req.Supplement),
		Severity:     severity,
		Status:       models.StatusPending,
		Priority:     priority,
		PriorityRank: priority.Rank(),
		ActionsTaken: datatypes.JSONSlice[models.ActionEntry]{},
		Context:      datatypes.NewJSONType(sctx),
		Version:      1,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		return s.audit.Append(tx, submissionAudit(&report))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReport
		}
		return nil, fmt.Errorf("create report: %w", err)
	}

	slog.Info("report submitted",
		"report_id", report.ID.String(),
		"target_kind", string(report.TargetKind),
		"priority", string(report.Priority),
	)
	return &report, nil
}

func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// List is the triage queue: filtered, ordered by priority rank then age, and
// paged. Returns the matching reports, the total count and the page count.
func (s *ReportService) List(ctx context.Context, filter ListFilter) ([]models.Report, int64, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := s.db.WithContext(ctx).Model(&models.Report{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	var reports []models.Report
	err := query.
		Order("priority_rank DESC, created_at ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reports).Error
	if err != nil {
		return nil, 0, 0, err
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return reports, total, pages, nil
}

// Update applies mutate to a fresh copy of the report under optimistic
// concurrency: the write is a compare-and-swap on the version column,
// retried transparently on collision up to the retry limit. The audit trail
// and any enforcement task returned by the mutator are written in the same
// transaction as the report row.
func (s *ReportService) Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, mutate func(*models.Report) (*models.EnforcementTask, error)) (*models.Report, error) {
	for attempt := 0; attempt < s.retryLimit; attempt++ {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		working := *current
		working.ActionsTaken = append(datatypes.JSONSlice[models.ActionEntry]{}, current.ActionsTaken...)

		task, err := mutate(&working)
		if err != nil {
			if errors.Is(err, errActionRecorded) {
				// Identical decision already applied; surface the current
				// state so the caller can treat the retry as a no-op.
				return current, err
			}
			return nil, err
		}

		entries := auditDiff(current, &working, actorID)

		swapped := false
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.Report{}).
				Where("id = ? AND version = ?", id, current.Version).
				Updates(map[string]interface{}{
					"reason_code":   working.ReasonCode,
					"severity":      working.Severity,
					"status":        working.Status,
					"priority":      working.Priority,
					"priority_rank": working.PriorityRank,
					"actions_taken": working.ActionsTaken,
					"assigned_to":   working.AssignedTo,
					"version":       current.Version + 1,
					"updated_at":    time.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// Version moved under us; retry with fresh state.
				return nil
			}
			swapped = true

			if task != nil {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(task).Error; err != nil {
					return err
				}
			}
			return s.audit.Append(tx, entries...)
		})
		if err != nil {
			return nil, fmt.Errorf("update report: %w", err)
		}
		if swapped {
			working.Version = current.Version + 1
			return &working, nil
		}

		slog.Warn("report update version conflict, retrying",
			"report_id", id.String(),
			"attempt", attempt+1,
		)
	}
	return nil, ErrConflict
}

func validateSubmission(reporterID uuid.UUID, req *dto.SubmitReportRequest) error {
	if !req.TargetKind.Valid() {
		return &ValidationError{Field: "target_kind", Reason: "must be user, post, reel, story or comment"}
	}
	if strings.TrimSpace(req.TargetID) == "" {
		return &ValidationError{Field: "target_id", Reason: "required"}
	}
	if !req.ReasonCode.Valid() {
		return &ValidationError{Field: "reason_code", Reason: "unknown reason"}
	}

	narrative := strings.TrimSpace(req.Narrative)
	if narrative == "" {
		return &ValidationError{Field: "narrative", Reason: "required"}
	}
	if utf8.RuneCountInString(narrative) > maxNarrativeLen {
		return &ValidationError{Field: "narrative", Reason: fmt.Sprintf("must be at most %d characters", maxNarrativeLen)}
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Supplement)) > maxSupplementLen {
		return &ValidationError{Field: "supplement", Reason: fmt.Sprintf("must be at most %d characters", maxSupplementLen)}
	}

	if req.TargetKind == models.TargetUser {
		targetID, err := uuid.Parse(req.TargetID)
		if err != nil {
			return &ValidationError{Field: "target_id", Reason: "must be a user id"}
		}
		if targetID == reporterID {
			return &ValidationError{Field: "target_id", Reason: "cannot report yourself"}
		}
	}
	return nil
}

func severityRank(in *dto.SeverityInput) int {
	if in == nil || !in.Set {
		return 0
	}
	if in.Tier != "" {
		return in.Tier.Rank()
	}
	return NormalizeScore(in.Score).Rank()
}

func openStatusStrings() []string {
	out := make([]string, len(models.OpenStatuses))
	for i, s := range models.OpenStatuses {
		out[i] = string(s)
	}
	return out
}
