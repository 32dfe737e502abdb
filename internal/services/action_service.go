package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/veyra-social/moderation-backend/internal/directory"
	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/veyra-social/moderation-backend/internal/notify"
	"github.com/google/uuid"
)

const minActionDetails = 10

// Store is the slice of the report store the executor needs. ReportService
// satisfies it; tests substitute an in-memory implementation.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Report, error)
	Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, mutate func(*models.Report) (*models.EnforcementTask, error)) (*models.Report, error)
}

// Enforcer applies a directory-side consequence. The enforcement worker
// implements it; a failed application leaves the task queued for retry.
type Enforcer interface {
	Apply(ctx context.Context, task *models.EnforcementTask) error
}

// ActionService executes moderator decisions: status transitions,
// assignment, reclassification, and administrative actions with their
// directory-side consequences.
type ActionService struct {
	store    Store
	dir      directory.Directory
	enforcer Enforcer
	fanout   notify.Fanout
	tempBan  time.Duration
}

func NewActionService(store Store, dir directory.Directory, enforcer Enforcer, fanout notify.Fanout, tempBan time.Duration) *ActionService {
	return &ActionService{
		store:    store,
		dir:      dir,
		enforcer: enforcer,
		fanout:   fanout,
		tempBan:  tempBan,
	}
}

// TakeAction records an administrative decision against a report and applies
// its consequence. The report mutation, the action-log append and the
// enforcement task are committed together; the directory call itself happens
// after commit and is retried by key rather than rolled into the same
// transaction. The returned bool is true when the decision was recorded but
// enforcement is still pending.
func (s *ActionService) TakeAction(ctx context.Context, reportID uuid.UUID, action models.ActionType, details string, actorID uuid.UUID) (*models.Report, bool, error) {
	if !action.Valid() {
		return nil, false, &ValidationError{Field: "action", Reason: "unknown action"}
	}
	details = strings.TrimSpace(details)
	if utf8.RuneCountInString(details) < minActionDetails {
		return nil, false, &ValidationError{Field: "details", Reason: "justification must be at least 10 characters"}
	}

	var task *models.EnforcementTask
	report, err := s.store.Update(ctx, reportID, actorID, func(r *models.Report) (*models.EnforcementTask, error) {
		if r.HasAction(action, actorID) {
			return nil, errActionRecorded
		}
		if r.Status.Terminal() {
			return nil, ErrInvalidTransition
		}

		next := statusAfter(action, r.Status)
		r.ActionsTaken = append(r.ActionsTaken, models.ActionEntry{
			Action:  action,
			Status:  next,
			Reason:  details,
			ActorID: actorID,
			TakenAt: time.Now(),
		})
		r.Status = next

		task = s.consequenceFor(r, action, actorID)
		return task, nil
	})
	if err != nil {
		if errors.Is(err, errActionRecorded) {
			// Retried identical decision: no new log entry, no new audit
			// record, no second enforcement.
			return report, false, nil
		}
		return nil, false, err
	}

	pending := false
	if task != nil {
		if err := s.enforcer.Apply(ctx, task); err != nil {
			pending = true
			slog.Error("action recorded, enforcement pending",
				"report_id", reportID.String(),
				"action", string(action),
				"error", err,
			)
		}
	}

	if report.Status.Terminal() {
		s.notifyDecision(ctx, report)
	} else if action == models.ActionWarning {
		s.notifyWarning(ctx, report)
	}
	return report, pending, nil
}

// statusAfter maps a decision onto the report's next status. Final
// remediations close the report; intermediate measures keep it open for a
// later close-out; acting on a pending report implicitly begins review.
func statusAfter(action models.ActionType, current models.ReportStatus) models.ReportStatus {
	switch action {
	case models.ActionNone:
		return models.StatusDismissed
	case models.ActionWarning, models.ActionProfileRestriction:
		if current == models.StatusPending || current == models.StatusEscalated {
			return models.StatusUnderReview
		}
		return current
	default:
		return models.StatusResolved
	}
}

// Transition moves a report through the review state machine: begin review,
// escalate, dismiss, or close out a report whose remediation already
// happened through an intermediate action.
func (s *ActionService) Transition(ctx context.Context, reportID uuid.UUID, to models.ReportStatus, note string, actorID uuid.UUID) (*models.Report, error) {
	switch to {
	case models.StatusUnderReview, models.StatusEscalated, models.StatusDismissed, models.StatusResolved:
	default:
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	report, err := s.store.Update(ctx, reportID, actorID, func(r *models.Report) (*models.EnforcementTask, error) {
		if !models.CanTransition(r.Status, to) {
			return nil, ErrInvalidTransition
		}
		r.ActionsTaken = append(r.ActionsTaken, models.ActionEntry{
			Status:  to,
			Reason:  note,
			ActorID: actorID,
			TakenAt: time.Now(),
		})
		r.Status = to
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	if to.Terminal() {
		s.notifyDecision(ctx, report)
	}
	return report, nil
}

// Assign hands a report to a moderator. The assignee must hold a moderation
// role in the directory.
func (s *ActionService) Assign(ctx context.Context, reportID uuid.UUID, moderatorID uuid.UUID, actorID uuid.UUID) (*models.Report, error) {
	role, err := s.dir.RoleOf(ctx, moderatorID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return nil, &ValidationError{Field: "moderator_id", Reason: "no such user"}
		}
		return nil, errors.Join(ErrDependency, err)
	}
	if role != "moderator" && role != "admin" {
		return nil, &ValidationError{Field: "moderator_id", Reason: "assignee is not a moderator"}
	}

	return s.store.Update(ctx, reportID, actorID, func(r *models.Report) (*models.EnforcementTask, error) {
		if r.Status.Terminal() {
			return nil, ErrInvalidTransition
		}
		r.AssignedTo = &moderatorID
		return nil, nil
	})
}

// Reclassify edits the reason code and/or severity of an open report and
// recomputes its priority. Priority is never set directly.
func (s *ActionService) Reclassify(ctx context.Context, reportID uuid.UUID, reason *models.ReasonCode, severity *int, actorID uuid.UUID) (*models.Report, error) {
	if reason != nil && !reason.Valid() {
		return nil, &ValidationError{Field: "reason_code", Reason: "unknown reason"}
	}
	if severity != nil && (*severity < 1 || *severity > 10) {
		return nil, &ValidationError{Field: "severity", Reason: "must be between 1 and 10"}
	}
	if reason == nil && severity == nil {
		return nil, &ValidationError{Field: "body", Reason: "nothing to change"}
	}

	return s.store.Update(ctx, reportID, actorID, func(r *models.Report) (*models.EnforcementTask, error) {
		if r.Status.Terminal() {
			return nil, ErrInvalidTransition
		}
		if reason != nil {
			r.ReasonCode = *reason
		}
		if severity != nil {
			r.Severity = NormalizeScore(*severity).Rank()
		}
		priority := PriorityOf(r.ReasonCode, r.Severity)
		r.Priority = priority
		r.PriorityRank = priority.Rank()
		return nil, nil
	})
}

// consequenceFor builds the enforcement task a decision implies, if any.
// Only ban actions against user-kind reports reach the directory; content
// takedowns belong to the content services and are recorded only.
func (s *ActionService) consequenceFor(r *models.Report, action models.ActionType, actorID uuid.UUID) *models.EnforcementTask {
	if r.TargetKind != models.TargetUser {
		return nil
	}
	if action != models.ActionTemporaryBan && action != models.ActionPermanentBan {
		return nil
	}

	targetID, err := uuid.Parse(r.TargetID)
	if err != nil {
		// Guarded at submission; a bad id here is a data bug, not a caller
		// error.
		slog.Error("user report carries unparseable target id",
			"report_id", r.ID.String(),
			"target_id", r.TargetID,
		)
		return nil
	}

	task := &models.EnforcementTask{
		ID:           uuid.New(),
		ReportID:     r.ID,
		Action:       action,
		TargetUserID: targetID,
		ActorID:      actorID,
		Status:       models.EnforcementPending,
	}
	if action == models.ActionTemporaryBan {
		until := time.Now().Add(s.tempBan)
		task.Until = &until
	}
	return task
}

func (s *ActionService) notifyDecision(ctx context.Context, r *models.Report) {
	msgType := notify.TypeReportResolved
	if r.Status == models.StatusDismissed {
		msgType = notify.TypeReportDismissed
	}

	recipients := []uuid.UUID{r.ReporterID}
	msg := notify.Message{
		Type:      msgType,
		ReportID:  r.ID,
		Body:      "Your report has been reviewed.",
		Timestamp: time.Now().Unix(),
	}
	if _, err := s.fanout.Notify(ctx, recipients, msg); err != nil {
		slog.Error("reporter notification failed", "report_id", r.ID.String(), "error", err)
	}
}

// notifyWarning tells a warned user directly; bans are communicated by the
// directory side once enforcement lands.
func (s *ActionService) notifyWarning(ctx context.Context, r *models.Report) {
	if r.TargetKind != models.TargetUser {
		return
	}
	targetID, err := uuid.Parse(r.TargetID)
	if err != nil {
		return
	}
	warn := notify.Message{
		Type:      notify.TypeAccountActioned,
		ReportID:  r.ID,
		Body:      "Your account has received a warning for a community guidelines violation.",
		Timestamp: time.Now().Unix(),
	}
	if _, err := s.fanout.Notify(ctx, []uuid.UUID{targetID}, warn); err != nil {
		slog.Error("warning notification failed", "report_id", r.ID.String(), "error", err)
	}
}
