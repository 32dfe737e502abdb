package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/veyra-social/moderation-backend/internal/directory"
	"github.com/veyra-social/moderation-backend/internal/models"
	retry "github.com/avast/retry-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	enforcementBatchSize   = 50
	enforcementMaxAttempts = 10
	enforcementRetryDelay  = 500 * time.Millisecond
	enforcementRetryMax    = 10 * time.Second
)

// EnforcementWorker drains pending enforcement tasks and applies them
// against the user directory. Tasks are committed alongside the report
// update that created them, so a directory outage delays enforcement but
// never loses it. Application is idempotent by (report_id, action).
type EnforcementWorker struct {
	db      *gorm.DB
	dir     directory.Directory
	audit   *AuditTrail
	tick    time.Duration
	retries uint

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func NewEnforcementWorker(db *gorm.DB, dir directory.Directory, audit *AuditTrail, tick time.Duration, retries uint) *EnforcementWorker {
	if retries < 1 {
		retries = 1
	}
	return &EnforcementWorker{
		db:      db,
		dir:     dir,
		audit:   audit,
		tick:    tick,
		retries: retries,
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (w *EnforcementWorker) Start() {
	w.wg.Add(1)
	go w.loop()
	slog.Info("enforcement worker started", "tick", w.tick.String())
}

func (w *EnforcementWorker) Stop() {
	close(w.done)
	w.wg.Wait()
	slog.Info("enforcement worker stopped")
}

// Kick nudges the worker without waiting for the next tick.
func (w *EnforcementWorker) Kick() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *EnforcementWorker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.processPending()
		case <-w.kick:
			w.processPending()
		}
	}
}

func (w *EnforcementWorker) processPending() {
	var tasks []models.EnforcementTask
	err := w.db.
		Where("status = ?", models.EnforcementPending).
		Order("created_at ASC").
		Limit(enforcementBatchSize).
		Find(&tasks).Error
	if err != nil {
		slog.Error("enforcement: fetch pending failed", "error", err)
		return
	}

	for i := range tasks {
		if err := w.Apply(context.Background(), &tasks[i]); err != nil {
			slog.Error("enforcement: apply failed",
				"report_id", tasks[i].ReportID.String(),
				"action", string(tasks[i].Action),
				"attempts", tasks[i].Attempts,
				"error", err,
			)
		}
	}
}

// Apply calls the directory with backoff and marks the task done exactly
// once. A task that another applier already finished is skipped, so retried
// applications never double-record in the audit trail.
func (w *EnforcementWorker) Apply(ctx context.Context, task *models.EnforcementTask) error {
	err := retry.Do(
		func() error {
			return w.dir.Suspend(ctx, task.TargetUserID, task.Until)
		},
		retry.Attempts(w.retries),
		retry.Delay(enforcementRetryDelay),
		retry.MaxDelay(enforcementRetryMax),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		w.recordFailure(ctx, task, err)
		return fmt.Errorf("%w: %v", ErrDependency, err)
	}

	result := w.db.WithContext(ctx).Model(&models.EnforcementTask{}).
		Where("id = ? AND status = ?", task.ID, models.EnforcementPending).
		Updates(map[string]interface{}{
			"status":   models.EnforcementDone,
			"attempts": gorm.Expr("attempts + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Another applier finished first.
		return nil
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"target_user_id": task.TargetUserID.String(),
		"until":          task.Until,
	})
	entry := models.AuditEntry{
		ReportID:  task.ReportID,
		ActorID:   task.ActorID,
		Event:     models.AuditEnforcementDone,
		Action:    task.Action,
		Detail:    datatypes.JSON(detail),
		CreatedAt: time.Now(),
	}
	if err := w.audit.Append(w.db.WithContext(ctx), entry); err != nil {
		slog.Error("enforcement: audit append failed", "report_id", task.ReportID.String(), "error", err)
	}

	slog.Info("enforcement applied",
		"report_id", task.ReportID.String(),
		"action", string(task.Action),
		"target_user_id", task.TargetUserID.String(),
	)
	return nil
}

func (w *EnforcementWorker) recordFailure(ctx context.Context, task *models.EnforcementTask, cause error) {
	updates := map[string]interface{}{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": cause.Error(),
	}
	// Keep retrying from the loop until the attempt cap is hit, then park
	// the task for operator attention.
	if task.Attempts+1 >= enforcementMaxAttempts {
		updates["status"] = models.EnforcementFailed
	}
	if err := w.db.WithContext(ctx).Model(&models.EnforcementTask{}).
		Where("id = ?", task.ID).
		Updates(updates).Error; err != nil {
		slog.Error("enforcement: record failure failed", "error", err)
	}
}
