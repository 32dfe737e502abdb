//go:build integration

package services

import (
	"context"
	"os"
	"testing"

	"github.com/veyra-social/moderation-backend/internal/database"
	"github.com/veyra-social/moderation-backend/internal/directory"
	"github.com/veyra-social/moderation-backend/internal/dto"
	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to the database named by TEST_DATABASE_DSN, applies the
// schema and clears all tables. Tests are skipped when no database is
// configured.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateDB(db))

	for _, table := range []string{"audit_entries", "enforcement_tasks", "reports", "contents", "users"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	u := models.User{ID: uuid.New(), Email: uuid.NewString() + "@test.local"}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func TestSubmitDedupInvariant(t *testing.T) {
	db := openTestDB(t)
	svc := NewReportService(db, directory.NewGormDirectory(db), NewAuditTrail(db), 3)

	reporter := seedUser(t, db)
	target := seedUser(t, db)
	req := &dto.SubmitReportRequest{
		TargetKind: models.TargetUser,
		TargetID:   target.String(),
		ReasonCode: models.ReasonHarassment,
		Narrative:  "sent repeated threatening messages",
	}

	first, err := svc.Submit(context.Background(), reporter, req, models.SubmissionContext{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, first.Status)

	// Second submission for the same open tuple is a duplicate.
	_, err = svc.Submit(context.Background(), reporter, req, models.SubmissionContext{})
	assert.ErrorIs(t, err, ErrDuplicateReport)

	// A different reporter is not blocked.
	other := seedUser(t, db)
	_, err = svc.Submit(context.Background(), other, req, models.SubmissionContext{})
	require.NoError(t, err)

	// Once the first report turns terminal, re-filing the same tuple works.
	_, err = svc.Update(context.Background(), first.ID, reporter, func(r *models.Report) (*models.EnforcementTask, error) {
		r.Status = models.StatusDismissed
		return nil, nil
	})
	require.NoError(t, err)

	refiled, err := svc.Submit(context.Background(), reporter, req, models.SubmissionContext{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, refiled.ID)
}

func TestSubmitDedupIndexClosesRace(t *testing.T) {
	db := openTestDB(t)

	reporter := seedUser(t, db)
	target := seedUser(t, db)
	existing := models.Report{
		ID:           uuid.New(),
		ReporterID:   reporter,
		TargetKind:   models.TargetUser,
		TargetID:     target.String(),
		ReasonCode:   models.ReasonSpam,
		Narrative:    "mass-posting the same link",
		Status:       models.StatusPending,
		Priority:     models.PriorityLow,
		PriorityRank: models.PriorityLow.Rank(),
		Version:      1,
	}
	require.NoError(t, db.Create(&existing).Error)

	// A competing row landing between check and create, the way a concurrent
	// submission would, is rejected by the partial unique index and surfaces
	// as the duplicated-key error Submit translates.
	dup := existing
	dup.ID = uuid.New()
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Once the existing report is terminal it leaves the index predicate.
	require.NoError(t, db.Model(&models.Report{}).
		Where("id = ?", existing.ID).
		Update("status", models.StatusResolved).Error)
	refile := existing
	refile.ID = uuid.New()
	refile.Status = models.StatusPending
	assert.NoError(t, db.Create(&refile).Error)
}
