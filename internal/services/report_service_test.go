package services

import (
	"strings"
	"testing"

	"github.com/veyra-social/moderation-backend/internal/dto"
	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission(target models.TargetKind, targetID string) *dto.SubmitReportRequest {
	return &dto.SubmitReportRequest{
		TargetKind: target,
		TargetID:   targetID,
		ReasonCode: models.ReasonHarassment,
		Narrative:  "sent repeated threatening messages",
	}
}

func TestValidateSubmission(t *testing.T) {
	reporter := uuid.New()

	t.Run("accepts a well-formed content report", func(t *testing.T) {
		assert.NoError(t, validateSubmission(reporter, validSubmission(models.TargetPost, "p1")))
	})

	t.Run("rejects unknown target kind", func(t *testing.T) {
		req := validSubmission("channel", "c1")
		err := validateSubmission(reporter, req)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("rejects empty target id", func(t *testing.T) {
		err := validateSubmission(reporter, validSubmission(models.TargetPost, "  "))
		assert.True(t, IsValidation(err))
	})

	t.Run("rejects unknown reason", func(t *testing.T) {
		req := validSubmission(models.TargetPost, "p1")
		req.ReasonCode = "bad_vibes"
		assert.True(t, IsValidation(validateSubmission(reporter, req)))
	})

	t.Run("rejects empty narrative", func(t *testing.T) {
		req := validSubmission(models.TargetPost, "p1")
		req.Narrative = "   "
		assert.True(t, IsValidation(validateSubmission(reporter, req)))
	})

	t.Run("rejects over-long narrative", func(t *testing.T) {
		req := validSubmission(models.TargetPost, "p1")
		req.Narrative = strings.Repeat("a", maxNarrativeLen+1)
		assert.True(t, IsValidation(validateSubmission(reporter, req)))
	})

	t.Run("narrative limit counts characters, not bytes", func(t *testing.T) {
		req := validSubmission(models.TargetPost, "p1")
		req.Narrative = strings.Repeat("ö", 600)
		assert.NoError(t, validateSubmission(reporter, req))

		req.Narrative = strings.Repeat("ö", maxNarrativeLen+1)
		assert.True(t, IsValidation(validateSubmission(reporter, req)))
	})

	t.Run("rejects over-long supplement", func(t *testing.T) {
		req := validSubmission(models.TargetPost, "p1")
		req.Supplement = strings.Repeat("b", maxSupplementLen+1)
		assert.True(t, IsValidation(validateSubmission(reporter, req)))
	})

	t.Run("rejects self report", func(t *testing.T) {
		req := validSubmission(models.TargetUser, reporter.String())
		assert.True(t, IsValidation(validateSubmission(reporter, req)))
	})

	t.Run("rejects user target that is not a user id", func(t *testing.T) {
		req := validSubmission(models.TargetUser, "not-a-uuid")
		assert.True(t, IsValidation(validateSubmission(reporter, req)))
	})

	t.Run("accepts a user report against someone else", func(t *testing.T) {
		req := validSubmission(models.TargetUser, uuid.NewString())
		assert.NoError(t, validateSubmission(reporter, req))
	})
}

func TestSeverityRank(t *testing.T) {
	assert.Equal(t, 0, severityRank(nil))
	assert.Equal(t, 0, severityRank(&dto.SeverityInput{}))

	assert.Equal(t, models.PriorityHigh.Rank(),
		severityRank(&dto.SeverityInput{Tier: models.PriorityHigh, Set: true}))

	assert.Equal(t, models.PriorityUrgent.Rank(),
		severityRank(&dto.SeverityInput{Score: 9, Set: true}))
	assert.Equal(t, models.PriorityLow.Rank(),
		severityRank(&dto.SeverityInput{Score: 1, Set: true}))
}

func TestOpenStatusStrings(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"pending", "under_review", "escalated"},
		openStatusStrings())
}
