package services

import (
	"testing"

	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeScore(t *testing.T) {
	cases := []struct {
		score int
		want  models.PriorityTier
	}{
		{1, models.PriorityLow},
		{2, models.PriorityLow},
		{3, models.PriorityMedium},
		{5, models.PriorityMedium},
		{6, models.PriorityHigh},
		{7, models.PriorityHigh},
		{8, models.PriorityUrgent},
		{10, models.PriorityUrgent},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeScore(tc.score), "score %d", tc.score)
	}
}

func TestReasonFloor(t *testing.T) {
	assert.Equal(t, models.PriorityHigh, ReasonFloor(models.ReasonSelfHarm))
	assert.Equal(t, models.PriorityHigh, ReasonFloor(models.ReasonViolence))
	assert.Equal(t, models.PriorityLow, ReasonFloor(models.ReasonSpam))
	assert.Equal(t, models.PriorityLow, ReasonFloor(models.ReasonOther))
}

func TestPriorityOf(t *testing.T) {
	// Reason floor wins over a low stated severity.
	assert.Equal(t, models.PriorityHigh,
		PriorityOf(models.ReasonSelfHarm, models.PriorityLow.Rank()))

	// Stated severity wins over a low floor.
	assert.Equal(t, models.PriorityUrgent,
		PriorityOf(models.ReasonSpam, NormalizeScore(8).Rank()))

	// Neither pushes above low.
	assert.Equal(t, models.PriorityLow,
		PriorityOf(models.ReasonOther, NormalizeScore(2).Rank()))

	// No severity given: the floor alone decides.
	assert.Equal(t, models.PriorityLow, PriorityOf(models.ReasonHarassment, 0))
	assert.Equal(t, models.PriorityHigh, PriorityOf(models.ReasonViolence, 0))
}

func TestPriorityIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t,
			PriorityOf(models.ReasonHateSpeech, 2),
			PriorityOf(models.ReasonHateSpeech, 2))
	}
}
