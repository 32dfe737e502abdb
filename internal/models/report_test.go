package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to ReportStatus }{
		{StatusPending, StatusUnderReview},
		{StatusUnderReview, StatusResolved},
		{StatusUnderReview, StatusDismissed},
		{StatusUnderReview, StatusEscalated},
		{StatusEscalated, StatusUnderReview},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to ReportStatus }{
		{StatusPending, StatusResolved},
		{StatusPending, StatusEscalated},
		{StatusEscalated, StatusPending},
		{StatusResolved, StatusUnderReview},
		{StatusResolved, StatusResolved},
		{StatusDismissed, StatusUnderReview},
		{StatusUnderReview, StatusPending},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusResolved.Terminal())
	assert.True(t, StatusDismissed.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusUnderReview.Terminal())
	assert.False(t, StatusEscalated.Terminal())

	// Every non-terminal status must be in the open set the dedup guard
	// scans, and vice versa.
	for _, s := range OpenStatuses {
		assert.False(t, s.Terminal())
	}
	assert.Len(t, OpenStatuses, 3)
}

func TestHasActionIgnoresTransitionEntries(t *testing.T) {
	actor := uuid.New()
	r := Report{
		ActionsTaken: []ActionEntry{
			{Status: StatusUnderReview, ActorID: actor}, // transition only
			{Action: ActionWarning, Status: StatusUnderReview, ActorID: actor},
		},
	}

	assert.True(t, r.HasAction(ActionWarning, actor))
	assert.False(t, r.HasAction(ActionWarning, uuid.New()))
	assert.False(t, r.HasAction(ActionPermanentBan, actor))
	assert.False(t, r.HasAction("", actor))
}

func TestTierRankRoundTrip(t *testing.T) {
	for _, tier := range []PriorityTier{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		assert.Equal(t, tier, TierFromRank(tier.Rank()))
	}
	assert.Equal(t, PriorityLow, TierFromRank(0))
	assert.Equal(t, PriorityUrgent, TierFromRank(9))
}
