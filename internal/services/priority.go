package services

import "github.com/veyra-social/moderation-backend/internal/models"

// NormalizeScore maps the mobile clients' 1-10 severity scale onto the
// ordinal tiers used internally.
func NormalizeScore(score int) models.PriorityTier {
	switch {
	case score >= 8:
		return models.PriorityUrgent
	case score >= 6:
		return models.PriorityHigh
	case score >= 3:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// ReasonFloor is the minimum priority a reason code carries regardless of the
// reporter's stated severity.
func ReasonFloor(reason models.ReasonCode) models.PriorityTier {
	switch reason {
	case models.ReasonSelfHarm, models.ReasonViolence:
		return models.PriorityHigh
	default:
		return models.PriorityLow
	}
}

// PriorityOf derives the triage priority from the reason code and the
// normalized severity rank (0 when the reporter gave none). It is a pure
// function of its inputs so the triage queue stays deterministic.
func PriorityOf(reason models.ReasonCode, severityRank int) models.PriorityTier {
	rank := severityRank
	if floor := ReasonFloor(reason).Rank(); floor > rank {
		rank = floor
	}
	if rank < models.PriorityLow.Rank() {
		rank = models.PriorityLow.Rank()
	}
	return models.TierFromRank(rank)
}
