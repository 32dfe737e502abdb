package dto

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/google/uuid"
)

// SeverityInput accepts either a coarse tier string ("low".."urgent") or a
// numeric 1-10 scale, the two shapes the mobile clients historically sent.
type SeverityInput struct {
	Tier  models.PriorityTier
	Score int
	Set   bool
}

func (s *SeverityInput) UnmarshalJSON(data []byte) error {
	var num int
	if err := json.Unmarshal(data, &num); err == nil {
		if num < 1 || num > 10 {
			return fmt.Errorf("severity must be between 1 and 10, got %d", num)
		}
		s.Score = num
		s.Set = true
		return nil
	}

	var tier string
	if err := json.Unmarshal(data, &tier); err != nil {
		return fmt.Errorf("severity must be a tier string or a number")
	}
	switch models.PriorityTier(tier) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent:
		s.Tier = models.PriorityTier(tier)
		s.Set = true
		return nil
	}
	return fmt.Errorf("unknown severity tier %q", tier)
}

func (s SeverityInput) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	if s.Tier != "" {
		return json.Marshal(string(s.Tier))
	}
	return []byte(strconv.Itoa(s.Score)), nil
}

type SubmitReportRequest struct {
	TargetKind models.TargetKind `json:"target_kind"`
	TargetID   string            `json:"target_id"`
	ReasonCode models.ReasonCode `json:"reason_code"`
	Narrative  string            `json:"narrative"`
	Supplement string            `json:"supplement,omitempty"`
	Severity   *SeverityInput    `json:"severity,omitempty"`
}

type SubmitReportResponse struct {
	ReportID uuid.UUID           `json:"report_id"`
	Status   models.ReportStatus `json:"status"`
	Priority models.PriorityTier `json:"priority"`
}

type TakeActionRequest struct {
	Action  models.ActionType `json:"action"`
	Details string            `json:"details"`
}

type TransitionRequest struct {
	Status models.ReportStatus `json:"status"`
	Note   string              `json:"note,omitempty"`
}

type AssignRequest struct {
	ModeratorID uuid.UUID `json:"moderator_id"`
}

// ActionResponse is the updated report summary returned after a decision.
type ActionResponse struct {
	ID           uuid.UUID            `json:"id"`
	Status       models.ReportStatus  `json:"status"`
	ActionsTaken []models.ActionEntry `json:"actions_taken"`

	// EnforcementPending is set when the decision was recorded but the
	// directory-side consequence has not been confirmed yet.
	EnforcementPending bool `json:"enforcement_pending,omitempty"`
}

type ListReportsResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Pages   int             `json:"pages"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
