package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TargetKind discriminates what a report points at.
type TargetKind string

const (
	TargetUser    TargetKind = "user"
	TargetPost    TargetKind = "post"
	TargetReel    TargetKind = "reel"
	TargetStory   TargetKind = "story"
	TargetComment TargetKind = "comment"
)

func (k TargetKind) Valid() bool {
	switch k {
	case TargetUser, TargetPost, TargetReel, TargetStory, TargetComment:
		return true
	}
	return false
}

// ReasonCode is the report reason taxonomy shared by content and user reports.
type ReasonCode string

const (
	ReasonHarassment    ReasonCode = "harassment"
	ReasonSpam          ReasonCode = "spam"
	ReasonHateSpeech    ReasonCode = "hate_speech"
	ReasonSelfHarm      ReasonCode = "self_harm"
	ReasonViolence      ReasonCode = "violence"
	ReasonScam          ReasonCode = "scam"
	ReasonNudity        ReasonCode = "nudity"
	ReasonFakeProfile   ReasonCode = "fake_profile"
	ReasonImpersonation ReasonCode = "impersonation"
	ReasonOther         ReasonCode = "other"
)

func (r ReasonCode) Valid() bool {
	switch r {
	case ReasonHarassment, ReasonSpam, ReasonHateSpeech, ReasonSelfHarm,
		ReasonViolence, ReasonScam, ReasonNudity, ReasonFakeProfile,
		ReasonImpersonation, ReasonOther:
		return true
	}
	return false
}

type ReportStatus string

const (
	StatusPending     ReportStatus = "pending"
	StatusUnderReview ReportStatus = "under_review"
	StatusResolved    ReportStatus = "resolved"
	StatusDismissed   ReportStatus = "dismissed"
	StatusEscalated   ReportStatus = "escalated"
)

// OpenStatuses are the statuses that block a duplicate submission for the
// same (reporter, target) tuple. Terminal reports do not block re-filing.
var OpenStatuses = []ReportStatus{StatusPending, StatusUnderReview, StatusEscalated}

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusResolved, StatusDismissed, StatusEscalated:
		return true
	}
	return false
}

func (s ReportStatus) Terminal() bool {
	return s == StatusResolved || s == StatusDismissed
}

// statusTransitions is the report state machine. Escalated reports may
// re-enter review for a second pass but never go back to pending.
var statusTransitions = map[ReportStatus][]ReportStatus{
	StatusPending:     {StatusUnderReview},
	StatusUnderReview: {StatusResolved, StatusDismissed, StatusEscalated},
	StatusEscalated:   {StatusUnderReview},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to ReportStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PriorityTier string

const (
	PriorityLow    PriorityTier = "low"
	PriorityMedium PriorityTier = "medium"
	PriorityHigh   PriorityTier = "high"
	PriorityUrgent PriorityTier = "urgent"
)

// Rank maps a tier onto the ordinal scale used for queue ordering.
func (p PriorityTier) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func TierFromRank(rank int) PriorityTier {
	switch {
	case rank >= 4:
		return PriorityUrgent
	case rank == 3:
		return PriorityHigh
	case rank == 2:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

type ActionType string

const (
	ActionNone               ActionType = "none"
	ActionWarning            ActionType = "warning"
	ActionTemporaryBan       ActionType = "temporary_ban"
	ActionPermanentBan       ActionType = "permanent_ban"
	ActionContentRemoval     ActionType = "content_removal"
	ActionProfileRestriction ActionType = "profile_restriction"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionNone, ActionWarning, ActionTemporaryBan, ActionPermanentBan,
		ActionContentRemoval, ActionProfileRestriction:
		return true
	}
	return false
}

// ActionEntry is one record in a report's append-only action log. Status
// transitions append an entry with an empty Action; administrative decisions
// carry both the Action and the status they moved the report to.
type ActionEntry struct {
	Action  ActionType   `json:"action,omitempty"`
	Status  ReportStatus `json:"status,omitempty"`
	Reason  string       `json:"reason"`
	ActorID uuid.UUID    `json:"actor_id"`
	TakenAt time.Time    `json:"taken_at"`
}

// SubmissionContext is captured once at submission time and never updated.
type SubmissionContext struct {
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Report is the unified complaint entity covering both content and user
// reports, discriminated by TargetKind.
type Report struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	TargetKind TargetKind `gorm:"size:20;not null;index:idx_reports_target" json:"target_kind"`
	TargetID   string     `gorm:"size:255;not null;index:idx_reports_target" json:"target_id"`
	ReasonCode ReasonCode `gorm:"size:50;not null" json:"reason_code"`
	Narrative  string     `gorm:"size:1000;not null" json:"narrative"`
	Supplement string     `gorm:"size:500" json:"supplement,omitempty"`

	// Severity is the normalized ordinal (1..4); 0 means the reporter gave
	// none and the reason floor alone decides priority.
	Severity int          `gorm:"not null;default:0" json:"severity"`
	Status   ReportStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Priority PriorityTier `gorm:"size:10;not null" json:"priority"`

	// PriorityRank duplicates Priority as an integer so the triage queue can
	// order in SQL without a tier-to-rank mapping.
	PriorityRank int `gorm:"not null;default:1;index" json:"-"`

	ActionsTaken datatypes.JSONSlice[ActionEntry]      `gorm:"type:jsonb" json:"actions_taken"`
	AssignedTo   *uuid.UUID                            `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	Context      datatypes.JSONType[SubmissionContext] `gorm:"type:jsonb;column:submission_context" json:"-"`

	// Version is the optimistic concurrency token; every update is a
	// compare-and-swap against it.
	Version int `gorm:"not null;default:1" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Open reports whether the report still blocks duplicate submissions.
func (r *Report) Open() bool {
	return !r.Status.Terminal()
}

// HasAction reports whether an identical (action, actor) decision was already
// recorded. This is the idempotency check for retried moderator calls.
func (r *Report) HasAction(action ActionType, actorID uuid.UUID) bool {
	for _, e := range r.ActionsTaken {
		if e.Action != "" && e.Action == action && e.ActorID == actorID {
			return true
		}
	}
	return false
}
