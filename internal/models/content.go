package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content is the reportable-content registry: one row per post, reel, story
// or comment the platform publishes. The moderation core only reads it for
// existence and authorship checks; the feed services own the payloads.
type Content struct {
	ID        string         `gorm:"size:255;primaryKey" json:"id"`
	Kind      TargetKind     `gorm:"size:20;not null;primaryKey" json:"kind"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Content) TableName() string {
	return "contents"
}
