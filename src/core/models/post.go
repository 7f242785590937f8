package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is both a top-level post and a comment: a nil ParentID means
// top-level, a non-nil ParentID references the post being replied to.
// Text is immutable after creation; ImgPath is the only field written
// after insert (second phase of the create-then-upload flow).
type Post struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v4()" json:"_id"`
	AuthorID  uuid.UUID  `gorm:"column:author_id;type:uuid;not null;index" json:"author"`
	Text      string     `gorm:"column:text;type:text;not null" json:"text"`
	ImgPath   string     `gorm:"column:img_path;type:text" json:"img_path,omitempty"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid;index" json:"parent,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamp with time zone;not null;default:CURRENT_TIMESTAMP" json:"date"`
}

func (Post) TableName() string {
	return "posts"
}

// IsComment reports whether the post is a reply to another post.
func (p Post) IsComment() bool {
	return p.ParentID != nil
}
