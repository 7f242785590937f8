package models

import (
	"time"

	"github.com/google/uuid"
)

// Retweet is a join row between the retweeting user and a top-level
// post. The (user_id, post_id) pair is unique so repeated retweet calls
// cannot accumulate duplicate rows and corrupt counts.
type Retweet struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v4()" json:"_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_retweets_user_post" json:"user_id"`
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;not null;uniqueIndex:idx_retweets_user_post;index" json:"post_id"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp with time zone;not null;default:CURRENT_TIMESTAMP" json:"date"`
}

func (Retweet) TableName() string {
	return "retweets"
}
