package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow records that FollowerID follows FolloweeID. A single row is
// both directions of the relationship at once (A's "following" and
// B's "followers" are two queries over the same table), so the two
// sides can never disagree.
type Follow struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v4()" json:"_id"`
	FollowerID uuid.UUID `gorm:"column:follower_id;type:uuid;not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"column:followee_id;type:uuid;not null;uniqueIndex:idx_follows_pair;index" json:"followee_id"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp with time zone;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
