package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. The follow graph lives in the
// follows table (models.Follow), not on the user row itself.
type User struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v4()" json:"_id"`
	FullName  string     `gorm:"column:full_name;type:text;not null" json:"full_name" validate:"required,max=50"`
	Username  string     `gorm:"column:username;type:text;unique;not null" json:"username" validate:"required,max=30"`
	Password  string     `gorm:"column:password;type:text;not null" json:"-" validate:"required,min=6"`
	Address   string     `gorm:"column:address;type:text" json:"address,omitempty"`
	Birthday  *time.Time `gorm:"column:birthday;type:date" json:"birthday,omitempty"`
	Bio       string     `gorm:"column:bio;type:text" json:"bio,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamp with time zone;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;type:timestamp with time zone;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
