package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Username   string     `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email      string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password   string     `gorm:"not null;column:password_hash" json:"-"`
	Nation     string     `gorm:"column:nation" json:"nation"`
	SignupDate time.Time  `gorm:"not null;column:signup_date" json:"signup_date"`
	LastLogin  *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
