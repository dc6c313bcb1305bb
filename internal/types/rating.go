package types

import (
	"time"

	"github.com/google/uuid"
)

type Rating struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	AnswerID   uuid.UUID  `gorm:"type:char(36);not null;uniqueIndex:idx_rating_answer_user" json:"answer_id"`
	Answer     *Answer    `gorm:"foreignKey:AnswerID;references:ID" json:"-"`
	QuestionID uuid.UUID  `gorm:"type:char(36);index;not null" json:"question_id"`
	UserID     *uuid.UUID `gorm:"type:char(36);uniqueIndex:idx_rating_answer_user" json:"user_id,omitempty"`
	Rating     int        `gorm:"not null;column:rating" json:"rating"`
	FlagIA     bool       `gorm:"not null;column:flag_ia" json:"flag_ia"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}
