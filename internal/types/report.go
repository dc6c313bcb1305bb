package types

import (
	"time"

	"github.com/google/uuid"
)

type Report struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:char(36);index;not null" json:"user_id"`
	Reason     string     `gorm:"type:text;not null;column:reason" json:"reason"`
	QuestionID *uuid.UUID `gorm:"type:char(36)" json:"question_id,omitempty"`
	AnswerID   *uuid.UUID `gorm:"type:char(36)" json:"answer_id,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}
