package types

import (
	"time"

	"github.com/google/uuid"
)

// Evaluation pipeline states for an answer.
const (
	AnswerEvalCreated        = "created"
	AnswerEvalValidityScored = "validity_scored"
	AnswerEvalFinal          = "final"
)

type Answer struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	QuestionID uuid.UUID  `gorm:"type:char(36);index;not null" json:"question_id"`
	Question   *Question  `gorm:"foreignKey:QuestionID;references:ID" json:"-"`
	UserID     *uuid.UUID `gorm:"type:char(36);index" json:"user_id,omitempty"`
	User       *User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Text       string     `gorm:"type:text;not null;column:answer" json:"answer"`
	Type       string     `gorm:"not null;column:type" json:"type"`
	EvalState  string     `gorm:"not null;default:created;column:eval_state" json:"eval_state"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (Answer) TableName() string {
	return "answers"
}
