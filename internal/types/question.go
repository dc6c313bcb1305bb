package types

import (
	"time"

	"github.com/google/uuid"
)

// Authorship of a question or answer.
const (
	AuthorHuman = "human"
	AuthorLLM   = "llm"
)

// Evaluation pipeline states for a question. The pipeline advances the tag
// after each persisted step, so a reader can always tell how far the
// background evaluation progressed.
const (
	QuestionEvalCreated         = "created"
	QuestionEvalCulturalScored  = "cultural_scored"
	QuestionEvalCoherenceScored = "coherence_scored"
	QuestionEvalFinal           = "final"
	QuestionEvalAnswered        = "answered"
)

type Question struct {
	ID                       uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID                   *uuid.UUID `gorm:"type:char(36);index" json:"user_id,omitempty"`
	User                     *User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Text                     string     `gorm:"type:text;not null;column:question" json:"question"`
	Topic                    string     `gorm:"not null;column:topic" json:"topic"`
	Type                     string     `gorm:"not null;column:type" json:"type"`
	CulturalSpecificity      *int       `gorm:"column:cultural_specificity" json:"cultural_specificity,omitempty"`
	CulturalSpecificityNotes *string    `gorm:"type:text;column:cultural_specificity_notes" json:"cultural_specificity_notes,omitempty"`
	CoherenceQT              *bool      `gorm:"column:coherence_qt" json:"coherence_qt,omitempty"`
	EvalState                string     `gorm:"not null;default:created;column:eval_state" json:"eval_state"`
	CreatedAt                time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt                time.Time  `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
