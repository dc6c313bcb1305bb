package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnswerEvaluation holds the scorer's verdict on a single answer. The row is
// inserted with the validity score first; the coherence flag is updated into
// the same row by a later pipeline step, so it is null until then.
type AnswerEvaluation struct {
	ID            uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	AnswerID      uuid.UUID      `gorm:"type:char(36);not null;uniqueIndex:idx_answer_evaluator" json:"answer_id"`
	Answer        *Answer        `gorm:"foreignKey:AnswerID;references:ID" json:"-"`
	LLMID         uuid.UUID      `gorm:"type:char(36);not null;uniqueIndex:idx_answer_evaluator" json:"llm_id"`
	Validity      int            `gorm:"not null;column:validity" json:"validity"`
	ValidityNotes string         `gorm:"type:text;column:validity_notes" json:"validity_notes"`
	CoherenceQA   *bool          `gorm:"column:coherence_qa" json:"coherence_qa,omitempty"`
	RawOutput     datatypes.JSON `gorm:"column:raw_output" json:"raw_output,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (AnswerEvaluation) TableName() string {
	return "answers_evaluation"
}
