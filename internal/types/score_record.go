package types

import (
	"time"

	"github.com/google/uuid"
)

// ScoreRecord is the per-user aggregate behind the leaderboard. Question and
// answer counts are denormalized here so the leaderboard never joins the
// content tables.
type ScoreRecord struct {
	UserID       uuid.UUID `gorm:"type:char(36);primaryKey" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Score        int       `gorm:"not null;default:0;column:score" json:"score"`
	NumQuestions int       `gorm:"not null;default:0;column:num_questions" json:"num_questions"`
	NumAnswers   int       `gorm:"not null;default:0;column:num_answers" json:"num_answers"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (ScoreRecord) TableName() string {
	return "leaderboard"
}

// LevelInfo is derived from a score, never stored.
type LevelInfo struct {
	Level         int `json:"level"`
	NextThreshold int `json:"next_threshold"`
}
