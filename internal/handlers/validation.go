package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/culturallm/culturallm-backend/internal/requestdata"
	"github.com/culturallm/culturallm-backend/internal/services"
)

type ValidationHandler struct {
	ratingService services.RatingService
}

func NewValidationHandler(ratingService services.RatingService) *ValidationHandler {
	return &ValidationHandler{ratingService: ratingService}
}

func (vh *ValidationHandler) Rate(c *gin.Context) {
	var req struct {
		AnswerID   uuid.UUID `json:"answer_id"`
		QuestionID uuid.UUID `json:"question_id"`
		Rating     int       `json:"rating"`
		FlagIA     bool      `json:"flag_ia"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.AnswerID == uuid.Nil || req.QuestionID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "answer_id and question_id are required"})
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	rating, err := vh.ratingService.Rate(c.Request.Context(), userID, req.AnswerID, req.QuestionID, req.Rating, req.FlagIA)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

func (vh *ValidationHandler) ListByAnswer(c *gin.Context) {
	answerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer id"})
		return
	}
	ratings, err := vh.ratingService.ListByAnswer(c.Request.Context(), answerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}
