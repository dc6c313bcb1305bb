package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/culturallm/culturallm-backend/internal/requestdata"
	"github.com/culturallm/culturallm-backend/internal/services"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type AnswerHandler struct {
	answerService services.AnswerService
}

func NewAnswerHandler(answerService services.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

func (ah *AnswerHandler) Submit(c *gin.Context) {
	var req struct {
		QuestionID uuid.UUID `json:"question_id"`
		Answer     string    `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.QuestionID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id is required"})
		return
	}
	answerType := c.DefaultQuery("type", types.AuthorHuman)
	userID := requestdata.UserID(c.Request.Context())
	answer, err := ah.answerService.Submit(c.Request.Context(), userID, req.QuestionID, req.Answer, answerType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

func (ah *AnswerHandler) Evaluations(c *gin.Context) {
	answerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer id"})
		return
	}
	evaluations, err := ah.answerService.Evaluations(c.Request.Context(), answerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, evaluations)
}
