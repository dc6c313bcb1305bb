package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/culturallm/culturallm-backend/internal/requestdata"
	"github.com/culturallm/culturallm-backend/internal/services"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type QuestionHandler struct {
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// Submit accepts the question and returns immediately; evaluation runs in the
// background. The optional ?type=llm query lets agents post without a session.
func (qh *QuestionHandler) Submit(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
		Topic    string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	questionType := c.DefaultQuery("type", types.AuthorHuman)
	userID := requestdata.UserID(c.Request.Context())
	question, err := qh.questionService.Submit(c.Request.Context(), userID, req.Question, req.Topic, questionType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (qh *QuestionHandler) GetByID(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}
	question, err := qh.questionService.GetByID(c.Request.Context(), questionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (qh *QuestionHandler) RandomAnswered(c *gin.Context) {
	question, err := qh.questionService.RandomAnswered(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (qh *QuestionHandler) RandomToAnswer(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	question, err := qh.questionService.RandomToAnswer(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (qh *QuestionHandler) AnswersToValidate(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	answers, err := qh.questionService.AnswersToValidate(c.Request.Context(), questionID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (qh *QuestionHandler) RandomQAToValidate(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	prompt, err := qh.questionService.RandomQAToValidate(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}
