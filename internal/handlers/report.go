package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/culturallm/culturallm-backend/internal/requestdata"
	"github.com/culturallm/culturallm-backend/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (rh *ReportHandler) Create(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		QuestionID *uuid.UUID `json:"question_id"`
		AnswerID   *uuid.UUID `json:"answer_id"`
		Reason     string     `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	report, err := rh.reportService.Report(c.Request.Context(), *userID, req.QuestionID, req.AnswerID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
