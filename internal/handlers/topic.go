package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/culturallm/culturallm-backend/internal/services"
)

type TopicHandler struct {
	topicService services.TopicService
}

func NewTopicHandler(topicService services.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

func (th *TopicHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": th.topicService.List()})
}

func (th *TopicHandler) Random(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topic": th.topicService.Random()})
}
