package services

import (
	"math/rand"

	"github.com/culturallm/culturallm-backend/internal/logger"
)

// Topics a question can be filed under. Fixed at build time.
var topics = []string{"cibo", "sport", "cinema", "musica"}

type TopicService interface {
	List() []string
	Random() string
}

type topicService struct {
	log *logger.Logger
}

func NewTopicService(baseLog *logger.Logger) TopicService {
	return &topicService{log: baseLog.With("service", "TopicService")}
}

func (ts *topicService) List() []string {
	out := make([]string, len(topics))
	copy(out, topics)
	return out
}

func (ts *topicService) Random() string {
	return topics[rand.Intn(len(topics))]
}
