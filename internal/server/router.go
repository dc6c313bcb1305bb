package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/culturallm/culturallm-backend/internal/handlers"
	"github.com/culturallm/culturallm-backend/internal/middleware"
)

type RouterConfig struct {
	HealthcheckHandler *handlers.HealthcheckHandler
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	QuestionHandler    *handlers.QuestionHandler
	AnswerHandler      *handlers.AnswerHandler
	ValidationHandler  *handlers.ValidationHandler
	LeaderboardHandler *handlers.LeaderboardHandler
	ProfileHandler     *handlers.ProfileHandler
	TopicHandler       *handlers.TopicHandler
	ReportHandler      *handlers.ReportHandler
	AllowOrigins       []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)
	router.GET("/topics", cfg.TopicHandler.List)
	router.GET("/topics/random", cfg.TopicHandler.Random)
	router.GET("/questions/random", cfg.QuestionHandler.RandomAnswered)
	router.GET("/questions/:id", cfg.QuestionHandler.GetByID)
	router.GET("/leaderboard", cfg.LeaderboardHandler.Leaderboard)
	router.GET("/profile/avatar", cfg.ProfileHandler.Avatar)

	// ===============
	// || Optional  ||
	// ===============
	// Submissions accept both logged-in users and anonymous agents.
	optional := router.Group("/")
	optional.Use(cfg.AuthMiddleware.OptionalAuth())
	optional.POST("/questions", cfg.QuestionHandler.Submit)
	optional.POST("/answers", cfg.AnswerHandler.Submit)
	optional.POST("/validation/rating", cfg.ValidationHandler.Rate)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Gameplay
	protected.GET("/questions/random/to_answer", cfg.QuestionHandler.RandomToAnswer)
	protected.GET("/questions/qa_to_validate", cfg.QuestionHandler.RandomQAToValidate)
	protected.GET("/questions/:id/answers", cfg.QuestionHandler.AnswersToValidate)
	protected.GET("/answers/:id/validations", cfg.ValidationHandler.ListByAnswer)
	protected.GET("/answers/:id/evaluations", cfg.AnswerHandler.Evaluations)
	// Leaderboard
	protected.GET("/leaderboard/user", cfg.LeaderboardHandler.UserPosition)
	// Profile
	protected.GET("/profile", cfg.ProfileHandler.Summary)
	protected.PATCH("/profile", cfg.ProfileHandler.Update)
	protected.GET("/profile/questions", cfg.ProfileHandler.Questions)
	protected.GET("/profile/answers", cfg.ProfileHandler.Answers)
	// Reports
	protected.POST("/reports", cfg.ReportHandler.Create)

	return router
}
