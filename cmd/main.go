package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/culturallm/culturallm-backend/internal/db"
	"github.com/culturallm/culturallm-backend/internal/handlers"
	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/middleware"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/server"
	"github.com/culturallm/culturallm-backend/internal/services"
	"github.com/culturallm/culturallm-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:80,http://localhost:3000", log), ",")

	// MariaDB
	mariadbService, err := db.NewMariaDBService(log)
	if err != nil {
		log.Error("MariaDB init failed", "error", err)
		os.Exit(1)
	}
	if err = mariadbService.AutoMigrateAll(); err != nil {
		log.Warn("MariaDB auto migration failed", "error", err)
	}
	theDB := mariadbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	questionRepo := repos.NewQuestionRepo(theDB, log)
	answerRepo := repos.NewAnswerRepo(theDB, log)
	answerEvaluationRepo := repos.NewAnswerEvaluationRepo(theDB, log)
	ratingRepo := repos.NewRatingRepo(theDB, log)
	scoreRepo := repos.NewScoreRepo(theDB, log)
	reportRepo := repos.NewReportRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	// One admission slot: the NLP sidecar handles a single request at a time.
	nlpSlot := semaphore.NewWeighted(1)
	nlpClient := services.NewNLPClient(log, nlpSlot)
	dispatcher := services.NewDispatcher(log)
	defer dispatcher.Close()

	evaluationService := services.NewEvaluationService(theDB, log, questionRepo, answerRepo, answerEvaluationRepo, nlpClient)
	scoreService := services.NewScoreService(theDB, log, scoreRepo)
	authService := services.NewAuthService(theDB, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	questionService := services.NewQuestionService(theDB, log, questionRepo, answerRepo, scoreService, evaluationService, dispatcher)
	answerService := services.NewAnswerService(theDB, log, questionRepo, answerRepo, answerEvaluationRepo, scoreService, evaluationService, dispatcher)
	ratingService := services.NewRatingService(theDB, log, answerRepo, ratingRepo, scoreService)
	leaderboardService := services.NewLeaderboardService(theDB, log, scoreRepo, userRepo)
	profileService := services.NewProfileService(theDB, log, userRepo, scoreRepo, questionRepo, answerRepo)
	avatarService := services.NewAvatarService(log)
	topicService := services.NewTopicService(log)
	reportService := services.NewReportService(theDB, log, reportRepo, questionRepo, answerRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthcheckHandler := handlers.NewHealthcheckHandler()
	authHandler := handlers.NewAuthHandler(authService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	answerHandler := handlers.NewAnswerHandler(answerService)
	validationHandler := handlers.NewValidationHandler(ratingService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	profileHandler := handlers.NewProfileHandler(profileService, avatarService)
	topicHandler := handlers.NewTopicHandler(topicService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		HealthcheckHandler: healthcheckHandler,
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		QuestionHandler:    questionHandler,
		AnswerHandler:      answerHandler,
		ValidationHandler:  validationHandler,
		LeaderboardHandler: leaderboardHandler,
		ProfileHandler:     profileHandler,
		TopicHandler:       topicHandler,
		ReportHandler:      reportHandler,
		AllowOrigins:       allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
