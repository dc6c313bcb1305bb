package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/types"
	"github.com/culturallm/culturallm-backend/internal/utils"
)

type MariaDBService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMariaDBService(log *logger.Logger) (*MariaDBService, error) {
	serviceLog := log.With("service", "MariaDBService")

	dbHost := utils.GetEnv("DB_HOST", "culturallm-db", log)
	dbPort := utils.GetEnv("DB_PORT", "3306", log)
	dbUser := utils.GetEnv("DB_USER", "", log)
	dbPassword := utils.GetEnv("DB_PASSWORD", "", log)
	dbName := utils.GetEnv("DB_NAME", "culturallm_db", log)

	if dbUser == "" || dbPassword == "" {
		return nil, fmt.Errorf("environment variables DB_USER and DB_PASSWORD must be set")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	serviceLog.Info("Connecting to MariaDB...")
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to MariaDB", "error", err)
		return nil, fmt.Errorf("failed to connect to MariaDB: %w", err)
	}

	return &MariaDBService{db: gdb, log: serviceLog}, nil
}

func (s *MariaDBService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	return AutoMigrate(s.db)
}

func (s *MariaDBService) DB() *gorm.DB {
	return s.db
}

// AutoMigrate is split out so tests can run the same schema against an
// in-memory sqlite database.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Question{},
		&types.Answer{},
		&types.AnswerEvaluation{},
		&types.Rating{},
		&types.ScoreRecord{},
		&types.Report{},
	)
}
