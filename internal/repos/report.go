package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type ReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reports []*types.Report) ([]*types.Report, error)
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	repoLog := baseLog.With("repo", "ReportRepo")
	return &reportRepo{db: db, log: repoLog}
}

func (rr *reportRepo) Create(ctx context.Context, tx *gorm.DB, reports []*types.Report) ([]*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(reports) == 0 {
		return []*types.Report{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
