package repository

import (
	"context"

	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/model"
)

// ImportJobRepository 导入任务仓储接口
type ImportJobRepository interface {
	Create(ctx context.Context, job *model.ImportJob) error
	GetByID(ctx context.Context, id int64) (*model.ImportJob, error)
	Update(ctx context.Context, job *model.ImportJob) error
	List(ctx context.Context, limit int) ([]model.ImportJob, error)
}

type importJobRepo struct {
	db *gorm.DB
}

// NewImportJobRepository 创建导入任务仓储
func NewImportJobRepository(db *gorm.DB) ImportJobRepository {
	return &importJobRepo{db: db}
}

func (r *importJobRepo) Create(ctx context.Context, job *model.ImportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *importJobRepo) GetByID(ctx context.Context, id int64) (*model.ImportJob, error) {
	var job model.ImportJob
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *importJobRepo) Update(ctx context.Context, job *model.ImportJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *importJobRepo) List(ctx context.Context, limit int) ([]model.ImportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	var jobs []model.ImportJob
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}
