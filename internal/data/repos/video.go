package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type VideoRepo interface {
	Create(ctx context.Context, tx *gorm.DB, video *domain.Video) (*domain.Video, error)
	Save(ctx context.Context, tx *gorm.DB, video *domain.Video) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Video, error)
	GetByExtID(ctx context.Context, tx *gorm.DB, extID string) (*domain.Video, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	return &videoRepo{db: db, log: baseLog.With("repo", "VideoRepo")}
}

func (r *videoRepo) Create(ctx context.Context, tx *gorm.DB, video *domain.Video) (*domain.Video, error) {
	if err := conn(r.db, tx).WithContext(ctx).Create(video).Error; err != nil {
		return nil, err
	}
	return video, nil
}

func (r *videoRepo) Save(ctx context.Context, tx *gorm.DB, video *domain.Video) error {
	return conn(r.db, tx).WithContext(ctx).Save(video).Error
}

func (r *videoRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Video, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var video domain.Video
	if err := q.First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) GetByExtID(ctx context.Context, tx *gorm.DB, extID string) (*domain.Video, error) {
	var video domain.Video
	if err := conn(r.db, tx).WithContext(ctx).
		Where("ext_id = ? AND deleted_at IS NULL", extID).
		First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return conn(r.db, tx).WithContext(ctx).Exec(`DELETE FROM annotation_video`).Error
}
