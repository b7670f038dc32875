package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type ScaleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, scale *domain.Scale) (*domain.Scale, error)
	Save(ctx context.Context, tx *gorm.DB, scale *domain.Scale) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Scale, error)
	// ListByVideo returns per-video scales when videoID is set and template
	// scales when it is nil.
	ListByVideo(ctx context.Context, tx *gorm.DB, videoID *int64, opts domain.ListOptions) ([]*domain.Scale, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type scaleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScaleRepo(db *gorm.DB, baseLog *logger.Logger) ScaleRepo {
	return &scaleRepo{db: db, log: baseLog.With("repo", "ScaleRepo")}
}

func (r *scaleRepo) Create(ctx context.Context, tx *gorm.DB, scale *domain.Scale) (*domain.Scale, error) {
	if err := conn(r.db, tx).WithContext(ctx).Create(scale).Error; err != nil {
		return nil, err
	}
	return scale, nil
}

func (r *scaleRepo) Save(ctx context.Context, tx *gorm.DB, scale *domain.Scale) error {
	return conn(r.db, tx).WithContext(ctx).Save(scale).Error
}

func (r *scaleRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Scale, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var scale domain.Scale
	if err := q.First(&scale).Error; err != nil {
		return nil, err
	}
	return &scale, nil
}

func (r *scaleRepo) ListByVideo(ctx context.Context, tx *gorm.DB, videoID *int64, opts domain.ListOptions) ([]*domain.Scale, error) {
	q := conn(r.db, tx).WithContext(ctx)
	if videoID != nil {
		q = q.Where("video_id = ?", *videoID)
	} else {
		q = q.Where("video_id IS NULL")
	}
	var scales []*domain.Scale
	if err := scopeList(q, opts).Find(&scales).Error; err != nil {
		return nil, err
	}
	return filterAndPage(scales, func(s *domain.Scale) domain.Resource { return s.Resource }, opts), nil
}

func (r *scaleRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return conn(r.db, tx).WithContext(ctx).Exec(`DELETE FROM annotation_scale`).Error
}
