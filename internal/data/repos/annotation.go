package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type AnnotationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, annotation *domain.Annotation) (*domain.Annotation, error)
	Save(ctx context.Context, tx *gorm.DB, annotation *domain.Annotation) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Annotation, error)
	ListByTrack(ctx context.Context, tx *gorm.DB, trackID int64, opts domain.ListOptions) ([]*domain.Annotation, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type annotationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnnotationRepo(db *gorm.DB, baseLog *logger.Logger) AnnotationRepo {
	return &annotationRepo{db: db, log: baseLog.With("repo", "AnnotationRepo")}
}

func (r *annotationRepo) Create(ctx context.Context, tx *gorm.DB, annotation *domain.Annotation) (*domain.Annotation, error) {
	if err := conn(r.db, tx).WithContext(ctx).Create(annotation).Error; err != nil {
		return nil, err
	}
	return annotation, nil
}

func (r *annotationRepo) Save(ctx context.Context, tx *gorm.DB, annotation *domain.Annotation) error {
	return conn(r.db, tx).WithContext(ctx).Save(annotation).Error
}

func (r *annotationRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Annotation, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var annotation domain.Annotation
	if err := q.First(&annotation).Error; err != nil {
		return nil, err
	}
	return &annotation, nil
}

func (r *annotationRepo) ListByTrack(ctx context.Context, tx *gorm.DB, trackID int64, opts domain.ListOptions) ([]*domain.Annotation, error) {
	var annotations []*domain.Annotation
	q := scopeList(conn(r.db, tx).WithContext(ctx).Where("track_id = ?", trackID), opts)
	if err := q.Find(&annotations).Error; err != nil {
		return nil, err
	}
	return filterAndPage(annotations, func(a *domain.Annotation) domain.Resource { return a.Resource }, opts), nil
}

func (r *annotationRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return conn(r.db, tx).WithContext(ctx).Exec(`DELETE FROM annotation_annotation`).Error
}
