package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type LabelRepo interface {
	Create(ctx context.Context, tx *gorm.DB, label *domain.Label) (*domain.Label, error)
	Save(ctx context.Context, tx *gorm.DB, label *domain.Label) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Label, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, categoryID int64, opts domain.ListOptions) ([]*domain.Label, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type labelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLabelRepo(db *gorm.DB, baseLog *logger.Logger) LabelRepo {
	return &labelRepo{db: db, log: baseLog.With("repo", "LabelRepo")}
}

func (r *labelRepo) Create(ctx context.Context, tx *gorm.DB, label *domain.Label) (*domain.Label, error) {
	if err := conn(r.db, tx).WithContext(ctx).Create(label).Error; err != nil {
		return nil, err
	}
	return label, nil
}

func (r *labelRepo) Save(ctx context.Context, tx *gorm.DB, label *domain.Label) error {
	return conn(r.db, tx).WithContext(ctx).Save(label).Error
}

func (r *labelRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Label, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var label domain.Label
	if err := q.First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *labelRepo) ListByCategory(ctx context.Context, tx *gorm.DB, categoryID int64, opts domain.ListOptions) ([]*domain.Label, error) {
	var labels []*domain.Label
	q := scopeList(conn(r.db, tx).WithContext(ctx).Where("category_id = ?", categoryID), opts)
	if err := q.Find(&labels).Error; err != nil {
		return nil, err
	}
	return filterAndPage(labels, func(l *domain.Label) domain.Resource { return l.Resource }, opts), nil
}

func (r *labelRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return conn(r.db, tx).WithContext(ctx).Exec(`DELETE FROM annotation_label`).Error
}
