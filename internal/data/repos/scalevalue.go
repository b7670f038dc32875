package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type ScaleValueRepo interface {
	Create(ctx context.Context, tx *gorm.DB, value *domain.ScaleValue) (*domain.ScaleValue, error)
	Save(ctx context.Context, tx *gorm.DB, value *domain.ScaleValue) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.ScaleValue, error)
	ListByScale(ctx context.Context, tx *gorm.DB, scaleID int64, opts domain.ListOptions) ([]*domain.ScaleValue, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type scaleValueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScaleValueRepo(db *gorm.DB, baseLog *logger.Logger) ScaleValueRepo {
	return &scaleValueRepo{db: db, log: baseLog.With("repo", "ScaleValueRepo")}
}

func (r *scaleValueRepo) Create(ctx context.Context, tx *gorm.DB, value *domain.ScaleValue) (*domain.ScaleValue, error) {
	if err := conn(r.db, tx).WithContext(ctx).Create(value).Error; err != nil {
		return nil, err
	}
	return value, nil
}

func (r *scaleValueRepo) Save(ctx context.Context, tx *gorm.DB, value *domain.ScaleValue) error {
	return conn(r.db, tx).WithContext(ctx).Save(value).Error
}

func (r *scaleValueRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.ScaleValue, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var value domain.ScaleValue
	if err := q.First(&value).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *scaleValueRepo) ListByScale(ctx context.Context, tx *gorm.DB, scaleID int64, opts domain.ListOptions) ([]*domain.ScaleValue, error) {
	var values []*domain.ScaleValue
	q := scopeList(conn(r.db, tx).WithContext(ctx).Where("scale_id = ?", scaleID), opts)
	if err := q.Order("sort_order").Find(&values).Error; err != nil {
		return nil, err
	}
	return filterAndPage(values, func(v *domain.ScaleValue) domain.Resource { return v.Resource }, opts), nil
}

func (r *scaleValueRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return conn(r.db, tx).WithContext(ctx).Exec(`DELETE FROM annotation_scale_value`).Error
}
