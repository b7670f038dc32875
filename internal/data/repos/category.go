package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, category *domain.Category) (*domain.Category, error)
	Save(ctx context.Context, tx *gorm.DB, category *domain.Category) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Category, error)
	// List returns the categories visible on a video: its own plus, when
	// seriesExtID is given, the series masters of that series. A nil videoID
	// lists the series masters when seriesExtID is given, otherwise the
	// template categories.
	List(ctx context.Context, tx *gorm.DB, seriesExtID *string, videoID *int64, opts domain.ListOptions) ([]*domain.Category, error)
	// ListSeriesCopies returns the live per-video copies derived from the
	// given series master, excluding the master itself.
	ListSeriesCopies(ctx context.Context, tx *gorm.DB, seriesExtID string, masterID int64) ([]*domain.Category, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(ctx context.Context, tx *gorm.DB, category *domain.Category) (*domain.Category, error) {
	if err := conn(r.db, tx).WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) Save(ctx context.Context, tx *gorm.DB, category *domain.Category) error {
	return conn(r.db, tx).WithContext(ctx).Save(category).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Category, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var category domain.Category
	if err := q.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context, tx *gorm.DB, seriesExtID *string, videoID *int64, opts domain.ListOptions) ([]*domain.Category, error) {
	q := conn(r.db, tx).WithContext(ctx)
	switch {
	case videoID != nil && seriesExtID != nil:
		q = q.Where("video_id = ? OR (series_ext_id = ? AND series_category_id IS NULL)", *videoID, *seriesExtID)
	case videoID != nil:
		q = q.Where("video_id = ?", *videoID)
	case seriesExtID != nil:
		q = q.Where("series_ext_id = ? AND series_category_id IS NULL", *seriesExtID)
	default:
		q = q.Where("video_id IS NULL AND series_ext_id IS NULL")
	}
	var categories []*domain.Category
	if err := scopeList(q, opts).Find(&categories).Error; err != nil {
		return nil, err
	}
	return filterAndPage(categories, func(c *domain.Category) domain.Resource { return c.Resource }, opts), nil
}

func (r *categoryRepo) ListSeriesCopies(ctx context.Context, tx *gorm.DB, seriesExtID string, masterID int64) ([]*domain.Category, error) {
	var categories []*domain.Category
	if err := conn(r.db, tx).WithContext(ctx).
		Where("series_ext_id = ? AND id <> ? AND deleted_at IS NULL", seriesExtID, masterID).
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return conn(r.db, tx).WithContext(ctx).Exec(`DELETE FROM annotation_category`).Error
}
