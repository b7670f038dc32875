package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *domain.Comment) (*domain.Comment, error)
	Save(ctx context.Context, tx *gorm.DB, comment *domain.Comment) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Comment, error)
	// ListByAnnotation returns top-level comments when replyToID is nil and
	// the replies to the given comment otherwise.
	ListByAnnotation(ctx context.Context, tx *gorm.DB, annotationID int64, replyToID *int64, opts domain.ListOptions) ([]*domain.Comment, error)
	// ListAllByAnnotation returns every live comment of an annotation,
	// replies included. Used for cascading deletes.
	ListAllByAnnotation(ctx context.Context, tx *gorm.DB, annotationID int64) ([]*domain.Comment, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) Create(ctx context.Context, tx *gorm.DB, comment *domain.Comment) (*domain.Comment, error) {
	if err := conn(r.db, tx).WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *commentRepo) Save(ctx context.Context, tx *gorm.DB, comment *domain.Comment) error {
	return conn(r.db, tx).WithContext(ctx).Save(comment).Error
}

func (r *commentRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Comment, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var comment domain.Comment
	if err := q.First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) ListByAnnotation(ctx context.Context, tx *gorm.DB, annotationID int64, replyToID *int64, opts domain.ListOptions) ([]*domain.Comment, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("annotation_id = ?", annotationID)
	if replyToID != nil {
		q = q.Where("reply_to_id = ?", *replyToID)
	} else {
		q = q.Where("reply_to_id IS NULL")
	}
	var comments []*domain.Comment
	if err := scopeList(q, opts).Find(&comments).Error; err != nil {
		return nil, err
	}
	return filterAndPage(comments, func(c *domain.Comment) domain.Resource { return c.Resource }, opts), nil
}

func (r *commentRepo) ListAllByAnnotation(ctx context.Context, tx *gorm.DB, annotationID int64) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	if err := conn(r.db, tx).WithContext(ctx).
		Where("annotation_id = ? AND deleted_at IS NULL", annotationID).
		Order("id").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return conn(r.db, tx).WithContext(ctx).Exec(`DELETE FROM annotation_comment`).Error
}
