package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type QuestionnaireRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questionnaire *domain.Questionnaire) (*domain.Questionnaire, error)
	Save(ctx context.Context, tx *gorm.DB, questionnaire *domain.Questionnaire) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Questionnaire, error)
	// ListByVideo returns per-video questionnaires when videoID is set and
	// template questionnaires when it is nil.
	ListByVideo(ctx context.Context, tx *gorm.DB, videoID *int64, opts domain.ListOptions) ([]*domain.Questionnaire, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type questionnaireRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionnaireRepo(db *gorm.DB, baseLog *logger.Logger) QuestionnaireRepo {
	return &questionnaireRepo{db: db, log: baseLog.With("repo", "QuestionnaireRepo")}
}

func (r *questionnaireRepo) Create(ctx context.Context, tx *gorm.DB, questionnaire *domain.Questionnaire) (*domain.Questionnaire, error) {
	if err := conn(r.db, tx).WithContext(ctx).Create(questionnaire).Error; err != nil {
		return nil, err
	}
	return questionnaire, nil
}

func (r *questionnaireRepo) Save(ctx context.Context, tx *gorm.DB, questionnaire *domain.Questionnaire) error {
	return conn(r.db, tx).WithContext(ctx).Save(questionnaire).Error
}

func (r *questionnaireRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Questionnaire, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var questionnaire domain.Questionnaire
	if err := q.First(&questionnaire).Error; err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

func (r *questionnaireRepo) ListByVideo(ctx context.Context, tx *gorm.DB, videoID *int64, opts domain.ListOptions) ([]*domain.Questionnaire, error) {
	q := conn(r.db, tx).WithContext(ctx)
	if videoID != nil {
		q = q.Where("video_id = ?", *videoID)
	} else {
		q = q.Where("video_id IS NULL")
	}
	var questionnaires []*domain.Questionnaire
	if err := scopeList(q, opts).Find(&questionnaires).Error; err != nil {
		return nil, err
	}
	return filterAndPage(questionnaires, func(qn *domain.Questionnaire) domain.Resource { return qn.Resource }, opts), nil
}

func (r *questionnaireRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return conn(r.db, tx).WithContext(ctx).Exec(`DELETE FROM annotation_questionnaire`).Error
}
