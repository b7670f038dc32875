package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/data/repos"
	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
	"github.com/marwyg/annotation-tool/internal/platform/mediahost"
)

// ExtendedAnnotationService is the domain service behind the REST layer.
// Reads return (nil, nil) when the entity does not exist; writes surface
// typed failures through the apperr package.
type ExtendedAnnotationService interface {
	// Users
	CreateUser(ctx context.Context, extID, nickname string, email *string, resource domain.Resource) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, user *domain.User) (bool, error)
	GetUser(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error)
	GetUserByExtID(ctx context.Context, extID string) (*domain.User, error)

	// Videos
	CreateVideo(ctx context.Context, extID string, resource domain.Resource) (*domain.Video, error)
	UpdateVideo(ctx context.Context, video *domain.Video) (*domain.Video, error)
	DeleteVideo(ctx context.Context, video *domain.Video) (bool, error)
	GetVideo(ctx context.Context, id int64, includeDeleted bool) (*domain.Video, error)
	GetVideoByExtID(ctx context.Context, extID string) (*domain.Video, error)

	// Tracks
	CreateTrack(ctx context.Context, videoID int64, name string, description, settings *string, resource domain.Resource) (*domain.Track, error)
	UpdateTrack(ctx context.Context, track *domain.Track) (*domain.Track, error)
	DeleteTrack(ctx context.Context, track *domain.Track) (bool, error)
	GetTrack(ctx context.Context, id int64, includeDeleted bool) (*domain.Track, error)
	GetTracks(ctx context.Context, videoID int64, opts domain.ListOptions) ([]*domain.Track, error)

	// Annotations
	CreateAnnotation(ctx context.Context, trackID int64, start float64, duration *float64, content string, createdFromQuestionnaire int64, settings *string, resource domain.Resource) (*domain.Annotation, error)
	UpdateAnnotation(ctx context.Context, annotation *domain.Annotation) (*domain.Annotation, error)
	DeleteAnnotation(ctx context.Context, annotation *domain.Annotation) (bool, error)
	GetAnnotation(ctx context.Context, id int64, includeDeleted bool) (*domain.Annotation, error)
	GetAnnotations(ctx context.Context, trackID int64, opts domain.ListOptions) ([]*domain.Annotation, error)

	// Scales and scale values
	CreateScale(ctx context.Context, videoID *int64, name string, description *string, resource domain.Resource) (*domain.Scale, error)
	CreateScaleFromTemplate(ctx context.Context, videoID, templateScaleID int64, resource domain.Resource) (*domain.Scale, error)
	UpdateScale(ctx context.Context, scale *domain.Scale) (*domain.Scale, error)
	DeleteScale(ctx context.Context, scale *domain.Scale) (*domain.Scale, error)
	GetScale(ctx context.Context, id int64, includeDeleted bool) (*domain.Scale, error)
	GetScales(ctx context.Context, videoID *int64, opts domain.ListOptions) ([]*domain.Scale, error)
	CreateScaleValue(ctx context.Context, scaleID int64, name string, value float64, order int, resource domain.Resource) (*domain.ScaleValue, error)
	UpdateScaleValue(ctx context.Context, value *domain.ScaleValue) (*domain.ScaleValue, error)
	DeleteScaleValue(ctx context.Context, value *domain.ScaleValue) (*domain.ScaleValue, error)
	GetScaleValue(ctx context.Context, id int64, includeDeleted bool) (*domain.ScaleValue, error)
	GetScaleValues(ctx context.Context, scaleID int64, opts domain.ListOptions) ([]*domain.ScaleValue, error)

	// Questionnaires
	CreateQuestionnaire(ctx context.Context, videoID *int64, title, content string, settings *string, resource domain.Resource) (*domain.Questionnaire, error)
	CreateQuestionnaireFromTemplate(ctx context.Context, templateQuestionnaireID, videoID int64, resource domain.Resource) (*domain.Questionnaire, error)
	UpdateQuestionnaire(ctx context.Context, questionnaire *domain.Questionnaire) (*domain.Questionnaire, error)
	DeleteQuestionnaire(ctx context.Context, questionnaire *domain.Questionnaire) (*domain.Questionnaire, error)
	GetQuestionnaire(ctx context.Context, id int64, includeDeleted bool) (*domain.Questionnaire, error)
	GetQuestionnaires(ctx context.Context, videoID *int64, opts domain.ListOptions) ([]*domain.Questionnaire, error)

	// Categories and labels
	CreateCategory(ctx context.Context, seriesExtID *string, seriesCategoryID, videoID, scaleID *int64, name string, description, settings *string, resource domain.Resource) (*domain.Category, error)
	CreateCategoryFromTemplate(ctx context.Context, templateCategoryID int64, seriesExtID *string, seriesCategoryID *int64, videoID int64, resource domain.Resource) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategoryAndDeleteOtherSeriesCategories(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64, includeDeleted bool) (*domain.Category, error)
	GetCategories(ctx context.Context, seriesExtID *string, videoID *int64, opts domain.ListOptions) ([]*domain.Category, error)
	CreateLabel(ctx context.Context, categoryID int64, value, abbreviation string, description, settings *string, resource domain.Resource) (*domain.Label, error)
	UpdateLabel(ctx context.Context, label *domain.Label) (*domain.Label, error)
	DeleteLabel(ctx context.Context, label *domain.Label) (*domain.Label, error)
	GetLabel(ctx context.Context, id int64, includeDeleted bool) (*domain.Label, error)
	GetLabels(ctx context.Context, categoryID int64, opts domain.ListOptions) ([]*domain.Label, error)

	// Comments
	CreateComment(ctx context.Context, annotationID int64, replyToID *int64, text string, resource domain.Resource) (*domain.Comment, error)
	UpdateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	DeleteComment(ctx context.Context, comment *domain.Comment) (bool, error)
	GetComment(ctx context.Context, id int64, includeDeleted bool) (*domain.Comment, error)
	GetComments(ctx context.Context, annotationID int64, replyToID *int64, opts domain.ListOptions) ([]*domain.Comment, error)

	// Resources and access control
	CreateResource(ctx context.Context, access *int, tags map[string]string) domain.Resource
	UpdateResource(ctx context.Context, resource domain.Resource, tags map[string]string) domain.Resource
	DeleteResource(ctx context.Context, resource domain.Resource) domain.Resource
	HasResourceAccess(ctx context.Context, resource domain.Resource, write bool) bool
	FindMediaPackage(ctx context.Context, extID string) (*mediahost.MediaPackage, error)
	HasVideoAccess(ctx context.Context, mp *mediahost.MediaPackage, action string) bool

	// ClearDatabase truncates every annotation table. Not access checked;
	// only reachable through the env-gated reset endpoint and tests.
	ClearDatabase(ctx context.Context) error
}

type extendedAnnotationService struct {
	db                *gorm.DB
	log               *logger.Logger
	userRepo          repos.UserRepo
	videoRepo         repos.VideoRepo
	trackRepo         repos.TrackRepo
	annotationRepo    repos.AnnotationRepo
	scaleRepo         repos.ScaleRepo
	scaleValueRepo    repos.ScaleValueRepo
	questionnaireRepo repos.QuestionnaireRepo
	categoryRepo      repos.CategoryRepo
	labelRepo         repos.LabelRepo
	commentRepo       repos.CommentRepo
	mediaLookup       mediahost.MediaLookup
	aclEvaluator      mediahost.AclEvaluator
}

func NewExtendedAnnotationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	videoRepo repos.VideoRepo,
	trackRepo repos.TrackRepo,
	annotationRepo repos.AnnotationRepo,
	scaleRepo repos.ScaleRepo,
	scaleValueRepo repos.ScaleValueRepo,
	questionnaireRepo repos.QuestionnaireRepo,
	categoryRepo repos.CategoryRepo,
	labelRepo repos.LabelRepo,
	commentRepo repos.CommentRepo,
	mediaLookup mediahost.MediaLookup,
	aclEvaluator mediahost.AclEvaluator,
) ExtendedAnnotationService {
	return &extendedAnnotationService{
		db:                db,
		log:               log.With("service", "ExtendedAnnotationService"),
		userRepo:          userRepo,
		videoRepo:         videoRepo,
		trackRepo:         trackRepo,
		annotationRepo:    annotationRepo,
		scaleRepo:         scaleRepo,
		scaleValueRepo:    scaleValueRepo,
		questionnaireRepo: questionnaireRepo,
		categoryRepo:      categoryRepo,
		labelRepo:         labelRepo,
		commentRepo:       commentRepo,
		mediaLookup:       mediaLookup,
		aclEvaluator:      aclEvaluator,
	}
}

// noRow distinguishes "not found" from real storage failures on First.
func noRow(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
