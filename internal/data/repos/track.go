package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type TrackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, track *domain.Track) (*domain.Track, error)
	Save(ctx context.Context, tx *gorm.DB, track *domain.Track) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Track, error)
	ListByVideo(ctx context.Context, tx *gorm.DB, videoID int64, opts domain.ListOptions) ([]*domain.Track, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type trackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrackRepo(db *gorm.DB, baseLog *logger.Logger) TrackRepo {
	return &trackRepo{db: db, log: baseLog.With("repo", "TrackRepo")}
}

func (r *trackRepo) Create(ctx context.Context, tx *gorm.DB, track *domain.Track) (*domain.Track, error) {
	if err := conn(r.db, tx).WithContext(ctx).Create(track).Error; err != nil {
		return nil, err
	}
	return track, nil
}

func (r *trackRepo) Save(ctx context.Context, tx *gorm.DB, track *domain.Track) error {
	return conn(r.db, tx).WithContext(ctx).Save(track).Error
}

func (r *trackRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64, includeDeleted bool) (*domain.Track, error) {
	q := conn(r.db, tx).WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var track domain.Track
	if err := q.First(&track).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *trackRepo) ListByVideo(ctx context.Context, tx *gorm.DB, videoID int64, opts domain.ListOptions) ([]*domain.Track, error) {
	var tracks []*domain.Track
	q := scopeList(conn(r.db, tx).WithContext(ctx).Where("video_id = ?", videoID), opts)
	if err := q.Find(&tracks).Error; err != nil {
		return nil, err
	}
	return filterAndPage(tracks, func(t *domain.Track) domain.Resource { return t.Resource }, opts), nil
}

func (r *trackRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return conn(r.db, tx).WithContext(ctx).Exec(`DELETE FROM annotation_track`).Error
}
