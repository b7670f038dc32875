package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

func (s *extendedAnnotationService) CreateTrack(ctx context.Context, videoID int64, name string, description, settings *string, resource domain.Resource) (*domain.Track, error) {
	if video, err := s.GetVideo(ctx, videoID, false); err != nil {
		return nil, err
	} else if video == nil {
		return nil, apperr.NotFound("video %d not found", videoID)
	}
	track := &domain.Track{
		VideoID:     videoID,
		Name:        name,
		Description: description,
		Settings:    settings,
		Resource:    resource,
	}
	created, err := s.trackRepo.Create(ctx, nil, track)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

func (s *extendedAnnotationService) UpdateTrack(ctx context.Context, track *domain.Track) (*domain.Track, error) {
	stored, err := s.trackRepo.GetByID(ctx, nil, track.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("track %d not found", track.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*track) {
		return stored, nil
	}
	if err := s.trackRepo.Save(ctx, nil, track); err != nil {
		return nil, apperr.Internal(err)
	}
	return track, nil
}

// DeleteTrack also soft-deletes the track's annotations and their comments.
func (s *extendedAnnotationService) DeleteTrack(ctx context.Context, track *domain.Track) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.deleteTrackTx(ctx, tx, track)
	})
	if err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

func (s *extendedAnnotationService) deleteTrackTx(ctx context.Context, tx *gorm.DB, track *domain.Track) error {
	annotations, err := s.annotationRepo.ListByTrack(ctx, tx, track.ID, domain.ListOptions{})
	if err != nil {
		return err
	}
	for _, annotation := range annotations {
		if err := s.deleteAnnotationTx(ctx, tx, annotation); err != nil {
			return err
		}
	}
	track.Resource = s.DeleteResource(ctx, track.Resource)
	return s.trackRepo.Save(ctx, tx, track)
}

func (s *extendedAnnotationService) GetTrack(ctx context.Context, id int64, includeDeleted bool) (*domain.Track, error) {
	track, err := s.trackRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return track, nil
}

func (s *extendedAnnotationService) GetTracks(ctx context.Context, videoID int64, opts domain.ListOptions) ([]*domain.Track, error) {
	tracks, err := s.trackRepo.ListByVideo(ctx, nil, videoID, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tracks, nil
}
