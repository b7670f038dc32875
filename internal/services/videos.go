package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

func (s *extendedAnnotationService) CreateVideo(ctx context.Context, extID string, resource domain.Resource) (*domain.Video, error) {
	video := &domain.Video{ExtID: extID, Resource: resource}
	created, err := s.videoRepo.Create(ctx, nil, video)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("video with ext id %q already exists", extID)
		}
		return nil, apperr.Internal(err)
	}
	return created, nil
}

func (s *extendedAnnotationService) UpdateVideo(ctx context.Context, video *domain.Video) (*domain.Video, error) {
	stored, err := s.videoRepo.GetByID(ctx, nil, video.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("video %d not found", video.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*video) {
		return stored, nil
	}
	if err := s.videoRepo.Save(ctx, nil, video); err != nil {
		return nil, apperr.Internal(err)
	}
	return video, nil
}

// DeleteVideo soft-deletes the video and everything beneath it: tracks with
// their annotations and comments, the video's scales and scale values,
// categories and labels, and questionnaires.
func (s *extendedAnnotationService) DeleteVideo(ctx context.Context, video *domain.Video) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tracks, err := s.trackRepo.ListByVideo(ctx, tx, video.ID, domain.ListOptions{})
		if err != nil {
			return err
		}
		for _, track := range tracks {
			if err := s.deleteTrackTx(ctx, tx, track); err != nil {
				return err
			}
		}

		scales, err := s.scaleRepo.ListByVideo(ctx, tx, &video.ID, domain.ListOptions{})
		if err != nil {
			return err
		}
		for _, scale := range scales {
			if err := s.deleteScaleTx(ctx, tx, scale); err != nil {
				return err
			}
		}

		categories, err := s.categoryRepo.List(ctx, tx, nil, &video.ID, domain.ListOptions{})
		if err != nil {
			return err
		}
		for _, category := range categories {
			if err := s.deleteCategoryTx(ctx, tx, category); err != nil {
				return err
			}
		}

		questionnaires, err := s.questionnaireRepo.ListByVideo(ctx, tx, &video.ID, domain.ListOptions{})
		if err != nil {
			return err
		}
		for _, questionnaire := range questionnaires {
			questionnaire.Resource = s.DeleteResource(ctx, questionnaire.Resource)
			if err := s.questionnaireRepo.Save(ctx, tx, questionnaire); err != nil {
				return err
			}
		}

		video.Resource = s.DeleteResource(ctx, video.Resource)
		return s.videoRepo.Save(ctx, tx, video)
	})
	if err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

func (s *extendedAnnotationService) GetVideo(ctx context.Context, id int64, includeDeleted bool) (*domain.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return video, nil
}

func (s *extendedAnnotationService) GetVideoByExtID(ctx context.Context, extID string) (*domain.Video, error) {
	video, err := s.videoRepo.GetByExtID(ctx, nil, extID)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return video, nil
}
