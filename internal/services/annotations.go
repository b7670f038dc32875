package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

func (s *extendedAnnotationService) CreateAnnotation(ctx context.Context, trackID int64, start float64, duration *float64, content string, createdFromQuestionnaire int64, settings *string, resource domain.Resource) (*domain.Annotation, error) {
	if track, err := s.GetTrack(ctx, trackID, false); err != nil {
		return nil, err
	} else if track == nil {
		return nil, apperr.NotFound("track %d not found", trackID)
	}
	annotation := &domain.Annotation{
		TrackID:                  trackID,
		Start:                    start,
		Duration:                 duration,
		Content:                  content,
		CreatedFromQuestionnaire: createdFromQuestionnaire,
		Settings:                 settings,
		Resource:                 resource,
	}
	created, err := s.annotationRepo.Create(ctx, nil, annotation)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

func (s *extendedAnnotationService) UpdateAnnotation(ctx context.Context, annotation *domain.Annotation) (*domain.Annotation, error) {
	stored, err := s.annotationRepo.GetByID(ctx, nil, annotation.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("annotation %d not found", annotation.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*annotation) {
		return stored, nil
	}
	if err := s.annotationRepo.Save(ctx, nil, annotation); err != nil {
		return nil, apperr.Internal(err)
	}
	return annotation, nil
}

// DeleteAnnotation also soft-deletes the annotation's comment thread.
func (s *extendedAnnotationService) DeleteAnnotation(ctx context.Context, annotation *domain.Annotation) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.deleteAnnotationTx(ctx, tx, annotation)
	})
	if err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

func (s *extendedAnnotationService) deleteAnnotationTx(ctx context.Context, tx *gorm.DB, annotation *domain.Annotation) error {
	comments, err := s.commentRepo.ListAllByAnnotation(ctx, tx, annotation.ID)
	if err != nil {
		return err
	}
	for _, comment := range comments {
		comment.Resource = s.DeleteResource(ctx, comment.Resource)
		if err := s.commentRepo.Save(ctx, tx, comment); err != nil {
			return err
		}
	}
	annotation.Resource = s.DeleteResource(ctx, annotation.Resource)
	return s.annotationRepo.Save(ctx, tx, annotation)
}

func (s *extendedAnnotationService) GetAnnotation(ctx context.Context, id int64, includeDeleted bool) (*domain.Annotation, error) {
	annotation, err := s.annotationRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return annotation, nil
}

func (s *extendedAnnotationService) GetAnnotations(ctx context.Context, trackID int64, opts domain.ListOptions) ([]*domain.Annotation, error) {
	annotations, err := s.annotationRepo.ListByTrack(ctx, nil, trackID, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return annotations, nil
}
