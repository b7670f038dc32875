package services

import (
	"context"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

func (s *extendedAnnotationService) CreateComment(ctx context.Context, annotationID int64, replyToID *int64, text string, resource domain.Resource) (*domain.Comment, error) {
	if annotation, err := s.GetAnnotation(ctx, annotationID, false); err != nil {
		return nil, err
	} else if annotation == nil {
		return nil, apperr.NotFound("annotation %d not found", annotationID)
	}
	if replyToID != nil {
		parent, err := s.GetComment(ctx, *replyToID, false)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.AnnotationID != annotationID {
			return nil, apperr.NotFound("comment %d not found", *replyToID)
		}
	}
	comment := &domain.Comment{
		AnnotationID: annotationID,
		ReplyToID:    replyToID,
		Text:         text,
		Resource:     resource,
	}
	created, err := s.commentRepo.Create(ctx, nil, comment)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

func (s *extendedAnnotationService) UpdateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	stored, err := s.commentRepo.GetByID(ctx, nil, comment.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("comment %d not found", comment.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*comment) {
		return stored, nil
	}
	if err := s.commentRepo.Save(ctx, nil, comment); err != nil {
		return nil, apperr.Internal(err)
	}
	return comment, nil
}

func (s *extendedAnnotationService) DeleteComment(ctx context.Context, comment *domain.Comment) (bool, error) {
	comment.Resource = s.DeleteResource(ctx, comment.Resource)
	if err := s.commentRepo.Save(ctx, nil, comment); err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

func (s *extendedAnnotationService) GetComment(ctx context.Context, id int64, includeDeleted bool) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return comment, nil
}

func (s *extendedAnnotationService) GetComments(ctx context.Context, annotationID int64, replyToID *int64, opts domain.ListOptions) ([]*domain.Comment, error) {
	comments, err := s.commentRepo.ListByAnnotation(ctx, nil, annotationID, replyToID, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return comments, nil
}
