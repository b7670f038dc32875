package services

import (
	"context"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

func (s *extendedAnnotationService) CreateQuestionnaire(ctx context.Context, videoID *int64, title, content string, settings *string, resource domain.Resource) (*domain.Questionnaire, error) {
	if videoID != nil {
		if video, err := s.GetVideo(ctx, *videoID, false); err != nil {
			return nil, err
		} else if video == nil {
			return nil, apperr.NotFound("video %d not found", *videoID)
		}
	}
	questionnaire := &domain.Questionnaire{
		VideoID:  videoID,
		Title:    title,
		Content:  content,
		Settings: settings,
		Resource: resource,
	}
	created, err := s.questionnaireRepo.Create(ctx, nil, questionnaire)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

// CreateQuestionnaireFromTemplate copies a template questionnaire onto a
// video. Content and settings are opaque JSON and copied as-is.
func (s *extendedAnnotationService) CreateQuestionnaireFromTemplate(ctx context.Context, templateQuestionnaireID, videoID int64, resource domain.Resource) (*domain.Questionnaire, error) {
	if video, err := s.GetVideo(ctx, videoID, false); err != nil {
		return nil, err
	} else if video == nil {
		return nil, apperr.NotFound("video %d not found", videoID)
	}
	template, err := s.GetQuestionnaire(ctx, templateQuestionnaireID, false)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperr.NotFound("questionnaire %d not found", templateQuestionnaireID)
	}
	questionnaire := &domain.Questionnaire{
		VideoID:  &videoID,
		Title:    template.Title,
		Content:  template.Content,
		Settings: template.Settings,
		Resource: resource,
	}
	created, err := s.questionnaireRepo.Create(ctx, nil, questionnaire)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

func (s *extendedAnnotationService) UpdateQuestionnaire(ctx context.Context, questionnaire *domain.Questionnaire) (*domain.Questionnaire, error) {
	stored, err := s.questionnaireRepo.GetByID(ctx, nil, questionnaire.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("questionnaire %d not found", questionnaire.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*questionnaire) {
		return stored, nil
	}
	if err := s.questionnaireRepo.Save(ctx, nil, questionnaire); err != nil {
		return nil, apperr.Internal(err)
	}
	return questionnaire, nil
}

func (s *extendedAnnotationService) DeleteQuestionnaire(ctx context.Context, questionnaire *domain.Questionnaire) (*domain.Questionnaire, error) {
	questionnaire.Resource = s.DeleteResource(ctx, questionnaire.Resource)
	if err := s.questionnaireRepo.Save(ctx, nil, questionnaire); err != nil {
		return nil, apperr.Internal(err)
	}
	return questionnaire, nil
}

func (s *extendedAnnotationService) GetQuestionnaire(ctx context.Context, id int64, includeDeleted bool) (*domain.Questionnaire, error) {
	questionnaire, err := s.questionnaireRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return questionnaire, nil
}

func (s *extendedAnnotationService) GetQuestionnaires(ctx context.Context, videoID *int64, opts domain.ListOptions) ([]*domain.Questionnaire, error) {
	questionnaires, err := s.questionnaireRepo.ListByVideo(ctx, nil, videoID, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return questionnaires, nil
}
