package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

func (s *extendedAnnotationService) CreateScale(ctx context.Context, videoID *int64, name string, description *string, resource domain.Resource) (*domain.Scale, error) {
	if videoID != nil {
		if video, err := s.GetVideo(ctx, *videoID, false); err != nil {
			return nil, err
		} else if video == nil {
			return nil, apperr.NotFound("video %d not found", *videoID)
		}
	}
	scale := &domain.Scale{
		VideoID:     videoID,
		Name:        name,
		Description: description,
		Resource:    resource,
	}
	created, err := s.scaleRepo.Create(ctx, nil, scale)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

// CreateScaleFromTemplate deep-copies a template scale and its values onto a
// video. The copy gets fresh audit stamps; the template stays untouched.
func (s *extendedAnnotationService) CreateScaleFromTemplate(ctx context.Context, videoID, templateScaleID int64, resource domain.Resource) (*domain.Scale, error) {
	if video, err := s.GetVideo(ctx, videoID, false); err != nil {
		return nil, err
	} else if video == nil {
		return nil, apperr.NotFound("video %d not found", videoID)
	}
	template, err := s.GetScale(ctx, templateScaleID, false)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperr.NotFound("scale %d not found", templateScaleID)
	}

	var copied *domain.Scale
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		copied, txErr = s.copyScaleTx(ctx, tx, template, videoID, resource)
		return txErr
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return copied, nil
}

func (s *extendedAnnotationService) copyScaleTx(ctx context.Context, tx *gorm.DB, template *domain.Scale, videoID int64, resource domain.Resource) (*domain.Scale, error) {
	scale := &domain.Scale{
		VideoID:     &videoID,
		Name:        template.Name,
		Description: template.Description,
		Resource:    resource,
	}
	scale, err := s.scaleRepo.Create(ctx, tx, scale)
	if err != nil {
		return nil, err
	}
	values, err := s.scaleValueRepo.ListByScale(ctx, tx, template.ID, domain.ListOptions{})
	if err != nil {
		return nil, err
	}
	for _, value := range values {
		valueCopy := &domain.ScaleValue{
			ScaleID:  scale.ID,
			Name:     value.Name,
			Value:    value.Value,
			Order:    value.Order,
			Resource: s.CreateResource(ctx, &resource.Access, nil),
		}
		if _, err := s.scaleValueRepo.Create(ctx, tx, valueCopy); err != nil {
			return nil, err
		}
	}
	return scale, nil
}

func (s *extendedAnnotationService) UpdateScale(ctx context.Context, scale *domain.Scale) (*domain.Scale, error) {
	stored, err := s.scaleRepo.GetByID(ctx, nil, scale.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("scale %d not found", scale.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*scale) {
		return stored, nil
	}
	if err := s.scaleRepo.Save(ctx, nil, scale); err != nil {
		return nil, apperr.Internal(err)
	}
	return scale, nil
}

// DeleteScale also soft-deletes the scale's values.
func (s *extendedAnnotationService) DeleteScale(ctx context.Context, scale *domain.Scale) (*domain.Scale, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.deleteScaleTx(ctx, tx, scale)
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return scale, nil
}

func (s *extendedAnnotationService) deleteScaleTx(ctx context.Context, tx *gorm.DB, scale *domain.Scale) error {
	values, err := s.scaleValueRepo.ListByScale(ctx, tx, scale.ID, domain.ListOptions{})
	if err != nil {
		return err
	}
	for _, value := range values {
		value.Resource = s.DeleteResource(ctx, value.Resource)
		if err := s.scaleValueRepo.Save(ctx, tx, value); err != nil {
			return err
		}
	}
	scale.Resource = s.DeleteResource(ctx, scale.Resource)
	return s.scaleRepo.Save(ctx, tx, scale)
}

func (s *extendedAnnotationService) GetScale(ctx context.Context, id int64, includeDeleted bool) (*domain.Scale, error) {
	scale, err := s.scaleRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return scale, nil
}

func (s *extendedAnnotationService) GetScales(ctx context.Context, videoID *int64, opts domain.ListOptions) ([]*domain.Scale, error) {
	scales, err := s.scaleRepo.ListByVideo(ctx, nil, videoID, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return scales, nil
}

func (s *extendedAnnotationService) CreateScaleValue(ctx context.Context, scaleID int64, name string, value float64, order int, resource domain.Resource) (*domain.ScaleValue, error) {
	if scale, err := s.GetScale(ctx, scaleID, false); err != nil {
		return nil, err
	} else if scale == nil {
		return nil, apperr.NotFound("scale %d not found", scaleID)
	}
	scaleValue := &domain.ScaleValue{
		ScaleID:  scaleID,
		Name:     name,
		Value:    value,
		Order:    order,
		Resource: resource,
	}
	created, err := s.scaleValueRepo.Create(ctx, nil, scaleValue)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

func (s *extendedAnnotationService) UpdateScaleValue(ctx context.Context, value *domain.ScaleValue) (*domain.ScaleValue, error) {
	stored, err := s.scaleValueRepo.GetByID(ctx, nil, value.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("scale value %d not found", value.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*value) {
		return stored, nil
	}
	if err := s.scaleValueRepo.Save(ctx, nil, value); err != nil {
		return nil, apperr.Internal(err)
	}
	return value, nil
}

func (s *extendedAnnotationService) DeleteScaleValue(ctx context.Context, value *domain.ScaleValue) (*domain.ScaleValue, error) {
	value.Resource = s.DeleteResource(ctx, value.Resource)
	if err := s.scaleValueRepo.Save(ctx, nil, value); err != nil {
		return nil, apperr.Internal(err)
	}
	return value, nil
}

func (s *extendedAnnotationService) GetScaleValue(ctx context.Context, id int64, includeDeleted bool) (*domain.ScaleValue, error) {
	value, err := s.scaleValueRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return value, nil
}

func (s *extendedAnnotationService) GetScaleValues(ctx context.Context, scaleID int64, opts domain.ListOptions) ([]*domain.ScaleValue, error) {
	values, err := s.scaleValueRepo.ListByScale(ctx, nil, scaleID, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return values, nil
}
