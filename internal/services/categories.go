package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

func (s *extendedAnnotationService) CreateCategory(ctx context.Context, seriesExtID *string, seriesCategoryID, videoID, scaleID *int64, name string, description, settings *string, resource domain.Resource) (*domain.Category, error) {
	if videoID != nil {
		if video, err := s.GetVideo(ctx, *videoID, false); err != nil {
			return nil, err
		} else if video == nil {
			return nil, apperr.NotFound("video %d not found", *videoID)
		}
	}
	category := &domain.Category{
		SeriesExtID:      seriesExtID,
		SeriesCategoryID: seriesCategoryID,
		VideoID:          videoID,
		ScaleID:          scaleID,
		Name:             name,
		Description:      description,
		Settings:         settings,
		Resource:         resource,
	}
	created, err := s.categoryRepo.Create(ctx, nil, category)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

// CreateCategoryFromTemplate deep-copies a category onto a video: the scale
// (with its values) when the source has one, the category row itself, then
// every label. When the copy belongs to a series, each label copy keeps a
// back-reference to its source label so series-wide edits can find it.
func (s *extendedAnnotationService) CreateCategoryFromTemplate(ctx context.Context, templateCategoryID int64, seriesExtID *string, seriesCategoryID *int64, videoID int64, resource domain.Resource) (*domain.Category, error) {
	if video, err := s.GetVideo(ctx, videoID, false); err != nil {
		return nil, err
	} else if video == nil {
		return nil, apperr.NotFound("video %d not found", videoID)
	}
	template, err := s.GetCategory(ctx, templateCategoryID, false)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperr.NotFound("category %d not found", templateCategoryID)
	}

	var created *domain.Category
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var scaleID *int64
		if template.ScaleID != nil {
			templateScale, err := s.scaleRepo.GetByID(ctx, tx, *template.ScaleID, false)
			if err != nil && !noRow(err) {
				return err
			}
			if templateScale != nil {
				copied, err := s.copyScaleTx(ctx, tx, templateScale, videoID, s.CreateResource(ctx, &resource.Access, nil))
				if err != nil {
					return err
				}
				scaleID = &copied.ID
			}
		}

		category := &domain.Category{
			SeriesExtID:      seriesExtID,
			SeriesCategoryID: seriesCategoryID,
			VideoID:          &videoID,
			ScaleID:          scaleID,
			Name:             template.Name,
			Description:      template.Description,
			Settings:         template.Settings,
			Resource:         resource,
		}
		category, err := s.categoryRepo.Create(ctx, tx, category)
		if err != nil {
			return err
		}

		labels, err := s.labelRepo.ListByCategory(ctx, tx, template.ID, domain.ListOptions{})
		if err != nil {
			return err
		}
		for _, label := range labels {
			var seriesLabelID *int64
			if seriesCategoryID != nil {
				sourceID := label.ID
				seriesLabelID = &sourceID
			}
			labelCopy := &domain.Label{
				SeriesLabelID: seriesLabelID,
				CategoryID:    category.ID,
				Value:         label.Value,
				Abbreviation:  label.Abbreviation,
				Description:   label.Description,
				Settings:      label.Settings,
				Resource:      s.CreateResource(ctx, &resource.Access, nil),
			}
			if _, err := s.labelRepo.Create(ctx, tx, labelCopy); err != nil {
				return err
			}
		}

		created = category
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

func (s *extendedAnnotationService) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	stored, err := s.categoryRepo.GetByID(ctx, nil, category.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("category %d not found", category.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*category) {
		return stored, nil
	}
	if err := s.categoryRepo.Save(ctx, nil, category); err != nil {
		return nil, apperr.Internal(err)
	}
	return category, nil
}

// UpdateCategoryAndDeleteOtherSeriesCategories applies an edit to a series
// master and soft-deletes every per-video copy of that series, so clients
// re-copy the updated master on their next fetch.
func (s *extendedAnnotationService) UpdateCategoryAndDeleteOtherSeriesCategories(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category.SeriesExtID == nil {
		return s.UpdateCategory(ctx, category)
	}
	if _, err := s.categoryRepo.GetByID(ctx, nil, category.ID, true); err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("category %d not found", category.ID)
		}
		return nil, apperr.Internal(err)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		copies, err := s.categoryRepo.ListSeriesCopies(ctx, tx, *category.SeriesExtID, category.ID)
		if err != nil {
			return err
		}
		for _, copied := range copies {
			if err := s.deleteCategoryTx(ctx, tx, copied); err != nil {
				return err
			}
		}
		return s.categoryRepo.Save(ctx, tx, category)
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return category, nil
}

// DeleteCategory also soft-deletes the category's labels.
func (s *extendedAnnotationService) DeleteCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.deleteCategoryTx(ctx, tx, category)
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return category, nil
}

func (s *extendedAnnotationService) deleteCategoryTx(ctx context.Context, tx *gorm.DB, category *domain.Category) error {
	labels, err := s.labelRepo.ListByCategory(ctx, tx, category.ID, domain.ListOptions{})
	if err != nil {
		return err
	}
	for _, label := range labels {
		label.Resource = s.DeleteResource(ctx, label.Resource)
		if err := s.labelRepo.Save(ctx, tx, label); err != nil {
			return err
		}
	}
	category.Resource = s.DeleteResource(ctx, category.Resource)
	return s.categoryRepo.Save(ctx, tx, category)
}

func (s *extendedAnnotationService) GetCategory(ctx context.Context, id int64, includeDeleted bool) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return category, nil
}

func (s *extendedAnnotationService) GetCategories(ctx context.Context, seriesExtID *string, videoID *int64, opts domain.ListOptions) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx, nil, seriesExtID, videoID, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *extendedAnnotationService) CreateLabel(ctx context.Context, categoryID int64, value, abbreviation string, description, settings *string, resource domain.Resource) (*domain.Label, error) {
	if category, err := s.GetCategory(ctx, categoryID, false); err != nil {
		return nil, err
	} else if category == nil {
		return nil, apperr.NotFound("category %d not found", categoryID)
	}
	label := &domain.Label{
		CategoryID:   categoryID,
		Value:        value,
		Abbreviation: abbreviation,
		Description:  description,
		Settings:     settings,
		Resource:     resource,
	}
	created, err := s.labelRepo.Create(ctx, nil, label)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

func (s *extendedAnnotationService) UpdateLabel(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	stored, err := s.labelRepo.GetByID(ctx, nil, label.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("label %d not found", label.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*label) {
		return stored, nil
	}
	if err := s.labelRepo.Save(ctx, nil, label); err != nil {
		return nil, apperr.Internal(err)
	}
	return label, nil
}

// DeleteLabel on a per-video label copy redirects to the series master
// label, so the deletion propagates to every copy when the series categories
// are re-synced.
func (s *extendedAnnotationService) DeleteLabel(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	target := label
	if label.SeriesLabelID != nil {
		master, err := s.GetLabel(ctx, *label.SeriesLabelID, false)
		if err != nil {
			return nil, err
		}
		if master == nil {
			return nil, apperr.NotFound("label %d not found", *label.SeriesLabelID)
		}
		if !s.HasResourceAccess(ctx, master.Resource, true) {
			return nil, apperr.Unauthorized("access denied")
		}
		target = master
	}
	target.Resource = s.DeleteResource(ctx, target.Resource)
	if err := s.labelRepo.Save(ctx, nil, target); err != nil {
		return nil, apperr.Internal(err)
	}
	return target, nil
}

func (s *extendedAnnotationService) GetLabel(ctx context.Context, id int64, includeDeleted bool) (*domain.Label, error) {
	label, err := s.labelRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return label, nil
}

func (s *extendedAnnotationService) GetLabels(ctx context.Context, categoryID int64, opts domain.ListOptions) ([]*domain.Label, error) {
	labels, err := s.labelRepo.ListByCategory(ctx, nil, categoryID, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return labels, nil
}
