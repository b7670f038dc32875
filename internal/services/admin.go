package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

// ClearDatabase hard-deletes every row of every annotation table, children
// before parents.
func (s *extendedAnnotationService) ClearDatabase(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, wipe := range []func(context.Context, *gorm.DB) error{
			s.commentRepo.DeleteAll,
			s.annotationRepo.DeleteAll,
			s.trackRepo.DeleteAll,
			s.labelRepo.DeleteAll,
			s.categoryRepo.DeleteAll,
			s.scaleValueRepo.DeleteAll,
			s.scaleRepo.DeleteAll,
			s.questionnaireRepo.DeleteAll,
			s.videoRepo.DeleteAll,
			s.userRepo.DeleteAll,
		} {
			if err := wipe(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Internal(err)
	}
	s.log.Warn("cleared all annotation tables")
	return nil
}
