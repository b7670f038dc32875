package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
	"github.com/marwyg/annotation-tool/internal/pkg/ctxutil"
)

func (s *extendedAnnotationService) CreateUser(ctx context.Context, extID, nickname string, email *string, resource domain.Resource) (*domain.User, error) {
	user := &domain.User{
		ExtID:    extID,
		Nickname: nickname,
		Email:    email,
		Resource: resource,
	}
	created, err := s.userRepo.Create(ctx, nil, user)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("user with ext id %q already exists", extID)
		}
		return nil, apperr.Internal(err)
	}
	// A principal creating their own user row had no row id yet, so the
	// resource was stamped ownerless. Re-stamp it with the fresh id.
	if created.CreatedBy == nil {
		if p := ctxutil.GetPrincipal(ctx); p != nil && p.ExtID == extID {
			created.CreatedBy = &created.ID
			created.UpdatedBy = &created.ID
			if err := s.userRepo.Save(ctx, nil, created); err != nil {
				return nil, apperr.Internal(err)
			}
		}
	}
	return created, nil
}

func (s *extendedAnnotationService) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	stored, err := s.userRepo.GetByID(ctx, nil, user.ID, true)
	if err != nil {
		if noRow(err) {
			return nil, apperr.NotFound("user %d not found", user.ID)
		}
		return nil, apperr.Internal(err)
	}
	if stored.Equivalent(*user) {
		return stored, nil
	}
	if err := s.userRepo.Save(ctx, nil, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("user with ext id %q already exists", user.ExtID)
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *extendedAnnotationService) DeleteUser(ctx context.Context, user *domain.User) (bool, error) {
	user.Resource = s.DeleteResource(ctx, user.Resource)
	if err := s.userRepo.Save(ctx, nil, user); err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

func (s *extendedAnnotationService) GetUser(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, id, includeDeleted)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *extendedAnnotationService) GetUserByExtID(ctx context.Context, extID string) (*domain.User, error) {
	user, err := s.userRepo.GetByExtID(ctx, nil, extID)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}
