package services

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
	"github.com/marwyg/annotation-tool/internal/pkg/ctxutil"
	"github.com/marwyg/annotation-tool/internal/platform/mediahost"
)

func (s *extendedAnnotationService) CreateResource(ctx context.Context, access *int, tags map[string]string) domain.Resource {
	now := time.Now().UTC()
	resource := domain.Resource{
		Access:    domain.AccessPublic,
		CreatedAt: &now,
		UpdatedAt: &now,
		Tags:      toJSONMap(tags),
	}
	if access != nil {
		resource.Access = *access
	}
	if uid := currentUserID(ctx); uid != nil {
		resource.CreatedBy = uid
		resource.UpdatedBy = uid
	}
	return resource
}

// UpdateResource stamps the updater, preserving creator and creation time.
func (s *extendedAnnotationService) UpdateResource(ctx context.Context, resource domain.Resource, tags map[string]string) domain.Resource {
	now := time.Now().UTC()
	resource.UpdatedAt = &now
	resource.UpdatedBy = currentUserID(ctx)
	if tags != nil {
		resource.Tags = toJSONMap(tags)
	}
	return resource
}

// DeleteResource stamps the deleter, leaving everything else untouched.
func (s *extendedAnnotationService) DeleteResource(ctx context.Context, resource domain.Resource) domain.Resource {
	now := time.Now().UTC()
	resource.DeletedAt = &now
	resource.DeletedBy = currentUserID(ctx)
	return resource
}

// HasResourceAccess implements the access matrix: owners and admins have
// full access, shared-with-everyone resources are readable by anyone
// authenticated, private and shared-with-admin resources are closed to
// everybody else. Legacy public rows stay readable.
func (s *extendedAnnotationService) HasResourceAccess(ctx context.Context, resource domain.Resource, write bool) bool {
	principal := ctxutil.GetPrincipal(ctx)
	if principal == nil {
		return false
	}
	if principal.Admin {
		return true
	}
	if principal.UserID != 0 && resource.OwnedBy(principal.UserID) {
		return true
	}
	switch resource.Access {
	case domain.AccessPrivate, domain.AccessSharedWithAdmin:
		return false
	default:
		return !write
	}
}

func (s *extendedAnnotationService) FindMediaPackage(ctx context.Context, extID string) (*mediahost.MediaPackage, error) {
	mp, err := s.mediaLookup.FindMediaPackage(ctx, extID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return mp, nil
}

func (s *extendedAnnotationService) HasVideoAccess(ctx context.Context, mp *mediahost.MediaPackage, action string) bool {
	return s.aclEvaluator.HasAction(ctx, ctxutil.GetPrincipal(ctx), mp, action)
}

func currentUserID(ctx context.Context) *int64 {
	principal := ctxutil.GetPrincipal(ctx)
	if principal == nil || principal.UserID == 0 {
		return nil
	}
	id := principal.UserID
	return &id
}

func toJSONMap(tags map[string]string) datatypes.JSONMap {
	if tags == nil {
		return nil
	}
	m := make(datatypes.JSONMap, len(tags))
	for k, v := range tags {
		m[k] = v
	}
	return m
}
