package repos

import (
	"time"

	"gorm.io/datatypes"

	"github.com/marwyg/annotation-tool/internal/domain"
)

func liveResource(at time.Time) domain.Resource {
	return domain.Resource{
		Access:    domain.AccessPublic,
		CreatedAt: &at,
		UpdatedAt: &at,
	}
}

func taggedResource(at time.Time, tags map[string]any) domain.Resource {
	r := liveResource(at)
	r.Tags = datatypes.JSONMap(tags)
	return r
}

func deletedResource(at time.Time) domain.Resource {
	r := liveResource(at)
	r.DeletedAt = &at
	return r
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
