package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Access levels carried by every resource. The numeric values are part of
// the wire format: clients send them in the `access` form parameter.
const (
	AccessPublic             = 0
	AccessPrivate            = 1
	AccessSharedWithAdmin    = 2
	AccessSharedWithEveryone = 3
)

// Resource is the ownership/audit envelope embedded in every entity.
// Deletion is logical: DeletedAt/DeletedBy are stamped and the row stays.
type Resource struct {
	Access    int                `gorm:"not null;default:0;column:access" json:"access"`
	CreatedBy *int64             `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy *int64             `gorm:"column:updated_by" json:"updated_by,omitempty"`
	DeletedBy *int64             `gorm:"column:deleted_by" json:"deleted_by,omitempty"`
	CreatedAt *time.Time         `gorm:"column:created_at;autoCreateTime:false" json:"created_at,omitempty"`
	UpdatedAt *time.Time         `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at,omitempty"`
	DeletedAt *time.Time         `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	Tags      datatypes.JSONMap  `gorm:"column:tags" json:"tags,omitempty"`
}

// Deleted reports whether the resource has been soft deleted.
func (r Resource) Deleted() bool {
	return r.DeletedAt != nil
}

// OwnedBy reports whether userID owns the resource. Legacy rows created
// before any user existed have no owner and are owned by nobody.
func (r Resource) OwnedBy(userID int64) bool {
	return r.CreatedBy != nil && *r.CreatedBy == userID
}
