// Package mediahost is the boundary to the surrounding video platform.
// The annotation tool never owns video metadata or access-control lists; it
// asks the host for both through the two interfaces below.
package mediahost

import (
	"context"

	"github.com/marwyg/annotation-tool/internal/pkg/ctxutil"
)

// ACL actions the annotation tool cares about.
const (
	ActionAnnotate      = "annotate"
	ActionAnnotateAdmin = "annotate-admin"
)

// MediaPackage is the host platform's view of a video.
type MediaPackage struct {
	ID          string              `json:"id"`
	SeriesExtID string              `json:"series_ext_id,omitempty"`
	Title       string              `json:"title,omitempty"`
	// ACL maps an action to the external user ids and roles it is granted to.
	ACL map[string][]string `json:"acl"`
}

// MediaLookup resolves a host-level video id to its media package.
// A nil package with a nil error means the media package does not exist.
type MediaLookup interface {
	FindMediaPackage(ctx context.Context, extID string) (*MediaPackage, error)
}

// AclEvaluator decides whether a principal may perform an ACL action on a
// media package.
type AclEvaluator interface {
	HasAction(ctx context.Context, principal *ctxutil.Principal, mp *MediaPackage, action string) bool
}
