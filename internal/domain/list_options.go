package domain

import "time"

// ListOptions narrows collection reads. Nil fields mean "no filter".
// Since is inclusive and compares against updated_at. TagsAnd requires all
// pairs to be present on a resource, TagsOr at least one.
type ListOptions struct {
	Offset  *int
	Limit   *int
	Since   *time.Time
	TagsAnd map[string]string
	TagsOr  map[string]string
}

// MatchesTags applies the tag filters of o to a resource's tags.
func (o ListOptions) MatchesTags(r Resource) bool {
	if len(o.TagsAnd) > 0 {
		for k, v := range o.TagsAnd {
			got, ok := r.Tags[k]
			if !ok || toTagString(got) != v {
				return false
			}
		}
	}
	if len(o.TagsOr) > 0 {
		for k, v := range o.TagsOr {
			if got, ok := r.Tags[k]; ok && toTagString(got) == v {
				return true
			}
		}
		return false
	}
	return true
}

func toTagString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
