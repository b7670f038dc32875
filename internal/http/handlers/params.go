package handlers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/http/response"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

// pathID parses a numeric path segment. Non-numeric ids address nothing,
// so the response is 404 rather than 400.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil {
		response.Error(c, nil, apperr.NotFound("no such %s", name))
		return 0, false
	}
	return id, true
}

// mandatoryForm rejects blank values with 400 before any service call.
func mandatoryForm(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.PostForm(name))
	if v == "" {
		response.Error(c, nil, apperr.BadInput("%s must not be blank", name))
		return "", false
	}
	return v, true
}

func optionalForm(c *gin.Context, name string) *string {
	return trimToNone(c.PostForm(name))
}

func trimToNone(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return &v
}

func formAccess(c *gin.Context) (*int, bool) {
	v := strings.TrimSpace(c.PostForm("access"))
	if v == "" {
		return nil, true
	}
	access, err := strconv.Atoi(v)
	if err != nil || access < domain.AccessPublic || access > domain.AccessSharedWithEveryone {
		response.Error(c, nil, apperr.BadInput("invalid access value %q", v))
		return nil, false
	}
	return &access, true
}

// formTags parses the `tags` form parameter, a JSON object of string pairs.
// Absent means "leave tags alone"; present-but-invalid is 400.
func formTags(c *gin.Context) (map[string]string, bool) {
	return parseTags(c, c.PostForm("tags"), "tags")
}

func parseTags(c *gin.Context, raw, name string) (map[string]string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	var tags map[string]string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		response.Error(c, nil, apperr.BadInput("invalid %s parameter", name))
		return nil, false
	}
	return tags, true
}

func mandatoryFormFloat(c *gin.Context, name string) (float64, bool) {
	raw, ok := mandatoryForm(c, name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.Error(c, nil, apperr.BadInput("%s must be a number", name))
		return 0, false
	}
	return v, true
}

func optionalFormFloat(c *gin.Context, name string) (*float64, bool) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.Error(c, nil, apperr.BadInput("%s must be a number", name))
		return nil, false
	}
	return &v, true
}

func optionalFormInt64(c *gin.Context, name string) (*int64, bool) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, nil, apperr.BadInput("%s must be an integer", name))
		return nil, false
	}
	return &v, true
}

func optionalFormInt(c *gin.Context, name string) (*int, bool) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, nil, apperr.BadInput("%s must be an integer", name))
		return nil, false
	}
	return &v, true
}

// parseListOptions reads the shared collection query parameters. Absent
// parameters mean "no filter"; present-but-unparseable ones are 400.
func parseListOptions(c *gin.Context) (domain.ListOptions, bool) {
	var opts domain.ListOptions

	for name, dst := range map[string]**int{"limit": &opts.Limit, "offset": &opts.Offset} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.Error(c, nil, apperr.BadInput("invalid %s parameter", name))
			return opts, false
		}
		*dst = &v
	}

	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, nil, apperr.BadInput("invalid since parameter"))
			return opts, false
		}
		opts.Since = &since
	}

	tagsAnd, ok := parseTags(c, c.Query("tags-and"), "tags-and")
	if !ok {
		return opts, false
	}
	opts.TagsAnd = tagsAnd

	tagsOr, ok := parseTags(c, c.Query("tags-or"), "tags-or")
	if !ok {
		return opts, false
	}
	opts.TagsOr = tagsOr

	return opts, true
}

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func offsetOf(opts domain.ListOptions) int {
	if opts.Offset != nil {
		return *opts.Offset
	}
	return 0
}
