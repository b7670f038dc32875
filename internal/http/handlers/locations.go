package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// childLocation points at a newly created member of the requested
// collection.
func childLocation(c *gin.Context, id int64) string {
	return strings.TrimRight(c.Request.URL.Path, "/") + "/" + strconv.FormatInt(id, 10)
}

// selfLocation points at the entity the request addressed.
func selfLocation(c *gin.Context) string {
	return c.Request.URL.Path
}

// labelLocation builds the canonical path of a label, needed when a delete
// was redirected to the series master living under another category. A nil
// videoID addresses the template mirror.
func labelLocation(videoID *int64, categoryID, labelID int64) string {
	if videoID == nil {
		return fmt.Sprintf("/categories/%d/labels/%d", categoryID, labelID)
	}
	return fmt.Sprintf("/videos/%d/categories/%d/labels/%d", *videoID, categoryID, labelID)
}
