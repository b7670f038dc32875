package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/http/response"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
	"github.com/marwyg/annotation-tool/internal/platform/mediahost"
	"github.com/marwyg/annotation-tool/internal/services"
)

type VideoHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewVideoHandler(service services.ExtendedAnnotationService, log *logger.Logger) *VideoHandler {
	return &VideoHandler{service: service, log: log.With("Handler", "VideoHandler")}
}

// checkedMediaPackage resolves the mediapackage behind an external video id
// and enforces the host platform ACL: unknown mediapackage is a client
// error, a known one without the annotate action is forbidden.
func (h *VideoHandler) checkedMediaPackage(c *gin.Context, extID string) (*mediahost.MediaPackage, bool) {
	mp, err := h.service.FindMediaPackage(c.Request.Context(), extID)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if mp == nil {
		response.Error(c, h.log, apperr.BadInput("mediapackage %q not found", extID))
		return nil, false
	}
	if !h.service.HasVideoAccess(c.Request.Context(), mp, mediahost.ActionAnnotate) {
		response.Error(c, h.log, apperr.Forbidden("not allowed to annotate mediapackage %q", extID))
		return nil, false
	}
	return mp, true
}

// POST /videos
func (h *VideoHandler) Create(c *gin.Context) {
	extID, ok := mandatoryForm(c, "video_extid")
	if !ok {
		return
	}
	access, ok := formAccess(c)
	if !ok {
		return
	}
	tags, ok := formTags(c)
	if !ok {
		return
	}
	if _, ok := h.checkedMediaPackage(c, extID); !ok {
		return
	}

	resource := h.service.CreateResource(c.Request.Context(), access, tags)
	video, err := h.service.CreateVideo(c.Request.Context(), extID, resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, video.ID), video)
}

// PUT /videos upserts by external id.
func (h *VideoHandler) Upsert(c *gin.Context) {
	extID, ok := mandatoryForm(c, "video_extid")
	if !ok {
		return
	}
	access, ok := formAccess(c)
	if !ok {
		return
	}
	tags, ok := formTags(c)
	if !ok {
		return
	}
	if _, ok := h.checkedMediaPackage(c, extID); !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.service.GetVideoByExtID(ctx, extID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil {
		resource := h.service.CreateResource(ctx, access, tags)
		video, err := h.service.CreateVideo(ctx, extID, resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, video.ID), video)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)
	video, err := h.service.UpdateVideo(ctx, existing)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", childLocation(c, video.ID))
	c.JSON(http.StatusOK, video)
}

// GET /videos/:videoId
func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	video, err := h.service.GetVideo(c.Request.Context(), id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if video == nil {
		response.Error(c, h.log, apperr.NotFound("video %d not found", id))
		return
	}
	if !h.service.HasResourceAccess(c.Request.Context(), video.Resource, false) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	c.JSON(http.StatusOK, video)
}

// DELETE /videos/:videoId
func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	video, err := h.service.GetVideo(c.Request.Context(), id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if video == nil {
		response.Error(c, h.log, apperr.NotFound("video %d not found", id))
		return
	}
	if !h.service.HasResourceAccess(c.Request.Context(), video.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	if _, err := h.service.DeleteVideo(c.Request.Context(), video); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveVideo loads the video addressed by the :videoId segment of a
// nested route. A missing video makes the whole nested path invalid, which
// is a client error rather than a lookup miss.
func resolveVideo(c *gin.Context, service services.ExtendedAnnotationService, log *logger.Logger) (*domain.Video, bool) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return nil, false
	}
	video, err := service.GetVideo(c.Request.Context(), videoID, false)
	if err != nil {
		response.Error(c, log, err)
		return nil, false
	}
	if video == nil {
		response.Error(c, log, apperr.BadInput("video %d not found", videoID))
		return nil, false
	}
	return video, true
}
