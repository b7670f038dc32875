package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/http/response"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
	"github.com/marwyg/annotation-tool/internal/services"
)

// ScaleHandler serves both route families: /videos/:videoId/scales for
// per-video scales and the /scales mirror for templates.
type ScaleHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewScaleHandler(service services.ExtendedAnnotationService, log *logger.Logger) *ScaleHandler {
	return &ScaleHandler{service: service, log: log.With("Handler", "ScaleHandler")}
}

// scopedVideoID resolves the :videoId segment when present. Template routes
// carry no video segment and get a nil id.
func scopedVideoID(c *gin.Context, service services.ExtendedAnnotationService, log *logger.Logger) (*int64, bool) {
	if strings.TrimSpace(c.Param("videoId")) == "" {
		return nil, true
	}
	video, ok := resolveVideo(c, service, log)
	if !ok {
		return nil, false
	}
	return &video.ID, true
}

// POST /videos/:videoId/scales and POST /scales. On the video-scoped route
// a scale_id form parameter copies the referenced template instead of
// creating from fields.
func (h *ScaleHandler) Create(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
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

	templateID, ok := optionalFormInt64(c, "scale_id")
	if !ok {
		return
	}
	if templateID != nil {
		if videoID == nil {
			response.Error(c, h.log, apperr.BadInput("scale templates cannot be copied onto the template collection"))
			return
		}
		resource := h.service.CreateResource(c.Request.Context(), access, tags)
		scale, err := h.service.CreateScaleFromTemplate(c.Request.Context(), *videoID, *templateID, resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, scale.ID), scale)
		return
	}

	name, ok := mandatoryForm(c, "name")
	if !ok {
		return
	}
	resource := h.service.CreateResource(c.Request.Context(), access, tags)
	scale, err := h.service.CreateScale(c.Request.Context(), videoID, name, optionalForm(c, "description"), resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, scale.ID), scale)
}

// PUT /videos/:videoId/scales/:scaleId and PUT /scales/:scaleId
func (h *ScaleHandler) Upsert(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	id, ok := pathID(c, "scaleId")
	if !ok {
		return
	}
	name, ok := mandatoryForm(c, "name")
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

	ctx := c.Request.Context()
	existing, err := h.service.GetScale(ctx, id, true)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil || !sameScope(existing.VideoID, videoID) {
		resource := h.service.CreateResource(ctx, access, tags)
		scale, err := h.service.CreateScale(ctx, videoID, name, optionalForm(c, "description"), resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, scale.ID), scale)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	existing.Name = name
	existing.Description = optionalForm(c, "description")
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)
	scale, err := h.service.UpdateScale(ctx, existing)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, scale)
}

// GET /videos/:videoId/scales/:scaleId and GET /scales/:scaleId
func (h *ScaleHandler) Get(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	scale, ok := h.loadScale(c, videoID, false, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, scale)
}

// GET /videos/:videoId/scales and GET /scales
func (h *ScaleHandler) List(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}
	scales, err := h.service.GetScales(c.Request.Context(), videoID, opts)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, "scales", offsetOf(opts), len(scales), scales)
}

// DELETE /videos/:videoId/scales/:scaleId and DELETE /scales/:scaleId respond with
// the deleted representation.
func (h *ScaleHandler) Delete(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	scale, ok := h.loadScale(c, videoID, true, true)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteScale(c.Request.Context(), scale)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, deleted)
}

func (h *ScaleHandler) loadScale(c *gin.Context, videoID *int64, includeDeleted, write bool) (*domain.Scale, bool) {
	id, ok := pathID(c, "scaleId")
	if !ok {
		return nil, false
	}
	scale, err := h.service.GetScale(c.Request.Context(), id, includeDeleted)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if scale == nil || !sameScope(scale.VideoID, videoID) {
		response.Error(c, h.log, apperr.NotFound("scale %d not found", id))
		return nil, false
	}
	if !h.service.HasResourceAccess(c.Request.Context(), scale.Resource, write) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return nil, false
	}
	return scale, true
}

func sameScope(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
