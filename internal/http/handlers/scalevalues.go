package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/http/response"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
	"github.com/marwyg/annotation-tool/internal/services"
)

type ScaleValueHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewScaleValueHandler(service services.ExtendedAnnotationService, log *logger.Logger) *ScaleValueHandler {
	return &ScaleValueHandler{service: service, log: log.With("Handler", "ScaleValueHandler")}
}

// resolveScale loads the scale addressed by the :scaleId segment, honoring
// the video scope of the route. An unresolved parent is a client error.
func (h *ScaleValueHandler) resolveScale(c *gin.Context) (*domain.Scale, bool) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return nil, false
	}
	scaleID, ok := pathID(c, "scaleId")
	if !ok {
		return nil, false
	}
	scale, err := h.service.GetScale(c.Request.Context(), scaleID, false)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if scale == nil || !sameScope(scale.VideoID, videoID) {
		response.Error(c, h.log, apperr.BadInput("scale %d not found", scaleID))
		return nil, false
	}
	return scale, true
}

// POST /videos/:videoId/scales/:scaleId/scalevalues
func (h *ScaleValueHandler) Create(c *gin.Context) {
	scale, ok := h.resolveScale(c)
	if !ok {
		return
	}
	name, ok := mandatoryForm(c, "name")
	if !ok {
		return
	}
	value, ok := mandatoryFormFloat(c, "value")
	if !ok {
		return
	}
	order, ok := optionalFormInt(c, "order")
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

	sortOrder := 0
	if order != nil {
		sortOrder = *order
	}
	resource := h.service.CreateResource(c.Request.Context(), access, tags)
	scaleValue, err := h.service.CreateScaleValue(c.Request.Context(), scale.ID, name, value, sortOrder, resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, scaleValue.ID), scaleValue)
}

// PUT /videos/:videoId/scales/:scaleId/scalevalues/:id
func (h *ScaleValueHandler) Upsert(c *gin.Context) {
	scale, ok := h.resolveScale(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	name, ok := mandatoryForm(c, "name")
	if !ok {
		return
	}
	value, ok := mandatoryFormFloat(c, "value")
	if !ok {
		return
	}
	order, ok := optionalFormInt(c, "order")
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
	existing, err := h.service.GetScaleValue(ctx, id, true)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil || existing.ScaleID != scale.ID {
		sortOrder := 0
		if order != nil {
			sortOrder = *order
		}
		resource := h.service.CreateResource(ctx, access, tags)
		scaleValue, err := h.service.CreateScaleValue(ctx, scale.ID, name, value, sortOrder, resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, scaleValue.ID), scaleValue)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	existing.Name = name
	existing.Value = value
	if order != nil {
		existing.Order = *order
	}
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)
	scaleValue, err := h.service.UpdateScaleValue(ctx, existing)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, scaleValue)
}

// GET /videos/:videoId/scales/:scaleId/scalevalues/:id
func (h *ScaleValueHandler) Get(c *gin.Context) {
	scale, ok := h.resolveScale(c)
	if !ok {
		return
	}
	scaleValue, ok := h.loadScaleValue(c, scale, false, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, scaleValue)
}

// GET /videos/:videoId/scales/:scaleId/scalevalues
func (h *ScaleValueHandler) List(c *gin.Context) {
	scale, ok := h.resolveScale(c)
	if !ok {
		return
	}
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}
	values, err := h.service.GetScaleValues(c.Request.Context(), scale.ID, opts)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, "scaleValues", offsetOf(opts), len(values), values)
}

// DELETE /videos/:videoId/scales/:scaleId/scalevalues/:id
func (h *ScaleValueHandler) Delete(c *gin.Context) {
	scale, ok := h.resolveScale(c)
	if !ok {
		return
	}
	scaleValue, ok := h.loadScaleValue(c, scale, true, true)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteScaleValue(c.Request.Context(), scaleValue)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, deleted)
}

func (h *ScaleValueHandler) loadScaleValue(c *gin.Context, scale *domain.Scale, includeDeleted, write bool) (*domain.ScaleValue, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	scaleValue, err := h.service.GetScaleValue(c.Request.Context(), id, includeDeleted)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if scaleValue == nil || scaleValue.ScaleID != scale.ID {
		response.Error(c, h.log, apperr.NotFound("scale value %d not found", id))
		return nil, false
	}
	if !h.service.HasResourceAccess(c.Request.Context(), scaleValue.Resource, write) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return nil, false
	}
	return scaleValue, true
}
