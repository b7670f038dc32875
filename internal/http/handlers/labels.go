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

type LabelHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewLabelHandler(service services.ExtendedAnnotationService, log *logger.Logger) *LabelHandler {
	return &LabelHandler{service: service, log: log.With("Handler", "LabelHandler")}
}

// resolveCategory loads the category addressed by the :categoryId segment,
// on either the video-scoped route or the template mirror. An unresolved
// parent is a client error.
func (h *LabelHandler) resolveCategory(c *gin.Context) (*int64, *domain.Category, bool) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return nil, nil, false
	}
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return nil, nil, false
	}
	category, err := h.service.GetCategory(c.Request.Context(), categoryID, false)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, nil, false
	}
	if category == nil {
		response.Error(c, h.log, apperr.BadInput("category %d not found", categoryID))
		return nil, nil, false
	}
	return videoID, category, true
}

// POST /videos/:videoId/categories/:categoryId/labels and
// POST /categories/:categoryId/labels
func (h *LabelHandler) Create(c *gin.Context) {
	_, category, ok := h.resolveCategory(c)
	if !ok {
		return
	}
	value, ok := mandatoryForm(c, "value")
	if !ok {
		return
	}
	abbreviation, ok := mandatoryForm(c, "abbreviation")
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

	resource := h.service.CreateResource(c.Request.Context(), access, tags)
	label, err := h.service.CreateLabel(c.Request.Context(), category.ID, value, abbreviation, optionalForm(c, "description"), optionalForm(c, "settings"), resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, label.ID), label)
}

// PUT /videos/:videoId/categories/:categoryId/labels/:id and
// PUT /categories/:categoryId/labels/:id
func (h *LabelHandler) Upsert(c *gin.Context) {
	_, category, ok := h.resolveCategory(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	value, ok := mandatoryForm(c, "value")
	if !ok {
		return
	}
	abbreviation, ok := mandatoryForm(c, "abbreviation")
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
	existing, err := h.service.GetLabel(ctx, id, true)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil || existing.CategoryID != category.ID {
		resource := h.service.CreateResource(ctx, access, tags)
		label, err := h.service.CreateLabel(ctx, category.ID, value, abbreviation, optionalForm(c, "description"), optionalForm(c, "settings"), resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, label.ID), label)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	existing.Value = value
	existing.Abbreviation = abbreviation
	existing.Description = optionalForm(c, "description")
	existing.Settings = optionalForm(c, "settings")
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)
	label, err := h.service.UpdateLabel(ctx, existing)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, label)
}

// GET /videos/:videoId/categories/:categoryId/labels/:id and
// GET /categories/:categoryId/labels/:id
func (h *LabelHandler) Get(c *gin.Context) {
	_, category, ok := h.resolveCategory(c)
	if !ok {
		return
	}
	label, ok := h.loadLabel(c, category, false, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, label)
}

// GET /videos/:videoId/categories/:categoryId/labels and
// GET /categories/:categoryId/labels
func (h *LabelHandler) List(c *gin.Context) {
	_, category, ok := h.resolveCategory(c)
	if !ok {
		return
	}
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}
	labels, err := h.service.GetLabels(c.Request.Context(), category.ID, opts)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, "labels", offsetOf(opts), len(labels), labels)
}

// DELETE /videos/:videoId/categories/:categoryId/labels/:id and
// DELETE /categories/:categoryId/labels/:id respond with the representation
// that was actually deleted. For a series label copy that is the master
// label, and the Location header points at its canonical path.
func (h *LabelHandler) Delete(c *gin.Context) {
	videoID, category, ok := h.resolveCategory(c)
	if !ok {
		return
	}
	label, ok := h.loadLabel(c, category, true, true)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteLabel(c.Request.Context(), label)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", labelLocation(videoID, deleted.CategoryID, deleted.ID))
	c.JSON(http.StatusOK, deleted)
}

func (h *LabelHandler) loadLabel(c *gin.Context, category *domain.Category, includeDeleted, write bool) (*domain.Label, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	label, err := h.service.GetLabel(c.Request.Context(), id, includeDeleted)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if label == nil || label.CategoryID != category.ID {
		response.Error(c, h.log, apperr.NotFound("label %d not found", id))
		return nil, false
	}
	if !h.service.HasResourceAccess(c.Request.Context(), label.Resource, write) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return nil, false
	}
	return label, true
}
