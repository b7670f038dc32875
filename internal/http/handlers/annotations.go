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

type AnnotationHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewAnnotationHandler(service services.ExtendedAnnotationService, log *logger.Logger) *AnnotationHandler {
	return &AnnotationHandler{service: service, log: log.With("Handler", "AnnotationHandler")}
}

// resolveTrack loads the track addressed by the :trackId segment, scoped to
// the video of the route. An unresolved parent is a client error.
func resolveTrack(c *gin.Context, service services.ExtendedAnnotationService, log *logger.Logger) (*domain.Track, bool) {
	video, ok := resolveVideo(c, service, log)
	if !ok {
		return nil, false
	}
	trackID, ok := pathID(c, "trackId")
	if !ok {
		return nil, false
	}
	track, err := service.GetTrack(c.Request.Context(), trackID, false)
	if err != nil {
		response.Error(c, log, err)
		return nil, false
	}
	if track == nil || track.VideoID != video.ID {
		response.Error(c, log, apperr.BadInput("track %d not found", trackID))
		return nil, false
	}
	return track, true
}

// POST /videos/:videoId/tracks/:trackId/annotations
func (h *AnnotationHandler) Create(c *gin.Context) {
	track, ok := resolveTrack(c, h.service, h.log)
	if !ok {
		return
	}
	fields, ok := annotationForm(c)
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
	annotation, err := h.service.CreateAnnotation(c.Request.Context(), track.ID, fields.start, fields.duration, fields.content, fields.createdFromQuestionnaire, fields.settings, resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, annotation.ID), annotation)
}

// PUT /videos/:videoId/tracks/:trackId/annotations/:annotationId
func (h *AnnotationHandler) Upsert(c *gin.Context) {
	track, ok := resolveTrack(c, h.service, h.log)
	if !ok {
		return
	}
	id, ok := pathID(c, "annotationId")
	if !ok {
		return
	}
	fields, ok := annotationForm(c)
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
	existing, err := h.service.GetAnnotation(ctx, id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil || existing.TrackID != track.ID {
		resource := h.service.CreateResource(ctx, access, tags)
		annotation, err := h.service.CreateAnnotation(ctx, track.ID, fields.start, fields.duration, fields.content, fields.createdFromQuestionnaire, fields.settings, resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, annotation.ID), annotation)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	existing.Start = fields.start
	existing.Duration = fields.duration
	existing.Content = fields.content
	existing.CreatedFromQuestionnaire = fields.createdFromQuestionnaire
	existing.Settings = fields.settings
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)
	annotation, err := h.service.UpdateAnnotation(ctx, existing)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, annotation)
}

// GET /videos/:videoId/tracks/:trackId/annotations/:annotationId
func (h *AnnotationHandler) Get(c *gin.Context) {
	track, ok := resolveTrack(c, h.service, h.log)
	if !ok {
		return
	}
	annotation, ok := h.loadAnnotation(c, track, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, annotation)
}

// GET /videos/:videoId/tracks/:trackId/annotations
func (h *AnnotationHandler) List(c *gin.Context) {
	track, ok := resolveTrack(c, h.service, h.log)
	if !ok {
		return
	}
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}
	annotations, err := h.service.GetAnnotations(c.Request.Context(), track.ID, opts)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, "annotations", offsetOf(opts), len(annotations), annotations)
}

// DELETE /videos/:videoId/tracks/:trackId/annotations/:annotationId
func (h *AnnotationHandler) Delete(c *gin.Context) {
	track, ok := resolveTrack(c, h.service, h.log)
	if !ok {
		return
	}
	annotation, ok := h.loadAnnotation(c, track, true)
	if !ok {
		return
	}
	if _, err := h.service.DeleteAnnotation(c.Request.Context(), annotation); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AnnotationHandler) loadAnnotation(c *gin.Context, track *domain.Track, write bool) (*domain.Annotation, bool) {
	id, ok := pathID(c, "annotationId")
	if !ok {
		return nil, false
	}
	annotation, err := h.service.GetAnnotation(c.Request.Context(), id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if annotation == nil || annotation.TrackID != track.ID {
		response.Error(c, h.log, apperr.NotFound("annotation %d not found", id))
		return nil, false
	}
	if !h.service.HasResourceAccess(c.Request.Context(), annotation.Resource, write) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return nil, false
	}
	return annotation, true
}

type annotationFields struct {
	start                    float64
	duration                 *float64
	content                  string
	createdFromQuestionnaire int64
	settings                 *string
}

func annotationForm(c *gin.Context) (annotationFields, bool) {
	var fields annotationFields
	start, ok := mandatoryFormFloat(c, "start")
	if !ok {
		return fields, false
	}
	duration, ok := optionalFormFloat(c, "duration")
	if !ok {
		return fields, false
	}
	createdFrom, ok := optionalFormInt64(c, "created_from_questionnaire")
	if !ok {
		return fields, false
	}
	fields.start = start
	fields.duration = duration
	fields.content = c.PostForm("content")
	if createdFrom != nil {
		fields.createdFromQuestionnaire = *createdFrom
	}
	fields.settings = optionalForm(c, "settings")
	return fields, true
}
