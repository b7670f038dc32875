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

type CommentHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewCommentHandler(service services.ExtendedAnnotationService, log *logger.Logger) *CommentHandler {
	return &CommentHandler{service: service, log: log.With("Handler", "CommentHandler")}
}

// resolveAnnotation loads the annotation addressed by the :annotationId
// segment, scoped to the track of the route.
func resolveAnnotation(c *gin.Context, service services.ExtendedAnnotationService, log *logger.Logger) (*domain.Annotation, bool) {
	track, ok := resolveTrack(c, service, log)
	if !ok {
		return nil, false
	}
	annotationID, ok := pathID(c, "annotationId")
	if !ok {
		return nil, false
	}
	annotation, err := service.GetAnnotation(c.Request.Context(), annotationID, false)
	if err != nil {
		response.Error(c, log, err)
		return nil, false
	}
	if annotation == nil || annotation.TrackID != track.ID {
		response.Error(c, log, apperr.BadInput("annotation %d not found", annotationID))
		return nil, false
	}
	return annotation, true
}

// POST /videos/:videoId/tracks/:trackId/annotations/:annotationId/comments
// A reply-to parameter threads the new comment under an existing one.
func (h *CommentHandler) Create(c *gin.Context) {
	annotation, ok := resolveAnnotation(c, h.service, h.log)
	if !ok {
		return
	}
	text, ok := mandatoryForm(c, "text")
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
	replyTo, ok := replyToParam(c)
	if !ok {
		return
	}

	resource := h.service.CreateResource(c.Request.Context(), access, tags)
	comment, err := h.service.CreateComment(c.Request.Context(), annotation.ID, replyTo, text, resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, comment.ID), comment)
}

// PUT /videos/:videoId/tracks/:trackId/annotations/:annotationId/comments/:id
func (h *CommentHandler) Upsert(c *gin.Context) {
	annotation, ok := resolveAnnotation(c, h.service, h.log)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	text, ok := mandatoryForm(c, "text")
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
	existing, err := h.service.GetComment(ctx, id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil || existing.AnnotationID != annotation.ID {
		replyTo, ok := replyToParam(c)
		if !ok {
			return
		}
		resource := h.service.CreateResource(ctx, access, tags)
		comment, err := h.service.CreateComment(ctx, annotation.ID, replyTo, text, resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, comment.ID), comment)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	existing.Text = text
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)
	comment, err := h.service.UpdateComment(ctx, existing)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, comment)
}

// GET /videos/:videoId/tracks/:trackId/annotations/:annotationId/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	annotation, ok := resolveAnnotation(c, h.service, h.log)
	if !ok {
		return
	}
	comment, ok := h.loadComment(c, annotation, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, comment)
}

// GET /videos/:videoId/tracks/:trackId/annotations/:annotationId/comments
// Without reply-to the top-level thread is returned; with it, the replies
// to that comment.
func (h *CommentHandler) List(c *gin.Context) {
	annotation, ok := resolveAnnotation(c, h.service, h.log)
	if !ok {
		return
	}
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}
	replyTo, ok := replyToParam(c)
	if !ok {
		return
	}
	if replyTo != nil {
		parent, err := h.service.GetComment(c.Request.Context(), *replyTo, false)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		if parent == nil || parent.AnnotationID != annotation.ID {
			response.Error(c, h.log, apperr.BadInput("comment %d not found", *replyTo))
			return
		}
	}
	comments, err := h.service.GetComments(c.Request.Context(), annotation.ID, replyTo, opts)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, "comments", offsetOf(opts), len(comments), comments)
}

// DELETE /videos/:videoId/tracks/:trackId/annotations/:annotationId/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	annotation, ok := resolveAnnotation(c, h.service, h.log)
	if !ok {
		return
	}
	comment, ok := h.loadComment(c, annotation, true)
	if !ok {
		return
	}
	if _, err := h.service.DeleteComment(c.Request.Context(), comment); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) loadComment(c *gin.Context, annotation *domain.Annotation, write bool) (*domain.Comment, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	comment, err := h.service.GetComment(c.Request.Context(), id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if comment == nil || comment.AnnotationID != annotation.ID {
		response.Error(c, h.log, apperr.NotFound("comment %d not found", id))
		return nil, false
	}
	if !h.service.HasResourceAccess(c.Request.Context(), comment.Resource, write) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return nil, false
	}
	return comment, true
}

// replyToParam reads the reply-to id from the query or the form body.
func replyToParam(c *gin.Context) (*int64, bool) {
	raw := strings.TrimSpace(c.Query("reply-to"))
	if raw == "" {
		raw = strings.TrimSpace(c.PostForm("reply-to"))
	}
	if raw == "" {
		return nil, true
	}
	id, err := parseInt64(raw)
	if err != nil {
		response.Error(c, nil, apperr.BadInput("invalid reply-to parameter"))
		return nil, false
	}
	return &id, true
}
