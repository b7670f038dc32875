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

// QuestionnaireHandler serves /videos/:videoId/questionnaires and the
// /questionnaires template mirror.
type QuestionnaireHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewQuestionnaireHandler(service services.ExtendedAnnotationService, log *logger.Logger) *QuestionnaireHandler {
	return &QuestionnaireHandler{service: service, log: log.With("Handler", "QuestionnaireHandler")}
}

// POST /videos/:videoId/questionnaires and POST /questionnaires. On the
// video-scoped route a questionnaire_id form parameter copies the
// referenced template instead of creating from fields.
func (h *QuestionnaireHandler) Create(c *gin.Context) {
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

	templateID, ok := optionalFormInt64(c, "questionnaire_id")
	if !ok {
		return
	}
	if templateID != nil {
		if videoID == nil {
			response.Error(c, h.log, apperr.BadInput("questionnaire templates cannot be copied onto the template collection"))
			return
		}
		resource := h.service.CreateResource(c.Request.Context(), access, tags)
		questionnaire, err := h.service.CreateQuestionnaireFromTemplate(c.Request.Context(), *templateID, *videoID, resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, questionnaire.ID), questionnaire)
		return
	}

	title, ok := mandatoryForm(c, "title")
	if !ok {
		return
	}
	content, ok := mandatoryForm(c, "content")
	if !ok {
		return
	}
	resource := h.service.CreateResource(c.Request.Context(), access, tags)
	questionnaire, err := h.service.CreateQuestionnaire(c.Request.Context(), videoID, title, content, optionalForm(c, "settings"), resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, questionnaire.ID), questionnaire)
}

// PUT /videos/:videoId/questionnaires/:id and PUT /questionnaires/:id
func (h *QuestionnaireHandler) Upsert(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	title, ok := mandatoryForm(c, "title")
	if !ok {
		return
	}
	content, ok := mandatoryForm(c, "content")
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
	existing, err := h.service.GetQuestionnaire(ctx, id, true)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil || !sameScope(existing.VideoID, videoID) {
		resource := h.service.CreateResource(ctx, access, tags)
		questionnaire, err := h.service.CreateQuestionnaire(ctx, videoID, title, content, optionalForm(c, "settings"), resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, questionnaire.ID), questionnaire)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	existing.Title = title
	existing.Content = content
	existing.Settings = optionalForm(c, "settings")
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)
	questionnaire, err := h.service.UpdateQuestionnaire(ctx, existing)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, questionnaire)
}

// GET /videos/:videoId/questionnaires/:id and GET /questionnaires/:id
func (h *QuestionnaireHandler) Get(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	questionnaire, ok := h.loadQuestionnaire(c, videoID, false, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, questionnaire)
}

// GET /videos/:videoId/questionnaires and GET /questionnaires
func (h *QuestionnaireHandler) List(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}
	questionnaires, err := h.service.GetQuestionnaires(c.Request.Context(), videoID, opts)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, "questionnaires", offsetOf(opts), len(questionnaires), questionnaires)
}

// DELETE /videos/:videoId/questionnaires/:id and DELETE /questionnaires/:id
func (h *QuestionnaireHandler) Delete(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	questionnaire, ok := h.loadQuestionnaire(c, videoID, true, true)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteQuestionnaire(c.Request.Context(), questionnaire)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, deleted)
}

func (h *QuestionnaireHandler) loadQuestionnaire(c *gin.Context, videoID *int64, includeDeleted, write bool) (*domain.Questionnaire, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	questionnaire, err := h.service.GetQuestionnaire(c.Request.Context(), id, includeDeleted)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if questionnaire == nil || !sameScope(questionnaire.VideoID, videoID) {
		response.Error(c, h.log, apperr.NotFound("questionnaire %d not found", id))
		return nil, false
	}
	if !h.service.HasResourceAccess(c.Request.Context(), questionnaire.Resource, write) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return nil, false
	}
	return questionnaire, true
}
