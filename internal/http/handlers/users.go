package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marwyg/annotation-tool/internal/http/response"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
	"github.com/marwyg/annotation-tool/internal/platform/mediahost"
	"github.com/marwyg/annotation-tool/internal/services"
)

type UserHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewUserHandler(service services.ExtendedAnnotationService, log *logger.Logger) *UserHandler {
	return &UserHandler{service: service, log: log.With("Handler", "UserHandler")}
}

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	extID, ok := mandatoryForm(c, "user_extid")
	if !ok {
		return
	}
	nickname, ok := mandatoryForm(c, "nickname")
	if !ok {
		return
	}
	email := formEmail(c)
	access, ok := formAccess(c)
	if !ok {
		return
	}
	tags, ok := formTags(c)
	if !ok {
		return
	}

	resource := h.service.CreateResource(c.Request.Context(), access, tags)
	user, err := h.service.CreateUser(c.Request.Context(), extID, nickname, email, resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, user.ID), user)
}

// PUT /users upserts by external id.
func (h *UserHandler) Upsert(c *gin.Context) {
	extID, ok := mandatoryForm(c, "user_extid")
	if !ok {
		return
	}
	nickname, ok := mandatoryForm(c, "nickname")
	if !ok {
		return
	}
	email := formEmail(c)
	access, ok := formAccess(c)
	if !ok {
		return
	}
	tags, ok := formTags(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.service.GetUserByExtID(ctx, extID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil {
		resource := h.service.CreateResource(ctx, access, tags)
		user, err := h.service.CreateUser(ctx, extID, nickname, email, resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, user.ID), user)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	existing.Nickname = nickname
	existing.Email = email
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)
	user, err := h.service.UpdateUser(ctx, existing)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", childLocation(c, user.ID))
	c.JSON(http.StatusOK, user)
}

// GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if user == nil {
		response.Error(c, h.log, apperr.NotFound("user %d not found", id))
		return
	}
	if !h.service.HasResourceAccess(c.Request.Context(), user.Resource, false) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if user == nil {
		response.Error(c, h.log, apperr.NotFound("user %d not found", id))
		return
	}
	if !h.service.HasResourceAccess(c.Request.Context(), user.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	if _, err := h.service.DeleteUser(c.Request.Context(), user); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /users/is-annotate-admin/:mpId reports whether the current principal
// holds the annotate-admin action on the given mediapackage.
func (h *UserHandler) IsAnnotateAdmin(c *gin.Context) {
	mpID := strings.TrimSpace(c.Param("mpId"))
	if mpID == "" {
		response.Error(c, h.log, apperr.BadInput("mpId must not be blank"))
		return
	}
	mp, err := h.service.FindMediaPackage(c.Request.Context(), mpID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if mp == nil {
		c.JSON(http.StatusOK, false)
		return
	}
	c.JSON(http.StatusOK, h.service.HasVideoAccess(c.Request.Context(), mp, mediahost.ActionAnnotateAdmin))
}

func formEmail(c *gin.Context) *string {
	return optionalForm(c, "email")
}
