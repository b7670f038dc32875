package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marwyg/annotation-tool/internal/http/response"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
	"github.com/marwyg/annotation-tool/internal/services"
)

// AdminHandler hosts the reset endpoint. The route is only registered when
// RESET_ENABLED is set, so it never exists in production.
type AdminHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewAdminHandler(service services.ExtendedAnnotationService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{service: service, log: log.With("Handler", "AdminHandler")}
}

// DELETE /reset
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.service.ClearDatabase(c.Request.Context()); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
