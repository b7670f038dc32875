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

type TrackHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewTrackHandler(service services.ExtendedAnnotationService, log *logger.Logger) *TrackHandler {
	return &TrackHandler{service: service, log: log.With("Handler", "TrackHandler")}
}

// POST /videos/:videoId/tracks
func (h *TrackHandler) Create(c *gin.Context) {
	video, ok := resolveVideo(c, h.service, h.log)
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

	resource := h.service.CreateResource(c.Request.Context(), access, tags)
	track, err := h.service.CreateTrack(c.Request.Context(), video.ID, name, optionalForm(c, "description"), optionalForm(c, "settings"), resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, track.ID), track)
}

// PUT /videos/:videoId/tracks/:trackId updates the track or, when the id is
// unknown, creates a new one.
func (h *TrackHandler) Upsert(c *gin.Context) {
	video, ok := resolveVideo(c, h.service, h.log)
	if !ok {
		return
	}
	id, ok := pathID(c, "trackId")
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
	existing, err := h.service.GetTrack(ctx, id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil || existing.VideoID != video.ID {
		resource := h.service.CreateResource(ctx, access, tags)
		track, err := h.service.CreateTrack(ctx, video.ID, name, optionalForm(c, "description"), optionalForm(c, "settings"), resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, track.ID), track)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	existing.Name = name
	existing.Description = optionalForm(c, "description")
	existing.Settings = optionalForm(c, "settings")
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)
	track, err := h.service.UpdateTrack(ctx, existing)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, track)
}

// GET /videos/:videoId/tracks/:trackId
func (h *TrackHandler) Get(c *gin.Context) {
	video, ok := resolveVideo(c, h.service, h.log)
	if !ok {
		return
	}
	track, ok := h.loadTrack(c, video, false)
	if !ok {
		return
	}
	if !h.service.HasResourceAccess(c.Request.Context(), track.Resource, false) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}
	c.JSON(http.StatusOK, track)
}

// GET /videos/:videoId/tracks
func (h *TrackHandler) List(c *gin.Context) {
	video, ok := resolveVideo(c, h.service, h.log)
	if !ok {
		return
	}
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}
	tracks, err := h.service.GetTracks(c.Request.Context(), video.ID, opts)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, "tracks", offsetOf(opts), len(tracks), tracks)
}

// DELETE /videos/:videoId/tracks/:trackId
func (h *TrackHandler) Delete(c *gin.Context) {
	video, ok := resolveVideo(c, h.service, h.log)
	if !ok {
		return
	}
	track, ok := h.loadTrack(c, video, true)
	if !ok {
		return
	}
	if _, err := h.service.DeleteTrack(c.Request.Context(), track); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrackHandler) loadTrack(c *gin.Context, video *domain.Video, write bool) (*domain.Track, bool) {
	id, ok := pathID(c, "trackId")
	if !ok {
		return nil, false
	}
	track, err := h.service.GetTrack(c.Request.Context(), id, false)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if track == nil || track.VideoID != video.ID {
		response.Error(c, h.log, apperr.NotFound("track %d not found", id))
		return nil, false
	}
	if write && !h.service.HasResourceAccess(c.Request.Context(), track.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return nil, false
	}
	return track, true
}
