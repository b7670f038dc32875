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

// CategoryHandler serves /videos/:videoId/categories and the /categories
// template mirror. Video-scoped reads also surface the series masters of
// the video's series, resolved through the host platform.
type CategoryHandler struct {
	service services.ExtendedAnnotationService
	log     *logger.Logger
}

func NewCategoryHandler(service services.ExtendedAnnotationService, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{service: service, log: log.With("Handler", "CategoryHandler")}
}

// videoSeries resolves the series external id of a video via its
// mediapackage. Videos outside any series yield nil.
func (h *CategoryHandler) videoSeries(c *gin.Context, videoID *int64) (*string, bool) {
	series, err := h.seriesOf(c, videoID)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	return series, true
}

func (h *CategoryHandler) seriesOf(c *gin.Context, videoID *int64) (*string, error) {
	if videoID == nil {
		return nil, nil
	}
	video, err := h.service.GetVideo(c.Request.Context(), *videoID, false)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apperr.BadInput("video %d not found", *videoID)
	}
	mp, err := h.service.FindMediaPackage(c.Request.Context(), video.ExtID)
	if err != nil {
		return nil, err
	}
	if mp == nil || mp.SeriesExtID == "" {
		return nil, nil
	}
	series := mp.SeriesExtID
	return &series, nil
}

// POST /videos/:videoId/categories and POST /categories. On the
// video-scoped route a category_id form parameter deep-copies the
// referenced category (template or series master) onto the video.
func (h *CategoryHandler) Create(c *gin.Context) {
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
	seriesExtID := optionalForm(c, "series_extid")
	seriesCategoryID, ok := optionalFormInt64(c, "series_category_id")
	if !ok {
		return
	}

	templateID, ok := optionalFormInt64(c, "category_id")
	if !ok {
		return
	}
	if templateID != nil {
		if videoID == nil {
			response.Error(c, h.log, apperr.BadInput("categories cannot be copied onto the template collection"))
			return
		}
		resource := h.service.CreateResource(c.Request.Context(), access, tags)
		category, err := h.service.CreateCategoryFromTemplate(c.Request.Context(), *templateID, seriesExtID, seriesCategoryID, *videoID, resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, category.ID), category)
		return
	}

	name, ok := mandatoryForm(c, "name")
	if !ok {
		return
	}
	scaleID, ok := optionalFormInt64(c, "scale_id")
	if !ok {
		return
	}
	resource := h.service.CreateResource(c.Request.Context(), access, tags)
	category, err := h.service.CreateCategory(c.Request.Context(), seriesExtID, seriesCategoryID, videoID, scaleID, name, optionalForm(c, "description"), optionalForm(c, "settings"), resource)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, childLocation(c, category.ID), category)
}

// PUT /videos/:videoId/categories/:categoryId and PUT /categories/:categoryId. Editing a
// series master propagates: the per-video copies of the series are
// soft-deleted so clients re-copy the updated master.
func (h *CategoryHandler) Upsert(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	id, ok := pathID(c, "categoryId")
	if !ok {
		return
	}
	name, ok := mandatoryForm(c, "name")
	if !ok {
		return
	}
	scaleID, ok := optionalFormInt64(c, "scale_id")
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
	seriesExtID := optionalForm(c, "series_extid")
	seriesCategoryID, ok := optionalFormInt64(c, "series_category_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.service.GetCategory(ctx, id, true)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if existing == nil || !h.inScope(c, existing, videoID) {
		resource := h.service.CreateResource(ctx, access, tags)
		category, err := h.service.CreateCategory(ctx, seriesExtID, seriesCategoryID, videoID, scaleID, name, optionalForm(c, "description"), optionalForm(c, "settings"), resource)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		response.Created(c, childLocation(c, category.ID), category)
		return
	}
	if !h.service.HasResourceAccess(ctx, existing.Resource, true) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return
	}

	// An edit carrying a series category id comes from a local copy. The
	// copy stays bound to the master's video so the master's association
	// does not drift to the editing video.
	categoryVideoID := videoID
	if seriesCategoryID != nil {
		master, err := h.service.GetCategory(ctx, *seriesCategoryID, false)
		if err != nil {
			response.Error(c, h.log, err)
			return
		}
		if master == nil {
			response.Error(c, h.log, apperr.BadInput("series category %d not found", *seriesCategoryID))
			return
		}
		if master.VideoID != nil {
			categoryVideoID = master.VideoID
		}
	}
	existing.SeriesExtID = seriesExtID
	existing.SeriesCategoryID = seriesCategoryID
	existing.VideoID = categoryVideoID
	existing.Name = name
	existing.Description = optionalForm(c, "description")
	existing.Settings = optionalForm(c, "settings")
	if scaleID != nil {
		existing.ScaleID = scaleID
	}
	if access != nil {
		existing.Access = *access
	}
	existing.Resource = h.service.UpdateResource(ctx, existing.Resource, tags)

	var category *domain.Category
	if existing.SeriesCategoryID == nil {
		category, err = h.service.UpdateCategoryAndDeleteOtherSeriesCategories(ctx, existing)
	} else {
		category, err = h.service.UpdateCategory(ctx, existing)
	}
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, category)
}

// GET /videos/:videoId/categories/:categoryId and GET /categories/:categoryId
func (h *CategoryHandler) Get(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	category, ok := h.loadCategory(c, videoID, false, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, category)
}

// GET /videos/:videoId/categories and GET /categories. The video-scoped
// list includes the series masters of the video's series; the template
// mirror lists a series' masters when a series-extid query parameter is
// given, otherwise the templates.
func (h *CategoryHandler) List(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}
	var seriesExtID *string
	if videoID == nil {
		seriesExtID = trimToNone(c.Query("series-extid"))
	} else if seriesExtID, ok = h.videoSeries(c, videoID); !ok {
		return
	}
	categories, err := h.service.GetCategories(c.Request.Context(), seriesExtID, videoID, opts)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, "categories", offsetOf(opts), len(categories), categories)
}

// DELETE /videos/:videoId/categories/:categoryId and DELETE /categories/:categoryId
func (h *CategoryHandler) Delete(c *gin.Context) {
	videoID, ok := scopedVideoID(c, h.service, h.log)
	if !ok {
		return
	}
	category, ok := h.loadCategory(c, videoID, true, true)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteCategory(c.Request.Context(), category)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Header("Location", selfLocation(c))
	c.JSON(http.StatusOK, deleted)
}

func (h *CategoryHandler) loadCategory(c *gin.Context, videoID *int64, includeDeleted, write bool) (*domain.Category, bool) {
	id, ok := pathID(c, "categoryId")
	if !ok {
		return nil, false
	}
	category, err := h.service.GetCategory(c.Request.Context(), id, includeDeleted)
	if err != nil {
		response.Error(c, h.log, err)
		return nil, false
	}
	if category == nil || !h.inScope(c, category, videoID) {
		response.Error(c, h.log, apperr.NotFound("category %d not found", id))
		return nil, false
	}
	if !h.service.HasResourceAccess(c.Request.Context(), category.Resource, write) {
		response.Error(c, h.log, apperr.Unauthorized("access denied"))
		return nil, false
	}
	return category, true
}

// inScope reports whether a category is visible on the addressed route: on
// a video route its own categories plus the masters of the video's series,
// on the template mirror every category without a video.
func (h *CategoryHandler) inScope(c *gin.Context, category *domain.Category, videoID *int64) bool {
	if videoID == nil {
		return category.VideoID == nil
	}
	if category.VideoID != nil && *category.VideoID == *videoID {
		return true
	}
	if category.SeriesExtID == nil || category.SeriesCategoryID != nil {
		return false
	}
	series, err := h.seriesOf(c, videoID)
	return err == nil && series != nil && *series == *category.SeriesExtID
}
