package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/marwyg/annotation-tool/internal/http/handlers"
	"github.com/marwyg/annotation-tool/internal/http/middleware"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *middleware.AuthMiddleware
	ServiceName    string
	ResetEnabled   bool

	HealthHandler        *handlers.HealthHandler
	AdminHandler         *handlers.AdminHandler
	UserHandler          *handlers.UserHandler
	VideoHandler         *handlers.VideoHandler
	TrackHandler         *handlers.TrackHandler
	AnnotationHandler    *handlers.AnnotationHandler
	CommentHandler       *handlers.CommentHandler
	ScaleHandler         *handlers.ScaleHandler
	ScaleValueHandler    *handlers.ScaleValueHandler
	CategoryHandler      *handlers.CategoryHandler
	LabelHandler         *handlers.LabelHandler
	QuestionnaireHandler *handlers.QuestionnaireHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.CORS())
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/health", cfg.HealthHandler.HealthCheck)

	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	if cfg.ResetEnabled {
		protected.DELETE("/reset", cfg.AdminHandler.Reset)
	}

	users := protected.Group("/users")
	{
		users.POST("", cfg.UserHandler.Create)
		users.PUT("", cfg.UserHandler.Upsert)
		users.GET("/:id", cfg.UserHandler.Get)
		users.DELETE("/:id", cfg.UserHandler.Delete)
		users.GET("/is-annotate-admin/:mpId", cfg.UserHandler.IsAnnotateAdmin)
	}

	videos := protected.Group("/videos")
	{
		videos.POST("", cfg.VideoHandler.Create)
		videos.PUT("", cfg.VideoHandler.Upsert)
		videos.GET("/:videoId", cfg.VideoHandler.Get)
		videos.DELETE("/:videoId", cfg.VideoHandler.Delete)
	}

	tracks := videos.Group("/:videoId/tracks")
	{
		tracks.POST("", cfg.TrackHandler.Create)
		tracks.GET("", cfg.TrackHandler.List)
		tracks.PUT("/:trackId", cfg.TrackHandler.Upsert)
		tracks.GET("/:trackId", cfg.TrackHandler.Get)
		tracks.DELETE("/:trackId", cfg.TrackHandler.Delete)
	}

	annotations := tracks.Group("/:trackId/annotations")
	{
		annotations.POST("", cfg.AnnotationHandler.Create)
		annotations.GET("", cfg.AnnotationHandler.List)
		annotations.PUT("/:annotationId", cfg.AnnotationHandler.Upsert)
		annotations.GET("/:annotationId", cfg.AnnotationHandler.Get)
		annotations.DELETE("/:annotationId", cfg.AnnotationHandler.Delete)
	}

	comments := annotations.Group("/:annotationId/comments")
	{
		comments.POST("", cfg.CommentHandler.Create)
		comments.GET("", cfg.CommentHandler.List)
		comments.PUT("/:id", cfg.CommentHandler.Upsert)
		comments.GET("/:id", cfg.CommentHandler.Get)
		comments.DELETE("/:id", cfg.CommentHandler.Delete)
	}

	videoScales := videos.Group("/:videoId/scales")
	{
		videoScales.POST("", cfg.ScaleHandler.Create)
		videoScales.GET("", cfg.ScaleHandler.List)
		videoScales.PUT("/:scaleId", cfg.ScaleHandler.Upsert)
		videoScales.GET("/:scaleId", cfg.ScaleHandler.Get)
		videoScales.DELETE("/:scaleId", cfg.ScaleHandler.Delete)
	}

	videoScaleValues := videoScales.Group("/:scaleId/scalevalues")
	{
		videoScaleValues.POST("", cfg.ScaleValueHandler.Create)
		videoScaleValues.GET("", cfg.ScaleValueHandler.List)
		videoScaleValues.PUT("/:id", cfg.ScaleValueHandler.Upsert)
		videoScaleValues.GET("/:id", cfg.ScaleValueHandler.Get)
		videoScaleValues.DELETE("/:id", cfg.ScaleValueHandler.Delete)
	}

	// Template mirrors: the same handlers without a video scope.
	scales := protected.Group("/scales")
	{
		scales.POST("", cfg.ScaleHandler.Create)
		scales.GET("", cfg.ScaleHandler.List)
		scales.PUT("/:scaleId", cfg.ScaleHandler.Upsert)
		scales.GET("/:scaleId", cfg.ScaleHandler.Get)
		scales.DELETE("/:scaleId", cfg.ScaleHandler.Delete)
	}

	scaleValues := scales.Group("/:scaleId/scalevalues")
	{
		scaleValues.POST("", cfg.ScaleValueHandler.Create)
		scaleValues.GET("", cfg.ScaleValueHandler.List)
		scaleValues.PUT("/:id", cfg.ScaleValueHandler.Upsert)
		scaleValues.GET("/:id", cfg.ScaleValueHandler.Get)
		scaleValues.DELETE("/:id", cfg.ScaleValueHandler.Delete)
	}

	videoCategories := videos.Group("/:videoId/categories")
	{
		videoCategories.POST("", cfg.CategoryHandler.Create)
		videoCategories.GET("", cfg.CategoryHandler.List)
		videoCategories.PUT("/:categoryId", cfg.CategoryHandler.Upsert)
		videoCategories.GET("/:categoryId", cfg.CategoryHandler.Get)
		videoCategories.DELETE("/:categoryId", cfg.CategoryHandler.Delete)
	}

	labels := videoCategories.Group("/:categoryId/labels")
	{
		labels.POST("", cfg.LabelHandler.Create)
		labels.GET("", cfg.LabelHandler.List)
		labels.PUT("/:id", cfg.LabelHandler.Upsert)
		labels.GET("/:id", cfg.LabelHandler.Get)
		labels.DELETE("/:id", cfg.LabelHandler.Delete)
	}

	categories := protected.Group("/categories")
	{
		categories.POST("", cfg.CategoryHandler.Create)
		categories.GET("", cfg.CategoryHandler.List)
		categories.PUT("/:categoryId", cfg.CategoryHandler.Upsert)
		categories.GET("/:categoryId", cfg.CategoryHandler.Get)
		categories.DELETE("/:categoryId", cfg.CategoryHandler.Delete)
	}

	templateLabels := categories.Group("/:categoryId/labels")
	{
		templateLabels.POST("", cfg.LabelHandler.Create)
		templateLabels.GET("", cfg.LabelHandler.List)
		templateLabels.PUT("/:id", cfg.LabelHandler.Upsert)
		templateLabels.GET("/:id", cfg.LabelHandler.Get)
		templateLabels.DELETE("/:id", cfg.LabelHandler.Delete)
	}

	videoQuestionnaires := videos.Group("/:videoId/questionnaires")
	{
		videoQuestionnaires.POST("", cfg.QuestionnaireHandler.Create)
		videoQuestionnaires.GET("", cfg.QuestionnaireHandler.List)
		videoQuestionnaires.PUT("/:id", cfg.QuestionnaireHandler.Upsert)
		videoQuestionnaires.GET("/:id", cfg.QuestionnaireHandler.Get)
		videoQuestionnaires.DELETE("/:id", cfg.QuestionnaireHandler.Delete)
	}

	questionnaires := protected.Group("/questionnaires")
	{
		questionnaires.POST("", cfg.QuestionnaireHandler.Create)
		questionnaires.GET("", cfg.QuestionnaireHandler.List)
		questionnaires.PUT("/:id", cfg.QuestionnaireHandler.Upsert)
		questionnaires.GET("/:id", cfg.QuestionnaireHandler.Get)
		questionnaires.DELETE("/:id", cfg.QuestionnaireHandler.Delete)
	}

	return router
}
