package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/data/db"
	"github.com/marwyg/annotation-tool/internal/data/repos"
	"github.com/marwyg/annotation-tool/internal/http/handlers"
	"github.com/marwyg/annotation-tool/internal/http/middleware"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
	"github.com/marwyg/annotation-tool/internal/platform/mediahost"
	"github.com/marwyg/annotation-tool/internal/platform/tracing"
	"github.com/marwyg/annotation-tool/internal/server"
	"github.com/marwyg/annotation-tool/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Service  services.ExtendedAnnotationService
	shutdown func(context.Context) error
}

func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.ServiceName)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	gdb := pg.DB()

	mediaClient := mediahost.NewClient(log)

	service := services.NewExtendedAnnotationService(
		gdb,
		log,
		repos.NewUserRepo(gdb, log),
		repos.NewVideoRepo(gdb, log),
		repos.NewTrackRepo(gdb, log),
		repos.NewAnnotationRepo(gdb, log),
		repos.NewScaleRepo(gdb, log),
		repos.NewScaleValueRepo(gdb, log),
		repos.NewQuestionnaireRepo(gdb, log),
		repos.NewCategoryRepo(gdb, log),
		repos.NewLabelRepo(gdb, log),
		repos.NewCommentRepo(gdb, log),
		mediaClient,
		mediaClient,
	)

	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.NewAuthMiddleware(log, cfg.JWTSecretKey, service),
		ServiceName:    cfg.ServiceName,
		ResetEnabled:   cfg.ResetEnabled,

		HealthHandler:        handlers.NewHealthHandler(),
		AdminHandler:         handlers.NewAdminHandler(service, log),
		UserHandler:          handlers.NewUserHandler(service, log),
		VideoHandler:         handlers.NewVideoHandler(service, log),
		TrackHandler:         handlers.NewTrackHandler(service, log),
		AnnotationHandler:    handlers.NewAnnotationHandler(service, log),
		CommentHandler:       handlers.NewCommentHandler(service, log),
		ScaleHandler:         handlers.NewScaleHandler(service, log),
		ScaleValueHandler:    handlers.NewScaleValueHandler(service, log),
		CategoryHandler:      handlers.NewCategoryHandler(service, log),
		LabelHandler:         handlers.NewLabelHandler(service, log),
		QuestionnaireHandler: handlers.NewQuestionnaireHandler(service, log),
	})

	return &App{
		Log:      log,
		DB:       gdb,
		Router:   router,
		Cfg:      cfg,
		Service:  service,
		shutdown: shutdownTracing,
	}, nil
}

// Run serves until the process receives SIGINT/SIGTERM, then drains.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + a.Cfg.Port,
		Handler: a.Router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("Server listening", "port", a.Cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdown(ctx); err != nil {
			a.Log.Warn("tracing shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
