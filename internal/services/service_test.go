package services

import (
	"context"
	"testing"

	"github.com/marwyg/annotation-tool/internal/data/repos"
	"github.com/marwyg/annotation-tool/internal/data/repos/testutil"
	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/ctxutil"
	"github.com/marwyg/annotation-tool/internal/platform/mediahost"
)

// newTestService wires the service against a transaction that rolls back
// when the test ends, with an in-memory media host double.
func newTestService(t *testing.T) (ExtendedAnnotationService, *mediahost.Static) {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	host := mediahost.NewStatic()
	svc := NewExtendedAnnotationService(
		tx, log,
		repos.NewUserRepo(tx, log),
		repos.NewVideoRepo(tx, log),
		repos.NewTrackRepo(tx, log),
		repos.NewAnnotationRepo(tx, log),
		repos.NewScaleRepo(tx, log),
		repos.NewScaleValueRepo(tx, log),
		repos.NewQuestionnaireRepo(tx, log),
		repos.NewCategoryRepo(tx, log),
		repos.NewLabelRepo(tx, log),
		repos.NewCommentRepo(tx, log),
		host, host,
	)
	return svc, host
}

func principalCtx(userID int64, extID string, admin bool) context.Context {
	return ctxutil.WithPrincipal(context.Background(), &ctxutil.Principal{
		UserID:   userID,
		ExtID:    extID,
		Nickname: extID,
		Admin:    admin,
	})
}

// seedVideo creates a video owned by the current principal.
func seedVideo(t *testing.T, ctx context.Context, svc ExtendedAnnotationService, extID string) *domain.Video {
	t.Helper()
	video, err := svc.CreateVideo(ctx, extID, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("seed video %s: %v", extID, err)
	}
	return video
}

func seedTrack(t *testing.T, ctx context.Context, svc ExtendedAnnotationService, videoID int64) *domain.Track {
	t.Helper()
	track, err := svc.CreateTrack(ctx, videoID, "default", nil, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("seed track: %v", err)
	}
	return track
}

func TestClearDatabase_WipesEverything(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(1, "admin", true)

	video := seedVideo(t, ctx, svc, "mp-clear")
	track := seedTrack(t, ctx, svc, video.ID)
	annotation, err := svc.CreateAnnotation(ctx, track.ID, 1.5, nil, "note", 0, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create annotation: %v", err)
	}
	if _, err := svc.CreateComment(ctx, annotation.ID, nil, "hi", svc.CreateResource(ctx, nil, nil)); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := svc.ClearDatabase(ctx); err != nil {
		t.Fatalf("clear database: %v", err)
	}

	if got, err := svc.GetVideo(ctx, video.ID, true); err != nil || got != nil {
		t.Fatalf("expected video gone, got %+v, %v", got, err)
	}
	if got, err := svc.GetAnnotation(ctx, annotation.ID, true); err != nil || got != nil {
		t.Fatalf("expected annotation gone, got %+v, %v", got, err)
	}
}
