package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/data/repos/testutil"
	"github.com/marwyg/annotation-tool/internal/domain"
)

func TestTrackRepoListByVideo_SkipsDeletedRows(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	r := NewTrackRepo(testutil.DB(t), testutil.Logger(t))
	now := time.Now().UTC()

	live, err := r.Create(ctx, tx, &domain.Track{VideoID: 1, Name: "live", Resource: liveResource(now)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Create(ctx, tx, &domain.Track{VideoID: 1, Name: "gone", Resource: deletedResource(now)}); err != nil {
		t.Fatalf("create deleted: %v", err)
	}

	tracks, err := r.ListByVideo(ctx, tx, 1, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != live.ID {
		t.Fatalf("expected only the live track, got %d rows", len(tracks))
	}
}

func TestTrackRepoListByVideo_SinceFilter(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	r := NewTrackRepo(testutil.DB(t), testutil.Logger(t))

	old := time.Now().UTC().Add(-2 * time.Hour)
	recent := time.Now().UTC()
	if _, err := r.Create(ctx, tx, &domain.Track{VideoID: 2, Name: "old", Resource: liveResource(old)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	fresh, err := r.Create(ctx, tx, &domain.Track{VideoID: 2, Name: "fresh", Resource: liveResource(recent)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cutoff := recent.Add(-time.Hour)
	tracks, err := r.ListByVideo(ctx, tx, 2, domain.ListOptions{Since: &cutoff})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != fresh.ID {
		t.Fatalf("expected only the fresh track, got %d rows", len(tracks))
	}
}

func TestTrackRepoListByVideo_TagAndPageFilters(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	r := NewTrackRepo(testutil.DB(t), testutil.Logger(t))
	now := time.Now().UTC()

	for _, tc := range []struct {
		name string
		tags map[string]any
	}{
		{"a", map[string]any{"kind": "speech"}},
		{"b", map[string]any{"kind": "speech"}},
		{"c", map[string]any{"kind": "music"}},
	} {
		if _, err := r.Create(ctx, tx, &domain.Track{VideoID: 3, Name: tc.name, Resource: taggedResource(now, tc.tags)}); err != nil {
			t.Fatalf("create %s: %v", tc.name, err)
		}
	}

	tracks, err := r.ListByVideo(ctx, tx, 3, domain.ListOptions{TagsAnd: map[string]string{"kind": "speech"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 speech tracks, got %d", len(tracks))
	}

	tracks, err = r.ListByVideo(ctx, tx, 3, domain.ListOptions{Offset: intPtr(1), Limit: intPtr(1)})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Name != "b" {
		t.Fatalf("expected the middle track, got %d rows", len(tracks))
	}
}

func TestTrackRepoGetByID_IncludeDeleted(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	r := NewTrackRepo(testutil.DB(t), testutil.Logger(t))
	now := time.Now().UTC()

	track, err := r.Create(ctx, tx, &domain.Track{VideoID: 4, Name: "t", Resource: deletedResource(now)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := r.GetByID(ctx, tx, track.ID, false); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected no row for deleted track, got %v", err)
	}
	got, err := r.GetByID(ctx, tx, track.ID, true)
	if err != nil {
		t.Fatalf("get with deleted: %v", err)
	}
	if got.ID != track.ID {
		t.Fatalf("expected track %d, got %d", track.ID, got.ID)
	}
}

func TestTrackRepoListByVideo_TagsOrMatchesAnyPair(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	r := NewTrackRepo(testutil.DB(t), testutil.Logger(t))
	now := time.Now().UTC()

	for _, tc := range []struct {
		name string
		tags map[string]any
	}{
		{"a", map[string]any{"kind": "speech"}},
		{"b", map[string]any{"genre": "jazz"}},
		{"c", map[string]any{"kind": "music"}},
	} {
		if _, err := r.Create(ctx, tx, &domain.Track{VideoID: 7, Name: tc.name, Resource: taggedResource(now, tc.tags)}); err != nil {
			t.Fatalf("create %s: %v", tc.name, err)
		}
	}

	tracks, err := r.ListByVideo(ctx, tx, 7, domain.ListOptions{TagsOr: map[string]string{"kind": "speech", "genre": "jazz"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks matching either pair, got %d", len(tracks))
	}
	for _, track := range tracks {
		if track.Name == "c" {
			t.Fatalf("track c matches neither pair")
		}
	}
}
