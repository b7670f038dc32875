package repos

import (
	"context"
	"testing"
	"time"

	"github.com/marwyg/annotation-tool/internal/data/repos/testutil"
	"github.com/marwyg/annotation-tool/internal/domain"
)

func TestCommentRepoListByAnnotation_SplitsTopLevelAndReplies(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	r := NewCommentRepo(testutil.DB(t), testutil.Logger(t))
	now := time.Now().UTC()

	parent, err := r.Create(ctx, tx, &domain.Comment{AnnotationID: 1, Text: "parent", Resource: liveResource(now)})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	reply, err := r.Create(ctx, tx, &domain.Comment{AnnotationID: 1, ReplyToID: &parent.ID, Text: "reply", Resource: liveResource(now)})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	top, err := r.ListByAnnotation(ctx, tx, 1, nil, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list top level: %v", err)
	}
	if len(top) != 1 || top[0].ID != parent.ID {
		t.Fatalf("expected only the parent comment, got %d rows", len(top))
	}

	replies, err := r.ListByAnnotation(ctx, tx, 1, &parent.ID, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list replies: %v", err)
	}
	if len(replies) != 1 || replies[0].ID != reply.ID {
		t.Fatalf("expected only the reply, got %d rows", len(replies))
	}
}

func TestCommentRepoListAllByAnnotation_IncludesReplies(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	r := NewCommentRepo(testutil.DB(t), testutil.Logger(t))
	now := time.Now().UTC()

	parent, err := r.Create(ctx, tx, &domain.Comment{AnnotationID: 2, Text: "parent", Resource: liveResource(now)})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if _, err := r.Create(ctx, tx, &domain.Comment{AnnotationID: 2, ReplyToID: &parent.ID, Text: "reply", Resource: liveResource(now)}); err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if _, err := r.Create(ctx, tx, &domain.Comment{AnnotationID: 2, Text: "dead", Resource: deletedResource(now)}); err != nil {
		t.Fatalf("create deleted: %v", err)
	}
	if _, err := r.Create(ctx, tx, &domain.Comment{AnnotationID: 3, Text: "elsewhere", Resource: liveResource(now)}); err != nil {
		t.Fatalf("create other annotation: %v", err)
	}

	all, err := r.ListAllByAnnotation(ctx, tx, 2)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected parent and reply, got %d rows", len(all))
	}
}
