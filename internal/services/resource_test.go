package services

import (
	"context"
	"testing"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/platform/mediahost"
)

func TestHasResourceAccess_Matrix(t *testing.T) {
	svc, _ := newTestService(t)
	owner := int64(7)

	res := func(access int, createdBy *int64) domain.Resource {
		return domain.Resource{Access: access, CreatedBy: createdBy}
	}

	cases := []struct {
		name     string
		ctx      context.Context
		resource domain.Resource
		write    bool
		want     bool
	}{
		{"no principal", context.Background(), res(domain.AccessPublic, nil), false, false},
		{"admin reads private", principalCtx(1, "admin", true), res(domain.AccessPrivate, &owner), false, true},
		{"admin writes private", principalCtx(1, "admin", true), res(domain.AccessPrivate, &owner), true, true},
		{"owner writes own private", principalCtx(owner, "owner", false), res(domain.AccessPrivate, &owner), true, true},
		{"stranger reads private", principalCtx(2, "other", false), res(domain.AccessPrivate, &owner), false, false},
		{"stranger reads shared-with-admin", principalCtx(2, "other", false), res(domain.AccessSharedWithAdmin, &owner), false, false},
		{"stranger reads public", principalCtx(2, "other", false), res(domain.AccessPublic, &owner), false, true},
		{"stranger writes public", principalCtx(2, "other", false), res(domain.AccessPublic, &owner), true, false},
		{"stranger reads shared-with-everyone", principalCtx(2, "other", false), res(domain.AccessSharedWithEveryone, &owner), false, true},
		{"stranger writes shared-with-everyone", principalCtx(2, "other", false), res(domain.AccessSharedWithEveryone, &owner), true, false},
		{"ownerless legacy row readable", principalCtx(2, "other", false), res(domain.AccessPublic, nil), false, true},
	}
	for _, tc := range cases {
		if got := svc.HasResourceAccess(tc.ctx, tc.resource, tc.write); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHasVideoAccess_ACLGrants(t *testing.T) {
	svc, host := newTestService(t)
	mp := &mediahost.MediaPackage{
		ID: "mp-acl",
		ACL: map[string][]string{
			mediahost.ActionAnnotate:      {"viewer"},
			mediahost.ActionAnnotateAdmin: {"curator"},
		},
	}
	host.Put(mp)

	if !svc.HasVideoAccess(principalCtx(1, "viewer", false), mp, mediahost.ActionAnnotate) {
		t.Fatalf("expected viewer to annotate")
	}
	if svc.HasVideoAccess(principalCtx(1, "viewer", false), mp, mediahost.ActionAnnotateAdmin) {
		t.Fatalf("expected viewer not to be annotate admin")
	}
	if !svc.HasVideoAccess(principalCtx(1, "curator", false), mp, mediahost.ActionAnnotateAdmin) {
		t.Fatalf("expected curator to be annotate admin")
	}
	if !svc.HasVideoAccess(principalCtx(1, "anyone", true), mp, mediahost.ActionAnnotateAdmin) {
		t.Fatalf("expected role admin to pass any action")
	}
}

func TestCreateResource_Stamps(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(5, "stamper", false)

	access := domain.AccessPrivate
	resource := svc.CreateResource(ctx, &access, map[string]string{"lang": "de"})
	if resource.Access != domain.AccessPrivate {
		t.Fatalf("expected private access, got %d", resource.Access)
	}
	if resource.CreatedBy == nil || *resource.CreatedBy != 5 {
		t.Fatalf("expected creator stamp, got %v", resource.CreatedBy)
	}
	if resource.CreatedAt == nil || resource.UpdatedAt == nil {
		t.Fatalf("expected timestamps")
	}
	if resource.Tags["lang"] != "de" {
		t.Fatalf("expected tags carried over, got %v", resource.Tags)
	}
}
