package services

import (
	"errors"
	"testing"

	"github.com/marwyg/annotation-tool/internal/domain"
	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
)

func TestCreateScaleFromTemplate_CopiesValues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(1, "curator", true)
	video := seedVideo(t, ctx, svc, "mp-scale-copy")

	template, err := svc.CreateScale(ctx, nil, "agreement", nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	for i, name := range []string{"disagree", "neutral", "agree"} {
		if _, err := svc.CreateScaleValue(ctx, template.ID, name, float64(i), i, svc.CreateResource(ctx, nil, nil)); err != nil {
			t.Fatalf("create template value %s: %v", name, err)
		}
	}

	copied, err := svc.CreateScaleFromTemplate(ctx, video.ID, template.ID, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("copy scale: %v", err)
	}
	if copied.ID == template.ID {
		t.Fatalf("expected a fresh scale row")
	}
	if copied.VideoID == nil || *copied.VideoID != video.ID {
		t.Fatalf("expected copy bound to video, got %v", copied.VideoID)
	}
	if copied.Name != "agreement" {
		t.Fatalf("expected name carried over, got %q", copied.Name)
	}

	values, err := svc.GetScaleValues(ctx, copied.ID, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list copied values: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 copied values, got %d", len(values))
	}

	// The template keeps its own values.
	templateValues, err := svc.GetScaleValues(ctx, template.ID, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list template values: %v", err)
	}
	if len(templateValues) != 3 {
		t.Fatalf("expected template untouched, got %d values", len(templateValues))
	}
}

func TestCreateScaleFromTemplate_MissingTemplate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(1, "curator", true)
	video := seedVideo(t, ctx, svc, "mp-scale-miss")

	_, err := svc.CreateScaleFromTemplate(ctx, video.ID, 999999, svc.CreateResource(ctx, nil, nil))
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateCategoryFromTemplate_CopiesScaleAndLabels(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(1, "curator", true)
	video := seedVideo(t, ctx, svc, "mp-cat-copy")

	scale, err := svc.CreateScale(ctx, nil, "quality", nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create scale: %v", err)
	}
	if _, err := svc.CreateScaleValue(ctx, scale.ID, "good", 1, 0, svc.CreateResource(ctx, nil, nil)); err != nil {
		t.Fatalf("create scale value: %v", err)
	}
	template, err := svc.CreateCategory(ctx, nil, nil, nil, &scale.ID, "shots", nil, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create template category: %v", err)
	}
	for _, value := range []string{"closeup", "wide"} {
		if _, err := svc.CreateLabel(ctx, template.ID, value, value[:1], nil, nil, svc.CreateResource(ctx, nil, nil)); err != nil {
			t.Fatalf("create label %s: %v", value, err)
		}
	}

	copied, err := svc.CreateCategoryFromTemplate(ctx, template.ID, nil, nil, video.ID, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("copy category: %v", err)
	}
	if copied.VideoID == nil || *copied.VideoID != video.ID {
		t.Fatalf("expected copy bound to video, got %v", copied.VideoID)
	}
	if copied.ScaleID == nil || *copied.ScaleID == scale.ID {
		t.Fatalf("expected a fresh scale copy, got %v", copied.ScaleID)
	}

	labels, err := svc.GetLabels(ctx, copied.ID, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list copied labels: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("expected 2 copied labels, got %d", len(labels))
	}
	for _, label := range labels {
		if label.SeriesLabelID != nil {
			t.Fatalf("plain copy must not keep a series back-reference, got %v", label.SeriesLabelID)
		}
	}

	copiedValues, err := svc.GetScaleValues(ctx, *copied.ScaleID, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list copied scale values: %v", err)
	}
	if len(copiedValues) != 1 {
		t.Fatalf("expected copied scale to carry its value, got %d", len(copiedValues))
	}
}

func TestCreateCategoryFromTemplate_SeriesCopyKeepsLabelBackrefs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(1, "curator", true)
	video := seedVideo(t, ctx, svc, "mp-series-copy")
	series := "series-t1"

	master, err := svc.CreateCategory(ctx, &series, nil, nil, nil, "topics", nil, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create master: %v", err)
	}
	masterLabel, err := svc.CreateLabel(ctx, master.ID, "intro", "i", nil, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create master label: %v", err)
	}

	copied, err := svc.CreateCategoryFromTemplate(ctx, master.ID, &series, &master.ID, video.ID, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("copy onto video: %v", err)
	}
	if copied.SeriesCategoryID == nil || *copied.SeriesCategoryID != master.ID {
		t.Fatalf("expected copy referencing master, got %v", copied.SeriesCategoryID)
	}

	labels, err := svc.GetLabels(ctx, copied.ID, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list copied labels: %v", err)
	}
	if len(labels) != 1 {
		t.Fatalf("expected one copied label, got %d", len(labels))
	}
	if labels[0].SeriesLabelID == nil || *labels[0].SeriesLabelID != masterLabel.ID {
		t.Fatalf("expected back-reference to master label, got %v", labels[0].SeriesLabelID)
	}
}

func TestUpdateCategoryMaster_DeletesSeriesCopies(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(1, "curator", true)
	video := seedVideo(t, ctx, svc, "mp-series-edit")
	series := "series-t2"

	master, err := svc.CreateCategory(ctx, &series, nil, nil, nil, "topics", nil, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create master: %v", err)
	}
	copied, err := svc.CreateCategoryFromTemplate(ctx, master.ID, &series, &master.ID, video.ID, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("copy onto video: %v", err)
	}

	master.Name = "renamed topics"
	master.Resource = svc.UpdateResource(ctx, master.Resource, nil)
	updated, err := svc.UpdateCategoryAndDeleteOtherSeriesCategories(ctx, master)
	if err != nil {
		t.Fatalf("update master: %v", err)
	}
	if updated.Name != "renamed topics" {
		t.Fatalf("expected master renamed, got %q", updated.Name)
	}

	if got, err := svc.GetCategory(ctx, copied.ID, false); err != nil || got != nil {
		t.Fatalf("expected series copy soft-deleted, got %+v, %v", got, err)
	}
	if got, err := svc.GetCategory(ctx, master.ID, false); err != nil || got == nil {
		t.Fatalf("expected master still live: %v", err)
	}
}

func TestDeleteLabel_RedirectsToSeriesMaster(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(1, "curator", true)
	video := seedVideo(t, ctx, svc, "mp-label-del")
	series := "series-t3"

	master, err := svc.CreateCategory(ctx, &series, nil, nil, nil, "topics", nil, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create master: %v", err)
	}
	masterLabel, err := svc.CreateLabel(ctx, master.ID, "intro", "i", nil, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create master label: %v", err)
	}
	copied, err := svc.CreateCategoryFromTemplate(ctx, master.ID, &series, &master.ID, video.ID, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("copy onto video: %v", err)
	}
	labels, err := svc.GetLabels(ctx, copied.ID, domain.ListOptions{})
	if err != nil || len(labels) != 1 {
		t.Fatalf("expected one copied label: %v", err)
	}

	deleted, err := svc.DeleteLabel(ctx, labels[0])
	if err != nil {
		t.Fatalf("delete label: %v", err)
	}
	if deleted.ID != masterLabel.ID {
		t.Fatalf("expected master label deleted, got %d", deleted.ID)
	}
	if got, err := svc.GetLabel(ctx, masterLabel.ID, false); err != nil || got != nil {
		t.Fatalf("expected master label gone, got %+v, %v", got, err)
	}
	// The per-video copy row is left alone; it only redirected the delete.
	if got, err := svc.GetLabel(ctx, labels[0].ID, false); err != nil || got == nil {
		t.Fatalf("expected copy label untouched: %v", err)
	}
}

func TestDeleteLabel_RedirectChecksMasterAccess(t *testing.T) {
	svc, _ := newTestService(t)
	ownerCtx := principalCtx(1, "series-owner", false)
	editorCtx := principalCtx(2, "video-editor", false)
	series := "series-t4"

	private := domain.AccessPrivate
	master, err := svc.CreateCategory(ownerCtx, &series, nil, nil, nil, "topics", nil, nil, svc.CreateResource(ownerCtx, &private, nil))
	if err != nil {
		t.Fatalf("create master: %v", err)
	}
	masterLabel, err := svc.CreateLabel(ownerCtx, master.ID, "intro", "i", nil, nil, svc.CreateResource(ownerCtx, &private, nil))
	if err != nil {
		t.Fatalf("create master label: %v", err)
	}

	// The editor owns the per-video copy, but not the master it points at.
	video := seedVideo(t, editorCtx, svc, "mp-label-deny")
	copied, err := svc.CreateCategoryFromTemplate(editorCtx, master.ID, &series, &master.ID, video.ID, svc.CreateResource(editorCtx, nil, nil))
	if err != nil {
		t.Fatalf("copy onto video: %v", err)
	}
	labels, err := svc.GetLabels(editorCtx, copied.ID, domain.ListOptions{})
	if err != nil || len(labels) != 1 {
		t.Fatalf("expected one copied label: %v", err)
	}

	_, err = svc.DeleteLabel(editorCtx, labels[0])
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for foreign private master, got %v", err)
	}
	if got, err := svc.GetLabel(ownerCtx, masterLabel.ID, false); err != nil || got == nil {
		t.Fatalf("expected master label untouched: %v", err)
	}
}

func TestDeleteLabel_MissingMaster(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(1, "curator", true)
	video := seedVideo(t, ctx, svc, "mp-label-miss")

	category, err := svc.CreateCategory(ctx, nil, nil, &video.ID, nil, "topics", nil, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	orphanRef := int64(999999)
	label, err := svc.CreateLabel(ctx, category.ID, "stray", "s", nil, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create label: %v", err)
	}
	label.SeriesLabelID = &orphanRef

	_, err = svc.DeleteLabel(ctx, label)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found for missing master, got %v", err)
	}
}

func TestCreateQuestionnaireFromTemplate_CopiesContent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := principalCtx(1, "curator", true)
	video := seedVideo(t, ctx, svc, "mp-quest-copy")

	template, err := svc.CreateQuestionnaire(ctx, nil, "feedback", `{"items":[]}`, nil, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	copied, err := svc.CreateQuestionnaireFromTemplate(ctx, template.ID, video.ID, svc.CreateResource(ctx, nil, nil))
	if err != nil {
		t.Fatalf("copy questionnaire: %v", err)
	}
	if copied.ID == template.ID {
		t.Fatalf("expected a fresh questionnaire row")
	}
	if copied.VideoID == nil || *copied.VideoID != video.ID {
		t.Fatalf("expected copy bound to video, got %v", copied.VideoID)
	}
	if copied.Title != "feedback" || copied.Content != `{"items":[]}` {
		t.Fatalf("expected content carried over, got %q / %q", copied.Title, copied.Content)
	}
}
