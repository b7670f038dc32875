package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/marwyg/annotation-tool/internal/data/repos"
	"github.com/marwyg/annotation-tool/internal/data/repos/testutil"
	"github.com/marwyg/annotation-tool/internal/http/handlers"
	"github.com/marwyg/annotation-tool/internal/http/middleware"
	"github.com/marwyg/annotation-tool/internal/platform/mediahost"
	"github.com/marwyg/annotation-tool/internal/services"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T, resetEnabled bool) (*gin.Engine, *mediahost.Static) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	host := mediahost.NewStatic()
	svc := services.NewExtendedAnnotationService(
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
	router := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.NewAuthMiddleware(log, testSecret, svc),
		ServiceName:    "annotation-tool-test",
		ResetEnabled:   resetEnabled,

		HealthHandler:        handlers.NewHealthHandler(),
		AdminHandler:         handlers.NewAdminHandler(svc, log),
		UserHandler:          handlers.NewUserHandler(svc, log),
		VideoHandler:         handlers.NewVideoHandler(svc, log),
		TrackHandler:         handlers.NewTrackHandler(svc, log),
		AnnotationHandler:    handlers.NewAnnotationHandler(svc, log),
		CommentHandler:       handlers.NewCommentHandler(svc, log),
		ScaleHandler:         handlers.NewScaleHandler(svc, log),
		ScaleValueHandler:    handlers.NewScaleValueHandler(svc, log),
		CategoryHandler:      handlers.NewCategoryHandler(svc, log),
		LabelHandler:         handlers.NewLabelHandler(svc, log),
		QuestionnaireHandler: handlers.NewQuestionnaireHandler(svc, log),
	})
	return router, host
}

func signToken(t *testing.T, extID string, admin bool) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": extID, "nickname": extID}
	if admin {
		claims["roles"] = []string{"annotate-admin"}
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func do(t *testing.T, router *gin.Engine, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func idString(t *testing.T, body map[string]any) string {
	t.Helper()
	id, ok := body["id"].(float64)
	if !ok {
		t.Fatalf("body has no numeric id: %v", body)
	}
	return strconv.FormatInt(int64(id), 10)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func grantAnnotate(host *mediahost.Static, extID string, users ...string) {
	host.Put(&mediahost.MediaPackage{
		ID:  extID,
		ACL: map[string][]string{mediahost.ActionAnnotate: users},
	})
}

func TestHealth_NoAuthRequired(t *testing.T) {
	router, _ := newTestRouter(t, false)
	w := do(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProtectedRoutes_RejectMissingToken(t *testing.T) {
	router, _ := newTestRouter(t, false)
	w := do(t, router, http.MethodGet, "/videos/1", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestProtectedRoutes_RejectForgedToken(t *testing.T) {
	router, _ := newTestRouter(t, false)
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w := do(t, router, http.MethodGet, "/videos/1", forged, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCreateUser_CreatedWithLocation(t *testing.T) {
	router, _ := newTestRouter(t, false)
	token := signToken(t, "alice", false)

	w := do(t, router, http.MethodPost, "/users", token, url.Values{"user_extid": {"alice"}, "nickname": {"Alice"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/users/") {
		t.Fatalf("expected Location header, got %q", loc)
	}
	body := decode(t, w)
	if body["nickname"] != "Alice" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCreateUser_BlankNicknameRejected(t *testing.T) {
	router, _ := newTestRouter(t, false)
	token := signToken(t, "alice", false)

	w := do(t, router, http.MethodPost, "/users", token, url.Values{"user_extid": {"alice"}, "nickname": {"  "}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateVideo_UnknownMediaPackage(t *testing.T) {
	router, _ := newTestRouter(t, false)
	token := signToken(t, "alice", false)

	w := do(t, router, http.MethodPost, "/videos", token, url.Values{"video_extid": {"no-such-mp"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateVideo_ACLDenied(t *testing.T) {
	router, host := newTestRouter(t, false)
	token := signToken(t, "alice", false)
	grantAnnotate(host, "mp-locked", "someone-else")

	w := do(t, router, http.MethodPost, "/videos", token, url.Values{"video_extid": {"mp-locked"}})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateVideo_DuplicateExtID(t *testing.T) {
	router, host := newTestRouter(t, false)
	token := signToken(t, "alice", false)
	grantAnnotate(host, "mp-dup", "alice")

	if w := do(t, router, http.MethodPost, "/videos", token, url.Values{"video_extid": {"mp-dup"}}); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w := do(t, router, http.MethodPost, "/videos", token, url.Values{"video_extid": {"mp-dup"}})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpsertVideo_CreatesThenUpdates(t *testing.T) {
	router, host := newTestRouter(t, false)
	token := signToken(t, "alice", false)
	grantAnnotate(host, "mp-upsert", "alice")

	// The user row must exist so the video rows are owned by alice.
	if w := do(t, router, http.MethodPost, "/users", token, url.Values{"user_extid": {"alice"}, "nickname": {"Alice"}}); w.Code != http.StatusCreated {
		t.Fatalf("create user: %d: %s", w.Code, w.Body.String())
	}

	w := do(t, router, http.MethodPut, "/videos", token, url.Values{"video_extid": {"mp-upsert"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first put, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPut, "/videos", token, url.Values{"video_extid": {"mp-upsert"}, "access": {"3"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on second put, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/videos/") {
		t.Fatalf("expected Location header on update, got %q", loc)
	}
	body := decode(t, w)
	if body["access"] != float64(3) {
		t.Fatalf("expected access updated, got %v", body["access"])
	}
}

func TestAnnotationFlow_EndToEnd(t *testing.T) {
	router, host := newTestRouter(t, false)
	token := signToken(t, "alice", false)
	grantAnnotate(host, "mp-flow", "alice")

	w := do(t, router, http.MethodPost, "/users", token, url.Values{"user_extid": {"alice"}, "nickname": {"Alice"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create user: %d: %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/videos", token, url.Values{"video_extid": {"mp-flow"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create video: %d: %s", w.Code, w.Body.String())
	}
	videoLoc := w.Header().Get("Location")

	w = do(t, router, http.MethodPost, videoLoc+"/tracks", token, url.Values{"name": {"speech"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create track: %d: %s", w.Code, w.Body.String())
	}
	trackLoc := w.Header().Get("Location")

	w = do(t, router, http.MethodPost, trackLoc+"/annotations", token, url.Values{"start": {"12.5"}, "duration": {"3"}, "content": {"intro"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create annotation: %d: %s", w.Code, w.Body.String())
	}
	annotationLoc := w.Header().Get("Location")
	annotation := decode(t, w)
	if annotation["start"] != 12.5 {
		t.Fatalf("unexpected annotation: %v", annotation)
	}

	w = do(t, router, http.MethodPost, annotationLoc+"/comments", token, url.Values{"text": {"nice take"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: %d: %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, videoLoc+"/tracks", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list tracks: %d: %s", w.Code, w.Body.String())
	}
	list := decode(t, w)
	if list["count"] != float64(1) || list["offset"] != float64(0) {
		t.Fatalf("unexpected list envelope: %v", list)
	}
	if _, ok := list["tracks"].([]any); !ok {
		t.Fatalf("expected tracks array, got %v", list["tracks"])
	}

	w = do(t, router, http.MethodDelete, annotationLoc, token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete annotation: %d: %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodGet, annotationLoc, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected annotation gone, got %d", w.Code)
	}
}

func TestScaleTemplateCopy_EndToEnd(t *testing.T) {
	router, host := newTestRouter(t, false)
	token := signToken(t, "curator", true)
	grantAnnotate(host, "mp-scales", "curator")

	w := do(t, router, http.MethodPost, "/scales", token, url.Values{"name": {"agreement"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create template scale: %d: %s", w.Code, w.Body.String())
	}
	templateLoc := w.Header().Get("Location")
	template := decode(t, w)

	for _, form := range []url.Values{
		{"name": {"disagree"}, "value": {"0"}, "order": {"0"}},
		{"name": {"agree"}, "value": {"1"}, "order": {"1"}},
	} {
		if w := do(t, router, http.MethodPost, templateLoc+"/scalevalues", token, form); w.Code != http.StatusCreated {
			t.Fatalf("create template value: %d: %s", w.Code, w.Body.String())
		}
	}

	w = do(t, router, http.MethodPost, "/videos", token, url.Values{"video_extid": {"mp-scales"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create video: %d: %s", w.Code, w.Body.String())
	}
	videoLoc := w.Header().Get("Location")

	w = do(t, router, http.MethodPost, videoLoc+"/scales", token, url.Values{"scale_id": {idString(t, template)}})
	if w.Code != http.StatusCreated {
		t.Fatalf("copy scale: %d: %s", w.Code, w.Body.String())
	}
	copyLoc := w.Header().Get("Location")

	w = do(t, router, http.MethodGet, copyLoc+"/scalevalues", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list copied values: %d: %s", w.Code, w.Body.String())
	}
	list := decode(t, w)
	if list["count"] != float64(2) {
		t.Fatalf("expected 2 copied values, got %v", list["count"])
	}
}

func TestScaleTemplateCopy_OntoTemplateCollectionRejected(t *testing.T) {
	router, _ := newTestRouter(t, false)
	token := signToken(t, "curator", true)

	w := do(t, router, http.MethodPost, "/scales", token, url.Values{"scale_id": {"1"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSeriesCategoryFlow_EndToEnd(t *testing.T) {
	router, host := newTestRouter(t, false)
	token := signToken(t, "curator", true)
	grantAnnotate(host, "mp-labels", "curator")

	// A series master with one label, both living on the template mirror.
	w := do(t, router, http.MethodPost, "/categories", token, url.Values{"name": {"topics"}, "series_extid": {"series-9"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create master: %d: %s", w.Code, w.Body.String())
	}
	master := decode(t, w)
	masterLoc := w.Header().Get("Location")

	w = do(t, router, http.MethodPost, masterLoc+"/labels", token, url.Values{"value": {"intro"}, "abbreviation": {"i"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create master label: %d: %s", w.Code, w.Body.String())
	}
	masterLabel := decode(t, w)

	// The mirror lists the series' masters when asked for the series.
	w = do(t, router, http.MethodGet, "/categories?series-extid=series-9", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list series masters: %d: %s", w.Code, w.Body.String())
	}
	if list := decode(t, w); list["count"] != float64(1) {
		t.Fatalf("expected the series master listed, got %v", list)
	}
	w = do(t, router, http.MethodGet, "/categories", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list templates: %d: %s", w.Code, w.Body.String())
	}
	if list := decode(t, w); list["count"] != float64(0) {
		t.Fatalf("expected no templates, got %v", list)
	}

	w = do(t, router, http.MethodPost, "/videos", token, url.Values{"video_extid": {"mp-labels"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create video: %d: %s", w.Code, w.Body.String())
	}
	videoLoc := w.Header().Get("Location")

	w = do(t, router, http.MethodPost, videoLoc+"/categories", token, url.Values{
		"category_id":        {idString(t, master)},
		"series_extid":       {"series-9"},
		"series_category_id": {idString(t, master)},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("copy onto video: %d: %s", w.Code, w.Body.String())
	}
	copyLoc := w.Header().Get("Location")

	w = do(t, router, http.MethodGet, copyLoc+"/labels", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list copied labels: %d: %s", w.Code, w.Body.String())
	}
	list := decode(t, w)
	if list["count"] != float64(1) {
		t.Fatalf("expected one copied label, got %v", list)
	}
	copyLabel := list["labels"].([]any)[0].(map[string]any)

	// Deleting the copy's label lands on the series master, and the
	// Location header points at the master's canonical path.
	w = do(t, router, http.MethodDelete, copyLoc+"/labels/"+idString(t, copyLabel), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete label: %d: %s", w.Code, w.Body.String())
	}
	deleted := decode(t, w)
	if idString(t, deleted) != idString(t, masterLabel) {
		t.Fatalf("expected the master label deleted, got %v", deleted)
	}
	wantLoc := videoLoc + "/categories/" + idString(t, master) + "/labels/" + idString(t, masterLabel)
	if got := w.Header().Get("Location"); got != wantLoc {
		t.Fatalf("expected location %q, got %q", wantLoc, got)
	}
}

func TestUpdateSeriesMaster_DeletesCopies(t *testing.T) {
	router, host := newTestRouter(t, false)
	token := signToken(t, "curator", true)
	grantAnnotate(host, "mp-series-put", "curator")

	w := do(t, router, http.MethodPost, "/categories", token, url.Values{"name": {"topics"}, "series_extid": {"series-10"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create master: %d: %s", w.Code, w.Body.String())
	}
	master := decode(t, w)
	masterLoc := w.Header().Get("Location")

	w = do(t, router, http.MethodPost, "/videos", token, url.Values{"video_extid": {"mp-series-put"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create video: %d: %s", w.Code, w.Body.String())
	}
	videoLoc := w.Header().Get("Location")

	w = do(t, router, http.MethodPost, videoLoc+"/categories", token, url.Values{
		"category_id":        {idString(t, master)},
		"series_extid":       {"series-10"},
		"series_category_id": {idString(t, master)},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("copy onto video: %d: %s", w.Code, w.Body.String())
	}
	copyLoc := w.Header().Get("Location")

	// Editing a copy keeps its series binding.
	w = do(t, router, http.MethodPut, copyLoc, token, url.Values{
		"name":               {"local rename"},
		"series_extid":       {"series-10"},
		"series_category_id": {idString(t, master)},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update copy: %d: %s", w.Code, w.Body.String())
	}
	updated := decode(t, w)
	if updated["series_category_id"] == nil {
		t.Fatalf("expected series binding kept, got %v", updated)
	}
	if w = do(t, router, http.MethodGet, copyLoc, token, nil); w.Code != http.StatusOK {
		t.Fatalf("expected copy still live, got %d", w.Code)
	}

	// Editing the master through the mirror soft-deletes the copies.
	w = do(t, router, http.MethodPut, masterLoc, token, url.Values{
		"name":         {"renamed topics"},
		"series_extid": {"series-10"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update master: %d: %s", w.Code, w.Body.String())
	}
	if w = do(t, router, http.MethodGet, copyLoc, token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected copy gone after master edit, got %d: %s", w.Code, w.Body.String())
	}
}

func TestIsAnnotateAdmin_ReflectsACL(t *testing.T) {
	router, host := newTestRouter(t, false)
	host.Put(&mediahost.MediaPackage{
		ID:  "mp-admin",
		ACL: map[string][]string{mediahost.ActionAnnotateAdmin: {"curator"}},
	})

	w := do(t, router, http.MethodGet, "/users/is-annotate-admin/mp-admin", signToken(t, "curator", false), nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "true" {
		t.Fatalf("expected true, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/users/is-annotate-admin/mp-admin", signToken(t, "viewer", false), nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "false" {
		t.Fatalf("expected false, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/users/is-annotate-admin/mp-unknown", signToken(t, "curator", false), nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "false" {
		t.Fatalf("expected false for unknown mediapackage, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReset_OnlyWhenEnabled(t *testing.T) {
	disabled, _ := newTestRouter(t, false)
	token := signToken(t, "admin", true)
	if w := do(t, disabled, http.MethodDelete, "/reset", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with reset disabled, got %d", w.Code)
	}

	enabled, _ := newTestRouter(t, true)
	if w := do(t, enabled, http.MethodDelete, "/reset", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with reset enabled, got %d: %s", w.Code, w.Body.String())
	}
}
