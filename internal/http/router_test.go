package http

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/catalog"
	"github.com/adamn1225/adam-noahs-stuff/internal/data/inbox"
	"github.com/adamn1225/adam-noahs-stuff/internal/domain/project"
	httpH "github.com/adamn1225/adam-noahs-stuff/internal/http/handlers"
	httpMW "github.com/adamn1225/adam-noahs-stuff/internal/http/middleware"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/config"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine/mock"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/router"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/mailer"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/objectstore"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ratelimit"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

const testPassword = "correct horse"

type testServer struct {
	engine  *gin.Engine
	store   *catalog.MemoryStore
	mail    *mailer.Log
	uploads string
}

func newTestServer(t *testing.T, assistRouter *router.Router) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	metrics := observability.NewMetrics()

	store := catalog.NewMemoryStore([]project.Record{
		{ID: "seed-1", Title: "Counterfeit Spotter", Category: project.CategoryBrandProtection, Tags: []string{"Go"}},
	}, nil)
	catalogSvc := services.NewCatalogService(log, store, metrics)

	authSvc := services.NewAuthService(log, services.AuthConfig{Password: testPassword, JWTSecret: "test-secret", TTL: time.Hour})

	uploads := t.TempDir()
	objects, err := objectstore.NewLocal(uploads, "/uploads", log)
	require.NoError(t, err)

	mail := mailer.NewLog(log, mailer.Address{Email: "site@example.com"})
	covers, err := services.NewCoverService(log, catalogSvc, "")
	require.NoError(t, err)

	cfg := RouterConfig{
		Log:            log,
		Metrics:        metrics,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, authSvc),
		AuthHandler:    httpH.NewAuthHandler(authSvc, httpH.CookieConfig{}),
		ProjectHandler: httpH.NewProjectHandler(catalogSvc),
		AssistHandler:  httpH.NewAssistHandler(services.NewAssistService(log, assistRouter, metrics)),
		UploadHandler:  httpH.NewUploadHandler(services.NewMediaService(log, objects, services.MediaConfig{MaxBytes: 1 << 20}, metrics)),
		ContactHandler: httpH.NewContactHandler(services.NewContactService(log, mail, inbox.NewRepo(nil, log), "admin@example.com", metrics)),
		CoverHandler:   httpH.NewCoverHandler(covers),
		HealthHandler:  httpH.NewHealthHandler(),
		LoginLimiter:   ratelimit.NewMemory(ratelimit.Rule{Limit: 3, Window: time.Hour}, nil),
		ContactLimiter: ratelimit.NewMemory(ratelimit.Rule{Limit: 10, Window: time.Hour}, nil),
		MaxJSONBytes:   64 << 10,
		MaxUploadBytes: 1 << 20,
		UploadsDir:     uploads,
		UploadsPrefix:  "/uploads",
	}
	return &testServer{engine: NewRouter(cfg), store: store, mail: mail, uploads: uploads}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Success   bool   `json:"success"`
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success)
	require.Equal(t, 3600, out.ExpiresIn)
	require.NotEmpty(t, rec.Header().Get("Set-Cookie"))
	return out.Token
}

func disabledAssist() *router.Router { return router.NewStatic(nil, config.EngineConfig{Type: config.EngineDisabled}) }

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t, disabledAssist())
	rec := ts.do(t, http.MethodGet, "/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestProjectLifecycle(t *testing.T) {
	ts := newTestServer(t, disabledAssist())

	rec := ts.do(t, http.MethodPost, "/projects", "", project.Record{Title: "Alpha", Category: project.CategoryAI})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, 0, ts.store.Writes())

	token := ts.login(t)

	rec = ts.do(t, http.MethodPost, "/api/projects", token, project.Record{Title: "Alpha", Category: project.CategoryAI, Tags: []string{"x"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created struct {
		Success bool           `json:"success"`
		Project project.Record `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, created.Success)
	require.NotEmpty(t, created.Project.ID)

	rec = ts.do(t, http.MethodGet, "/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []project.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	require.Equal(t, "Alpha", list[1].Title)

	rec = ts.do(t, http.MethodGet, "/projects?category=saas", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/projects?category=cooking", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	upd := created.Project
	upd.Title = "Alpha 2"
	rec = ts.do(t, http.MethodPut, "/projects", token, upd)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/projects/"+upd.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"title":"Alpha 2"`)

	rec = ts.do(t, http.MethodPut, "/projects", token, project.Record{ID: "ghost", Title: "x", Category: project.CategoryAI})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Project not found")

	rec = ts.do(t, http.MethodDelete, "/projects", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Project ID required")

	rec = ts.do(t, http.MethodDelete, "/projects?id="+upd.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())
	require.Equal(t, 3, ts.store.Writes())
}

func TestProjectInvalidJSON(t *testing.T) {
	ts := newTestServer(t, disabledAssist())
	token := ts.login(t)
	rec := ts.do(t, http.MethodPost, "/projects", token, "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":false`)
}

func TestLoginFailuresAndRateLimit(t *testing.T) {
	ts := newTestServer(t, disabledAssist())

	rec := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"password": "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid password")

	rec = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	ts.login(t)

	rec = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"password": testPassword})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestSessionAndLogout(t *testing.T) {
	ts := newTestServer(t, disabledAssist())

	rec := ts.do(t, http.MethodGet, "/auth/session", "", nil)
	require.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	token := ts.login(t)
	rec = ts.do(t, http.MethodGet, "/auth/session", token, nil)
	require.Contains(t, rec.Body.String(), `"authenticated":true`)

	rec = ts.do(t, http.MethodPost, "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Set-Cookie"), httpMW.SessionCookie+"=;")
}

func TestAssistDisabledAnswersBeforeBody(t *testing.T) {
	ts := newTestServer(t, disabledAssist())
	token := ts.login(t)

	rec := ts.do(t, http.MethodPost, "/assist", "", map[string]any{"action": "suggest_tags"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/ai", token, "{broken")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"service_unavailable"`)

	rec = ts.do(t, http.MethodGet, "/assist/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"enabled":false`)
}

func TestAssistMockRelay(t *testing.T) {
	ts := newTestServer(t, router.NewStatic(mock.New(), config.EngineConfig{Type: config.EngineMock}))
	token := ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/ai", token, map[string]any{
		"action":  "suggest_tags",
		"context": map[string]string{"title": "Spotter", "description": "finds fakes"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Success  bool   `json:"success"`
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success)
	require.Contains(t, out.Response, "Project: Spotter")

	rec = ts.do(t, http.MethodPost, "/assist", token, map[string]any{"action": "write_poem"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid action")
}

func TestContactSubmit(t *testing.T) {
	ts := newTestServer(t, disabledAssist())

	rec := ts.do(t, http.MethodPost, "/api/contact", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "subject": "Hello", "message": "Hi there",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.JSONEq(t, `{"message":"Email sent successfully"}`, rec.Body.String())
	require.Len(t, ts.mail.Sent(), 2)

	rec = ts.do(t, http.MethodPost, "/contact", "", map[string]string{"name": "Ada", "email": "ada@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "All fields are required")

	rec = ts.do(t, http.MethodPost, "/contact", "", map[string]string{
		"name": "Ada", "email": "not-an-email", "subject": "s", "message": "m",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid email address")

	rec = ts.do(t, http.MethodGet, "/contact/messages", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadServedFromLocalDisk(t *testing.T) {
	ts := newTestServer(t, disabledAssist())
	token := ts.login(t)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "shot.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Success bool   `json:"success"`
		Path    string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, strings.HasPrefix(out.Path, "/uploads/"), out.Path)
	require.True(t, strings.HasSuffix(out.Path, "-shot.png"), out.Path)

	_, err = os.Stat(filepath.Join(ts.uploads, strings.TrimPrefix(out.Path, "/uploads/")))
	require.NoError(t, err)

	rec = ts.do(t, http.MethodGet, out.Path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = ts.do(t, http.MethodPost, "/upload", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCoverPNG(t *testing.T) {
	ts := newTestServer(t, disabledAssist())

	rec := ts.do(t, http.MethodGet, "/projects/seed-1/cover.png", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	cfg, err := png.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 1200, cfg.Width)

	rec = ts.do(t, http.MethodGet, "/projects/missing/cover.png", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, disabledAssist())
	ts.do(t, http.MethodGet, "/projects", "", nil)

	rec := ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "portfolio_")
}
