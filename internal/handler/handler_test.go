package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vidhi35/Kisan-Mitra/internal/middleware"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/repository"
	"github.com/Vidhi35/Kisan-Mitra/internal/service"
	"github.com/Vidhi35/Kisan-Mitra/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChat struct{ result models.ProviderResult }

func (s stubChat) Chat(context.Context, []models.ChatMessage, string) models.ProviderResult {
	return s.result
}

type stubSearch struct{ result models.ProviderResult }

func (s stubSearch) Search(context.Context, string, string) models.ProviderResult { return s.result }

type stubCredential bool

func (c stubCredential) Configured() bool { return bool(c) }

type testEnv struct {
	chat   *stubChat
	search *stubSearch
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	db, err := repository.NewSQLiteDB(":memory:", logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := repository.MigrateDB(db, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := storage.NewStore(t.TempDir(), "/uploads", logger)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	env := &testEnv{chat: &stubChat{}, search: &stubSearch{}}
	profiles := repository.NewProfileRepository(db, logger)
	svc := Services{
		Assistant: service.NewAssistantService(service.AssistantConfig{Primary: env.chat}, logger),
		Diagnosis: service.NewDiagnosisService(service.DiagnosisConfig{Repo: repository.NewDiagnosisRepository(db, logger)}, logger),
		Advisory:  service.NewAdvisoryService(env.search, service.Limits{}, logger),
		Community: service.NewCommunityService(repository.NewCommunityRepository(db, logger), logger),
		Records:   service.NewRecordService(repository.NewRecordRepository(db, logger), logger),
		Profile:   service.NewProfileService(profiles, logger),
		Market:    service.NewMarketService(repository.NewMarketRepository(db, logger), logger),
		Weather:   service.NewWeatherService(repository.NewWeatherRepository(db, logger), logger),
		Health: service.NewHealthService(
			map[string]service.Credential{"gemini": stubCredential(false)},
			nil,
			profiles,
		),
		Upload: service.NewUploadService(store, logger),
	}

	env.router = gin.New()
	NewHandler(svc, logger).RegisterRoutes(env.router, models.DevUserID)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestAssistantEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.chat.result = models.Succeeded("Gemini", "Sow wheat in November.")
	w, body := env.do(t, http.MethodPost, "/api/assistant", `{"messages":[{"role":"user","content":"When?"}]}`)
	if w.Code != http.StatusOK || body["message"] != "Sow wheat in November." || body["language"] != "hi" || body["success"] != true {
		t.Errorf("unexpected reply %d %v", w.Code, body)
	}

	env.chat.result = models.Failed("quota")
	w, body = env.do(t, http.MethodPost, "/api/assistant", `{"messages":[{"role":"user","content":"When?"}],"language":"ta"}`)
	if w.Code != http.StatusInternalServerError || !strings.HasPrefix(body["error"].(string), "மன்னிக்கவும்") {
		t.Errorf("expected localized exhaustion, got %d %v", w.Code, body)
	}

	w, body = env.do(t, http.MethodPost, "/api/assistant", `{"messages":[]}`)
	if w.Code != http.StatusBadRequest || body["error"] != "Messages required" {
		t.Errorf("expected validation error, got %d %v", w.Code, body)
	}
}

func TestAdvisoryEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodGet, "/api/schemes/list", "")
	if w.Code != http.StatusOK || len(body["data"].([]interface{})) != 7 {
		t.Errorf("unexpected scheme list %d %v", w.Code, body)
	}

	env.search.result = models.Failed("Perplexity API key not configured")
	w, body = env.do(t, http.MethodGet, "/api/news", "")
	if w.Code != http.StatusInternalServerError || body["success"] != false || body["error"] != "Perplexity API key not configured" {
		t.Errorf("unexpected news failure %d %v", w.Code, body)
	}

	env.search.result = models.Succeeded("Perplexity", "Kharif MSP raised.")
	w, body = env.do(t, http.MethodPost, "/api/schemes/query", `{"schemeName":"PM-KISAN","language":"en"}`)
	data, _ := body["data"].(map[string]interface{})
	if w.Code != http.StatusOK || data["details"] != "Kharif MSP raised." || data["language"] != "en" {
		t.Errorf("unexpected scheme query %d %v", w.Code, body)
	}

	w, _ = env.do(t, http.MethodPost, "/api/schemes/query", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without scheme name, got %d", w.Code)
	}
}

func TestCommunityEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/community/posts", `{"title":"Aphids on mustard","content":"Any organic remedy?","category":"question"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: %d %v", w.Code, body)
	}
	id := body["data"].(map[string]interface{})["id"].(string)

	if w, _ := env.do(t, http.MethodPost, "/api/community/posts/"+id+"/like", ""); w.Code != http.StatusOK {
		t.Errorf("first like: %d", w.Code)
	}
	w, body = env.do(t, http.MethodPost, "/api/community/posts/"+id+"/like", "")
	if w.Code != http.StatusConflict || body["error"] != "Already liked" {
		t.Errorf("second like: %d %v", w.Code, body)
	}

	w, body = env.do(t, http.MethodGet, "/api/community/posts/"+id, "")
	post := body["data"].(map[string]interface{})
	if w.Code != http.StatusOK || post["likes_count"].(float64) != 1 || post["views_count"].(float64) != 1 {
		t.Errorf("unexpected post %d %v", w.Code, body)
	}

	for _, r := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/community/posts/nope", ""},
		{http.MethodPost, "/api/community/posts/abc/like", ""},
		{http.MethodDelete, "/api/community/posts/abc/like", ""},
		{http.MethodGet, "/api/community/posts/abc/comments", ""},
		{http.MethodPost, "/api/community/posts/abc/comments", `{"content":"hello"}`},
	} {
		if w, body := env.do(t, r.method, r.path, r.body); w.Code != http.StatusNotFound {
			t.Errorf("%s %s: %d %v", r.method, r.path, w.Code, body)
		}
	}
}

func TestDiagnosisAndProfileEndpoints(t *testing.T) {
	env := newTestEnv(t)

	if w, _ := env.do(t, http.MethodGet, "/api/diagnoses/not-a-uuid", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a malformed id, got %d", w.Code)
	}

	w, body := env.do(t, http.MethodGet, "/api/profile", "")
	if w.Code != http.StatusBadRequest || body["error"] != "User ID required" {
		t.Errorf("expected User ID required, got %d %v", w.Code, body)
	}
	w, body = env.do(t, http.MethodGet, "/api/profile?userId="+models.DevUserID, "")
	if v, ok := body["profile"]; w.Code != http.StatusOK || !ok || v != nil {
		t.Errorf("expected null profile, got %d %v", w.Code, body)
	}

	w, body = env.do(t, http.MethodPatch, "/api/profile", `{"userId":"`+models.DevUserID+`","location":"Nashik"}`)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Errorf("update profile: %d %v", w.Code, body)
	}
}

func TestRecordsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	for _, b := range []string{
		`{"record_type":"expense","description":"Seeds","cost":1500,"date":"2026-06-01"}`,
		`{"record_type":"income","description":"Tomatoes","cost":4200,"date":"2026-06-20"}`,
	} {
		if w, body := env.do(t, http.MethodPost, "/api/records", b); w.Code != http.StatusCreated {
			t.Fatalf("create record: %d %v", w.Code, body)
		}
	}

	w, body := env.do(t, http.MethodGet, "/api/records/summary", "")
	if w.Code != http.StatusOK || body["total_expenses"].(float64) != 1500 || body["total_income"].(float64) != 4200 {
		t.Errorf("unexpected summary %d %v", w.Code, body)
	}

	w, _ = env.do(t, http.MethodPost, "/api/records", `{"record_type":"party","description":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown record type, got %d", w.Code)
	}

	w, _ = env.do(t, http.MethodDelete, "/api/records/unknown", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting a malformed record id, got %d", w.Code)
	}
	w, _ = env.do(t, http.MethodPatch, "/api/records/42", `{"notes":"x"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 updating a malformed record id, got %d", w.Code)
	}
}

func TestHealthAndWeather(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusServiceUnavailable || body["status"] != "error" {
		t.Errorf("expected 503 without gemini, got %d %v", w.Code, body)
	}

	w, body = env.do(t, http.MethodGet, "/api/weather?location=Pune", "")
	data := body["data"].(map[string]interface{})
	if w.Code != http.StatusOK || data["location"] != "Pune" || len(data["forecast"].([]interface{})) != 5 {
		t.Errorf("unexpected weather %d %v", w.Code, body)
	}

	w, body = env.do(t, http.MethodPost, "/api/weather/alerts", `{"location":"Nashik","alert_type":"hail","severity":4,"title":"Hailstorm expected"}`)
	if w.Code != http.StatusCreated || body["data"].(map[string]interface{})["is_active"] != true {
		t.Fatalf("create alert: %d %v", w.Code, body)
	}
	w, _ = env.do(t, http.MethodPost, "/api/weather/alerts", `{"location":"Nashik","title":"x","severity":7}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for severity out of range, got %d", w.Code)
	}

	w, body = env.do(t, http.MethodGet, "/api/weather/alerts?location=nashik", "")
	alerts := body["data"].([]interface{})
	if w.Code != http.StatusOK || len(alerts) != 1 || alerts[0].(map[string]interface{})["title"] != "Hailstorm expected" {
		t.Errorf("unexpected alerts %d %v", w.Code, body)
	}
}

func TestUploadEndpoint(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "my leaf (1).png")
	fw.Write([]byte("\x89PNG\r\n\x1a\nrest"))
	mw.WriteField("type", "crops")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.UserIDHeader, "4f6c1c8e-2b7a-4c55-9d0e-1a2b3c4d5e6f")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var up models.Upload
	if err := json.Unmarshal(w.Body.Bytes(), &up); err != nil || w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(up.Path, "crops/") || !strings.HasSuffix(up.Path, "-my_leaf__1_.png") {
		t.Errorf("unexpected path %q", up.Path)
	}
	if up.URL != "/uploads/"+up.Path {
		t.Errorf("unexpected url %q", up.URL)
	}

	missing := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, missing)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a file, got %d", w.Code)
	}
}
