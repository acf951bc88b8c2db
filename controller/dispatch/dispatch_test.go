package dispatch_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"taskreminder/config"
	dispatchcontroller "taskreminder/controller/dispatch"
	"taskreminder/model"
	"taskreminder/testutil"
)

const cronSecret = "s3cret"

var errTest = errors.New("connection refused")

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{CronSecret: cronSecret},
		Dispatch: config.DispatchConfig{
			LookbackMinutes:     5,
			DefaultOffsetsHours: []int{24, 1},
			MaxAttempts:         5,
		},
		Notifier: config.NotifierConfig{
			Provider:       config.ProviderTwilio,
			TimeoutSeconds: 5,
			Recipient:      "+33612345678",
		},
	}
}

func newRouter(store *testutil.FakeStore, notifier *testutil.FakeNotifier, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	dispatchcontroller.DispatchController(router, store, notifier, cfg)
	dispatchcontroller.TestNotificationController(router, notifier, cfg)
	return router
}

func doPost(router *gin.Engine, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set("X-Cron-Key", key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDispatch_RequiresCronKey(t *testing.T) {
	router := newRouter(testutil.NewFakeStore(), testutil.NewFakeNotifier(), testConfig())

	if w := doPost(router, "/api/dispatch", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a key, got %d", w.Code)
	}
	if w := doPost(router, "/api/dispatch", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with a wrong key, got %d", w.Code)
	}
}

func TestDispatch_BearerTokenAccepted(t *testing.T) {
	router := newRouter(testutil.NewFakeStore(), testutil.NewFakeNotifier(), testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/dispatch", nil)
	req.Header.Set("Authorization", "Bearer "+cronSecret)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with a bearer token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDispatch_MissingSecretUnavailable(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CronSecret = ""
	router := newRouter(testutil.NewFakeStore(), testutil.NewFakeNotifier(), cfg)

	if w := doPost(router, "/api/dispatch", "anything"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when no secret is configured, got %d", w.Code)
	}
}

func TestDispatch_RunsPassAndReportsSummary(t *testing.T) {
	store := testutil.NewFakeStore()
	notifier := testutil.NewFakeNotifier()
	router := newRouter(store, notifier, testConfig())

	now := time.Now().UTC()
	store.AddTask(model.Task{
		TaskID: "t1", Title: "pay rent", DueTime: now.Add(2 * time.Hour),
		Priority: model.PriorityHigh,
	})
	store.AddReminder("t1", now.Add(-time.Minute))

	w := doPost(router, "/api/dispatch", cronSecret)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string            `json:"message"`
		Summary model.PassSummary `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary.Sent != 1 {
		t.Errorf("expected one send in the summary, got %+v", resp.Summary)
	}
	if len(notifier.Sent()) != 1 {
		t.Errorf("expected one notification, got %d", len(notifier.Sent()))
	}
}

func TestDispatch_StoreFailureReturns500(t *testing.T) {
	store := testutil.NewFakeStore()
	store.PendingTasksErr = errTest
	router := newRouter(store, testutil.NewFakeNotifier(), testConfig())

	if w := doPost(router, "/api/dispatch", cronSecret); w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on a store failure, got %d", w.Code)
	}
}

func TestTestNotification_SendsToDefaultRecipient(t *testing.T) {
	notifier := testutil.NewFakeNotifier()
	router := newRouter(testutil.NewFakeStore(), notifier, testConfig())

	w := doPost(router, "/api/test-notification", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	sent := notifier.Sent()
	if len(sent) != 1 || sent[0].To != "+33612345678" {
		t.Fatalf("expected a send to the configured recipient, got %v", sent)
	}

	var resp struct {
		MessageID string `json:"message_id"`
		To        string `json:"to"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MessageID == "" || resp.To != "+33612345678" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestTestNotification_NoRecipientConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Notifier.Recipient = ""
	router := newRouter(testutil.NewFakeStore(), testutil.NewFakeNotifier(), cfg)

	if w := doPost(router, "/api/test-notification", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a recipient, got %d", w.Code)
	}
}
