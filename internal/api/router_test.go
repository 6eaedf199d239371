package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/troopops/task-tracker/internal/config"
	"github.com/troopops/task-tracker/internal/models"
	"github.com/troopops/task-tracker/internal/repository"
)

func setupServer(t *testing.T, cfg *config.Config) (*http.ServeMux, *sqlx.DB) {
	t.Helper()
	db, err := repository.InitDB(":memory:")
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if cfg == nil {
		cfg = &config.Config{}
	}
	return SetupRouter(db, cfg), db
}

func createUser(t *testing.T, db *sqlx.DB, username, email string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "secret",
		Email:        email,
		FullName:     "User " + username,
		Role:         "member",
	}
	if err := repository.NewUserRepository(db).Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func login(t *testing.T, mux *http.ServeMux, username string) []*http.Cookie {
	t.Helper()
	rec := doJSON(t, mux, "POST", "/auth/login", map[string]string{
		"username": username,
		"password": "secret",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login must set a session cookie")
	}
	return cookies
}

func TestCronEndpointRequiresBearerToken(t *testing.T) {
	mux, _ := setupServer(t, &config.Config{CronSecret: "topsecret"})

	req := httptest.NewRequest("GET", "/cron/due-reminders", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["ok"] != false {
		t.Fatalf("unexpected body: %v", body)
	}

	req = httptest.NewRequest("GET", "/cron/due-reminders", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	body = decodeBody(t, rec)
	if body["ok"] != true || body["sent"] != float64(0) {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCronEndpointOpenWithoutSecret(t *testing.T) {
	mux, _ := setupServer(t, nil)

	rec := doJSON(t, mux, "GET", "/cron/due-reminders", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReminderSweepOverHTTP(t *testing.T) {
	mux, db := setupServer(t, nil)
	creator := createUser(t, db, "creator", "creator@example.com")
	pat := createUser(t, db, "pat", "pat@example.com")

	due := time.Now().UTC().Add(71 * time.Hour)
	task := models.Task{
		Title:     "Pack rations",
		Status:    models.StatusAssigned,
		Priority:  models.PriorityMedium,
		DueDate:   &due,
		CreatedBy: creator.ID,
	}
	taskRepo := repository.NewTaskRepository(db)
	if err := taskRepo.Create(&task, []string{pat.ID}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	rec := doJSON(t, mux, "GET", "/cron/due-reminders", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sweep failed: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["sent"] != float64(1) {
		t.Fatalf("expected 1 attempt, got %v", body["sent"])
	}

	stored, err := taskRepo.GetTask(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if !stored.Reminder3DSent {
		t.Fatal("3-day flag must be set after the sweep")
	}

	// Second sweep is a no-op.
	rec = doJSON(t, mux, "GET", "/cron/due-reminders", nil, nil)
	body = decodeBody(t, rec)
	if body["sent"] != float64(0) {
		t.Fatalf("second sweep must send nothing, got %v", body["sent"])
	}
}

func TestEmailSendDryRun(t *testing.T) {
	mux, _ := setupServer(t, nil)

	rec := doJSON(t, mux, "POST", "/emails/send", map[string]string{
		"to":      "pat@example.com",
		"subject": "Hello",
		"html":    "<p>Hi</p>",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["dryRun"] != true {
		t.Fatalf("expected dry-run success, got %v", body)
	}

	rec = doJSON(t, mux, "POST", "/emails/send", map[string]string{"to": "pat@example.com"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rec.Code)
	}
}

func TestEmailTestConfig(t *testing.T) {
	mux, _ := setupServer(t, nil)

	rec := doJSON(t, mux, "GET", "/emails/test-config", nil, nil)
	body := decodeBody(t, rec)
	if body["configured"] != false || body["mode"] != "dry-run" {
		t.Fatalf("unexpected config report: %v", body)
	}
}

func TestLoginVerifyLogoutFlow(t *testing.T) {
	mux, db := setupServer(t, nil)
	createUser(t, db, "sgt.pat", "pat@example.com")

	rec := doJSON(t, mux, "POST", "/auth/login", map[string]string{
		"username": "sgt.pat",
		"password": "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}

	cookies := login(t, mux, "sgt.pat")

	rec = doJSON(t, mux, "GET", "/auth/verify", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify failed: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	if !ok || user["username"] != "sgt.pat" {
		t.Fatalf("unexpected verify payload: %v", body)
	}

	rec = doJSON(t, mux, "GET", "/auth/verify", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("verify without session must 401, got %d", rec.Code)
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	mux, db := setupServer(t, nil)
	createUser(t, db, "creator", "creator@example.com")
	pat := createUser(t, db, "pat", "pat@example.com")
	cookies := login(t, mux, "creator")

	due := time.Now().UTC().Add(120 * time.Hour).Format(time.RFC3339)
	rec := doJSON(t, mux, "POST", "/tasks", map[string]any{
		"title":        "Inspect gear",
		"description":  "Quarterly inspection",
		"priority":     "high",
		"due_date":     due,
		"assignee_ids": []string{pat.ID},
	}, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	task := body["task"].(map[string]any)
	taskID := task["id"].(string)
	if task["status"] != "assigned" {
		t.Fatalf("unexpected status: %v", task["status"])
	}
	notifications, ok := body["notifications"].([]any)
	if !ok || len(notifications) != 1 {
		t.Fatalf("expected one assignment notification: %v", body["notifications"])
	}

	rec = doJSON(t, mux, "GET", "/tasks", nil, cookies)
	body = decodeBody(t, rec)
	if tasks := body["tasks"].([]any); len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	rec = doJSON(t, mux, "PATCH", "/tasks/"+taskID+"/status", map[string]string{
		"status": "completed",
	}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, "DELETE", "/tasks/"+taskID, nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete task: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, "GET", "/tasks/"+taskID, nil, cookies)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}

	rec = doJSON(t, mux, "GET", "/tasks", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("task list without session must 401, got %d", rec.Code)
	}
}

func TestRankAndSLAAdminOverHTTP(t *testing.T) {
	mux, _ := setupServer(t, nil)

	rec := doJSON(t, mux, "GET", "/ranks", nil, nil)
	body := decodeBody(t, rec)
	if ranks := body["ranks"].([]any); len(ranks) != 7 {
		t.Fatalf("expected 7 seeded ranks, got %d", len(ranks))
	}

	rec = doJSON(t, mux, "POST", "/ranks", map[string]any{
		"name":        "General",
		"order_index": 8,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create rank: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, "PUT", "/sla-settings", map[string]any{
		"priority":           "high",
		"response_hours":     2,
		"reminder_intervals": "1,2",
		"escalation_enabled": true,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert sla: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, "GET", "/sla-settings", nil, nil)
	body = decodeBody(t, rec)
	if settings := body["sla_settings"].([]any); len(settings) != 3 {
		t.Fatalf("expected 3 sla settings, got %d", len(settings))
	}
}
