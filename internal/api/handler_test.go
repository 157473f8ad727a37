package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"EventReach/internal/models"
	"EventReach/internal/scheduler"
	"EventReach/internal/tags"
)

const testEvent = "2026春季招生活動"

// fakeStore implements Store and scheduler.TaskStore in memory.
type fakeStore struct {
	users     []models.User
	checkIns  []models.CheckInLog
	tasks     map[string]*models.ScheduledEmailTask
	emailLogs []models.EmailLogWithUser
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[string]*models.ScheduledEmailTask)}
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			cp := f.users[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, u *models.User) error {
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now()
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, u *models.User) error {
	for i := range f.users {
		if f.users[i].ID == u.ID {
			f.users[i] = *u
			return nil
		}
	}
	return fmt.Errorf("user %s not found", u.ID)
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeStore) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeStore) CreateCheckInLog(ctx context.Context, l *models.CheckInLog) error {
	f.nextID++
	l.ID = fmt.Sprintf("log-%d", f.nextID)
	l.CreatedAt = time.Now()
	f.checkIns = append(f.checkIns, *l)
	return nil
}

func (f *fakeStore) ListCheckInLogs(ctx context.Context) ([]models.CheckInLog, error) {
	return f.checkIns, nil
}

func (f *fakeStore) CountCheckIns(ctx context.Context) (int64, error) {
	return int64(len(f.checkIns)), nil
}

func (f *fakeStore) CountCheckInsByEvent(ctx context.Context, eventName string) (int64, error) {
	var n int64
	for _, l := range f.checkIns {
		if l.EventName == eventName {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateTask(ctx context.Context, t *models.ScheduledEmailTask) error {
	f.nextID++
	t.ID = fmt.Sprintf("task-%d", f.nextID)
	t.Status = models.TaskPending
	t.CreatedAt = time.Now()
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeStore) GetTask(ctx context.Context, id string) (*models.ScheduledEmailTask, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]models.ScheduledEmailTask, error) {
	var out []models.ScheduledEmailTask
	for _, t := range f.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeStore) UpdateTaskContent(ctx context.Context, t *models.ScheduledEmailTask) error {
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeStore) SetTaskStatus(ctx context.Context, id string, status models.TaskStatus) error {
	f.tasks[id].Status = status
	return nil
}

func (f *fakeStore) ListPendingTasks(ctx context.Context) ([]models.ScheduledEmailTask, error) {
	var out []models.ScheduledEmailTask
	for _, t := range f.tasks {
		if t.Status == models.TaskPending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListEmailLogs(ctx context.Context, limit int) ([]models.EmailLogWithUser, error) {
	if limit < len(f.emailLogs) {
		return f.emailLogs[:limit], nil
	}
	return f.emailLogs, nil
}

func newTestHandler(store *fakeStore, jobs chan models.WelcomeEmailJob) *Handler {
	log := zap.NewNop()
	trigger := scheduler.NewTrigger(func(string) {}, log)
	sched := scheduler.NewService(store, trigger, log)
	return NewHandler(store, sched, jobs, testEvent, log)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCheckInNewUser(t *testing.T) {
	store := newFakeStore()
	jobs := make(chan models.WelcomeEmailJob, 1)
	router := newTestHandler(store, jobs).Router()

	rr := doJSON(t, router, http.MethodPost, "/check-in",
		`{"email":"amy@x.com","name":"Amy","phone":"0912345678","send_email":true}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp CheckInResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || !resp.IsNewUser || !resp.EmailSent {
		t.Errorf("response = %+v", resp)
	}

	if len(store.users) != 1 {
		t.Fatalf("created %d users, want 1", len(store.users))
	}
	u := store.users[0]
	if got := tags.Decode(u.Tags); !reflect.DeepEqual(got, []string{testEvent}) {
		t.Errorf("tags = %v", got)
	}
	if len(store.checkIns) != 1 || store.checkIns[0].EventName != testEvent {
		t.Errorf("check-in log = %+v", store.checkIns)
	}

	select {
	case job := <-jobs:
		if job.Email != "amy@x.com" || job.Name != "Amy" {
			t.Errorf("queued job = %+v", job)
		}
	default:
		t.Error("welcome email job not queued")
	}
}

func TestCheckInReturningUserIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.users = append(store.users, models.User{
		ID: "user-1", Email: "amy@x.com", Name: "Amy", Phone: "0912",
		Tags: tags.Encode([]string{"舊活動"}), CreatedAt: time.Now(),
	})
	router := newTestHandler(store, make(chan models.WelcomeEmailJob, 1)).Router()

	// two check-ins for the same event, second with no name/phone supplied
	for i := 0; i < 2; i++ {
		rr := doJSON(t, router, http.MethodPost, "/check-in", `{"email":"amy@x.com"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		var resp CheckInResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.IsNewUser {
			t.Error("existing email reported as new user")
		}
		if resp.EmailSent {
			t.Error("email reported queued without send_email")
		}
	}

	if len(store.users) != 1 {
		t.Fatalf("upsert created a duplicate row: %d users", len(store.users))
	}
	u := store.users[0]
	if got := tags.Decode(u.Tags); !reflect.DeepEqual(got, []string{"舊活動", testEvent}) {
		t.Errorf("tags = %v, want old tag plus one event tag", got)
	}
	if u.Name != "Amy" || u.Phone != "0912" {
		t.Errorf("empty fields overwrote stored values: %+v", u)
	}
	if len(store.checkIns) != 2 {
		t.Errorf("wrote %d check-in logs, want one per call", len(store.checkIns))
	}
}

func TestCheckInRejectsBadEmail(t *testing.T) {
	router := newTestHandler(newFakeStore(), nil).Router()

	rr := doJSON(t, router, http.MethodPost, "/check-in", `{"email":"not-an-email"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}

	rr = doJSON(t, router, http.MethodPost, "/check-in", `{`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d for malformed json, want 400", rr.Code)
	}
}

func TestStats(t *testing.T) {
	store := newFakeStore()
	store.users = append(store.users, models.User{ID: "u1", Email: "a@x.com"})
	store.checkIns = append(store.checkIns,
		models.CheckInLog{ID: "l1", EventName: testEvent, UserID: "u1"},
		models.CheckInLog{ID: "l2", EventName: "其他活動", UserID: "u1"},
	)
	router := newTestHandler(store, nil).Router()

	rr := doJSON(t, router, http.MethodGet, "/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var stats map[string]int64
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int64{"total_users": 1, "total_checkins": 2, "event_checkins": 1}
	if !reflect.DeepEqual(stats, want) {
		t.Errorf("stats = %v, want %v", stats, want)
	}
}

func TestTagsUnion(t *testing.T) {
	store := newFakeStore()
	store.users = append(store.users,
		models.User{ID: "u1", Email: "a@x.com", Tags: tags.Encode([]string{"b", "a"})},
		models.User{ID: "u2", Email: "b@x.com", Tags: tags.Encode([]string{"a", "c"})},
		models.User{ID: "u3", Email: "c@x.com", Tags: "broken"},
	)
	router := newTestHandler(store, nil).Router()

	rr := doJSON(t, router, http.MethodGet, "/tags", "")

	var got []string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("tags = %v", got)
	}
}

func TestExportCSVWithTagFilter(t *testing.T) {
	store := newFakeStore()
	store.users = append(store.users,
		models.User{ID: "u1", Email: "vip@x.com", Name: "Amy", Tags: tags.Encode([]string{"vip"})},
		models.User{ID: "u2", Email: "plain@x.com", Tags: "[]"},
	)
	router := newTestHandler(store, nil).Router()

	rr := doJSON(t, router, http.MethodGet, "/export/csv?tag=vip", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.HasPrefix(body, "\ufeff") {
		t.Error("csv body lacks UTF-8 BOM")
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "users_export_") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(body, "\ufeff"), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv has %d lines, want header + 1 filtered row:\n%s", len(lines), body)
	}
	if !strings.Contains(lines[1], "vip@x.com") {
		t.Errorf("data row = %q", lines[1])
	}
}

func TestUsersIncludesLogs(t *testing.T) {
	store := newFakeStore()
	store.users = append(store.users, models.User{ID: "u1", Email: "a@x.com", Tags: "[]"})
	store.checkIns = append(store.checkIns, models.CheckInLog{ID: "l1", EventName: testEvent, UserID: "u1"})
	router := newTestHandler(store, nil).Router()

	rr := doJSON(t, router, http.MethodGet, "/users", "")

	var out []struct {
		Email string              `json:"email"`
		Tags  []string            `json:"tags"`
		Logs  []models.CheckInLog `json:"logs"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || len(out[0].Logs) != 1 || out[0].Logs[0].EventName != testEvent {
		t.Errorf("users payload = %+v", out)
	}
}

func TestScheduledEmailLifecycle(t *testing.T) {
	store := newFakeStore()
	router := newTestHandler(store, nil).Router()

	// past schedule rejected
	past := time.Now().Add(-time.Hour).Format(time.RFC3339)
	rr := doJSON(t, router, http.MethodPost, "/scheduler/emails",
		fmt.Sprintf(`{"name":"n","subject":"s","html_content":"h","target_tags":[],"scheduled_at":%q}`, past))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("past schedule: status = %d, want 400", rr.Code)
	}
	if len(store.tasks) != 0 {
		t.Fatal("rejected create persisted a task")
	}

	// valid create
	future := time.Now().Add(time.Hour).Format(time.RFC3339)
	rr = doJSON(t, router, http.MethodPost, "/scheduler/emails",
		fmt.Sprintf(`{"name":"n","subject":"s","html_content":"h","target_tags":["vip"],"scheduled_at":%q}`, future))
	if rr.Code != http.StatusOK {
		t.Fatalf("create: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var created struct {
		ID     string            `json:"id"`
		Status models.TaskStatus `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != models.TaskPending {
		t.Errorf("status = %s, want pending", created.Status)
	}

	// fetch detail
	rr = doJSON(t, router, http.MethodGet, "/scheduler/emails/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"htmlContent":"h"`) {
		t.Errorf("detail body = %s", rr.Body.String())
	}

	// partial update
	rr = doJSON(t, router, http.MethodPut, "/scheduler/emails/"+created.ID, `{"subject":"s2"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if store.tasks[created.ID].Subject != "s2" || store.tasks[created.ID].Name != "n" {
		t.Errorf("task after update = %+v", store.tasks[created.ID])
	}

	// cancel
	rr = doJSON(t, router, http.MethodDelete, "/scheduler/emails/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d", rr.Code)
	}
	if store.tasks[created.ID].Status != models.TaskCancelled {
		t.Errorf("status = %s, want cancelled", store.tasks[created.ID].Status)
	}

	// terminal task rejects further mutation
	rr = doJSON(t, router, http.MethodPut, "/scheduler/emails/"+created.ID, `{"subject":"s3"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("update cancelled: status = %d, want 400", rr.Code)
	}
	rr = doJSON(t, router, http.MethodDelete, "/scheduler/emails/"+created.ID, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("cancel cancelled: status = %d, want 400", rr.Code)
	}

	// unknown ids
	rr = doJSON(t, router, http.MethodGet, "/scheduler/emails/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get missing: status = %d, want 404", rr.Code)
	}
	rr = doJSON(t, router, http.MethodPut, "/scheduler/emails/missing", `{"subject":"x"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("update missing: status = %d, want 404", rr.Code)
	}
}

func TestTemplateEndpoints(t *testing.T) {
	router := newTestHandler(newFakeStore(), nil).Router()

	rr := doJSON(t, router, http.MethodGet, "/scheduler/templates", "")
	var list []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 5 {
		t.Errorf("listed %d templates, want 5", len(list))
	}

	rr = doJSON(t, router, http.MethodGet, "/scheduler/templates/welcome", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get welcome: status = %d", rr.Code)
	}

	rr = doJSON(t, router, http.MethodGet, "/scheduler/templates/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get unknown: status = %d, want 404", rr.Code)
	}
}

func TestPreviewRecipients(t *testing.T) {
	store := newFakeStore()
	store.users = append(store.users,
		models.User{ID: "u1", Email: "both@x.com", Tags: tags.Encode([]string{"a", "b"})},
		models.User{ID: "u2", Email: "one@x.com", Tags: tags.Encode([]string{"a"})},
	)
	router := newTestHandler(store, nil).Router()

	rr := doJSON(t, router, http.MethodGet, "/scheduler/preview-recipients?tags=a,%20b", "")

	var resp struct {
		Count int             `json:"count"`
		Users []recipientView `json:"users"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Users[0].Email != "both@x.com" {
		t.Errorf("preview = %+v", resp)
	}

	// no filter selects everyone
	rr = doJSON(t, router, http.MethodGet, "/scheduler/preview-recipients", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("unfiltered count = %d, want 2", resp.Count)
	}
}

func TestEmailLogsLimit(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 3; i++ {
		store.emailLogs = append(store.emailLogs, models.EmailLogWithUser{
			EmailLog:  models.EmailLog{ID: fmt.Sprintf("l%d", i), Status: models.EmailSent},
			UserEmail: "a@x.com",
		})
	}
	router := newTestHandler(store, nil).Router()

	rr := doJSON(t, router, http.MethodGet, "/scheduler/logs?limit=2", "")
	var logs []models.EmailLogWithUser
	if err := json.Unmarshal(rr.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("got %d logs, want 2", len(logs))
	}

	rr = doJSON(t, router, http.MethodGet, "/scheduler/logs?limit=zero", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d, want 400", rr.Code)
	}
}
