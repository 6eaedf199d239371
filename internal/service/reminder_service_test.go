package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/troopops/task-tracker/internal/client"
	"github.com/troopops/task-tracker/internal/models"
)

type markCall struct {
	taskID string
	kind   models.ReminderKind
}

// fakeReminderStore mimics the repository's window query against an
// in-memory task slice, including the completed-status exclusion.
type fakeReminderStore struct {
	tasks     []models.Task
	assignees map[string][]models.TaskAssignee
	marked    []markCall

	dueErr  error
	markErr error
}

func (f *fakeReminderStore) DueWithin(start, end time.Time) ([]models.Task, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	out := []models.Task{}
	for _, t := range f.tasks {
		if t.DueDate == nil || t.Status == models.StatusCompleted {
			continue
		}
		if t.DueDate.Before(start) || t.DueDate.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeReminderStore) AssigneesForTasks(taskIDs []string) (map[string][]models.TaskAssignee, error) {
	out := make(map[string][]models.TaskAssignee)
	for _, id := range taskIDs {
		if as, ok := f.assignees[id]; ok {
			out[id] = as
		}
	}
	return out, nil
}

func (f *fakeReminderStore) MarkReminderSent(id string, kind models.ReminderKind) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, markCall{taskID: id, kind: kind})
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		switch kind {
		case models.Reminder3Days:
			f.tasks[i].Reminder3DSent = true
		case models.Reminder1Day:
			f.tasks[i].Reminder1DSent = true
		case models.ReminderDue:
			f.tasks[i].ReminderDueSent = true
		}
	}
	return nil
}

type fakeMailer struct {
	sent    []client.Email
	failFor map[string]error
}

func (m *fakeMailer) Send(_ context.Context, email client.Email) (client.Result, error) {
	m.sent = append(m.sent, email)
	if err, ok := m.failFor[email.To]; ok {
		return client.Result{}, err
	}
	return client.Result{Delivered: true}, nil
}

func dueAt(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}

var sweepNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestSweepSendsThreeDayReminder(t *testing.T) {
	store := &fakeReminderStore{
		tasks: []models.Task{{
			ID:      "task-1",
			Title:   "Clean the armory",
			Status:  models.StatusAssigned,
			DueDate: dueAt(sweepNow.Add(72 * time.Hour)),
		}},
		assignees: map[string][]models.TaskAssignee{
			"task-1": {{ID: "u1", Name: "Pat Doe", Email: "pat@example.com"}},
		},
	}
	mailer := &fakeMailer{}
	svc := NewReminderService(store, mailer, "")

	sent, err := svc.RunSweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 attempt, got %d", sent)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "pat@example.com" {
		t.Fatalf("unexpected deliveries: %#v", mailer.sent)
	}
	if len(store.marked) != 1 || store.marked[0] != (markCall{"task-1", models.Reminder3Days}) {
		t.Fatalf("unexpected flag commits: %#v", store.marked)
	}
	if store.tasks[0].Reminder1DSent || store.tasks[0].ReminderDueSent {
		t.Fatalf("other flags must stay false: %#v", store.tasks[0])
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	store := &fakeReminderStore{
		tasks: []models.Task{{
			ID:      "task-1",
			Title:   "Inventory check",
			Status:  models.StatusPending,
			DueDate: dueAt(sweepNow.Add(24 * time.Hour)),
		}},
		assignees: map[string][]models.TaskAssignee{
			"task-1": {{ID: "u1", Name: "Pat Doe", Email: "pat@example.com"}},
		},
	}
	mailer := &fakeMailer{}
	svc := NewReminderService(store, mailer, "")

	first, err := svc.RunSweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	second, err := svc.RunSweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}

	if first != 1 || second != 0 {
		t.Fatalf("expected 1 then 0 attempts, got %d then %d", first, second)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one delivery total, got %d", len(mailer.sent))
	}
}

func TestSweepSkipsCompletedTasks(t *testing.T) {
	store := &fakeReminderStore{
		tasks: []models.Task{{
			ID:      "task-1",
			Title:   "Old drill",
			Status:  models.StatusCompleted,
			DueDate: dueAt(sweepNow.Add(72 * time.Hour)),
		}},
		assignees: map[string][]models.TaskAssignee{
			"task-1": {{ID: "u1", Name: "Pat Doe", Email: "pat@example.com"}},
		},
	}
	mailer := &fakeMailer{}
	svc := NewReminderService(store, mailer, "")

	sent, err := svc.RunSweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if sent != 0 || len(store.marked) != 0 {
		t.Fatalf("completed task must be ignored: sent=%d marked=%#v", sent, store.marked)
	}
}

func TestSweepWithNoAssigneesStillMarksFlag(t *testing.T) {
	store := &fakeReminderStore{
		tasks: []models.Task{{
			ID:      "task-1",
			Title:   "Unassigned chore",
			Status:  models.StatusPending,
			DueDate: dueAt(sweepNow),
		}},
		assignees: map[string][]models.TaskAssignee{},
	}
	mailer := &fakeMailer{}
	svc := NewReminderService(store, mailer, "")

	sent, err := svc.RunSweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected 0 attempts, got %d", sent)
	}
	if len(store.marked) != 1 || store.marked[0].kind != models.ReminderDue {
		t.Fatalf("due flag must still be committed: %#v", store.marked)
	}
}

func TestSweepSkipsAssigneesWithoutEmail(t *testing.T) {
	store := &fakeReminderStore{
		tasks: []models.Task{{
			ID:      "task-1",
			Title:   "Field report",
			Status:  models.StatusInProgress,
			DueDate: dueAt(sweepNow),
		}},
		assignees: map[string][]models.TaskAssignee{
			"task-1": {
				{ID: "u1", Name: "Pat Doe", Email: "pat@example.com"},
				{ID: "u2", Name: "No Email"},
			},
		},
	}
	mailer := &fakeMailer{}
	svc := NewReminderService(store, mailer, "")

	sent, err := svc.RunSweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", sent)
	}
	if len(store.marked) != 1 || store.marked[0].kind != models.ReminderDue {
		t.Fatalf("unexpected flag commits: %#v", store.marked)
	}
}

func TestSweepDeliveryFailureDoesNotBlockOthers(t *testing.T) {
	store := &fakeReminderStore{
		tasks: []models.Task{{
			ID:      "task-1",
			Title:   "Supply run",
			Status:  models.StatusAssigned,
			DueDate: dueAt(sweepNow.Add(24 * time.Hour)),
		}},
		assignees: map[string][]models.TaskAssignee{
			"task-1": {
				{ID: "u1", Name: "Pat Doe", Email: "pat@example.com"},
				{ID: "u2", Name: "Sam Roe", Email: "sam@example.com"},
			},
		},
	}
	mailer := &fakeMailer{failFor: map[string]error{"pat@example.com": errors.New("smtp down")}}
	svc := NewReminderService(store, mailer, "")

	sent, err := svc.RunSweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if sent != 2 {
		t.Fatalf("both recipients must be attempted, got %d", sent)
	}
	// Attempted counts as sent: the flag commits even though one send failed.
	if len(store.marked) != 1 || store.marked[0].kind != models.Reminder1Day {
		t.Fatalf("flag must commit despite failure: %#v", store.marked)
	}
}

func TestSweepEmbedsTaskLink(t *testing.T) {
	store := &fakeReminderStore{
		tasks: []models.Task{{
			ID:      "task-1",
			Title:   "Range day",
			Status:  models.StatusAssigned,
			DueDate: dueAt(sweepNow.Add(72 * time.Hour)),
		}},
		assignees: map[string][]models.TaskAssignee{
			"task-1": {{ID: "u1", Name: "Pat Doe", Email: "pat@example.com"}},
		},
	}
	mailer := &fakeMailer{}
	svc := NewReminderService(store, mailer, "http://tracker.local/")

	if _, err := svc.RunSweep(context.Background(), sweepNow); err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(mailer.sent))
	}
	if !strings.Contains(mailer.sent[0].HTML, `href="http://tracker.local/tasks/task-1"`) {
		t.Fatalf("reminder body must link to the task: %s", mailer.sent[0].HTML)
	}
}

func TestSweepAbortsOnStorageReadFailure(t *testing.T) {
	store := &fakeReminderStore{dueErr: fmt.Errorf("db gone")}
	svc := NewReminderService(store, &fakeMailer{}, "")

	if _, err := svc.RunSweep(context.Background(), sweepNow); err == nil {
		t.Fatal("expected error when the store read fails")
	}
}

func TestReminderKindClassification(t *testing.T) {
	cases := []struct {
		name     string
		due      time.Duration
		sent3d   bool
		sent1d   bool
		sentDue  bool
		wantKind models.ReminderKind
		wantOK   bool
	}{
		{name: "exactly three days", due: 72 * time.Hour, wantKind: models.Reminder3Days, wantOK: true},
		{name: "2.1 days rounds up to three", due: time.Duration(2.1 * 24 * float64(time.Hour)), wantKind: models.Reminder3Days, wantOK: true},
		{name: "exactly one day", due: 24 * time.Hour, wantKind: models.Reminder1Day, wantOK: true},
		{name: "due now", due: 0, wantKind: models.ReminderDue, wantOK: true},
		{name: "two full days is silent", due: 48 * time.Hour, wantOK: false},
		{name: "three days already sent", due: 72 * time.Hour, sent3d: true, wantOK: false},
		{name: "one day already sent", due: 24 * time.Hour, sent1d: true, wantOK: false},
		{name: "due already sent", due: 0, sentDue: true, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := models.Task{
				ID:              "task-1",
				DueDate:         dueAt(sweepNow.Add(tc.due)),
				Reminder3DSent:  tc.sent3d,
				Reminder1DSent:  tc.sent1d,
				ReminderDueSent: tc.sentDue,
			}
			kind, _, ok := reminderKindFor(task, sweepNow)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && kind != tc.wantKind {
				t.Fatalf("kind = %q, want %q", kind, tc.wantKind)
			}
		})
	}
}

func TestReminderKindWithoutDueDate(t *testing.T) {
	if _, _, ok := reminderKindFor(models.Task{ID: "t"}, sweepNow); ok {
		t.Fatal("task without due date must never classify")
	}
}
