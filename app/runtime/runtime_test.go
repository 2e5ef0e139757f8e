package runtime

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"GoAdvisorAI/app/dialogue"
	"GoAdvisorAI/app/models"
	"GoAdvisorAI/app/storage"
)

type memStorage struct {
	mu   sync.Mutex
	recs map[string]storage.SessionRecord
}

func newMemStorage() *memStorage {
	return &memStorage{recs: map[string]storage.SessionRecord{}}
}

func (m *memStorage) SaveSession(_ context.Context, rec storage.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.Key] = rec
	return nil
}

func (m *memStorage) LoadSession(_ context.Context, key string) (*storage.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memStorage) DeleteSession(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, key)
	return nil
}

func testController(t *testing.T, model models.Interface) *dialogue.Controller {
	t.Helper()
	flow := dialogue.Flow{
		Persona:                  "persona",
		Encoding:                 models.EncodingInterleave,
		PersistHiddenInstruction: true,
		Stages: []dialogue.StageSpec{
			{Name: "awaiting_problem", Instruction: "clarify"},
			{Name: "awaiting_clarification", Instruction: "diagnose"},
		},
	}
	c, err := dialogue.NewController(flow, model, models.GenerationOptions{})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	return c
}

func waitReply(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case text := <-ch:
		return text
	case <-time.After(2 * time.Second):
		t.Fatal("no reply within 2s")
		return ""
	}
}

func TestRuntimeQueueEvent(t *testing.T) {
	r := NewRuntime(testController(t, &models.MockModel{}), nil, 0)
	r.QueueEvent(Event{Kind: SubmitMessage})
	if len(r.events) != 1 {
		t.Fatalf("unexpected event queue length: %d", len(r.events))
	}
}

func TestRuntimeSubmitEvent(t *testing.T) {
	model := &models.MockModel{}
	model.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("a clarifying question", nil).Once()

	db := newMemStorage()
	r := NewRuntime(testController(t, model), db, 0)

	replies := make(chan string, 4)
	r.handleEvent(Event{
		Kind:       SubmitMessage,
		SessionKey: "chan-1",
		Text:       "printer jams daily",
		Reply:      func(text string) { replies <- text },
	})

	if got := waitReply(t, replies); got != "a clarifying question" {
		t.Fatalf("unexpected reply: %q", got)
	}

	rec, _ := db.LoadSession(context.Background(), "chan-1")
	if rec == nil || rec.Stage != 1 {
		t.Fatalf("session not persisted after submit: %#v", rec)
	}
	if len(rec.Messages) != 4 {
		t.Fatalf("unexpected persisted log: %#v", rec.Messages)
	}
}

func TestRuntimeRejectsConcurrentSubmit(t *testing.T) {
	model := &models.MockModel{}
	r := NewRuntime(testController(t, model), newMemStorage(), 0)

	st := r.sessionFor(context.Background(), "chan-1")
	st.busy = true

	replies := make(chan string, 1)
	r.handleEvent(Event{
		Kind:       SubmitMessage,
		SessionKey: "chan-1",
		Text:       "second message",
		Reply:      func(text string) { replies <- text },
	})

	if got := waitReply(t, replies); !strings.Contains(got, "Still thinking") {
		t.Fatalf("in-flight session accepted a second submit: %q", got)
	}
	model.AssertNotCalled(t, "Generate")
}

func TestRuntimeResetEvent(t *testing.T) {
	model := &models.MockModel{}
	model.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("a reply", nil).Once()

	db := newMemStorage()
	r := NewRuntime(testController(t, model), db, 0)

	replies := make(chan string, 4)
	reply := func(text string) { replies <- text }

	r.handleEvent(Event{Kind: SubmitMessage, SessionKey: "chan-1", Text: "problem", Reply: reply})
	waitReply(t, replies)

	r.handleEvent(Event{Kind: ResetSession, SessionKey: "chan-1", Reply: reply})
	if got := waitReply(t, replies); !strings.Contains(got, "new analysis") {
		t.Fatalf("unexpected reset reply: %q", got)
	}

	rec, _ := db.LoadSession(context.Background(), "chan-1")
	if rec == nil || rec.Stage != 0 || len(rec.Messages) != 1 {
		t.Fatalf("reset did not reseed the stored session: %#v", rec)
	}
}

func TestRuntimeTranscriptEvent(t *testing.T) {
	model := &models.MockModel{}
	model.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("a reply", nil).Once()

	r := NewRuntime(testController(t, model), newMemStorage(), 0)

	replies := make(chan string, 4)
	reply := func(text string) { replies <- text }

	r.handleEvent(Event{Kind: SubmitMessage, SessionKey: "chan-1", Text: "problem", Reply: reply})
	waitReply(t, replies)

	r.handleEvent(Event{Kind: ShowTranscript, SessionKey: "chan-1", Reply: reply})
	got := waitReply(t, replies)
	if !strings.Contains(got, "**user**: problem") || !strings.Contains(got, "**assistant**: a reply") {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestRuntimeTranscriptWaitsForInFlightSubmit(t *testing.T) {
	model := &models.MockModel{}
	model.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(50 * time.Millisecond) }).
		Return("a reply", nil).Once()

	db := newMemStorage()
	r := NewRuntime(testController(t, model), db, 0)

	replies := make(chan string, 4)
	reply := func(text string) { replies <- text }

	// Dispatch a transcript request right behind a submit, the way the
	// event loop would; the log must not be read while Submit appends to it.
	r.handleEvent(Event{Kind: SubmitMessage, SessionKey: "chan-1", Text: "problem", Reply: reply})
	r.handleEvent(Event{Kind: ShowTranscript, SessionKey: "chan-1", Reply: reply})

	if got := waitReply(t, replies); !strings.Contains(got, "Still thinking") {
		t.Fatalf("transcript served while a submission was in flight: %q", got)
	}
	if got := waitReply(t, replies); got != "a reply" {
		t.Fatalf("unexpected submit reply: %q", got)
	}

	// The session was already persisted when the submit reply arrived.
	rec, _ := db.LoadSession(context.Background(), "chan-1")
	if rec == nil || rec.Stage != 1 {
		t.Fatalf("session not persisted before release: %#v", rec)
	}

	r.handleEvent(Event{Kind: ShowTranscript, SessionKey: "chan-1", Reply: reply})
	if got := waitReply(t, replies); !strings.Contains(got, "**assistant**: a reply") {
		t.Fatalf("unexpected transcript after completion: %q", got)
	}
}

func TestRuntimeResumesFromStorage(t *testing.T) {
	db := newMemStorage()
	db.SaveSession(context.Background(), storage.SessionRecord{
		Key:       "chan-1",
		SessionID: "not-a-uuid",
		Stage:     1,
		Messages: []storage.MessageRecord{
			{Role: "system", Content: "persona"},
			{Role: "user", Content: "problem"},
			{Role: "assistant", Content: "a question"},
		},
	})

	r := NewRuntime(testController(t, &models.MockModel{}), db, 0)
	st := r.sessionFor(context.Background(), "chan-1")
	if st.session.Stage != 1 || len(st.session.Log) != 3 {
		t.Fatalf("session not resumed: stage=%d log=%d", st.session.Stage, len(st.session.Log))
	}
}
