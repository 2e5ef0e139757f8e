package runtime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"GoAdvisorAI/app/dialogue"
	"GoAdvisorAI/app/models"
	"GoAdvisorAI/app/storage"
)

const defaultSubmitTimeout = 180 * time.Second

// Runtime owns the live sessions and funnels connector events through a
// single queue. Each session accepts one in-flight submission at a time;
// a second submit while the model call is outstanding is rejected.
type Runtime struct {
	mu         sync.Mutex
	controller *dialogue.Controller
	db         storage.Interface
	events     chan Event
	sessions   map[string]*sessionState
	timeout    time.Duration
}

type sessionState struct {
	session *dialogue.Session
	busy    bool
}

func NewRuntime(controller *dialogue.Controller, db storage.Interface, timeout time.Duration) *Runtime {
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}
	return &Runtime{
		controller: controller,
		db:         db,
		events:     make(chan Event, 100),
		sessions:   map[string]*sessionState{},
		timeout:    timeout,
	}
}

func (r *Runtime) Start() {
	for {
		select {
		case ev := <-r.events:
			r.handleEvent(ev)
		default:
			time.Sleep(100 * time.Millisecond)
		}
	}
}

func (r *Runtime) QueueEvent(event Event) {
	select {
	case r.events <- event:
	default:
		log.Print("⚠️ Event queue is full, dropping event")
	}
}

func (r *Runtime) handleEvent(ev Event) {
	handler, ok := eventHandlers[ev.Kind]
	if !ok {
		log.Printf("⚠️ Unknown event kind: %s", ev.Kind)
		return
	}
	handler(r, ev)
}

// sessionFor returns the live state for a connector key, resuming from
// storage when the process restarted mid-interview.
func (r *Runtime) sessionFor(ctx context.Context, key string) *sessionState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.sessions[key]; ok {
		return st
	}

	session := r.loadSession(ctx, key)
	if session == nil {
		session = r.controller.NewSession()
	}
	st := &sessionState{session: session}
	r.sessions[key] = st
	return st
}

func (r *Runtime) loadSession(ctx context.Context, key string) *dialogue.Session {
	if r.db == nil {
		return nil
	}
	rec, err := r.db.LoadSession(ctx, key)
	if err != nil {
		log.Printf("⚠️ Error loading session %s, starting fresh: %v", key, err)
		return nil
	}
	if rec == nil {
		return nil
	}

	id, err := uuid.Parse(rec.SessionID)
	if err != nil {
		id = uuid.New()
	}
	session := &dialogue.Session{ID: id, Stage: rec.Stage}
	for _, m := range rec.Messages {
		msg, err := models.NewMessage(models.Role(m.Role), m.Content)
		if err != nil {
			log.Printf("⚠️ Dropping stored message with bad role %q for session %s", m.Role, key)
			continue
		}
		session.Log = append(session.Log, msg)
	}
	if len(session.Log) == 0 {
		return nil
	}
	return session
}

func (r *Runtime) persist(ctx context.Context, key string, session *dialogue.Session) {
	if r.db == nil {
		return
	}
	rec := storage.SessionRecord{
		Key:       key,
		SessionID: session.ID.String(),
		Stage:     session.Stage,
		UpdatedAt: time.Now().UTC(),
	}
	for _, m := range session.Log {
		rec.Messages = append(rec.Messages, storage.MessageRecord{Role: string(m.Role), Content: m.Content})
	}
	if err := r.db.SaveSession(ctx, rec); err != nil {
		log.Printf("⚠️ Error persisting session %s: %v", key, err)
	}
}
