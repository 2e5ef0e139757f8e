package runtime

import (
	"context"
	"errors"
	"log"

	"GoAdvisorAI/app/dialogue"
)

const (
	SubmitMessage  = "submit_message"
	ResetSession   = "reset_session"
	ShowTranscript = "show_transcript"
)

// Event is one connector-originated trigger. Reply carries the answer back
// to wherever the user is talking from.
type Event struct {
	Kind       string
	SessionKey string
	Text       string
	Reply      func(text string)
}

func (ev Event) reply(text string) {
	if ev.Reply != nil {
		ev.Reply(text)
	}
}

var eventHandlers = map[string]func(r *Runtime, ev Event){
	SubmitMessage: func(r *Runtime, ev Event) {
		st := r.sessionFor(context.Background(), ev.SessionKey)

		r.mu.Lock()
		if st.busy {
			r.mu.Unlock()
			ev.reply("⏳ Still thinking about your previous message, one moment…")
			return
		}
		st.busy = true
		r.mu.Unlock()

		go r.process(ev, st)
	},
	ResetSession: func(r *Runtime, ev Event) {
		st := r.sessionFor(context.Background(), ev.SessionKey)

		r.mu.Lock()
		if st.busy {
			r.mu.Unlock()
			ev.reply("⏳ Still thinking, try restarting in a moment…")
			return
		}
		r.controller.Reset(st.session)
		r.mu.Unlock()

		r.persist(context.Background(), ev.SessionKey, st.session)
		ev.reply("🔄 Started a new analysis. Please describe your problem.")
	},
	ShowTranscript: func(r *Runtime, ev Event) {
		st := r.sessionFor(context.Background(), ev.SessionKey)

		// process mutates the log while busy is set; only read it idle.
		r.mu.Lock()
		if st.busy {
			r.mu.Unlock()
			ev.reply("⏳ Still thinking, ask for the transcript in a moment…")
			return
		}
		transcript := dialogue.Transcript(st.session)
		r.mu.Unlock()

		if transcript == "" {
			transcript = "Nothing discussed yet."
		}
		ev.reply(transcript)
	},
}

func (r *Runtime) process(ev Event, st *sessionState) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	reply, err := r.controller.Submit(ctx, st.session, ev.Text)
	done := err == nil && r.controller.Done(st.session)

	// The user turn stays recorded on failure; resubmitting retries the
	// transition. The session stays busy until the log is persisted, so no
	// other event observes it mid-write.
	r.persist(context.Background(), ev.SessionKey, st.session)

	r.mu.Lock()
	st.busy = false
	r.mu.Unlock()

	if err != nil {
		log.Printf("❌ Submission failed for session %s: %v", ev.SessionKey, err)
		ev.reply(submitFailureMessage(err))
		return
	}

	ev.reply(reply)
	if done {
		ev.reply("✅ Here is my analysis. Send `!restart` to start a new one.")
	}
}

func submitFailureMessage(err error) string {
	switch {
	case errors.Is(err, dialogue.ErrBlankInput):
		return "Please write a few words about the problem first."
	case errors.Is(err, dialogue.ErrInvalidTransition):
		return "This analysis is finished. Send `!restart` to begin a new one."
	default:
		return "⚠️ The assistant could not answer, please send your message again."
	}
}
