package dialogue

import (
	"github.com/google/uuid"

	"GoAdvisorAI/app/models"
)

// Flow is the injectable shape of one structured interview: a persona system
// message plus the ordered hidden instructions driving each stage. The state
// machine itself never hardcodes instruction wording, so the same controller
// can run any staged interview.
type Flow struct {
	Persona                  string
	Stages                   []StageSpec
	Encoding                 models.Encoding
	PersistHiddenInstruction bool
}

// StageSpec names one stage and carries the system directive appended when
// the user submits during it. MaxNewTokens of 0 keeps the model default.
type StageSpec struct {
	Name         string
	Instruction  string
	MaxNewTokens int
}

// Session is the explicit (log, stage) pair a controller operates on. The
// log is append-only and owned by the controller; Stage indexes into the
// flow's stage list and equals its length once the interview is complete.
type Session struct {
	ID    uuid.UUID
	Log   []models.Message
	Stage int
}

// Problem returns the user's original problem statement, the first user
// turn in the log.
func (s *Session) Problem() string {
	for _, m := range s.Log {
		if m.Role == models.RoleUser {
			return m.Content
		}
	}
	return ""
}

// LastReply returns the most recent assistant turn.
func (s *Session) LastReply() string {
	for i := len(s.Log) - 1; i >= 0; i-- {
		if s.Log[i].Role == models.RoleAssistant {
			return s.Log[i].Content
		}
	}
	return ""
}
