package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"GoAdvisorAI/app/models"
	"GoAdvisorAI/app/rag"
)

var (
	// ErrBlankInput rejects empty or whitespace-only submissions without
	// mutating the session.
	ErrBlankInput = errors.New("blank user input")

	// ErrInvalidTransition means the trigger is not valid for the current
	// stage, e.g. submitting after the interview completed.
	ErrInvalidTransition = errors.New("invalid transition")
)

const similarCasesHeader = "For reference, similar problems analysed before and their diagnoses:"

// Controller drives a session through its flow: append the user turn,
// inject the stage's hidden instruction, encode, call the completion
// collaborator, sanitize and store the reply, advance the stage. It is
// single-writer per session; callers must serialize submissions.
type Controller struct {
	flow  Flow
	model models.Interface
	cases rag.Interface
	opts  models.GenerationOptions
	topK  int
}

func NewController(flow Flow, model models.Interface, opts models.GenerationOptions) (*Controller, error) {
	if strings.TrimSpace(flow.Persona) == "" {
		return nil, errors.New("flow persona cannot be empty")
	}
	if len(flow.Stages) == 0 {
		return nil, errors.New("flow needs at least one stage")
	}
	for _, st := range flow.Stages {
		if strings.TrimSpace(st.Instruction) == "" {
			return nil, fmt.Errorf("stage %q has no instruction", st.Name)
		}
	}
	if model == nil {
		return nil, errors.New("completion model cannot be nil")
	}
	return &Controller{flow: flow, model: model, opts: opts}, nil
}

// WithCaseLibrary enriches the final stage instruction with the top-k most
// similar past cases and archives completed interviews.
func (c *Controller) WithCaseLibrary(cases rag.Interface, topK int) *Controller {
	if topK <= 0 {
		topK = 3
	}
	c.cases = cases
	c.topK = topK
	return c
}

// NewSession seeds a fresh log with the persona system message.
func (c *Controller) NewSession() *Session {
	return &Session{
		ID:  uuid.New(),
		Log: []models.Message{models.SystemMessage(c.flow.Persona)},
	}
}

// Reset discards the log and stage, re-seeding the persona. The session
// identity survives the restart.
func (c *Controller) Reset(s *Session) {
	s.Log = []models.Message{models.SystemMessage(c.flow.Persona)}
	s.Stage = 0
}

func (c *Controller) Done(s *Session) bool {
	return s.Stage >= len(c.flow.Stages)
}

func (c *Controller) StageName(s *Session) string {
	if c.Done(s) {
		return "completed"
	}
	return c.flow.Stages[s.Stage].Name
}

// Submit runs one user-triggered transition. On completion failure the
// user turn stays recorded, no assistant message is stored and the stage
// does not advance; invoking Submit again with the same text retries the
// transition without duplicating the user turn.
func (c *Controller) Submit(ctx context.Context, s *Session, input string) (string, error) {
	if c.Done(s) {
		return "", fmt.Errorf("%w: interview already completed, restart to begin a new analysis", ErrInvalidTransition)
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrBlankInput
	}

	// A failed completion leaves the user turn in the log; recognize the
	// retry so the same trigger is not recorded twice.
	last := s.Log[len(s.Log)-1]
	if last.Role != models.RoleUser || last.Content != input {
		s.Log = append(s.Log, models.UserMessage(input))
	}

	stage := c.flow.Stages[s.Stage]
	hidden := models.SystemMessage(c.stageInstruction(ctx, s, stage))

	encodeLog := make([]models.Message, 0, len(s.Log)+1)
	encodeLog = append(encodeLog, s.Log...)
	encodeLog = append(encodeLog, hidden)

	prompt, err := models.EncodePrompt(encodeLog, c.flow.Encoding)
	if err != nil {
		return "", err
	}

	opts := c.opts
	if stage.MaxNewTokens > 0 {
		opts.MaxNewTokens = stage.MaxNewTokens
	}
	reply, err := c.model.Generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}

	reply = models.Sanitize(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: endpoint produced an empty reply", models.ErrService)
	}

	if c.flow.PersistHiddenInstruction {
		s.Log = append(s.Log, hidden)
	}
	s.Log = append(s.Log, models.AssistantMessage(reply))
	s.Stage++

	if c.Done(s) {
		c.archiveCase(ctx, s, reply)
	}

	return reply, nil
}

// stageInstruction returns the stage directive, appending similar past
// cases when the case library is wired and this is the diagnosing stage.
func (c *Controller) stageInstruction(ctx context.Context, s *Session, stage StageSpec) string {
	if c.cases == nil || s.Stage != len(c.flow.Stages)-1 {
		return stage.Instruction
	}
	similar, err := c.cases.Search(ctx, s.Problem(), c.topK)
	if err != nil {
		log.Printf("⚠️ Case library search failed, continuing without context: %v", err)
		return stage.Instruction
	}
	if len(similar) == 0 {
		return stage.Instruction
	}
	var sb strings.Builder
	sb.WriteString(stage.Instruction)
	sb.WriteString("\n")
	sb.WriteString(similarCasesHeader)
	for _, cs := range similar {
		sb.WriteString(fmt.Sprintf("\n- Problem: %s | Diagnosis: %s", cs.Problem, cs.Diagnosis))
	}
	return sb.String()
}

func (c *Controller) archiveCase(ctx context.Context, s *Session, diagnosis string) {
	if c.cases == nil {
		return
	}
	err := c.cases.SaveCase(ctx, rag.Case{
		ID:        s.ID.String(),
		Problem:   s.Problem(),
		Diagnosis: diagnosis,
	})
	if err != nil {
		log.Printf("⚠️ Error archiving case for session %s: %v", s.ID, err)
	}
}
