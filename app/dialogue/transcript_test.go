package dialogue

import (
	"strings"
	"testing"

	"GoAdvisorAI/app/models"
)

func TestTranscriptOmitsSystemMessages(t *testing.T) {
	s := &Session{
		Log: []models.Message{
			models.SystemMessage("persona"),
			models.UserMessage("printer jams daily"),
			models.SystemMessage("hidden instruction"),
			models.AssistantMessage("Which paper size?"),
		},
	}
	got := Transcript(s)
	want := "**user**: printer jams daily\n\n**assistant**: Which paper size?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTranscriptStripsMarkup(t *testing.T) {
	s := &Session{
		Log: []models.Message{
			models.UserMessage("hello"),
			models.AssistantMessage("<b>bold</b> advice"),
		},
	}
	if got := Transcript(s); !strings.Contains(got, "bold advice") || strings.Contains(got, "<b>") {
		t.Fatalf("markup not stripped: %q", got)
	}
}

func TestTranscriptEmptySession(t *testing.T) {
	model := &models.MockModel{}
	c, _ := NewController(testFlow(true), model, models.GenerationOptions{})
	s := c.NewSession()
	if got := Transcript(s); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}

func TestTreeShowsStageAndTurns(t *testing.T) {
	model := &models.MockModel{}
	c, _ := NewController(testFlow(true), model, models.GenerationOptions{})
	s := c.NewSession()
	s.Log = append(s.Log, models.UserMessage("printer jams daily"))

	got := c.Tree(s)
	for _, fragment := range []string{"stage: awaiting_problem", "turns", "user: printer jams daily"} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("tree missing %q:\n%s", fragment, got)
		}
	}
	if strings.Contains(got, "quality manager") {
		t.Fatalf("tree leaked a system message:\n%s", got)
	}
}
