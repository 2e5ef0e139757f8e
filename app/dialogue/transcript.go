package dialogue

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"GoAdvisorAI/app/models"
	"GoAdvisorAI/app/utils"
)

// Transcript projects the log into role-labelled markdown paragraphs,
// omitting system messages. Pure read-only view, no state machine impact.
func Transcript(s *Session) string {
	var parts []string
	for _, m := range s.Log {
		if m.Role == models.RoleSystem {
			continue
		}
		parts = append(parts, fmt.Sprintf("**%s**: %s", m.Role, utils.StripHTML(m.Content)))
	}
	return strings.Join(parts, "\n\n")
}

const treeContentWidth = 80

// Tree renders the session for console inspection.
func (c *Controller) Tree(s *Session) string {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("session %s", s.ID))
	tree.AddNode("stage: " + c.StageName(s))
	turns := tree.AddBranch("turns")
	for _, m := range s.Log {
		if m.Role == models.RoleSystem {
			continue
		}
		turns.AddNode(fmt.Sprintf("%s: %s", m.Role, utils.Truncate(m.Content, treeContentWidth)))
	}
	return tree.String()
}
