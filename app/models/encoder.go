package models

import (
	"fmt"
	"strings"
)

// Encoding selects the wire format produced by EncodePrompt. The two
// conventions are mutually incompatible flat-prompt layouts for the same
// dialogue; which one the deployed model expects is a configuration choice.
type Encoding string

const (
	// EncodingInterleave walks the log in order and emits one instruction
	// block per system or user message, assistant replies in between.
	EncodingInterleave Encoding = "interleave"
	// EncodingMerged folds every system message into a single preamble and
	// places the newest user turn in the opening block, with earlier
	// user/assistant pairs encoded after it in chronological order.
	EncodingMerged Encoding = "merged"
)

const (
	tokenBOS       = "<s>"
	tokenEOS       = "</s>"
	tokenInstOpen  = "[INST]"
	tokenInstClose = "[/INST]"
)

// EncodePrompt maps an ordered message list to the single instruction-tagged
// string the completion endpoint consumes. Output is deterministic and never
// empty; an empty log or an unrecognized role fails with ErrEncoding.
func EncodePrompt(messages []Message, encoding Encoding) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: empty message list", ErrEncoding)
	}
	switch encoding {
	case EncodingInterleave, "":
		return encodeInterleave(messages)
	case EncodingMerged:
		return encodeMerged(messages)
	default:
		return "", fmt.Errorf("%w: unknown encoding %q", ErrEncoding, encoding)
	}
}

func instructionBlock(sb *strings.Builder, content string) {
	sb.WriteString(tokenBOS)
	sb.WriteString(tokenInstOpen)
	sb.WriteString(" ")
	sb.WriteString(content)
	sb.WriteString(" ")
	sb.WriteString(tokenInstClose)
}

func encodeInterleave(messages []Message) (string, error) {
	var sb strings.Builder
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		switch m.Role {
		case RoleSystem, RoleUser:
			instructionBlock(&sb, content)
		case RoleAssistant:
			sb.WriteString(" ")
			sb.WriteString(content)
			sb.WriteString(" ")
		default:
			return "", fmt.Errorf("%w: unknown role %q", ErrEncoding, m.Role)
		}
	}
	// The trailing space marks where the model continues the dialogue.
	sb.WriteString(" ")
	return sb.String(), nil
}

type turnPair struct {
	user      string
	assistant string
	answered  bool
}

func encodeMerged(messages []Message) (string, error) {
	var preambleParts []string
	var pairs []turnPair
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		switch m.Role {
		case RoleSystem:
			preambleParts = append(preambleParts, content)
		case RoleUser:
			pairs = append(pairs, turnPair{user: content})
		case RoleAssistant:
			if len(pairs) == 0 || pairs[len(pairs)-1].answered {
				return "", fmt.Errorf("%w: assistant reply without a preceding user turn", ErrEncoding)
			}
			pairs[len(pairs)-1].assistant = content
			pairs[len(pairs)-1].answered = true
		default:
			return "", fmt.Errorf("%w: unknown role %q", ErrEncoding, m.Role)
		}
	}

	// The opening block always carries the merged preamble plus the latest
	// user turn; history follows in chronological turn-pair form. The
	// endpoint is sensitive to this newest-first layout.
	opening := strings.Join(preambleParts, "\n")
	var latest turnPair
	var history []turnPair
	if n := len(pairs); n > 0 {
		latest = pairs[n-1]
		history = pairs[:n-1]
		if opening != "" {
			opening += "\n"
		}
		opening += latest.user
	}

	var sb strings.Builder
	instructionBlock(&sb, opening)
	if latest.answered {
		// Log ended on an assistant reply; keep it as continuation context.
		sb.WriteString(" ")
		sb.WriteString(latest.assistant)
		sb.WriteString(" ")
	}
	for _, p := range history {
		if p.answered {
			sb.WriteString(" ")
			sb.WriteString(p.assistant)
			sb.WriteString(" ")
		}
		instructionBlock(&sb, p.user)
	}
	sb.WriteString(" ")
	return sb.String(), nil
}
