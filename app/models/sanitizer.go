package models

import "strings"

// markerTokens are the exact delimiters the encoder writes into prompts.
// They are plain substrings, so the model can and does echo them back.
var markerTokens = []string{tokenBOS, tokenEOS, tokenInstOpen, tokenInstClose}

// Sanitize strips every occurrence of the four marker tokens from generated
// text and trims the result. Removal repeats until a fixpoint so that
// nested fragments like "<<s>s>" cannot survive a single pass; sanitizing
// already-sanitized text is a no-op.
func Sanitize(text string) string {
	for {
		next := text
		for _, token := range markerTokens {
			next = strings.ReplaceAll(next, token, "")
		}
		if next == text {
			break
		}
		text = next
	}
	return strings.TrimSpace(text)
}
