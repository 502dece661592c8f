package bundler

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// formatMessages renders esbuild messages as multi-line strings. The first
// line is the location, the second the message text, the rest context.
func formatMessages(msgs []api.Message) []string {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, formatMessage(m))
	}
	return out
}

func formatMessage(m api.Message) string {
	lines := []string{messageOrigin(m), m.Text}
	if loc := m.Location; loc != nil && loc.LineText != "" {
		lines = append(lines, "    "+loc.LineText)
		if loc.Suggestion != "" {
			lines = append(lines, "    suggestion: "+loc.Suggestion)
		}
	}
	for _, note := range m.Notes {
		text := note.Text
		if note.Location != nil {
			text = fmt.Sprintf("%s:%d:%d: %s", note.Location.File, note.Location.Line, note.Location.Column, text)
		}
		lines = append(lines, "    note: "+text)
	}
	return strings.Join(lines, "\n")
}

func messageOrigin(m api.Message) string {
	if loc := m.Location; loc != nil {
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
	}
	if m.PluginName != "" {
		return m.PluginName
	}
	return EsbuildName
}

// joinMessages flattens messages into a single line.
func joinMessages(msgs []api.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.Text)
	}
	return strings.Join(parts, "; ")
}
