package prompt

import (
	"strings"

	"github.com/bryanwahyu/incident-lens/internal/domain/incidents"
)

const systemPreamble = "You are an expert Vercel deployment incident analyst. Analyze logs and respond in this exact format:"

// GetSystemPrompt asks for the section layout ParseAnalysis reads. Both are driven by
// incidents.Sections.
func GetSystemPrompt() string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	for _, s := range incidents.Sections {
		b.WriteString("\n\n")
		b.WriteString(s.Label)
		b.WriteString(": [")
		b.WriteString(s.Hint)
		b.WriteString("]")
	}
	return b.String()
}

// GetUserPrompt wraps the raw log text. The log is passed through unmodified.
func GetUserPrompt(logText string) string {
	return "Analyze these deployment logs:\n\n" + logText
}
