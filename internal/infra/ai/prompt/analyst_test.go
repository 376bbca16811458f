package prompt

import (
	"strings"
	"testing"

	"github.com/bryanwahyu/incident-lens/internal/domain/incidents"
)

func TestGetSystemPrompt_ListsEverySection(t *testing.T) {
	p := GetSystemPrompt()
	for _, s := range incidents.Sections {
		if !strings.Contains(p, s.Label+": [") {
			t.Errorf("system prompt is missing the %q header", s.Label)
		}
	}
}

// A reply that follows the prompt layout literally must parse back field by field.
func TestGetSystemPrompt_ReplyRoundTrip(t *testing.T) {
	values := map[incidents.Section]string{
		incidents.SectionSummary:      "Build failed",
		incidents.SectionRootCause:    "Missing dependency",
		incidents.SectionSuggestedFix: "run install",
		incidents.SectionRuntime:      "python",
		incidents.SectionConfidence:   "low",
	}
	var lines []string
	for _, s := range incidents.Sections {
		lines = append(lines, s.Label+": "+values[s.Section])
	}

	got := incidents.ParseAnalysis(strings.Join(lines, "\n\n"))
	want := incidents.Analysis{
		Summary:      "Build failed",
		RootCause:    "Missing dependency",
		SuggestedFix: "run install",
		Runtime:      incidents.RuntimePython,
		Confidence:   incidents.ConfidenceLow,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestGetUserPrompt_Verbatim(t *testing.T) {
	raw := "  12:00:01 ERROR  boom\n\ttrailing\t"
	if got := GetUserPrompt(raw); !strings.HasSuffix(got, raw) {
		t.Fatalf("expected raw log verbatim at the end, got %q", got)
	}
}
