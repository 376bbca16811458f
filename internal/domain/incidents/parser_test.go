package incidents

import (
	"strings"
	"testing"
)

func TestParseAnalysis_FiveSections(t *testing.T) {
	raw := "Summary: Build failed\n\nRoot Cause: Missing dependency\n\nSuggested Fix: run install\n\nRuntime: nodejs\n\nConfidence: high"

	got := ParseAnalysis(raw)
	want := Analysis{
		Summary:      "Build failed",
		RootCause:    "Missing dependency",
		SuggestedFix: "run install",
		Runtime:      RuntimeNodeJS,
		Confidence:   ConfidenceHigh,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestParseAnalysis_DefaultsWithoutHeaders(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t\n",
		"the model rambled about something else entirely",
		"\x00\x01\xff\xfe binary-ish \x7f",
		"Summary without colon\nRoot cause unknown",
	}
	want := Analysis{
		Summary:      DefaultSummary,
		RootCause:    DefaultRootCause,
		SuggestedFix: DefaultSuggestedFix,
		Runtime:      RuntimeNodeJS,
		Confidence:   ConfidenceMedium,
	}
	for _, in := range inputs {
		if got := ParseAnalysis(in); got != want {
			t.Errorf("For input %q, expected defaults %+v, got %+v", in, want, got)
		}
	}
}

func TestParseAnalysis_MultiLineProse(t *testing.T) {
	raw := strings.Join([]string{
		"Summary: Deploy crashed on boot",
		"Root Cause:",
		"  The DATABASE_URL env var is missing.  ",
		"",
		"Prisma cannot connect at startup.",
		"Suggested Fix:",
		"1. Add DATABASE_URL in project settings",
		"2. Redeploy",
		"",
		"3. Verify the health check",
		"Runtime: Node.js 20",
		"Confidence: low",
	}, "\n")

	got := ParseAnalysis(raw)
	if got.RootCause != "The DATABASE_URL env var is missing. Prisma cannot connect at startup." {
		t.Errorf("unexpected root cause: %q", got.RootCause)
	}
	if got.SuggestedFix != "1. Add DATABASE_URL in project settings 2. Redeploy 3. Verify the health check" {
		t.Errorf("unexpected suggested fix: %q", got.SuggestedFix)
	}
	if got.Runtime != RuntimeNodeJS {
		t.Errorf("expected nodejs, got %s", got.Runtime)
	}
	if got.Confidence != ConfidenceLow {
		t.Errorf("expected low, got %s", got.Confidence)
	}
}

func TestParseAnalysis_SummaryKeepsFirstLine(t *testing.T) {
	raw := "Summary:\n\nFirst sentence.\nSecond sentence.\n"
	got := ParseAnalysis(raw)
	if got.Summary != "First sentence." {
		t.Fatalf("expected first body line, got %q", got.Summary)
	}
}

func TestParseAnalysis_SummaryHeaderContentWins(t *testing.T) {
	raw := "Summary: inline\nignored follow-up"
	if got := ParseAnalysis(raw).Summary; got != "inline" {
		t.Fatalf("expected inline summary, got %q", got)
	}
}

func TestParseAnalysis_MarkdownHeaders(t *testing.T) {
	raw := strings.Join([]string{
		"**Summary:** Function timed out",
		"**Root Cause:** The handler waits on an upstream API",
		"**Suggested Fix:** Raise maxDuration",
		"**Runtime:** Edge",
		"**Confidence:** High",
	}, "\n")

	got := ParseAnalysis(raw)
	want := Analysis{
		Summary:      "Function timed out",
		RootCause:    "The handler waits on an upstream API",
		SuggestedFix: "Raise maxDuration",
		Runtime:      RuntimeEdge,
		Confidence:   ConfidenceHigh,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestParseAnalysis_ContentMarkdownKept(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"**Root Cause:** *null* pointer", "*null* pointer"},
		{"**Root Cause**: *null* pointer", "*null* pointer"},
		{"**Root Cause** : `nil` map", "`nil` map"},
		{"Root Cause: **OOM** in worker", "**OOM** in worker"},
	}
	for _, tt := range tests {
		if got := ParseAnalysis(tt.line).RootCause; got != tt.want {
			t.Errorf("For line '%s', expected '%s', got '%s'", tt.line, tt.want, got)
		}
	}
}

// Keywords before the header token are not part of the header body.
func TestParseAnalysis_KeywordsBeforeHeaderIgnored(t *testing.T) {
	got := ParseAnalysis("Edge runtime: yes\nHigh confidence: yes")
	if got.Runtime != RuntimeOther {
		t.Errorf("expected other, got %s", got.Runtime)
	}
	if got.Confidence != ConfidenceMedium {
		t.Errorf("expected medium, got %s", got.Confidence)
	}
}

func TestParseAnalysis_HeaderMidLine(t *testing.T) {
	raw := "Root Cause: a stale lockfile\nThe suggested fix: restart the service"
	got := ParseAnalysis(raw)
	if got.RootCause != "a stale lockfile" {
		t.Errorf("unexpected root cause: %q", got.RootCause)
	}
	if got.SuggestedFix != "restart the service" {
		t.Errorf("unexpected suggested fix: %q", got.SuggestedFix)
	}
}

func TestParseAnalysis_HeaderPriority(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Section
	}{
		{"fix before confidence", "fix: pin the version, confidence: high", SectionSuggestedFix},
		{"root cause before fix", "Root cause: fix: was never applied", SectionRootCause},
		{"summary first", "runtime: edge summary: cold start", SectionSummary},
		{"runtime before confidence", "Confidence: low Runtime: python", SectionRuntime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := matchHeader(tt.line)
			if !ok {
				t.Fatalf("expected a header match for %q", tt.line)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseAnalysis_FixTieBreakKeepsConfidenceDefault(t *testing.T) {
	got := ParseAnalysis("fix: pin the version, confidence: high")
	if got.Confidence != ConfidenceMedium {
		t.Errorf("confidence header on a fix line must not be read, got %s", got.Confidence)
	}
	if got.SuggestedFix != "pin the version, confidence: high" {
		t.Errorf("unexpected suggested fix: %q", got.SuggestedFix)
	}
}

func TestParseAnalysis_RuntimeKeywords(t *testing.T) {
	tests := []struct {
		line string
		want Runtime
	}{
		{"Runtime: nodejs", RuntimeNodeJS},
		{"Runtime: Node 18", RuntimeNodeJS},
		{"Runtime: edge", RuntimeEdge},
		{"Runtime: Edge (middleware), not node", RuntimeEdge},
		{"Runtime: Python 3.12", RuntimePython},
		{"Runtime: go", RuntimeOther},
		{"Runtime:", RuntimeOther},
	}
	for _, tt := range tests {
		if got := ParseAnalysis(tt.line).Runtime; got != tt.want {
			t.Errorf("For line '%s', expected '%s', got '%s'", tt.line, tt.want, got)
		}
	}
}

func TestParseAnalysis_ConfidenceKeywords(t *testing.T) {
	tests := []struct {
		line string
		want Confidence
	}{
		{"Confidence: high", ConfidenceHigh},
		{"Confidence: HIGH - logs are explicit", ConfidenceHigh},
		{"Confidence: low", ConfidenceLow},
		{"Confidence: medium", ConfidenceMedium},
		{"Confidence: unsure", ConfidenceMedium},
	}
	for _, tt := range tests {
		if got := ParseAnalysis(tt.line).Confidence; got != tt.want {
			t.Errorf("For line '%s', expected '%s', got '%s'", tt.line, tt.want, got)
		}
	}
}

func TestParseAnalysis_RuntimeBodyLinesIgnored(t *testing.T) {
	got := ParseAnalysis("Runtime:\npython\nConfidence:\nhigh")
	if got.Runtime != RuntimeOther {
		t.Errorf("expected other, got %s", got.Runtime)
	}
	if got.Confidence != ConfidenceMedium {
		t.Errorf("expected medium, got %s", got.Confidence)
	}
}

func TestParseAnalysis_LinesBeforeFirstHeaderIgnored(t *testing.T) {
	got := ParseAnalysis("Here is my analysis.\n\nSummary: OOM during build")
	if got.Summary != "OOM during build" {
		t.Fatalf("unexpected summary: %q", got.Summary)
	}
}

func TestParseAnalysis_CRLF(t *testing.T) {
	got := ParseAnalysis("Summary: Build failed\r\nRoot Cause: Missing dependency\r\n")
	if got.Summary != "Build failed" || got.RootCause != "Missing dependency" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseAnalysis_Idempotent(t *testing.T) {
	raw := "Summary: x\nRoot Cause:\na\nb\nFix: c\nRuntime: python\nConfidence: low"
	first := ParseAnalysis(raw)
	second := ParseAnalysis(raw)
	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestParseRuntime_Empty(t *testing.T) {
	if got := ParseRuntime(""); got != RuntimeOther {
		t.Fatalf("expected other, got %s", got)
	}
}
