package incidents

import (
	"regexp"
	"strings"
)

// Section is a state of the reply scanner.
type Section int

const (
	SectionNone Section = iota
	SectionSummary
	SectionRootCause
	SectionSuggestedFix
	SectionRuntime
	SectionConfidence
)

func (s Section) String() string {
	switch s {
	case SectionSummary:
		return "summary"
	case SectionRootCause:
		return "root_cause"
	case SectionSuggestedFix:
		return "suggested_fix"
	case SectionRuntime:
		return "runtime"
	case SectionConfidence:
		return "confidence"
	default:
		return "none"
	}
}

// SectionSpec is one entry of the reply vocabulary shared by the prompt and the parser.
type SectionSpec struct {
	Section Section
	// Label is the header the prompt asks the model to write, e.g. "Root Cause".
	Label string
	// Hint is the placeholder shown after the label in the prompt.
	Hint string
	// Tokens are matched case-insensitively anywhere in a line, in order.
	Tokens []string
}

// Sections is in header priority order: the first spec with a matching token wins.
var Sections = []SectionSpec{
	{
		Section: SectionSummary,
		Label:   "Summary",
		Hint:    "1-2 sentence summary of the issue",
		Tokens:  []string{"summary:", "**summary"},
	},
	{
		Section: SectionRootCause,
		Label:   "Root Cause",
		Hint:    "Detailed explanation of what caused the issue",
		Tokens:  []string{"root cause:", "**root cause"},
	},
	{
		Section: SectionSuggestedFix,
		Label:   "Suggested Fix",
		Hint:    "Step-by-step actionable fix",
		Tokens:  []string{"suggested fix:", "**suggested fix", "fix:"},
	},
	{
		Section: SectionRuntime,
		Label:   "Runtime",
		Hint:    "nodejs, edge, python, or other",
		Tokens:  []string{"runtime:", "**runtime"},
	},
	{
		Section: SectionConfidence,
		Label:   "Confidence",
		Hint:    "high, medium, or low",
		Tokens:  []string{"confidence:", "**confidence"},
	},
}

type headerToken struct {
	section Section
	re      *regexp.Regexp
}

// headerTokens is Sections compiled once. Regexps are used instead of a lowercased copy
// so match offsets stay valid on the original line.
var headerTokens = compileHeaderTokens()

func compileHeaderTokens() [][]headerToken {
	out := make([][]headerToken, 0, len(Sections))
	for _, spec := range Sections {
		group := make([]headerToken, 0, len(spec.Tokens))
		for _, tok := range spec.Tokens {
			group = append(group, headerToken{
				section: spec.Section,
				re:      regexp.MustCompile(`(?i)` + regexp.QuoteMeta(tok)),
			})
		}
		out = append(out, group)
	}
	return out
}

// matchHeader reports the section a line opens and the text following the header token.
func matchHeader(line string) (Section, string, bool) {
	for _, group := range headerTokens {
		for _, tok := range group {
			loc := tok.re.FindStringIndex(line)
			if loc == nil {
				continue
			}
			return tok.section, strings.TrimSpace(trimHeaderTail(line[loc[1]:])), true
		}
	}
	return SectionNone, "", false
}

// trimHeaderTail drops the markdown and colon that close a header token ("**", ":", ":**")
// and leaves markup belonging to the content alone.
func trimHeaderTail(rest string) string {
	rest = strings.TrimPrefix(rest, "**")
	if t := strings.TrimLeft(rest, " \t"); strings.HasPrefix(t, ":") {
		rest = strings.TrimPrefix(t[1:], "**")
	}
	return rest
}
