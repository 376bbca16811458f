package incidents

import "strings"

const (
	DefaultSummary      = "Analysis completed"
	DefaultRootCause    = "Unable to determine specific root cause"
	DefaultSuggestedFix = "Review the logs for more details"
	DefaultRuntime      = RuntimeNodeJS
	DefaultConfidence   = ConfidenceMedium
)

// parseState is the mutable state of one ParseAnalysis call.
type parseState struct {
	section      Section
	summary      string
	rootCause    string
	suggestedFix string
	runtime      Runtime
	confidence   Confidence
}

// sectionRule is one row of the transition table. onHeader runs when a line opens the
// section, with the text after the header token; onBody runs for later non-blank lines.
type sectionRule struct {
	onHeader func(st *parseState, content string)
	onBody   func(st *parseState, line string)
}

var sectionRules = map[Section]sectionRule{
	SectionSummary: {
		onHeader: func(st *parseState, content string) {
			if content != "" {
				st.summary = content
			}
		},
		onBody: func(st *parseState, line string) {
			if st.summary == "" {
				st.summary = line
			}
		},
	},
	SectionRootCause: {
		onHeader: func(st *parseState, content string) {
			if content != "" {
				st.rootCause = content
			}
		},
		onBody: func(st *parseState, line string) {
			st.rootCause = joinProse(st.rootCause, line)
		},
	},
	SectionSuggestedFix: {
		onHeader: func(st *parseState, content string) {
			if content != "" {
				st.suggestedFix = content
			}
		},
		onBody: func(st *parseState, line string) {
			st.suggestedFix = joinProse(st.suggestedFix, line)
		},
	},
	SectionRuntime: {
		onHeader: func(st *parseState, content string) {
			st.runtime = ParseRuntime(content)
		},
	},
	SectionConfidence: {
		onHeader: func(st *parseState, content string) {
			st.confidence = ParseConfidence(content)
		},
	},
}

// ParseAnalysis converts a model reply into an Analysis. It never fails: fields the
// reply does not provide get their defaults.
func ParseAnalysis(raw string) Analysis {
	st := parseState{
		runtime:    DefaultRuntime,
		confidence: DefaultConfidence,
	}

	for _, line := range strings.Split(raw, "\n") {
		if section, content, ok := matchHeader(line); ok {
			st.section = section
			if rule := sectionRules[section]; rule.onHeader != nil {
				rule.onHeader(&st, content)
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if rule := sectionRules[st.section]; rule.onBody != nil {
			rule.onBody(&st, trimmed)
		}
	}

	a := Analysis{
		Summary:      st.summary,
		RootCause:    st.rootCause,
		SuggestedFix: st.suggestedFix,
		Runtime:      st.runtime,
		Confidence:   st.confidence,
	}
	if a.Summary == "" {
		a.Summary = DefaultSummary
	}
	if a.RootCause == "" {
		a.RootCause = DefaultRootCause
	}
	if a.SuggestedFix == "" {
		a.SuggestedFix = DefaultSuggestedFix
	}
	return a
}

// ParseRuntime resolves a runtime header body by keyword.
func ParseRuntime(s string) Runtime {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "edge"):
		return RuntimeEdge
	case strings.Contains(s, "python"):
		return RuntimePython
	case strings.Contains(s, "node"):
		return RuntimeNodeJS
	default:
		return RuntimeOther
	}
}

// ParseConfidence resolves a confidence header body by keyword.
func ParseConfidence(s string) Confidence {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "high"):
		return ConfidenceHigh
	case strings.Contains(s, "low"):
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

func joinProse(acc, line string) string {
	if acc == "" {
		return line
	}
	return acc + " " + line
}
