package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
)

// Display writes v as json, yaml or the human layout (the default).
// v is an *Incident, []*Incident, or incidentWithLog.
func Display(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(out))
		return err
	case "human", "":
	default:
		return fmt.Errorf("unknown output format %q (human, json, yaml)", format)
	}

	switch x := v.(type) {
	case *domain.Incident:
		displayIncident(w, x)
	case incidentWithLog:
		displayIncident(w, x.Incident)
		if x.Log != nil {
			color.New(color.FgWhite, color.Bold).Fprintln(w, "RAW LOG:")
			fmt.Fprintln(w, indent(x.Log.RawText, "   "))
			fmt.Fprintln(w)
		}
	case []*domain.Incident:
		displayList(w, x)
	default:
		return fmt.Errorf("cannot display %T", v)
	}
	return nil
}

// incidentWithLog is the show payload; Log is nil when its lookup failed.
type incidentWithLog struct {
	Incident *domain.Incident `json:"incident" yaml:"incident"`
	Log      *domain.Log      `json:"log" yaml:"log"`
}

func displayIncident(w io.Writer, inc *domain.Incident) {
	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	cyan.Fprintf(w, "INCIDENT %s\n", inc.ID)
	fmt.Fprintf(w, "   %s  runtime=%s  confidence=%s\n\n",
		inc.CreatedAt.Format("2006-01-02 15:04:05Z07:00"),
		inc.Runtime,
		confidenceColor(inc.Confidence).Sprint(inc.Confidence),
	)

	color.New(color.Bold).Fprintln(w, "SUMMARY:")
	fmt.Fprintf(w, "   %s\n\n", inc.Summary)

	red.Fprintln(w, "ROOT CAUSE:")
	fmt.Fprintf(w, "   %s\n\n", inc.RootCause)

	green.Fprintln(w, "SUGGESTED FIX:")
	fmt.Fprintf(w, "   %s\n\n", inc.SuggestedFix)
}

func displayList(w io.Writer, list []*domain.Incident) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No incidents.")
		return
	}
	for _, inc := range list {
		fmt.Fprintf(w, "%s  %s  %-6s  %s  %s\n",
			inc.ID,
			inc.CreatedAt.Format("2006-01-02 15:04"),
			inc.Runtime,
			confidenceColor(inc.Confidence).Sprintf("%-6s", inc.Confidence),
			truncate(inc.Summary, 60),
		)
	}
}

func confidenceColor(c domain.Confidence) *color.Color {
	switch c {
	case domain.ConfidenceHigh:
		return color.New(color.FgGreen)
	case domain.ConfidenceLow:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
