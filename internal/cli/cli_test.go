package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	appincidents "github.com/bryanwahyu/incident-lens/internal/application/incidents"
	"github.com/bryanwahyu/incident-lens/internal/bootstrap"
	"github.com/bryanwahyu/incident-lens/internal/config"
	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
	"github.com/bryanwahyu/incident-lens/internal/infra/db/sqlite"
)

type cannedAI struct{ reply string }

func (c cannedAI) Complete(context.Context, string) (string, error) { return c.reply, nil }

const pythonReply = `Summary: Python function crashed on import
Root Cause: requirements.txt pins numpy for the wrong platform
Suggested Fix: Unpin numpy or use a manylinux wheel
Runtime: python serverless function
Confidence: medium`

// newTestRoot wires every command to one shared SQLite file.
func newTestRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	opts := &Options{open: func(ctx context.Context, _ *config.Config) (*bootstrap.App, error) {
		db, err := sqlite.Open(ctx, dbPath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &bootstrap.App{DB: db, Service: &appincidents.Service{
			Logs:      sqlite.NewLogRepository(db),
			Incidents: sqlite.NewIncidentRepository(db),
			AI:        cannedAI{reply: pythonReply},
		}}, nil
	}}
	root := &cobra.Command{Use: "incidentctl", SilenceUsage: true, SilenceErrors: true}
	opts.AddFlags(root)
	root.AddCommand(NewAnalyzeCmd(opts), NewListCmd(opts), NewShowCmd(opts), NewDeleteCmd(opts))

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.PersistentFlags().Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
	return root, out
}

func run(t *testing.T, root *cobra.Command, out *bytes.Buffer, stdin string, args ...string) (string, error) {
	t.Helper()
	out.Reset()
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeShowListDelete(t *testing.T) {
	root, out := newTestRoot(t)

	text, err := run(t, root, out, "ImportError: numpy", "analyze", "-", "-o", "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var inc domain.Incident
	if err := json.Unmarshal([]byte(text), &inc); err != nil {
		t.Fatalf("analyze output is not json: %v\n%s", err, text)
	}
	if inc.Runtime != domain.RuntimePython || inc.Confidence != domain.ConfidenceMedium {
		t.Fatalf("unexpected incident %+v", inc)
	}

	text, err = run(t, root, out, "", "show", string(inc.ID), "-o", "yaml")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var shown struct {
		Incident domain.Incident `yaml:"incident"`
		Log      domain.Log      `yaml:"log"`
	}
	if err := yaml.Unmarshal([]byte(text), &shown); err != nil {
		t.Fatalf("show output is not yaml: %v\n%s", err, text)
	}
	if shown.Log.RawText != "ImportError: numpy" {
		t.Fatalf("expected raw log in show output, got %+v", shown.Log)
	}

	text, err = run(t, root, out, "", "list", "-o", "human")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(text, string(inc.ID)) || !strings.Contains(text, "Python function crashed") {
		t.Fatalf("list output missing incident:\n%s", text)
	}

	if _, err := run(t, root, out, "", "delete", string(inc.ID)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := run(t, root, out, "", "show", string(inc.ID)); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	root, out := newTestRoot(t)
	_, err := run(t, root, out, "   \n", "analyze")
	if err == nil || !strings.Contains(err.Error(), "Log text is required") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDisplay_Human(t *testing.T) {
	inc := &domain.Incident{
		ID:           "inc-1",
		Summary:      "Build failed",
		RootCause:    "Missing env var",
		SuggestedFix: "Set DATABASE_URL",
		Runtime:      domain.RuntimeNodeJS,
		Confidence:   domain.ConfidenceHigh,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	var buf bytes.Buffer
	if err := Display(&buf, incidentWithLog{Incident: inc, Log: &domain.Log{RawText: "line1\nline2"}}, "human"); err != nil {
		t.Fatalf("display: %v", err)
	}
	for _, want := range []string{"INCIDENT inc-1", "ROOT CAUSE:", "Missing env var", "SUGGESTED FIX:", "   line2"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := Display(&buf, []*domain.Incident{}, "human"); err != nil || !strings.Contains(buf.String(), "No incidents.") {
		t.Fatalf("unexpected empty list output %q (%v)", buf.String(), err)
	}

	if err := Display(&buf, inc, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
	}
	for _, test := range tests {
		if got := truncate(test.input, test.n); got != test.expected {
			t.Errorf("For input '%s', expected '%s', got '%s'", test.input, test.expected, got)
		}
	}
}

func TestVersion(t *testing.T) {
	root := NewRootCmd("v1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "incidentctl v1.2.3" {
		t.Fatalf("unexpected version output %q", out.String())
	}
}
