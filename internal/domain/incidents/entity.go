package incidents

import "time"

// LogID identifier type
type LogID string

// IncidentID identifier type
type IncidentID string

// Runtime enum
type Runtime string

const (
	RuntimeNodeJS Runtime = "nodejs"
	RuntimeEdge   Runtime = "edge"
	RuntimePython Runtime = "python"
	RuntimeOther  Runtime = "other"
)

// Confidence enum
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Log is the raw text submitted for analysis. It is written once and never updated.
type Log struct {
	ID        LogID     `json:"id" yaml:"id"`
	RawText   string    `json:"raw_text" yaml:"raw_text"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Analysis is the parsed model reply before it is stored as an Incident.
type Analysis struct {
	Summary      string     `json:"summary"`
	RootCause    string     `json:"root_cause"`
	SuggestedFix string     `json:"suggested_fix"`
	Runtime      Runtime    `json:"runtime"`
	Confidence   Confidence `json:"confidence"`
}

// Incident is the stored analysis result, linked to exactly one Log.
type Incident struct {
	ID           IncidentID `json:"id" yaml:"id"`
	LogID        LogID      `json:"log_id" yaml:"log_id"`
	Summary      string     `json:"summary" yaml:"summary"`
	RootCause    string     `json:"root_cause" yaml:"root_cause"`
	SuggestedFix string     `json:"suggested_fix" yaml:"suggested_fix"`
	Runtime      Runtime    `json:"runtime" yaml:"runtime"`
	Confidence   Confidence `json:"confidence" yaml:"confidence"`
	CreatedAt    time.Time  `json:"created_at" yaml:"created_at"`
}

// NewIncident merges a parsed analysis into an incident for the given log.
func NewIncident(id IncidentID, logID LogID, a Analysis, createdAt time.Time) *Incident {
	return &Incident{
		ID:           id,
		LogID:        logID,
		Summary:      a.Summary,
		RootCause:    a.RootCause,
		SuggestedFix: a.SuggestedFix,
		Runtime:      a.Runtime,
		Confidence:   a.Confidence,
		CreatedAt:    createdAt,
	}
}
