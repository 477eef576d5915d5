package model

import "time"

// RunStatus represents the current state of an assessment run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusProjecting RunStatus = "projecting"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Run is one ledger entry: a document processed into an artifact.
type Run struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	Status       RunStatus `json:"status"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	HazardLetter string    `json:"hazard_letter,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StageResult records the outcome of one pipeline stage.
type StageResult struct {
	Name     string `json:"name"`
	Duration int64  `json:"duration_ms"`
	Degraded int    `json:"degraded,omitempty"`
}

// Assessment is the outcome of one pipeline run.
type Assessment struct {
	RunID         string        `json:"run_id,omitempty"`
	Document      Document      `json:"document"`
	ChemicalNames []string      `json:"chemical_names"`
	HazardCodes   []string      `json:"hazard_codes"`
	HazardLetter  string        `json:"hazard_letter"`
	Records       *RecordSet    `json:"records"`
	Stages        []StageResult `json:"stages"`
	ArtifactPath  string        `json:"artifact_path"`
}
