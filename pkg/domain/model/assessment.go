package model

import (
	"maps"
	"time"

	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// Assessment is an immutable snapshot of a score saved by the user. Seq is
// assigned by the repository and orders the session history.
type Assessment struct {
	ID         types.AssessmentID
	SessionID  types.SessionID
	Seq        int64
	Likelihood float64
	Impact     float64
	Severity   float64
	Selection  Selection
	Weights    Weights
	CreatedAt  time.Time
}

// NewAssessment snapshots an evaluation for a session
func NewAssessment(sessionID types.SessionID, eval *Evaluation, now time.Time) *Assessment {
	return &Assessment{
		ID:         types.NewAssessmentID(),
		SessionID:  sessionID,
		Likelihood: eval.Score.Likelihood,
		Impact:     eval.Score.Impact,
		Severity:   eval.Score.Severity,
		Selection:  maps.Clone(eval.Input.Selection),
		Weights:    maps.Clone(eval.Input.Weights),
		CreatedAt:  now,
	}
}

// SeverityLevel classifies the saved severity
func (a *Assessment) SeverityLevel() types.RiskLevel {
	return types.Classify(a.Severity)
}

// Input reconstructs the input the assessment was computed from
func (a *Assessment) Input() Input {
	return Input{
		Selection: maps.Clone(a.Selection),
		Weights:   maps.Clone(a.Weights),
	}
}

// Copy returns a deep copy of the assessment
func (a *Assessment) Copy() *Assessment {
	c := *a
	c.Selection = maps.Clone(a.Selection)
	c.Weights = maps.Clone(a.Weights)
	return &c
}
