package interfaces

import (
	"context"

	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// AssessmentRepository is the append-only history of saved assessments.
// There is intentionally no update or per-entry delete.
type AssessmentRepository interface {
	// Append stores a copy of the assessment at the end of the session history
	// and returns it with Seq assigned (1 for the first entry).
	Append(ctx context.Context, sessionID types.SessionID, assessment *model.Assessment) (*model.Assessment, error)

	// List returns the session history in save order
	List(ctx context.Context, sessionID types.SessionID) ([]*model.Assessment, error)
}
