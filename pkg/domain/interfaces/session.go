package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

type SessionRepository interface {
	// Get retrieves a session by ID. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id types.SessionID) (*model.Session, error)

	// Put creates or replaces a session
	Put(ctx context.Context, session *model.Session) error

	// Delete removes a session together with its assessment history
	Delete(ctx context.Context, id types.SessionID) error

	// ListIdle returns IDs of sessions last seen before the given time
	ListIdle(ctx context.Context, before time.Time) ([]types.SessionID, error)
}
