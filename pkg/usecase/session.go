package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
)

type SessionUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewSessionUseCase(repo interfaces.Repository, now func() time.Time) *SessionUseCase {
	return &SessionUseCase{
		repo: repo,
		now:  now,
	}
}

// Open returns the session identified by id and marks it as seen. A new
// session is created when id is empty, malformed or unknown (e.g. already
// swept).
func (uc *SessionUseCase) Open(ctx context.Context, id types.SessionID) (*model.Session, error) {
	now := uc.now()

	if id.Validate() == nil {
		session, err := uc.repo.Session().Get(ctx, id)
		switch {
		case err == nil:
			session.LastSeenAt = now
			if err := uc.repo.Session().Put(ctx, session); err != nil {
				return nil, goerr.Wrap(err, "failed to touch session", goerr.V(SessionIDKey, id))
			}
			return session, nil

		case !errors.Is(err, interfaces.ErrNotFound):
			return nil, goerr.Wrap(err, "failed to get session", goerr.V(SessionIDKey, id))
		}
	}

	session := model.NewSession(types.NewSessionID(), now)
	if err := uc.repo.Session().Put(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to create session", goerr.V(SessionIDKey, session.ID))
	}

	logging.From(ctx).Debug("session created", "session_id", session.ID)
	return session, nil
}

// Sweep deletes every session not seen within ttl along with its history
// and returns the number of sessions removed
func (uc *SessionUseCase) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	ids, err := uc.repo.Session().ListIdle(ctx, uc.now().Add(-ttl))
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list idle sessions")
	}

	removed := 0
	for _, id := range ids {
		if err := uc.repo.Session().Delete(ctx, id); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				continue
			}
			return removed, goerr.Wrap(err, "failed to delete idle session", goerr.V(SessionIDKey, id))
		}
		removed++
	}

	return removed, nil
}
