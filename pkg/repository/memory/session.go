package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

type sessionRepository struct {
	mu          sync.RWMutex
	sessions    map[types.SessionID]*model.Session
	assessments *assessmentRepository
}

func newSessionRepository(assessments *assessmentRepository) *sessionRepository {
	return &sessionRepository{
		sessions:    make(map[types.SessionID]*model.Session),
		assessments: assessments,
	}
}

func (r *sessionRepository) Get(ctx context.Context, id types.SessionID) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("session_id", id))
	}

	copied := *s
	return &copied, nil
}

func (r *sessionRepository) Put(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id types.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return goerr.Wrap(ErrNotFound, "session not found", goerr.V("session_id", id))
	}

	delete(r.sessions, id)
	r.assessments.drop(id)
	return nil
}

func (r *sessionRepository) ListIdle(ctx context.Context, before time.Time) ([]types.SessionID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []types.SessionID
	for id, s := range r.sessions {
		if s.LastSeenAt.Before(before) {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
