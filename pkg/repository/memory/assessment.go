package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

type assessmentRepository struct {
	mu      sync.RWMutex
	history map[types.SessionID][]*model.Assessment
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		history: make(map[types.SessionID][]*model.Assessment),
	}
}

func (r *assessmentRepository) Append(ctx context.Context, sessionID types.SessionID, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := assessment.Copy()
	stored.SessionID = sessionID
	stored.Seq = int64(len(r.history[sessionID]) + 1)

	r.history[sessionID] = append(r.history[sessionID], stored)
	return stored.Copy(), nil
}

func (r *assessmentRepository) List(ctx context.Context, sessionID types.SessionID) ([]*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.history[sessionID]
	result := make([]*model.Assessment, 0, len(entries))
	for _, a := range entries {
		result = append(result, a.Copy())
	}
	return result, nil
}

func (r *assessmentRepository) drop(sessionID types.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.history, sessionID)
}
