package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type sessionDocument struct {
	ID         string    `firestore:"ID"`
	CreatedAt  time.Time `firestore:"CreatedAt"`
	LastSeenAt time.Time `firestore:"LastSeenAt"`
}

type sessionRepository struct {
	client           *firestore.Client
	collectionPrefix string
	assessments      *assessmentRepository
}

func newSessionRepository(client *firestore.Client, assessments *assessmentRepository) *sessionRepository {
	return &sessionRepository{
		client:      client,
		assessments: assessments,
	}
}

func (r *sessionRepository) sessionsCollection() string {
	return prefixed(r.collectionPrefix, "sessions")
}

func (r *sessionRepository) Get(ctx context.Context, id types.SessionID) (*model.Session, error) {
	doc, err := r.client.Collection(r.sessionsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("session_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("session_id", id))
	}

	var sd sessionDocument
	if err := doc.DataTo(&sd); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("session_id", id))
	}

	return &model.Session{
		ID:         types.SessionID(sd.ID),
		CreatedAt:  sd.CreatedAt,
		LastSeenAt: sd.LastSeenAt,
	}, nil
}

func (r *sessionRepository) Put(ctx context.Context, session *model.Session) error {
	doc := &sessionDocument{
		ID:         session.ID.String(),
		CreatedAt:  session.CreatedAt,
		LastSeenAt: session.LastSeenAt,
	}

	if _, err := r.client.Collection(r.sessionsCollection()).Doc(session.ID.String()).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put session", goerr.V("session_id", session.ID))
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id types.SessionID) error {
	docRef := r.client.Collection(r.sessionsCollection()).Doc(id.String())
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "session not found", goerr.V("session_id", id))
		}
		return goerr.Wrap(err, "failed to get session", goerr.V("session_id", id))
	}

	if err := r.assessments.drop(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete session history", goerr.V("session_id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("session_id", id))
	}
	return nil
}

func (r *sessionRepository) ListIdle(ctx context.Context, before time.Time) ([]types.SessionID, error) {
	iter := r.client.Collection(r.sessionsCollection()).
		Where("LastSeenAt", "<", before).
		OrderBy("LastSeenAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var ids []types.SessionID
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate idle sessions")
		}

		var sd sessionDocument
		if err := doc.DataTo(&sd); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("doc_id", doc.Ref.ID))
		}
		ids = append(ids, types.SessionID(sd.ID))
	}

	return ids, nil
}
