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

type assessmentDocument struct {
	ID         string         `firestore:"ID"`
	SessionID  string         `firestore:"SessionID"`
	Seq        int64          `firestore:"Seq"`
	Likelihood float64        `firestore:"Likelihood"`
	Impact     float64        `firestore:"Impact"`
	Severity   float64        `firestore:"Severity"`
	Selection  map[string]int `firestore:"Selection"`
	Weights    map[string]int `firestore:"Weights"`
	CreatedAt  time.Time      `firestore:"CreatedAt"`
}

func toAssessmentDocument(a *model.Assessment) *assessmentDocument {
	doc := &assessmentDocument{
		ID:         a.ID.String(),
		SessionID:  a.SessionID.String(),
		Seq:        a.Seq,
		Likelihood: a.Likelihood,
		Impact:     a.Impact,
		Severity:   a.Severity,
		Selection:  make(map[string]int, len(a.Selection)),
		Weights:    make(map[string]int, len(a.Weights)),
		CreatedAt:  a.CreatedAt,
	}
	for id, v := range a.Selection {
		doc.Selection[id.String()] = v
	}
	for id, w := range a.Weights {
		doc.Weights[id.String()] = w
	}
	return doc
}

func fromAssessmentDocument(d *assessmentDocument) *model.Assessment {
	a := &model.Assessment{
		ID:         types.AssessmentID(d.ID),
		SessionID:  types.SessionID(d.SessionID),
		Seq:        d.Seq,
		Likelihood: d.Likelihood,
		Impact:     d.Impact,
		Severity:   d.Severity,
		Selection:  make(model.Selection, len(d.Selection)),
		Weights:    make(model.Weights, len(d.Weights)),
		CreatedAt:  d.CreatedAt,
	}
	for id, v := range d.Selection {
		a.Selection[types.FactorID(id)] = v
	}
	for id, w := range d.Weights {
		a.Weights[types.FactorID(id)] = w
	}
	return a
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{client: client}
}

func (r *assessmentRepository) assessmentsCollection() string {
	return prefixed(r.collectionPrefix, "assessments")
}

func (r *assessmentRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *assessmentRepository) counterDoc(sessionID types.SessionID) string {
	return "assessment_" + sessionID.String()
}

// Append bumps the per-session counter and creates the assessment in one
// transaction so that Seq values are gapless and unique within a session.
func (r *assessmentRepository) Append(ctx context.Context, sessionID types.SessionID, assessment *model.Assessment) (*model.Assessment, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc(r.counterDoc(sessionID))
	stored := assessment.Copy()
	stored.SessionID = sessionID

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var seq int64 = 1
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to get counter")
			}
		} else {
			current, err := doc.DataAt("value")
			if err != nil {
				return goerr.Wrap(err, "failed to get counter value")
			}
			last, err := counterValue(current)
			if err != nil {
				return err
			}
			seq = last + 1
		}

		stored.Seq = seq
		if err := tx.Set(counterRef, map[string]interface{}{"value": seq}); err != nil {
			return goerr.Wrap(err, "failed to update counter")
		}

		docRef := r.client.Collection(r.assessmentsCollection()).Doc(stored.ID.String())
		return tx.Create(docRef, toAssessmentDocument(stored))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to append assessment",
			goerr.V("session_id", sessionID),
			goerr.V("assessment_id", stored.ID))
	}

	return stored, nil
}

func (r *assessmentRepository) List(ctx context.Context, sessionID types.SessionID) ([]*model.Assessment, error) {
	iter := r.client.Collection(r.assessmentsCollection()).
		Where("SessionID", "==", sessionID.String()).
		OrderBy("Seq", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Assessment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments", goerr.V("session_id", sessionID))
		}

		var ad assessmentDocument
		if err := doc.DataTo(&ad); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("doc_id", doc.Ref.ID))
		}
		result = append(result, fromAssessmentDocument(&ad))
	}

	return result, nil
}

// ErrInvalidCounter is returned when a sequence counter document holds
// something other than an integer
var ErrInvalidCounter = goerr.New("invalid assessment counter")

func counterValue(v any) (int64, error) {
	val, ok := v.(int64)
	if !ok {
		return 0, goerr.Wrap(ErrInvalidCounter, "counter value is not of type int64", goerr.V("value", v))
	}
	return val, nil
}

type writeJob interface {
	Results() (*firestore.WriteResult, error)
}

// waitJobs blocks until every job has finished and returns the first
// failure
func waitJobs(jobs []writeJob) error {
	var first error
	failed := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if first != nil {
		return goerr.Wrap(first, "bulk write failed", goerr.V("failed", failed), goerr.V("total", len(jobs)))
	}
	return nil
}

// drop deletes every assessment of the session and its counter. Deletes
// are batched; the call returns only after all of them have completed.
func (r *assessmentRepository) drop(ctx context.Context, sessionID types.SessionID) error {
	iter := r.client.Collection(r.assessmentsCollection()).
		Where("SessionID", "==", sessionID.String()).
		Documents(ctx)
	defer iter.Stop()

	bulkWriter := r.client.BulkWriter(ctx)
	var jobs []writeJob
	enqueue := func(ref *firestore.DocumentRef) error {
		job, err := bulkWriter.Delete(ref)
		if err != nil {
			return goerr.Wrap(err, "failed to enqueue delete", goerr.V("doc_id", ref.ID))
		}
		jobs = append(jobs, job)
		return nil
	}

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bulkWriter.End()
			return goerr.Wrap(err, "failed to iterate assessments for deletion", goerr.V("session_id", sessionID))
		}
		if err := enqueue(doc.Ref); err != nil {
			bulkWriter.End()
			return err
		}
	}

	if err := enqueue(r.client.Collection(r.counterCollection()).Doc(r.counterDoc(sessionID))); err != nil {
		bulkWriter.End()
		return err
	}
	bulkWriter.End()

	if err := waitJobs(jobs); err != nil {
		return goerr.Wrap(err, "failed to delete assessments", goerr.V("session_id", sessionID))
	}
	return nil
}
