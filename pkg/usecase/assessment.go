package usecase

import (
	"context"
	"maps"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/service/archive"
	"github.com/secmon-lab/owasprisk/pkg/service/chart"
	"github.com/secmon-lab/owasprisk/pkg/service/report"
	"github.com/secmon-lab/owasprisk/pkg/utils/async"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
)

type AssessmentUseCase struct {
	repo           interfaces.Repository
	defaultWeights model.Weights
	archive        interfaces.ReportArchive
	now            func() time.Time
}

func NewAssessmentUseCase(repo interfaces.Repository, defaultWeights model.Weights, archive interfaces.ReportArchive, now func() time.Time) *AssessmentUseCase {
	return &AssessmentUseCase{
		repo:           repo,
		defaultWeights: defaultWeights,
		archive:        archive,
		now:            now,
	}
}

// DefaultInput is the input a new form starts with: the first option of
// every factor and the configured default weights
func (uc *AssessmentUseCase) DefaultInput() model.Input {
	return model.Input{
		Selection: model.DefaultSelection(),
		Weights:   maps.Clone(uc.defaultWeights),
	}
}

// complete fills weights the caller left out with the configured defaults
func (uc *AssessmentUseCase) complete(input model.Input) model.Input {
	out := input.Clone()
	if out.Selection == nil {
		out.Selection = model.Selection{}
	}
	weights := maps.Clone(uc.defaultWeights)
	maps.Copy(weights, out.Weights)
	out.Weights = weights
	return out
}

// Evaluate scores the input. Nothing is persisted.
func (uc *AssessmentUseCase) Evaluate(input model.Input) (*model.Evaluation, error) {
	eval, err := model.Evaluate(uc.complete(input))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate input")
	}
	return eval, nil
}

// Save appends a snapshot of the evaluated input to the session history
func (uc *AssessmentUseCase) Save(ctx context.Context, session *model.Session, input model.Input) (*model.Assessment, error) {
	if session == nil {
		return nil, goerr.Wrap(ErrSessionRequired, "cannot save assessment")
	}

	eval, err := uc.Evaluate(input)
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Assessment().Append(ctx, session.ID, model.NewAssessment(session.ID, eval, uc.now()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save assessment", goerr.V(SessionIDKey, session.ID))
	}

	logging.From(ctx).Info("assessment saved",
		"assessment_id", saved.ID,
		"seq", saved.Seq,
		"severity", saved.Severity)

	return saved, nil
}

// History returns the assessments saved in the session, oldest first
func (uc *AssessmentUseCase) History(ctx context.Context, session *model.Session) ([]*model.Assessment, error) {
	if session == nil {
		return nil, goerr.Wrap(ErrSessionRequired, "cannot list assessments")
	}

	history, err := uc.repo.Assessment().List(ctx, session.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(SessionIDKey, session.ID))
	}
	return history, nil
}

// Report renders the evaluated input as PDF. When an archive is configured
// and a session is given, a copy is stored in the background.
func (uc *AssessmentUseCase) Report(ctx context.Context, session *model.Session, input model.Input) ([]byte, error) {
	eval, err := uc.Evaluate(input)
	if err != nil {
		return nil, err
	}

	data, err := report.Build(eval)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build report")
	}

	if uc.archive != nil && session != nil {
		name := archive.ObjectName(session.ID, uc.now())
		async.Dispatch(ctx, func(ctx context.Context) error {
			location, err := uc.archive.Put(ctx, name, data)
			if err != nil {
				return goerr.Wrap(err, "failed to archive report", goerr.V(SessionIDKey, session.ID))
			}
			logging.From(ctx).Info("report archived", "location", location)
			return nil
		})
	}

	return data, nil
}

// RadarChart renders the weighted factor scores of the input as PNG
func (uc *AssessmentUseCase) RadarChart(input model.Input) ([]byte, error) {
	eval, err := uc.Evaluate(input)
	if err != nil {
		return nil, err
	}

	data, err := chart.Radar(eval)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render radar chart")
	}
	return data, nil
}

// MatrixChart renders the input on the likelihood/impact plane together
// with the saved history of the session, if any
func (uc *AssessmentUseCase) MatrixChart(ctx context.Context, session *model.Session, input model.Input) ([]byte, error) {
	eval, err := uc.Evaluate(input)
	if err != nil {
		return nil, err
	}

	var history []*model.Assessment
	if session != nil {
		history, err = uc.History(ctx, session)
		if err != nil {
			return nil, err
		}
	}

	data, err := chart.Matrix(eval, history)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render risk matrix")
	}
	return data, nil
}
