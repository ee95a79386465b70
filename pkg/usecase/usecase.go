package usecase

import (
	"maps"
	"time"

	"github.com/secmon-lab/owasprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
)

type UseCases struct {
	repo           interfaces.Repository
	archive        interfaces.ReportArchive
	defaultWeights model.Weights
	now            func() time.Time

	Assessment *AssessmentUseCase
	Session    *SessionUseCase
}

type Option func(*UseCases)

// WithDefaultWeights replaces the weight every factor starts with. Factors
// not present in weights keep model.DefaultWeight.
func WithDefaultWeights(weights model.Weights) Option {
	return func(uc *UseCases) {
		uc.defaultWeights = maps.Clone(weights)
	}
}

// WithReportArchive stores a copy of every report generated for a session
func WithReportArchive(archive interfaces.ReportArchive) Option {
	return func(uc *UseCases) {
		uc.archive = archive
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	weights := model.DefaultWeights()
	maps.Copy(weights, uc.defaultWeights)

	uc.Assessment = NewAssessmentUseCase(repo, weights, uc.archive, uc.now)
	uc.Session = NewSessionUseCase(repo, uc.now)

	return uc
}
