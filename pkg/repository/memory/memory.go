package memory

import (
	"github.com/secmon-lab/owasprisk/pkg/domain/interfaces"
)

// ErrNotFound is the repository wide not-found error
var ErrNotFound = interfaces.ErrNotFound

type Memory struct {
	session    *sessionRepository
	assessment *assessmentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	assessmentRepo := newAssessmentRepository()

	return &Memory{
		session:    newSessionRepository(assessmentRepo),
		assessment: assessmentRepo,
	}
}

func (m *Memory) Session() interfaces.SessionRepository {
	return m.session
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) Close() error {
	return nil
}
