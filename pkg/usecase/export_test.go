package usecase

import "github.com/secmon-lab/owasprisk/pkg/domain/model"

// Complete is exported for testing
var Complete = func(uc *AssessmentUseCase, input model.Input) model.Input {
	return uc.complete(input)
}
