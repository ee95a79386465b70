package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// maxRequestBody bounds JSON request bodies
const maxRequestBody = 64 << 10

type optionResponse struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type factorResponse struct {
	ID      types.FactorID    `json:"id"`
	Name    string            `json:"name"`
	Group   types.FactorGroup `json:"group"`
	Options []optionResponse  `json:"options"`
	Default int               `json:"default"`
}

type factorsResponse struct {
	Factors        []factorResponse `json:"factors"`
	MinWeight      int              `json:"min_weight"`
	MaxWeight      int              `json:"max_weight"`
	DefaultWeights model.Weights    `json:"default_weights"`
}

type inputRequest struct {
	Selection model.Selection `json:"selection"`
	Weights   model.Weights   `json:"weights"`
}

type factorResultResponse struct {
	ID             types.FactorID  `json:"id"`
	Name           string          `json:"name"`
	Selected       int             `json:"selected"`
	Label          string          `json:"label"`
	Weight         int             `json:"weight"`
	Score          int             `json:"score"`
	WeightedScore  int             `json:"weighted_score"`
	Level          types.RiskLevel `json:"level"`
	Color          string          `json:"color"`
	Recommendation string          `json:"recommendation"`
}

type evaluationResponse struct {
	Scores          []int                  `json:"scores"`
	WeightedScores  []int                  `json:"weighted_scores"`
	Likelihood      float64                `json:"likelihood"`
	Impact          float64                `json:"impact"`
	Severity        float64                `json:"severity"`
	LikelihoodLevel types.RiskLevel        `json:"likelihood_level"`
	ImpactLevel     types.RiskLevel        `json:"impact_level"`
	SeverityLevel   types.RiskLevel        `json:"severity_level"`
	Overall         string                 `json:"overall"`
	Factors         []factorResultResponse `json:"factors"`
}

type assessmentResponse struct {
	ID            types.AssessmentID `json:"id"`
	Seq           int64              `json:"seq"`
	Likelihood    float64            `json:"likelihood"`
	Impact        float64            `json:"impact"`
	Severity      float64            `json:"severity"`
	SeverityLevel types.RiskLevel    `json:"severity_level"`
	Selection     model.Selection    `json:"selection"`
	Weights       model.Weights      `json:"weights"`
	CreatedAt     time.Time          `json:"created_at"`
}

type historyResponse struct {
	Assessments []assessmentResponse `json:"assessments"`
}

func toEvaluationResponse(eval *model.Evaluation) evaluationResponse {
	resp := evaluationResponse{
		Scores:          eval.Score.Scores,
		WeightedScores:  eval.Score.WeightedScores,
		Likelihood:      eval.Score.Likelihood,
		Impact:          eval.Score.Impact,
		Severity:        eval.Score.Severity,
		LikelihoodLevel: eval.LikelihoodLevel,
		ImpactLevel:     eval.ImpactLevel,
		SeverityLevel:   eval.SeverityLevel,
		Overall:         eval.Overall,
		Factors:         make([]factorResultResponse, len(eval.Factors)),
	}
	for i, row := range eval.Factors {
		resp.Factors[i] = factorResultResponse{
			ID:             row.Factor.ID,
			Name:           row.Factor.Name,
			Selected:       row.Selected.Value,
			Label:          row.Selected.Label,
			Weight:         row.Weight,
			Score:          row.Score,
			WeightedScore:  row.WeightedScore,
			Level:          row.Level,
			Color:          row.Level.Color(),
			Recommendation: row.Recommendation,
		}
	}
	return resp
}

func toAssessmentResponse(a *model.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:            a.ID,
		Seq:           a.Seq,
		Likelihood:    a.Likelihood,
		Impact:        a.Impact,
		Severity:      a.Severity,
		SeverityLevel: a.SeverityLevel(),
		Selection:     a.Selection,
		Weights:       a.Weights,
		CreatedAt:     a.CreatedAt,
	}
}

func decodeInput(w http.ResponseWriter, r *http.Request) (model.Input, error) {
	var req inputRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return model.Input{}, goerr.Wrap(errBadRequest, "failed to decode request body", goerr.V("cause", err.Error()))
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return model.Input{}, goerr.Wrap(errBadRequest, "unexpected data after request body")
	}
	return model.Input{Selection: req.Selection, Weights: req.Weights}, nil
}

func (s *Server) apiFactorsHandler(w http.ResponseWriter, r *http.Request) {
	factors := model.Factors()
	resp := factorsResponse{
		Factors:        make([]factorResponse, len(factors)),
		MinWeight:      model.MinWeight,
		MaxWeight:      model.MaxWeight,
		DefaultWeights: s.assessmentUC.DefaultInput().Weights,
	}
	for i, f := range factors {
		opts := make([]optionResponse, len(f.Options))
		for j, opt := range f.Options {
			opts[j] = optionResponse{Label: opt.Label, Value: opt.Value}
		}
		resp.Factors[i] = factorResponse{
			ID:      f.ID,
			Name:    f.Name,
			Group:   f.Group,
			Options: opts,
			Default: f.Default().Value,
		}
	}

	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) apiEvaluateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, err := decodeInput(w, r)
	if err != nil {
		handleAPIError(ctx, w, err)
		return
	}

	eval, err := s.assessmentUC.Evaluate(input)
	if err != nil {
		handleAPIError(ctx, w, err)
		return
	}
	s.metrics.observeEvaluation(eval.SeverityLevel)

	writeJSON(ctx, w, http.StatusOK, toEvaluationResponse(eval))
}

func (s *Server) apiSaveHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, err := decodeInput(w, r)
	if err != nil {
		handleAPIError(ctx, w, err)
		return
	}

	saved, err := s.assessmentUC.Save(ctx, model.SessionFromContext(ctx), input)
	if err != nil {
		handleAPIError(ctx, w, err)
		return
	}
	s.metrics.saved.Inc()

	writeJSON(ctx, w, http.StatusCreated, toAssessmentResponse(saved))
}

func (s *Server) apiHistoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := s.assessmentUC.History(ctx, model.SessionFromContext(ctx))
	if err != nil {
		handleAPIError(ctx, w, err)
		return
	}

	resp := historyResponse{Assessments: make([]assessmentResponse, len(history))}
	for i, a := range history {
		resp.Assessments[i] = toAssessmentResponse(a)
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
