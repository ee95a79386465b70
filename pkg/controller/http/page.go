package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"github.com/secmon-lab/owasprisk/pkg/utils/errutil"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
	"github.com/secmon-lab/owasprisk/pkg/utils/safe"
)

type optionField struct {
	Label    string
	Value    int
	Selected bool
}

type factorField struct {
	ID      types.FactorID
	Name    string
	Options []optionField
	Weight  int
}

type fieldGroup struct {
	Title  string
	Fields []factorField
}

type pageData struct {
	Groups    []fieldGroup
	MinWeight int
	MaxWeight int
	Eval      *model.Evaluation
	History   []historyRow
	Query     template.URL
	Error     string
}

type selectionEntry struct {
	Name   string
	Label  string
	Weight int
}

// historyRow is a saved assessment with its selections resolved to option
// labels in catalog order
type historyRow struct {
	*model.Assessment
	Selections []selectionEntry
}

func newHistoryRows(history []*model.Assessment) []historyRow {
	rows := make([]historyRow, len(history))
	for i, a := range history {
		row := historyRow{Assessment: a}
		for _, f := range model.Factors() {
			v, ok := a.Selection[f.ID]
			if !ok {
				continue
			}
			label := strconv.Itoa(v)
			if opt, ok := f.Option(v); ok {
				label = opt.Label
			}
			row.Selections = append(row.Selections, selectionEntry{
				Name:   f.Name,
				Label:  label,
				Weight: a.Weights.Of(f.ID),
			})
		}
		rows[i] = row
	}
	return rows
}

func newFieldGroup(title string, factors []model.Factor, input model.Input) fieldGroup {
	g := fieldGroup{Title: title, Fields: make([]factorField, len(factors))}
	for i, f := range factors {
		selected := input.Selection[f.ID]
		field := factorField{
			ID:      f.ID,
			Name:    f.Name,
			Options: make([]optionField, len(f.Options)),
			Weight:  input.Weights.Of(f.ID),
		}
		for j, opt := range f.Options {
			field.Options[j] = optionField{
				Label:    opt.Label,
				Value:    opt.Value,
				Selected: opt.Value == selected,
			}
		}
		g.Fields[i] = field
	}
	return g
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := model.SessionFromContext(ctx)
	status := http.StatusOK

	var (
		eval   *model.Evaluation
		errMsg string
	)
	input, err := s.requestInput(r)
	if err == nil {
		eval, err = s.assessmentUC.Evaluate(input)
	}
	if err != nil {
		if statusOf(err) != http.StatusBadRequest {
			handleError(ctx, w, err)
			return
		}
		logging.From(ctx).Warn("invalid form input", "error", err.Error())
		status = http.StatusBadRequest
		errMsg = err.Error()

		input = s.assessmentUC.DefaultInput()
		if eval, err = s.assessmentUC.Evaluate(input); err != nil {
			handleError(ctx, w, err)
			return
		}
	}
	s.metrics.observeEvaluation(eval.SeverityLevel)

	history, err := s.assessmentUC.History(ctx, session)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	data := pageData{
		Groups: []fieldGroup{
			newFieldGroup("Likelihood factors", model.LikelihoodFactors(), input),
			newFieldGroup("Impact factors", model.ImpactFactors(), input),
		},
		MinWeight: model.MinWeight,
		MaxWeight: model.MaxWeight,
		Eval:      eval,
		History:   newHistoryRows(history),
		Query:     template.URL(encodeInput(input)),
		Error:     errMsg,
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to render page"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	safe.Write(ctx, w, buf.Bytes())
}

// saveFormHandler saves the submitted form and sends the browser back to
// the page with the same input
func (s *Server) saveFormHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, err := s.requestInput(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	if _, err := s.assessmentUC.Save(ctx, model.SessionFromContext(ctx), input); err != nil {
		handleError(ctx, w, err)
		return
	}
	s.metrics.saved.Inc()

	http.Redirect(w, r, "/?"+encodeInput(input)+"#history", http.StatusSeeOther)
}
