package http

import (
	"net/http"
	"strconv"

	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/service/chart"
	"github.com/secmon-lab/owasprisk/pkg/service/report"
	"github.com/secmon-lab/owasprisk/pkg/utils/safe"
)

func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, err := s.requestInput(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	data, err := s.assessmentUC.Report(ctx, model.SessionFromContext(ctx), input)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	s.metrics.reports.Inc()

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	safe.Write(ctx, w, data)
}

func (s *Server) radarHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, err := s.requestInput(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	data, err := s.assessmentUC.RadarChart(input)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	writePNG(w, r, data)
}

func (s *Server) matrixHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, err := s.requestInput(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	data, err := s.assessmentUC.MatrixChart(ctx, model.SessionFromContext(ctx), input)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	writePNG(w, r, data)
}

func writePNG(w http.ResponseWriter, r *http.Request, data []byte) {
	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	safe.Write(r.Context(), w, data)
}
