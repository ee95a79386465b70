package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	httpctrl "github.com/secmon-lab/owasprisk/pkg/controller/http"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/repository/memory"
	"github.com/secmon-lab/owasprisk/pkg/usecase"
)

type testServer struct {
	handler http.Handler
	metrics *httpctrl.Metrics
	cookie  *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	uc := usecase.New(memory.New())
	metrics := httpctrl.NewMetrics()
	srv, err := httpctrl.New(uc.Assessment, uc.Session, httpctrl.WithMetrics(metrics))
	gt.NoError(t, err).Required()

	return &testServer{handler: srv, metrics: metrics}
}

// do sends a request carrying the session cookie of earlier responses
func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == httpctrl.SessionCookieName {
			s.cookie = c
		}
	}
	return rec
}

func highValues() url.Values {
	values := url.Values{}
	for _, f := range model.Factors() {
		values.Set("factor."+f.ID.String(), "9")
	}
	return values
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	gt.NoError(t, err).Required()
	return bytes.NewReader(data)
}

func TestIndex(t *testing.T) {
	t.Run("renders all sections and sets session cookie", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Header().Get("Content-Type")).HasPrefix("text/html")
		body := rec.Body.String()
		for _, section := range []string{"Inputs", "Weights", "Scores", "Visualizations", "Recommendations", "Risk Table", "Export", "History"} {
			gt.String(t, body).Contains("<h2>" + section + "</h2>")
		}
		gt.String(t, body).Contains(`name="factor.skill-level"`)
		gt.String(t, body).Contains(`name="weight.skill-level"`)
		gt.String(t, body).Contains("Low Risk")

		gt.Value(t, s.cookie).NotNil()
		gt.Bool(t, s.cookie.HttpOnly).True()
		gt.Value(t, s.cookie.SameSite).Equal(http.SameSiteLaxMode)
	})

	t.Run("query selects options", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, httptest.NewRequest(http.MethodGet, "/?"+highValues().Encode(), nil))

		gt.Value(t, rec.Code).Equal(http.StatusOK)
		body := rec.Body.String()
		gt.String(t, body).Contains("9.00 (HIGH)")
		gt.String(t, body).Contains("High Risk")
		gt.String(t, body).Contains("/charts/radar.png?factor.")
	})

	t.Run("invalid query renders defaults with 400", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, httptest.NewRequest(http.MethodGet, "/?weight.skill-level=6", nil))

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		gt.String(t, rec.Body.String()).Contains(`class="error"`)
	})

	t.Run("session cookie is reused", func(t *testing.T) {
		s := newTestServer(t)
		s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
		first := s.cookie.Value

		s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
		gt.Value(t, s.cookie.Value).Equal(first)
	})
}

func TestSaveForm(t *testing.T) {
	s := newTestServer(t)

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/assessments", strings.NewReader(highValues().Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := s.do(t, req)

		gt.Value(t, rec.Code).Equal(http.StatusSeeOther)
		gt.String(t, rec.Header().Get("Location")).HasPrefix("/?")
	}
	gt.Value(t, testutil.ToFloat64(s.metrics.SavedCounter())).Equal(2.0)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/assessments", nil))
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Assessments []struct {
			Seq      int64   `json:"seq"`
			Severity float64 `json:"severity"`
		} `json:"assessments"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Array(t, resp.Assessments).Length(2)
	gt.Value(t, resp.Assessments[0].Seq).Equal(int64(1))
	gt.Value(t, resp.Assessments[1].Seq).Equal(int64(2))
	gt.Value(t, resp.Assessments[1].Severity).Equal(9.0)

	page := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	body := page.Body.String()
	gt.String(t, body).NotContains("No saved assessments yet.")
	gt.String(t, body).Contains("<summary>16 factors</summary>")
	gt.String(t, body).Contains("<li>Skill level: Pentester (9), weight 1</li>")
	gt.String(t, body).Contains("<li>Privacy violation: Millions (9), weight 1</li>")
}

func TestReport(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/report.pdf?"+highValues().Encode(), nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/pdf")
	gt.String(t, rec.Header().Get("Content-Disposition")).Contains("attachment")
	gt.String(t, rec.Header().Get("Content-Disposition")).Contains(`filename="owasp_risk_report.pdf"`)
	gt.Bool(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-"))).True()
	gt.Value(t, testutil.ToFloat64(s.metrics.ReportsCounter())).Equal(1.0)

	again := s.do(t, httptest.NewRequest(http.MethodGet, "/report.pdf?"+highValues().Encode(), nil))
	gt.Bool(t, bytes.Equal(rec.Body.Bytes(), again.Body.Bytes())).True()
}

func TestCharts(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/charts/radar.png", "/charts/matrix.png"} {
		t.Run(path, func(t *testing.T) {
			rec := s.do(t, httptest.NewRequest(http.MethodGet, path+"?"+highValues().Encode(), nil))
			gt.Value(t, rec.Code).Equal(http.StatusOK)
			gt.Value(t, rec.Header().Get("Content-Type")).Equal("image/png")
			gt.Bool(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG"))).True()
		})
	}

	t.Run("invalid input is 400", func(t *testing.T) {
		rec := s.do(t, httptest.NewRequest(http.MethodGet, "/charts/radar.png?factor.skill-level=2", nil))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestAPI(t *testing.T) {
	t.Run("factors lists the catalog", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/factors", nil))
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Factors []struct {
				ID      string `json:"id"`
				Group   string `json:"group"`
				Options []struct {
					Label string `json:"label"`
					Value int    `json:"value"`
				} `json:"options"`
			} `json:"factors"`
			MinWeight int `json:"min_weight"`
			MaxWeight int `json:"max_weight"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.Array(t, resp.Factors).Length(16)
		gt.Value(t, resp.Factors[0].ID).Equal("skill-level")
		gt.Value(t, resp.Factors[0].Group).Equal("LIKELIHOOD")
		gt.Value(t, resp.Factors[15].Group).Equal("IMPACT")
		gt.Value(t, resp.MinWeight).Equal(1)
		gt.Value(t, resp.MaxWeight).Equal(5)
	})

	t.Run("evaluate scores the input", func(t *testing.T) {
		s := newTestServer(t)
		input := model.NewInput()
		for _, f := range model.Factors() {
			input.Selection[f.ID] = f.Highest().Value
		}
		req := httptest.NewRequest(http.MethodPost, "/api/evaluate", jsonBody(t, map[string]any{
			"selection": input.Selection,
			"weights":   input.Weights,
		}))
		rec := s.do(t, req)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Severity       float64 `json:"severity"`
			SeverityLevel  string  `json:"severity_level"`
			WeightedScores []int   `json:"weighted_scores"`
			Factors        []struct {
				Color string `json:"color"`
			} `json:"factors"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp.Severity).Equal(9.0)
		gt.Value(t, resp.SeverityLevel).Equal("HIGH")
		gt.Array(t, resp.WeightedScores).Length(16)
		gt.Value(t, resp.Factors[0].Color).Equal("red")
	})

	t.Run("evaluate rejects invalid weight", func(t *testing.T) {
		s := newTestServer(t)
		input := model.NewInput()
		input.Weights["skill-level"] = 0
		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/evaluate", jsonBody(t, map[string]any{
			"selection": input.Selection,
			"weights":   input.Weights,
		})))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		gt.String(t, rec.Header().Get("Content-Type")).HasPrefix("application/json")
	})

	t.Run("evaluate rejects missing selection", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(`{"selection":{}}`)))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("evaluate rejects malformed body", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(`{"selection":`)))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

		rec = s.do(t, httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(`{"unknown":1}`)))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("body must hold exactly one JSON value", func(t *testing.T) {
		s := newTestServer(t)
		data, err := json.Marshal(map[string]any{"selection": model.DefaultSelection()})
		gt.NoError(t, err).Required()

		testCases := []struct {
			name   string
			suffix string
			code   int
		}{
			{"trailing newline", "\n", http.StatusOK},
			{"second object", `{"selection":{}}`, http.StatusBadRequest},
			{"stray brace", "}", http.StatusBadRequest},
			{"garbage", " x", http.StatusBadRequest},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				body := strings.NewReader(string(data) + tc.suffix)
				rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/evaluate", body))
				gt.Value(t, rec.Code).Equal(tc.code)
			})
		}

		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/assessments", strings.NewReader(string(data)+"{}")))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		rec = s.do(t, httptest.NewRequest(http.MethodGet, "/api/assessments", nil))
		gt.String(t, rec.Body.String()).Equal(`{"assessments":[]}`)
	})

	t.Run("save appends to session history", func(t *testing.T) {
		s := newTestServer(t)
		body := map[string]any{"selection": model.DefaultSelection()}

		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/assessments", jsonBody(t, body)))
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		rec = s.do(t, httptest.NewRequest(http.MethodPost, "/api/assessments", jsonBody(t, body)))
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		var saved struct {
			Seq int64 `json:"seq"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved)).Required()
		gt.Value(t, saved.Seq).Equal(int64(2))
	})

	t.Run("histories are separated by cookie", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/assessments", jsonBody(t, map[string]any{"selection": model.DefaultSelection()})))
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		other := &testServer{handler: s.handler}
		rec = other.do(t, httptest.NewRequest(http.MethodGet, "/api/assessments", nil))
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Equal(`{"assessments":[]}`)
	})
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, s.cookie).Nil()

	s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains("owasprisk_http_requests_total")
	gt.String(t, rec.Body.String()).Contains(`owasprisk_evaluations_total{level="LOW"} 1`)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}
