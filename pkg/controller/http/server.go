package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/frontend"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
)

// AssessmentUseCase is the scoring, history and rendering surface used by
// the handlers
type AssessmentUseCase interface {
	DefaultInput() model.Input
	Evaluate(input model.Input) (*model.Evaluation, error)
	Save(ctx context.Context, session *model.Session, input model.Input) (*model.Assessment, error)
	History(ctx context.Context, session *model.Session) ([]*model.Assessment, error)
	Report(ctx context.Context, session *model.Session, input model.Input) ([]byte, error)
	RadarChart(input model.Input) ([]byte, error)
	MatrixChart(ctx context.Context, session *model.Session, input model.Input) ([]byte, error)
}

// SessionUseCase resolves the session of a request
type SessionUseCase interface {
	Open(ctx context.Context, id types.SessionID) (*model.Session, error)
}

type Server struct {
	router       *chi.Mux
	assessmentUC AssessmentUseCase
	sessionUC    SessionUseCase
	metrics      *Metrics
	page         *template.Template
	secureCookie bool
	sessionTTL   time.Duration
}

type Options func(*Server)

// WithMetrics sets the metrics collector. A private one is created otherwise.
func WithMetrics(m *Metrics) Options {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithSecureCookie marks the session cookie Secure, for deployments behind TLS
func WithSecureCookie(secure bool) Options {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

// WithSessionTTL sets the Max-Age of the session cookie
func WithSessionTTL(ttl time.Duration) Options {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

func New(assessmentUC AssessmentUseCase, sessionUC SessionUseCase, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router:       r,
		assessmentUC: assessmentUC,
		sessionUC:    sessionUC,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	page, err := template.New("index.html").Funcs(template.FuncMap{
		"lower": strings.ToLower,
	}).ParseFS(frontend.Templates, "templates/index.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse page template")
	}
	s.page = page

	staticFS, err := fs.Sub(frontend.StaticFiles, "static")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to bind static dir")
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/healthz", healthHandler)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware(s.sessionUC, s.secureCookie, s.sessionTTL))

		r.Get("/", s.indexHandler)
		r.Post("/assessments", s.saveFormHandler)
		r.Get("/report.pdf", s.reportHandler)
		r.Get("/charts/radar.png", s.radarHandler)
		r.Get("/charts/matrix.png", s.matrixHandler)

		r.Route("/api", func(r chi.Router) {
			r.Get("/factors", s.apiFactorsHandler)
			r.Post("/evaluate", s.apiEvaluateHandler)
			r.Post("/assessments", s.apiSaveHandler)
			r.Get("/assessments", s.apiHistoryHandler)
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
