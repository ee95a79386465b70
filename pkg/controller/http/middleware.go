package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"github.com/secmon-lab/owasprisk/pkg/utils/errutil"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
)

// SessionCookieName is the cookie carrying the session ID
const SessionCookieName = "owasprisk_session"

// sessionMiddleware resolves the session of the request from its cookie,
// creating one when needed, and stores it in the request context
func sessionMiddleware(sessionUC SessionUseCase, secure bool, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id types.SessionID
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				id = types.SessionID(cookie.Value)
			}

			session, err := sessionUC.Open(r.Context(), id)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
				return
			}

			// refreshed on every request so that Max-Age slides with the session
			cookie := &http.Cookie{
				Name:     SessionCookieName,
				Value:    session.ID.String(),
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			}
			if ttl > 0 {
				cookie.MaxAge = int(ttl.Seconds())
			}
			http.SetCookie(w, cookie)

			ctx := model.ContextWithSession(r.Context(), session)
			ctx = logging.With(ctx, logging.From(ctx).With("session_id", session.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
