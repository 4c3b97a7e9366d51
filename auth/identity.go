package auth

import (
	"context"
	"net/http"

	"surveyforge/httpx"
)

type identityKey struct{}

// Identity returns the signed-in user's login, if any.
func Identity(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(identityKey{}).(string)
	return login, ok && login != ""
}

// WithIdentity stamps a login onto a context the way WithSession does.
func WithIdentity(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, identityKey{}, login)
}

// WithSession resolves the session cookie into an identity on the request
// context. Requests without a valid session pass through anonymous: public
// pages stay public and handlers that need a user check Identity themselves.
func (g *GitHub) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, ok, err := g.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			httpx.LogInternalError(w, "auth.session", err)
			return
		}
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), sess.Login)))
	})
}
