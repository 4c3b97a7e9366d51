// Package auth signs users in through GitHub's authorization-code flow and
// keeps their sessions in the key-value store. Handlers downstream only see
// the resolved login, via Identity.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"surveyforge/config"
	"surveyforge/httpx"
	"surveyforge/log"
)

const (
	sessionCookie = "session_id"
	stateCookie   = "oauth_state"
)

type GitHub struct {
	oauth    *oauth2.Config
	sessions *Sessions
}

func NewGitHub(cfg config.Config, sessions *Sessions) *GitHub {
	return &GitHub{
		oauth: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			Endpoint:     githuboauth.Endpoint,
			RedirectURL:  cfg.RedirectURL(),
			Scopes:       []string{"read:user"},
		},
		sessions: sessions,
	}
}

// SignIn redirects the browser to the provider's consent page. The random
// state round-trips through a short-lived cookie and must match on callback.
func (g *GitHub) SignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.Must(uuid.NewV4()).String()
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, g.oauth.AuthCodeURL(state), http.StatusFound)
	}
}

// Callback exchanges the authorization code, resolves the user's login, and
// opens a session.
func (g *GitHub) Callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := r.Cookie(stateCookie)
		if err != nil || state.Value == "" || state.Value != r.URL.Query().Get("state") {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.callback.state")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

		token, err := g.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.callback.exchange")
			return
		}

		login, err := g.fetchLogin(r.Context(), token.AccessToken)
		if err != nil {
			httpx.LogInternalError(w, "auth.callback.profile", err)
			return
		}

		sess, err := g.sessions.Create(r.Context(), login, token.AccessToken)
		if err != nil {
			httpx.LogInternalError(w, "auth.callback.session", err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(time.Until(sess.Expires).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func (g *GitHub) SignOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err == nil {
			err = g.sessions.Destroy(r.Context(), cookie.Value)
			if err != nil {
				log.Errorf("auth.signout.session: %s", err)
			}
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// fetchLogin resolves the stable login handle behind an access token.
func (g *GitHub) fetchLogin(ctx context.Context, accessToken string) (string, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := gh.NewClient(oauth2.NewClient(ctx, source))

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return "", err
	}
	return user.GetLogin(), nil
}
