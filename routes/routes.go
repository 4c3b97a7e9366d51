package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"surveyforge/app"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)
	root.Use(app.Auth.WithSession)

	root.Get("/login", app.Auth.SignIn())
	root.Get("/callback", app.Auth.Callback())
	root.Get("/logout", app.Auth.SignOut())

	root.Get("/", Home(app))
	root.Post("/survey", CreateSurvey(app))
	root.Get("/survey/{surveyId}", EditSurvey(app))
	root.Put("/survey/{surveyId}", UpdateSurvey(app))
	root.Delete("/survey/{surveyId}", DeleteSurvey(app))

	root.Handle("/index.js", servePublicFiles())
	root.Handle("/index.css", servePublicFiles())
	root.Handle("/favicon.ico", servePublicFiles())

	// keep last: it matches any single path segment
	root.Get("/{surveyId}", RespondToSurvey(app))

	return root
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}
