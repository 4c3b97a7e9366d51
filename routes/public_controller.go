package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"surveyforge/app"
	"surveyforge/form"
	"surveyforge/httpx"
	"surveyforge/log"
	"surveyforge/store"
	"surveyforge/template"
)

// RespondToSurvey renders the compiled form for anyone with the link.
func RespondToSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := chi.URLParam(r, "surveyId")
		survey, err := app.Surveys.Read(r.Context(), surveyID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, "get_survey", surveyID)
			} else {
				httpx.LogInternalError(w, "db.read_survey", err)
			}
			return
		}

		def, err := template.Parse(survey.Template)
		if err != nil {
			// the author's mistake is not the respondent's problem:
			// show the title and an empty form instead of an error page
			log.Errorf("template.parse: %s: %s", surveyID, err)
			renderPage(w, "respond", respondPage{Title: survey.Title})
			return
		}

		renderPage(w, "respond", respondPage{
			Title:       def.Title,
			Description: def.Description,
			Fields:      form.Compile(def),
		})
	}
}
