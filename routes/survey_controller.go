package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"surveyforge/app"
	"surveyforge/auth"
	"surveyforge/httpx"
	"surveyforge/log"
	"surveyforge/store"
	"surveyforge/template"
)

type surveyForm struct {
	Title    string `form:"title"`
	Template string `form:"template"`
	UserID   string `form:"userId"`
}

// Home shows the signed-in user their surveys and the create form, or a
// login link to anyone else.
func Home(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login, ok := auth.Identity(r.Context())
		if !ok {
			renderPage(w, "login", nil)
			return
		}

		surveys, err := app.Surveys.List(r.Context(), login)
		if err != nil {
			httpx.LogInternalError(w, "db.list_surveys", err)
			return
		}

		renderPage(w, "index", indexPage{Login: login, Surveys: surveys})
	}
}

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login, ok := auth.Identity(r.Context())
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "request.session")
			return
		}

		var body surveyForm
		err := render.DecodeForm(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if body.Title == "" || body.Template == "" {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.missing_fields")
			return
		}
		// let the author fix template mistakes now, not when a respondent
		// opens a broken form
		_, err = template.Parse(body.Template)
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "template.parse", "%s", err)
			return
		}

		_, err = app.Surveys.Create(r.Context(), login, body.Title, body.Template)
		if err != nil {
			httpx.LogInternalError(w, "db.create_survey", err)
			return
		}

		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// EditSurvey renders the pre-filled update form.
func EditSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login, ok := auth.Identity(r.Context())
		if !ok {
			renderPage(w, "login", nil)
			return
		}

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

		renderPage(w, "edit", editPage{Login: login, Survey: survey})
	}
}

// UpdateSurvey takes the owner from the request body rather than the
// session; the store rejects a wrong owner either way.
func UpdateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := chi.URLParam(r, "surveyId")

		var body surveyForm
		err := render.DecodeForm(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if body.Title == "" || body.Template == "" || body.UserID == "" {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.missing_fields")
			return
		}
		_, err = template.Parse(body.Template)
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "template.parse", "%s", err)
			return
		}

		err = app.Surveys.Update(r.Context(), body.UserID, surveyID, body.Title, body.Template)
		if err != nil {
			writeStoreError(w, "db.update_survey", surveyID, err)
			return
		}

		http.Redirect(w, r, "/"+surveyID, http.StatusFound)
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login, ok := auth.Identity(r.Context())
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "request.session")
			return
		}

		surveyID := chi.URLParam(r, "surveyId")
		err := app.Surveys.Delete(r.Context(), login, surveyID)
		if err != nil {
			writeStoreError(w, "db.delete_survey", surveyID, err)
			return
		}

		render.JSON(w, r, map[string]any{
			"deleted": surveyID,
		})
	}
}

func writeStoreError(w http.ResponseWriter, code, surveyID string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.LogNotFound(w, code, surveyID)
	case errors.Is(err, store.ErrUnauthorized):
		httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, code+".owner")
	case errors.Is(err, store.ErrConflict):
		httpx.LogStatus(w, http.StatusConflict, log.WarnLevel, code+".conflict")
	default:
		httpx.LogInternalError(w, code, err)
	}
}
