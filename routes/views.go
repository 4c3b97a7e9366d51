package routes

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"surveyforge/httpx"
	"surveyforge/model"
)

//go:embed templates
var templateFiles embed.FS

var pages = template.Must(template.ParseFS(templateFiles, "templates/*.gohtml"))

type indexPage struct {
	Login   string
	Surveys []model.Survey
}

type editPage struct {
	Login  string
	Survey model.Survey
}

type respondPage struct {
	Title       string
	Description string
	Fields      []model.FormField
}

// renderPage buffers the whole page before writing, so a template failure
// becomes a clean 500 instead of a torn response.
func renderPage(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	err := pages.ExecuteTemplate(&buf, name, data)
	if err != nil {
		httpx.LogInternalError(w, "render."+name, err)
		return
	}

	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
