package app

import (
	"surveyforge/auth"
	"surveyforge/config"
	"surveyforge/store"
)

// App bundles the dependencies every handler needs. It is assembled once in
// main and handed down; nothing in the handler layer reaches for globals.
type App struct {
	Surveys *store.Store
	Auth    *auth.GitHub
	config.Config
}
