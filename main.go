package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surveyforge/app"
	"surveyforge/auth"
	"surveyforge/config"
	"surveyforge/kv"
	"surveyforge/log"
	"surveyforge/routes"
	"surveyforge/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := kv.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("main.kv.open:", err)
	}
	defer db.Close()

	sessions := auth.NewSessions(db, cfg.SessionTTL)

	app := app.App{
		Surveys: store.New(db),
		Auth:    auth.NewGitHub(cfg, sessions),
		Config:  cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Info("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("main.shutdown: %s", err)
		}
	}()

	log.Info("Listening on " + cfg.BaseURL)
	return srv.ListenAndServe()
}
