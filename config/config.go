package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	BaseURL            string
	DBPath             string
	GitHubClientID     string
	GitHubClientSecret string
	SessionTTL         time.Duration
	Debug              bool
}

func ParseFlags() (cfg Config, err error) {
	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 8000, "listen port number (default 8000)")
	flag.StringVar(&cfg.DBPath, "db-path", "surveyforge.sqlite", "path to SQLite3 DB file (default surveyforge.sqlite)")
	flag.StringVar(&cfg.BaseURL, "base-url", "", "externally visible base URL (default http://localhost:<port>)")
	var ttl uint
	flag.UintVar(&ttl, "session-ttl", 7*24*3600, "session TTL in seconds (default one week)")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.SessionTTL = time.Duration(ttl) * time.Second
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + strconv.Itoa(int(port))
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	// the OAuth app credentials come from the environment, .env included
	_ = godotenv.Load()
	cfg.GitHubClientID = os.Getenv("GITHUB_CLIENT_ID")
	cfg.GitHubClientSecret = os.Getenv("GITHUB_CLIENT_SECRET")

	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
		err = errors.New("missing GITHUB_CLIENT_ID or GITHUB_CLIENT_SECRET in environment")
	}

	return
}

// RedirectURL is where the identity provider sends the browser back to.
func (cfg Config) RedirectURL() string {
	return cfg.BaseURL + "/callback"
}
