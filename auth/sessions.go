package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"surveyforge/kv"
)

// Session pairs an opaque id with the provider access token and the login
// it resolved to. The token never leaves the server; the browser only ever
// sees the id.
type Session struct {
	ID          string    `json:"id"`
	Login       string    `json:"login"`
	AccessToken string    `json:"accessToken"`
	Expires     time.Time `json:"expires"`
}

type Sessions struct {
	kv  *kv.DB
	ttl time.Duration
}

func NewSessions(db *kv.DB, ttl time.Duration) *Sessions {
	return &Sessions{kv: db, ttl: ttl}
}

func sessionKey(id string) string {
	return kv.Key("sessions", id)
}

func (s *Sessions) Create(ctx context.Context, login, accessToken string) (Session, error) {
	sess := Session{
		ID:          uuid.Must(uuid.NewV4()).String(),
		Login:       login,
		AccessToken: accessToken,
		Expires:     time.Now().Add(s.ttl),
	}
	value, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("session.encode: %w", err)
	}

	ok, err := s.kv.Atomic().
		Check(sessionKey(sess.ID), 0).
		Set(sessionKey(sess.ID), value).
		Commit(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("session.create: %w", err)
	}
	if !ok {
		return Session{}, errors.New("session.create: id collision")
	}
	return sess, nil
}

// Get resolves a session id. Expired or unknown ids report ok=false, not an
// error; expired records are reaped on the way out.
func (s *Sessions) Get(ctx context.Context, id string) (Session, bool, error) {
	entry, err := s.kv.Get(ctx, sessionKey(id))
	if err != nil {
		return Session{}, false, fmt.Errorf("session.get: %w", err)
	}
	if !entry.Exists() {
		return Session{}, false, nil
	}

	var sess Session
	err = json.Unmarshal(entry.Value, &sess)
	if err != nil {
		return Session{}, false, fmt.Errorf("session.decode: %w", err)
	}

	if time.Now().After(sess.Expires) {
		err = s.Destroy(ctx, id)
		return Session{}, false, err
	}
	return sess, true, nil
}

func (s *Sessions) Destroy(ctx context.Context, id string) error {
	_, err := s.kv.Atomic().
		Delete(sessionKey(id)).
		Commit(ctx)
	if err != nil {
		return fmt.Errorf("session.destroy: %w", err)
	}
	return nil
}
