// Package store is the survey repository. Every survey lives under two
// keys that must never disagree: "surveys/<id>" for respondent lookups and
// "surveys_by_user_id/<owner>/<id>" for the owner's listing. Mutations go
// through version-checked atomic commits and retry on contention.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gofrs/uuid"

	"surveyforge/kv"
	"surveyforge/model"
)

var (
	ErrNotFound     = errors.New("survey not found")
	ErrUnauthorized = errors.New("survey owned by another user")
	ErrConflict     = errors.New("too much contention on survey")

	ErrNotImplemented = errors.New("response recording not implemented")
)

const (
	maxAttempts  = 10
	retryBackoff = 5 * time.Millisecond
)

type Store struct {
	kv *kv.DB

	// newID is swappable so tests can force id collisions
	newID func() string
}

func New(db *kv.DB) *Store {
	return &Store{
		kv:    db,
		newID: func() string { return uuid.Must(uuid.NewV4()).String() },
	}
}

func primaryKey(surveyID string) string {
	return kv.Key("surveys", surveyID)
}

func ownerKey(ownerID, surveyID string) string {
	return kv.Key("surveys_by_user_id", ownerID, surveyID)
}

// List returns every survey owned by ownerID, in key order.
func (s *Store) List(ctx context.Context, ownerID string) ([]model.Survey, error) {
	entries, err := s.kv.List(ctx, kv.Key("surveys_by_user_id", ownerID))
	if err != nil {
		return nil, fmt.Errorf("store.list: %w", err)
	}

	surveys := make([]model.Survey, 0, len(entries))
	for _, entry := range entries {
		var survey model.Survey
		err = json.Unmarshal(entry.Value, &survey)
		if err != nil {
			return nil, fmt.Errorf("store.list.decode %s: %w", entry.Key, err)
		}
		surveys = append(surveys, survey)
	}
	return surveys, nil
}

// Create persists a new survey under a fresh id and writes both index
// entries in one commit, conditioned on the primary key being empty.
// An id collision regenerates and retries.
func (s *Store) Create(ctx context.Context, ownerID, title, template string) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		surveyID := s.newID()
		value, err := json.Marshal(model.Survey{
			SurveyID: surveyID,
			OwnerID:  ownerID,
			Title:    title,
			Template: template,
		})
		if err != nil {
			return "", fmt.Errorf("store.create.encode: %w", err)
		}

		ok, err := s.kv.Atomic().
			Check(primaryKey(surveyID), 0).
			Set(primaryKey(surveyID), value).
			Set(ownerKey(ownerID, surveyID), value).
			Commit(ctx)
		if err != nil {
			return "", fmt.Errorf("store.create: %w", err)
		}
		if ok {
			return surveyID, nil
		}
	}
	return "", ErrConflict
}

func (s *Store) Read(ctx context.Context, surveyID string) (model.Survey, error) {
	entry, err := s.kv.Get(ctx, primaryKey(surveyID))
	if err != nil {
		return model.Survey{}, fmt.Errorf("store.read: %w", err)
	}
	if !entry.Exists() {
		return model.Survey{}, ErrNotFound
	}

	var survey model.Survey
	err = json.Unmarshal(entry.Value, &survey)
	if err != nil {
		return model.Survey{}, fmt.Errorf("store.read.decode: %w", err)
	}
	return survey, nil
}

// Update replaces title and template, keeping both index entries in step.
// It rejects a caller that is not the recorded owner and, unlike a blind
// upsert, refuses to conjure a survey that was never created.
func (s *Store) Update(ctx context.Context, ownerID, surveyID, title, template string) error {
	value, err := json.Marshal(model.Survey{
		SurveyID: surveyID,
		OwnerID:  ownerID,
		Title:    title,
		Template: template,
	})
	if err != nil {
		return fmt.Errorf("store.update.encode: %w", err)
	}

	for attempt := 0; ; attempt++ {
		entry, err := s.kv.Get(ctx, primaryKey(surveyID))
		if err != nil {
			return fmt.Errorf("store.update: %w", err)
		}
		if !entry.Exists() {
			return ErrNotFound
		}

		var current model.Survey
		err = json.Unmarshal(entry.Value, &current)
		if err != nil {
			return fmt.Errorf("store.update.decode: %w", err)
		}
		if current.OwnerID != ownerID {
			return ErrUnauthorized
		}

		ok, err := s.kv.Atomic().
			Check(primaryKey(surveyID), entry.Version).
			Set(primaryKey(surveyID), value).
			Set(ownerKey(ownerID, surveyID), value).
			Commit(ctx)
		if err != nil {
			return fmt.Errorf("store.update: %w", err)
		}
		if ok {
			return nil
		}

		// lost the version race: re-read and try again, within bounds
		if attempt+1 >= maxAttempts {
			return ErrConflict
		}
		err = backoff(ctx, attempt)
		if err != nil {
			return err
		}
	}
}

// Delete removes both index entries in one commit, with the same ownership
// gate and bounded retry as Update.
func (s *Store) Delete(ctx context.Context, ownerID, surveyID string) error {
	for attempt := 0; ; attempt++ {
		entry, err := s.kv.Get(ctx, primaryKey(surveyID))
		if err != nil {
			return fmt.Errorf("store.delete: %w", err)
		}
		if !entry.Exists() {
			return ErrNotFound
		}

		var current model.Survey
		err = json.Unmarshal(entry.Value, &current)
		if err != nil {
			return fmt.Errorf("store.delete.decode: %w", err)
		}
		if current.OwnerID != ownerID {
			return ErrUnauthorized
		}

		ok, err := s.kv.Atomic().
			Check(primaryKey(surveyID), entry.Version).
			Delete(primaryKey(surveyID)).
			Delete(ownerKey(current.OwnerID, surveyID)).
			Commit(ctx)
		if err != nil {
			return fmt.Errorf("store.delete: %w", err)
		}
		if ok {
			return nil
		}

		if attempt+1 >= maxAttempts {
			return ErrConflict
		}
		err = backoff(ctx, attempt)
		if err != nil {
			return err
		}
	}
}

// RecordResponse will persist a respondent's submission. The respondent
// form has no submit endpoint yet, so for now this only reserves the name.
func (s *Store) RecordResponse(ctx context.Context, surveyID string, answers map[string][]string) error {
	return ErrNotImplemented
}

// backoff sleeps a little longer each attempt, jittered so two contenders
// do not re-collide in lockstep.
func backoff(ctx context.Context, attempt int) error {
	d := time.Duration(attempt+1)*retryBackoff + time.Duration(rand.Int63n(int64(retryBackoff)))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
