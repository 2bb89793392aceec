package uistore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/idilsaglam/taskhub/internal/kv"
	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/model"
)

// PersonKey is the storage key of the persisted person list.
const PersonKey = "person"

// PersonAPI is the backend of Persons, normally *client.Client.
type PersonAPI interface {
	ListPersons(ctx context.Context) ([]model.Person, error)
	CreatePerson(ctx context.Context, p model.Person) (model.Person, error)
	UpdatePerson(ctx context.Context, p model.Person) (model.Person, error)
	DeletePerson(ctx context.Context, id uuid.UUID) error
}

type PersonState struct {
	Persons []model.Person
	Loading bool
	Error   string
}

type persistedPersons struct {
	Persons []model.Person `json:"persons"`
}

type Persons struct {
	api     PersonAPI
	storage kv.Storage
	log     *slog.Logger

	mu      sync.Mutex
	persons []model.Person
	loading bool
	err     string
}

type PersonsOption func(*Persons)

// WithPersistence keeps the list in storage under PersonKey, so the last
// fetched list is visible before the next Fetch.
func WithPersistence(st kv.Storage) PersonsOption {
	return func(p *Persons) { p.storage = st }
}

func NewPersons(ctx context.Context, api PersonAPI, opts ...PersonsOption) *Persons {
	s := &Persons{api: api, persons: []model.Person{}, log: logging.Logger()}
	for _, o := range opts {
		o(s)
	}
	s.restore(ctx)
	return s
}

func (s *Persons) restore(ctx context.Context) {
	if s.storage == nil {
		return
	}
	raw, ok, err := s.storage.GetItem(ctx, PersonKey)
	if err != nil || !ok {
		return
	}
	var saved persistedPersons
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		s.log.Debug("ignoring stored persons", logging.KeyError, err)
		return
	}
	s.persons = model.ClonePersons(saved.Persons)
}

// persist must be called with mu held.
func (s *Persons) persist(ctx context.Context) {
	if s.storage == nil {
		return
	}
	b, err := json.Marshal(persistedPersons{Persons: s.persons})
	if err == nil {
		err = s.storage.SetItem(ctx, PersonKey, string(b))
	}
	if err != nil {
		s.log.Warn("persist persons", logging.KeyError, err)
	}
}

func (s *Persons) State() PersonState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PersonState{Persons: model.ClonePersons(s.persons), Loading: s.loading, Error: s.err}
}

func (s *Persons) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *Persons) end(op string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = messageOf(err)
		s.log.Debug("person action failed", logging.KeyOp, op, logging.KeyError, s.err)
	}
	s.loading = false
	return err
}

// Fetch replaces the list with the server's.
func (s *Persons) Fetch(ctx context.Context) error {
	s.begin()
	fresh, err := s.api.ListPersons(ctx)
	if err == nil {
		s.mu.Lock()
		s.persons = model.ClonePersons(fresh)
		s.persist(ctx)
		s.mu.Unlock()
	}
	return s.end("fetch", err)
}

// Delete removes a person on the server, then re-fetches the list.
func (s *Persons) Delete(ctx context.Context, id uuid.UUID) error {
	s.begin()
	if err := s.api.DeletePerson(ctx, id); err != nil {
		return s.end("delete", err)
	}
	s.end("delete", nil)
	return s.Fetch(ctx)
}

// Save creates p when isNew, otherwise updates it. The list is not
// re-fetched; callers that show the list call Fetch.
func (s *Persons) Save(ctx context.Context, p model.Person, isNew bool) (model.Person, error) {
	s.begin()
	var (
		saved model.Person
		err   error
	)
	if isNew {
		saved, err = s.api.CreatePerson(ctx, p)
	} else {
		saved, err = s.api.UpdatePerson(ctx, p)
	}
	return saved, s.end("save", err)
}

// Find looks id up in the local copy.
func (s *Persons) Find(id uuid.UUID) (model.Person, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.persons {
		if p.ID == id {
			return p, true
		}
	}
	return model.Person{}, false
}

// NewPerson returns an unsaved person with a fresh id.
func NewPerson() model.Person {
	return model.Person{ID: uuid.New(), Aktiv: true}
}
