package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/idilsaglam/taskhub/internal/errors"
	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/model"
	"github.com/idilsaglam/taskhub/internal/store"
)

const (
	msgPersonNotFound = "person not found"
	msgPersonExists   = "a person with this id already exists"
	msgIDMismatch     = "id in URL and body do not match"
	msgVornameEmpty   = "vorname must not be empty"
	msgNachnameEmpty  = "nachname must not be empty"
)

// DefaultPersons is the seed of a fresh person store. Ids are new on every call.
func DefaultPersons() []model.Person {
	return []model.Person{
		{ID: uuid.New(), Vorname: "Max", Nachname: "Mustermann", Aktiv: true},
		{ID: uuid.New(), Vorname: "Erika", Nachname: "Musterfrau", Aktiv: false},
	}
}

// Persons is the person service.
type Persons struct {
	store store.Store[uuid.UUID, model.Person]
	log   *slog.Logger
}

// NewPersons wraps st and seeds it with DefaultPersons when it is empty.
func NewPersons(ctx context.Context, st store.Store[uuid.UUID, model.Person], log *slog.Logger) (*Persons, error) {
	if log == nil {
		log = logging.Logger()
	}
	all, err := st.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load persons")
	}
	if len(all) == 0 {
		for _, p := range DefaultPersons() {
			if _, err := st.Insert(ctx, p); err != nil {
				return nil, errors.Wrap(err, "seed persons")
			}
		}
	}
	return &Persons{store: st, log: log}, nil
}

// List returns all persons ordered by last name, then first name.
func (s *Persons) List(ctx context.Context) ([]model.Person, error) {
	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list persons")
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Nachname != all[j].Nachname {
			return all[i].Nachname < all[j].Nachname
		}
		if all[i].Vorname != all[j].Vorname {
			return all[i].Vorname < all[j].Vorname
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	return all, nil
}

func (s *Persons) Get(ctx context.Context, id uuid.UUID) (model.Person, error) {
	p, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Person{}, errors.Wrap(err, "get person")
	}
	if !ok {
		return model.Person{}, errors.NotFound(msgPersonNotFound)
	}
	return p, nil
}

// Create inserts p. A nil id is replaced by a new UUID.
func (s *Persons) Create(ctx context.Context, p model.Person) (model.Person, error) {
	p, err := normalize(p)
	if err != nil {
		return model.Person{}, err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	ok, err := s.store.Insert(ctx, p)
	if err != nil {
		return model.Person{}, errors.Wrap(err, "create person")
	}
	if !ok {
		return model.Person{}, errors.Conflict(msgPersonExists)
	}
	s.log.DebugContext(ctx, "person created", logging.KeyPerson, p.ID)
	return p, nil
}

// Update replaces person id with p. p.ID must be id or nil.
func (s *Persons) Update(ctx context.Context, id uuid.UUID, p model.Person) (model.Person, error) {
	if p.ID != uuid.Nil && p.ID != id {
		return model.Person{}, errors.Invalid(msgIDMismatch)
	}
	p.ID = id
	p, err := normalize(p)
	if err != nil {
		return model.Person{}, err
	}
	ok, err := s.store.Update(ctx, p)
	if err != nil {
		return model.Person{}, errors.Wrap(err, "update person")
	}
	if !ok {
		return model.Person{}, errors.NotFound(msgPersonNotFound)
	}
	s.log.DebugContext(ctx, "person updated", logging.KeyPerson, p.ID)
	return p, nil
}

func (s *Persons) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return errors.Wrap(err, "delete person")
	}
	if !ok {
		return errors.NotFound(msgPersonNotFound)
	}
	s.log.DebugContext(ctx, "person deleted", logging.KeyPerson, id)
	return nil
}

func normalize(p model.Person) (model.Person, error) {
	p.Vorname = strings.TrimSpace(p.Vorname)
	p.Nachname = strings.TrimSpace(p.Nachname)
	if p.Vorname == "" {
		return p, errors.Invalid(msgVornameEmpty)
	}
	if p.Nachname == "" {
		return p, errors.Invalid(msgNachnameEmpty)
	}
	return p, nil
}
